package quant

// maxColorCapacity sizes the cubes/variance arena. It is twice the
// largest legal K (256): failed cut attempts retry a slot without
// growing the active cube count, and the arena needs headroom for
// those retries, not for the final palette itself.
const maxColorCapacity = 512

// axis names a split dimension. Tie-breaks between axes favor Red,
// then Green, then Blue — see partitioner.cut.
type axis int

const (
	axisRed axis = iota
	axisGreen
	axisBlue
)

// cube is an axis-aligned box in the 33^3 index lattice. Bounds are
// exclusive-min, inclusive-max: the bin range covered on each axis is
// (min, max]. volume is cached index-space volume, not pixel weight —
// it is only used to decide whether a cube is even splittable.
type cube struct {
	rMin, rMax int
	gMin, gMax int
	bMin, bMax int
	volume     int
}

func (c *cube) recomputeVolume() {
	c.volume = (c.rMax - c.rMin) * (c.gMax - c.gMin) * (c.bMax - c.bMin)
}

// partitioner runs the greedy recursive split that produces the final
// K' cubes. Cubes beyond the active count are unused scratch space in
// the fixed-size arena below.
type partitioner struct {
	moments  *momentTables
	cubes    [maxColorCapacity]cube
	variance [maxColorCapacity]float64
	count    int
}

func newPartitioner(m *momentTables) *partitioner {
	p := &partitioner{moments: m}
	p.cubes[0] = cube{rMax: side - 1, gMax: side - 1, bMax: side - 1}
	p.cubes[0].recomputeVolume()
	return p
}

// maximize scans every candidate split position on axis ax within c
// and returns the best inter-half variance score along with the
// position achieving it, or cutPos=-1 if no candidate left both
// halves non-empty.
func (p *partitioner) maximize(c cube, ax axis, first, last int) (float64, int) {
	m := p.moments

	baseR := bottomInt(c, ax, m.mr)
	baseG := bottomInt(c, ax, m.mg)
	baseB := bottomInt(c, ax, m.mb)
	baseW := bottomInt(c, ax, m.w)

	wholeR := volInt(c, m.mr)
	wholeG := volInt(c, m.mg)
	wholeB := volInt(c, m.mb)
	wholeW := volInt(c, m.w)

	maxScore := 0.0
	cutPos := -1

	for pos := first; pos < last; pos++ {
		loR := baseR + topInt(c, ax, pos, m.mr)
		loG := baseG + topInt(c, ax, pos, m.mg)
		loB := baseB + topInt(c, ax, pos, m.mb)
		loW := baseW + topInt(c, ax, pos, m.w)

		if loW == 0 {
			continue
		}

		lr, lg, lb, lw := float64(loR), float64(loG), float64(loB), float64(loW)
		score := (lr*lr + lg*lg + lb*lb) / lw

		hiR := wholeR - loR
		hiG := wholeG - loG
		hiB := wholeB - loB
		hiW := wholeW - loW

		if hiW == 0 {
			continue
		}

		hr, hg, hb, hw := float64(hiR), float64(hiG), float64(hiB), float64(hiW)
		score += (hr*hr + hg*hg + hb*hb) / hw

		if score > maxScore {
			maxScore = score
			cutPos = pos
		}
	}

	return maxScore, cutPos
}

// cut splits cube a (p.cubes[aIdx]) into a shrunken a and a new b
// (p.cubes[bIdx]), choosing whichever axis maximizes the inter-half
// variance score. Ties are broken Red > Green > Blue. Returns false,
// leaving both cubes untouched, if no axis admits a valid split.
func (p *partitioner) cut(aIdx, bIdx int) bool {
	a := &p.cubes[aIdx]

	maxR, cutR := p.maximize(*a, axisRed, a.rMin+1, a.rMax)
	maxG, cutG := p.maximize(*a, axisGreen, a.gMin+1, a.gMax)
	maxB, cutB := p.maximize(*a, axisBlue, a.bMin+1, a.bMax)

	var chosen axis
	switch {
	case maxR >= maxG && maxR >= maxB:
		chosen = axisRed
	case maxG >= maxR && maxG >= maxB:
		chosen = axisGreen
	default:
		chosen = axisBlue
	}

	var cutPos int
	switch chosen {
	case axisRed:
		cutPos = cutR
	case axisGreen:
		cutPos = cutG
	default:
		cutPos = cutB
	}
	if cutPos < 0 {
		return false
	}

	b := &p.cubes[bIdx]
	*b = *a

	switch chosen {
	case axisRed:
		b.rMin, a.rMax = cutPos, cutPos
	case axisGreen:
		b.gMin, a.gMax = cutPos, cutPos
	default:
		b.bMin, a.bMax = cutPos, cutPos
	}

	a.recomputeVolume()
	b.recomputeVolume()
	return true
}

// partition runs the greedy split loop until k cubes have been
// produced or no remaining cube has positive variance, returning the
// number of cubes actually produced (K' <= k).
func (p *partitioner) partition(k int) int {
	next := 0
	i := 1

	for i < k {
		if p.cut(next, i) {
			if p.cubes[next].volume > 1 {
				p.variance[next] = variance(p.cubes[next], p.moments)
			} else {
				p.variance[next] = 0
			}
			if p.cubes[i].volume > 1 {
				p.variance[i] = variance(p.cubes[i], p.moments)
			} else {
				p.variance[i] = 0
			}
		} else {
			p.variance[next] = 0
			i--
		}

		next = 0
		maxVar := p.variance[0]
		for j := 1; j <= i; j++ {
			if p.variance[j] > maxVar {
				maxVar = p.variance[j]
				next = j
			}
		}
		if maxVar <= 0 {
			return i + 1
		}
		i++
	}

	return i
}
