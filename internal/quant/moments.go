package quant

import "math"

// The coarse RGB lattice is 33 bins per channel (index 0 reserved as the
// summed-area zero border, 1..32 holding the top 5 bits of each channel
// plus one). Flattening the 3D tables into one buffer, indexed by
// r*33*33 + g*33 + b, keeps the moment build cache-friendly; nested
// slices would not.
const (
	side   = 33
	stride = side * side
	cells  = side * side * side
)

func idx(r, g, b int) int {
	return r*stride + g*side + b
}

// momentTables holds the five 33x33x33 moment arrays shared by the
// histogram accumulation and the cube-cut search. W, Mr, Mg and Mb stay
// integer through the whole pipeline; M2 is floating point because it
// accumulates squared channel magnitudes.
type momentTables struct {
	w          []int64
	mr, mg, mb []int64
	m2         []float64
}

func newMomentTables() *momentTables {
	return &momentTables{
		w:  make([]int64, cells),
		mr: make([]int64, cells),
		mg: make([]int64, cells),
		mb: make([]int64, cells),
		m2: make([]float64, cells),
	}
}

// addColor bins one post-flatten pixel into its histogram cell. ir, ig,
// ib are already in 1..32 (see Quantizer.AddColor).
func (t *momentTables) addColor(ir, ig, ib int, r, g, b uint8) error {
	i := idx(ir, ig, ib)
	if t.w[i] == math.MaxInt64 {
		return ErrArithmeticSaturation
	}
	t.w[i]++
	t.mr[i] += int64(r)
	t.mg[i] += int64(g)
	t.mb[i] += int64(b)
	rf, gf, bf := float64(r), float64(g), float64(b)
	t.m2[i] += rf*rf + gf*gf + bf*bf
	return nil
}

// buildMoments converts every table in place from a sparse per-cell
// histogram into a full 3D summed-area table: T[r,g,b] becomes the sum
// of H over every cell with indices <= (r,g,b). The row/line/area
// accumulator decomposition computes this in O(33^3) instead of the
// naive O(33^6) repeated-range-sum approach.
func (t *momentTables) buildMoments() {
	var areaW, areaR, areaG, areaB [side]int64
	var area2 [side]float64

	for r := 1; r < side; r++ {
		for i := 0; i < side; i++ {
			areaW[i], areaR[i], areaG[i], areaB[i], area2[i] = 0, 0, 0, 0, 0
		}
		for g := 1; g < side; g++ {
			var lineW, lineR, lineG, lineB int64
			var line2 float64
			for b := 1; b < side; b++ {
				cur := idx(r, g, b)

				lineW += t.w[cur]
				lineR += t.mr[cur]
				lineG += t.mg[cur]
				lineB += t.mb[cur]
				line2 += t.m2[cur]

				areaW[b] += lineW
				areaR[b] += lineR
				areaG[b] += lineG
				areaB[b] += lineB
				area2[b] += line2

				prev := idx(r-1, g, b)
				t.w[cur] = t.w[prev] + areaW[b]
				t.mr[cur] = t.mr[prev] + areaR[b]
				t.mg[cur] = t.mg[prev] + areaG[b]
				t.mb[cur] = t.mb[prev] + areaB[b]
				t.m2[cur] = t.m2[prev] + area2[b]
			}
		}
	}
}

// volInt evaluates the standard 3D inclusion-exclusion sum for cube c
// over an integer moment table (W, Mr, Mg or Mb).
func volInt(c cube, t []int64) int64 {
	return t[idx(c.rMax, c.gMax, c.bMax)] -
		t[idx(c.rMax, c.gMax, c.bMin)] -
		t[idx(c.rMax, c.gMin, c.bMax)] +
		t[idx(c.rMax, c.gMin, c.bMin)] -
		t[idx(c.rMin, c.gMax, c.bMax)] +
		t[idx(c.rMin, c.gMax, c.bMin)] +
		t[idx(c.rMin, c.gMin, c.bMax)] -
		t[idx(c.rMin, c.gMin, c.bMin)]
}

// volFloat is volInt's counterpart for M2.
func volFloat(c cube, t []float64) float64 {
	return t[idx(c.rMax, c.gMax, c.bMax)] -
		t[idx(c.rMax, c.gMax, c.bMin)] -
		t[idx(c.rMax, c.gMin, c.bMax)] +
		t[idx(c.rMax, c.gMin, c.bMin)] -
		t[idx(c.rMin, c.gMax, c.bMax)] +
		t[idx(c.rMin, c.gMax, c.bMin)] +
		t[idx(c.rMin, c.gMin, c.bMax)] -
		t[idx(c.rMin, c.gMin, c.bMin)]
}

// bottomInt is the degenerate face of c at axis's minimum bound: the
// negative of topInt evaluated at pos = the axis minimum.
func bottomInt(c cube, ax axis, t []int64) int64 {
	switch ax {
	case axisRed:
		return -t[idx(c.rMin, c.gMax, c.bMax)] +
			t[idx(c.rMin, c.gMax, c.bMin)] +
			t[idx(c.rMin, c.gMin, c.bMax)] -
			t[idx(c.rMin, c.gMin, c.bMin)]
	case axisGreen:
		return -t[idx(c.rMax, c.gMin, c.bMax)] +
			t[idx(c.rMax, c.gMin, c.bMin)] +
			t[idx(c.rMin, c.gMin, c.bMax)] -
			t[idx(c.rMin, c.gMin, c.bMin)]
	default: // axisBlue
		return -t[idx(c.rMax, c.gMax, c.bMin)] +
			t[idx(c.rMax, c.gMin, c.bMin)] +
			t[idx(c.rMin, c.gMax, c.bMin)] -
			t[idx(c.rMin, c.gMin, c.bMin)]
	}
}

// topInt is the moment of the slab obtained by fixing ax at pos, the
// other two axes spanning their full extent in c — a 2D
// inclusion-exclusion over the face at pos.
func topInt(c cube, ax axis, pos int, t []int64) int64 {
	switch ax {
	case axisRed:
		return t[idx(pos, c.gMax, c.bMax)] -
			t[idx(pos, c.gMax, c.bMin)] -
			t[idx(pos, c.gMin, c.bMax)] +
			t[idx(pos, c.gMin, c.bMin)]
	case axisGreen:
		return t[idx(c.rMax, pos, c.bMax)] -
			t[idx(c.rMax, pos, c.bMin)] -
			t[idx(c.rMin, pos, c.bMax)] +
			t[idx(c.rMin, pos, c.bMin)]
	default: // axisBlue
		return t[idx(c.rMax, c.gMax, pos)] -
			t[idx(c.rMax, c.gMin, pos)] -
			t[idx(c.rMin, c.gMax, pos)] +
			t[idx(c.rMin, c.gMin, pos)]
	}
}

// variance is the residual sum of squares of approximating every pixel
// in c by its mean color: Vol(C,M2) minus the squared per-channel
// moments normalized by weight. The squaring happens in float64 even
// though Mr/Mg/Mb are int64 — channel sums for large images overflow a
// 64-bit square long before they overflow the sum itself.
func variance(c cube, m *momentTables) float64 {
	w := volInt(c, m.w)
	if w == 0 {
		return 0
	}
	mr := float64(volInt(c, m.mr))
	mg := float64(volInt(c, m.mg))
	mb := float64(volInt(c, m.mb))
	m2 := volFloat(c, m.m2)

	return m2 - (mr*mr+mg*mg+mb*mb)/float64(w)
}
