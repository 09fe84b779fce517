package quant

// mark stamps every bin id strictly inside cube c with label k in tag,
// so that tag[Q[i]] later gives pixel i's pre-refinement cluster.
func mark(c cube, k int, tag []int) {
	for r := c.rMin + 1; r <= c.rMax; r++ {
		for g := c.gMin + 1; g <= c.gMax; g++ {
			for b := c.bMin + 1; b <= c.bMax; b++ {
				tag[idx(r, g, b)] = k
			}
		}
	}
}

// centroidOf derives cube c's mean color from its moments, truncated
// to integer channels. An empty cube (no histogram weight — possible
// when the initial cube spans more than the image's actual color
// range) centers at black.
func centroidOf(c cube, m *momentTables) RGB {
	w := volInt(c, m.w)
	if w <= 0 {
		return RGB{}
	}
	r := volInt(c, m.mr) / w
	g := volInt(c, m.mg) / w
	b := volInt(c, m.mb) / w
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
}

const refinementSentinelDistance = 1e8

// refine runs the nearest-neighbor reassignment pass: each pixel is
// matched against whichever of the K centroids is closest in RGB (not
// necessarily the cube it originally histogrammed into), and the final
// palette is the mean color of each resulting cluster.
//
// q holds each pixel's histogram bin id (used only to seed the
// incumbent match before the nearest-centroid scan); colors holds each
// pixel's full-precision post-flatten RGB.
func refine(tag []int, centroids []RGB, q []uint32, colors []RGB) ([]RGB, []int) {
	k := len(centroids)
	n := len(colors)

	var reds, greens, blues, sums []int64
	reds = make([]int64, k)
	greens = make([]int64, k)
	blues = make([]int64, k)
	sums = make([]int64, k)

	index := make([]int, n)

	for i := 0; i < n; i++ {
		col := colors[i]
		bestK := tag[q[i]]
		bestDist := refinementSentinelDistance

		for kk := 0; kk < k; kk++ {
			p := centroids[kk]
			dr := float64(col.R) - float64(p.R)
			dg := float64(col.G) - float64(p.G)
			db := float64(col.B) - float64(p.B)
			d := dr*dr + dg*dg + db*db
			if d < bestDist {
				bestDist = d
				bestK = kk
			}
		}

		reds[bestK] += int64(col.R)
		greens[bestK] += int64(col.G)
		blues[bestK] += int64(col.B)
		sums[bestK]++
		index[i] = bestK
	}

	palette := make([]RGB, k)
	for kk := 0; kk < k; kk++ {
		if sums[kk] > 0 {
			palette[kk] = RGB{
				R: uint8(reds[kk] / sums[kk]),
				G: uint8(greens[kk] / sums[kk]),
				B: uint8(blues[kk] / sums[kk]),
			}
		} else {
			palette[kk] = centroids[kk]
		}
	}

	return palette, index
}
