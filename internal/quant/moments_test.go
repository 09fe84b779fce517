package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wholeCube() cube {
	c := cube{rMax: side - 1, gMax: side - 1, bMax: side - 1}
	c.recomputeVolume()
	return c
}

func TestIdxIsInjectiveWithinRange(t *testing.T) {
	seen := make(map[int]bool)
	for r := 0; r < side; r++ {
		for g := 0; g < side; g++ {
			for b := 0; b < side; b++ {
				i := idx(r, g, b)
				require.False(t, seen[i], "collision at r=%d g=%d b=%d", r, g, b)
				seen[i] = true
				require.True(t, i >= 0 && i < cells)
			}
		}
	}
	assert.Equal(t, cells, len(seen))
}

func TestBuildMomentsTotalsAllPixels(t *testing.T) {
	m := newMomentTables()

	pixels := []struct{ r, g, b uint8 }{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{255, 255, 255},
		{128, 64, 32},
	}

	for _, px := range pixels {
		ir := int(px.r>>3) + 1
		ig := int(px.g>>3) + 1
		ib := int(px.b>>3) + 1
		require.NoError(t, m.addColor(ir, ig, ib, px.r, px.g, px.b))
	}

	m.buildMoments()

	// Invariant 1: W[32,32,32] == N after build_moments.
	assert.Equal(t, int64(len(pixels)), m.w[idx(side-1, side-1, side-1)])

	// Invariant 3 (whole-space case): Vol(whole, W) == N.
	assert.Equal(t, int64(len(pixels)), volInt(wholeCube(), m.w))
}

func TestVolOfEmptyCubeIsZero(t *testing.T) {
	m := newMomentTables()
	require.NoError(t, m.addColor(5, 5, 5, 10, 10, 10))
	m.buildMoments()

	empty := cube{rMin: 20, rMax: 21, gMin: 20, gMax: 21, bMin: 20, bMax: 21}
	assert.Equal(t, int64(0), volInt(empty, m.w))
}

func TestVolNeverNegative(t *testing.T) {
	m := newMomentTables()
	for i := 0; i < 50; i++ {
		v := uint8(i * 5)
		require.NoError(t, m.addColor(int(v>>3)+1, int(v>>3)+1, int(v>>3)+1, v, v, v))
	}
	m.buildMoments()

	whole := wholeCube()
	assert.GreaterOrEqual(t, volInt(whole, m.w), int64(0))

	sub := cube{rMin: 1, rMax: 10, gMin: 1, gMax: 10, bMin: 1, bMax: 10}
	assert.GreaterOrEqual(t, volInt(sub, m.w), int64(0))
}
