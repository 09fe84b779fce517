package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillSingleColor(t *testing.T, z *Quantizer, n int, c Color) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, z.AddColor(c))
	}
}

func TestLifecycleRejectsOutOfOrderCalls(t *testing.T) {
	z := NewDefault()

	_, err := z.BuildPalette(4)
	assert.ErrorIs(t, err, ErrInvalidState)

	err2 := z.AddColor(NewColor(255, 0, 0, 0))
	assert.ErrorIs(t, err2, ErrInvalidState)

	_, err3 := z.NextPaletteIndex()
	assert.ErrorIs(t, err3, ErrInvalidState)

	require.NoError(t, z.Prepare(10, 10))
	assert.ErrorIs(t, z.Prepare(10, 10), ErrInvalidState)
}

func TestAddColorRejectsOverCapacity(t *testing.T) {
	z := NewDefault()
	require.NoError(t, z.Prepare(1, 1))
	require.NoError(t, z.AddColor(NewColor(255, 0, 0, 0)))

	err := z.AddColor(NewColor(255, 0, 0, 0))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestBuildPaletteRequiresAllPixelsAdded(t *testing.T) {
	z := NewDefault()
	require.NoError(t, z.Prepare(2, 1))
	require.NoError(t, z.AddColor(NewColor(255, 0, 0, 0)))

	_, err := z.BuildPalette(2)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBuildPaletteRejectsBadK(t *testing.T) {
	z := NewDefault()
	require.NoError(t, z.Prepare(1, 1))
	require.NoError(t, z.AddColor(NewColor(255, 0, 0, 0)))

	_, err := z.BuildPalette(1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	z2 := NewDefault()
	require.NoError(t, z2.Prepare(1, 1))
	require.NoError(t, z2.AddColor(NewColor(255, 0, 0, 0)))
	_, err2 := z2.BuildPalette(257)
	assert.ErrorIs(t, err2, ErrOutOfRange)
}

func TestNextPaletteIndexOutOfRangeAfterN(t *testing.T) {
	z := NewDefault()
	require.NoError(t, z.Prepare(1, 1))
	require.NoError(t, z.AddColor(NewColor(255, 0, 0, 0)))
	_, err := z.BuildPalette(2)
	require.NoError(t, err)

	_, err = z.NextPaletteIndex()
	require.NoError(t, err)

	_, err = z.NextPaletteIndex()
	assert.ErrorIs(t, err, ErrOutOfRange)
}

// TestSingleColorImage covers a histogram with a single distinct color.
func TestSingleColorImage(t *testing.T) {
	z := NewDefault()
	require.NoError(t, z.Prepare(10, 10))
	fillSingleColor(t, z, 100, NewColor(255, 255, 0, 0))

	dc, err := z.DistinctColorCount()
	require.NoError(t, err)
	assert.Equal(t, 1, dc)

	palette, err := z.BuildPalette(4)
	require.NoError(t, err)
	require.Len(t, palette, 1)
	assert.Equal(t, RGB{R: 255, G: 0, B: 0}, palette[0])

	for i := 0; i < 100; i++ {
		idx, err := z.NextPaletteIndex()
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	}
}

// TestTwoWellSeparatedClusters covers two far-apart color clusters.
func TestTwoWellSeparatedClusters(t *testing.T) {
	z := NewDefault()
	require.NoError(t, z.Prepare(10, 10))

	black := NewColor(255, 0, 0, 0)
	white := NewColor(255, 255, 255, 255)
	for i := 0; i < 50; i++ {
		require.NoError(t, z.AddColor(black))
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, z.AddColor(white))
	}

	palette, err := z.BuildPalette(2)
	require.NoError(t, err)
	require.Len(t, palette, 2)

	seen := map[RGB]bool{palette[0]: true, palette[1]: true}
	assert.True(t, seen[RGB{0, 0, 0}])
	assert.True(t, seen[RGB{255, 255, 255}])

	var blackIdx, whiteIdx int
	for k, p := range palette {
		if p == (RGB{0, 0, 0}) {
			blackIdx = k
		} else {
			whiteIdx = k
		}
	}

	for i := 0; i < 50; i++ {
		idx, err := z.NextPaletteIndex()
		require.NoError(t, err)
		assert.Equal(t, blackIdx, idx)
	}
	for i := 0; i < 50; i++ {
		idx, err := z.NextPaletteIndex()
		require.NoError(t, err)
		assert.Equal(t, whiteIdx, idx)
	}
}

// TestAlphaBlendingScenario covers alpha compositing onto the background.
func TestAlphaBlendingScenario(t *testing.T) {
	z := NewDefault() // default background is white
	require.NoError(t, z.Prepare(1, 1))
	require.NoError(t, z.AddColor(NewColor(128, 255, 0, 0)))

	palette, err := z.BuildPalette(2)
	require.NoError(t, err)
	require.Len(t, palette, 1)
	assert.Equal(t, RGB{R: 255, G: 127, B: 127}, palette[0])
}

// TestGrayscaleRamp covers a monotonic grayscale ramp.
func TestGrayscaleRamp(t *testing.T) {
	z := NewDefault()
	require.NoError(t, z.Prepare(256, 1))
	for i := 0; i < 256; i++ {
		v := uint8(i)
		require.NoError(t, z.AddColor(NewColor(255, v, v, v)))
	}

	_, err := z.BuildPalette(8)
	require.NoError(t, err)

	prev := -1
	for i := 0; i < 256; i++ {
		idx, err := z.NextPaletteIndex()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, prev)
		prev = idx
	}
}

// TestOverrequest covers requesting more colors than are distinct.
func TestOverrequest(t *testing.T) {
	z := NewDefault()
	require.NoError(t, z.Prepare(100, 1))

	colors := []Color{
		NewColor(255, 255, 0, 0),
		NewColor(255, 0, 255, 0),
		NewColor(255, 0, 0, 255),
		NewColor(255, 255, 255, 255),
	}
	for i := 0; i < 100; i++ {
		require.NoError(t, z.AddColor(colors[i%4]))
	}

	palette, err := z.BuildPalette(16)
	require.NoError(t, err)
	assert.Len(t, palette, 4)
}

func TestDistinctColorCountRequiresPrepare(t *testing.T) {
	z := NewDefault()
	_, err := z.DistinctColorCount()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLookupByColorFindsNearestPaletteEntry(t *testing.T) {
	z := NewDefault()
	require.NoError(t, z.Prepare(10, 10))
	black := NewColor(255, 0, 0, 0)
	white := NewColor(255, 255, 255, 255)
	for i := 0; i < 50; i++ {
		require.NoError(t, z.AddColor(black))
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, z.AddColor(white))
	}
	_, err := z.BuildPalette(2)
	require.NoError(t, err)

	idx, err := z.LookupByColor(RGB{R: 10, G: 5, B: 5})
	require.NoError(t, err)
	got, err := z.LookupByColor(RGB{R: 245, G: 250, B: 250})
	require.NoError(t, err)
	assert.NotEqual(t, idx, got)
}

func TestMonotonicMSEAcrossIncreasingK(t *testing.T) {
	z2 := NewDefault()
	require.NoError(t, z2.Prepare(256, 1))
	z8 := NewDefault()
	require.NoError(t, z8.Prepare(256, 1))

	for i := 0; i < 256; i++ {
		v := uint8(i)
		c := NewColor(255, v, v, v)
		require.NoError(t, z2.AddColor(c))
		require.NoError(t, z8.AddColor(c))
	}

	p2, err := z2.BuildPalette(2)
	require.NoError(t, err)
	p8, err := z8.BuildPalette(8)
	require.NoError(t, err)

	mse := func(z *Quantizer, palette []RGB) float64 {
		total := 0.0
		for i := 0; i < 256; i++ {
			idx, err := z.NextPaletteIndex()
			require.NoError(t, err)
			v := float64(i)
			p := palette[idx]
			dr := v - float64(p.R)
			dg := v - float64(p.G)
			db := v - float64(p.B)
			total += dr*dr + dg*dg + db*db
		}
		return total / 256
	}

	mse2 := mse(z2, p2)
	mse8 := mse(z8, p8)
	assert.LessOrEqual(t, mse8, mse2)
}
