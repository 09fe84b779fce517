package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestMoments(t *testing.T, colors ...[3]uint8) *momentTables {
	t.Helper()
	m := newMomentTables()
	for _, c := range colors {
		r, g, b := c[0], c[1], c[2]
		ir := int(r>>3) + 1
		ig := int(g>>3) + 1
		ib := int(b>>3) + 1
		require.NoError(t, m.addColor(ir, ig, ib, r, g, b))
	}
	m.buildMoments()
	return m
}

func repeat(n int, c [3]uint8) [][3]uint8 {
	out := make([][3]uint8, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func flatten2(groups ...[][3]uint8) [][3]uint8 {
	var out [][3]uint8
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// TestCutFailsOnSingleBinCube covers an image with a single color: with
// every pixel landing in one histogram cell, no split position can
// leave both halves non-empty.
func TestCutFailsOnSingleBinCube(t *testing.T) {
	colors := repeat(100, [3]uint8{255, 0, 0})
	m := buildTestMoments(t, colors...)

	p := newPartitioner(m)
	ok := p.cut(0, 1)
	assert.False(t, ok)
}

// TestCutTieBreaksRed constructs a histogram symmetric across all
// three channels (two equal-weight clusters on the gray diagonal) so
// every axis scores identically, and checks the deterministic
// Red > Green > Blue tie-break.
func TestCutTieBreaksRed(t *testing.T) {
	colors := flatten2(
		repeat(50, [3]uint8{0, 0, 0}),
		repeat(50, [3]uint8{255, 255, 255}),
	)
	m := buildTestMoments(t, colors...)

	p := newPartitioner(m)
	ok := p.cut(0, 1)
	require.True(t, ok)

	a := p.cubes[0]
	b := p.cubes[1]

	assert.Equal(t, 1, a.rMax, "red axis should have been cut")
	assert.Equal(t, side-1, a.gMax)
	assert.Equal(t, side-1, a.bMax)

	assert.Equal(t, 1, b.rMin)
	assert.Equal(t, 0, b.gMin)
	assert.Equal(t, 0, b.bMin)
	assert.Equal(t, side-1, b.gMax)
	assert.Equal(t, side-1, b.bMax)
}

func TestVarianceNonNegative(t *testing.T) {
	colors := flatten2(
		repeat(30, [3]uint8{10, 200, 40}),
		repeat(20, [3]uint8{250, 5, 90}),
		repeat(10, [3]uint8{0, 0, 0}),
	)
	m := buildTestMoments(t, colors...)

	assert.GreaterOrEqual(t, variance(wholeCube(), m), 0.0)
}

func TestVarianceZeroForUniformCube(t *testing.T) {
	colors := repeat(10, [3]uint8{128, 128, 128})
	m := buildTestMoments(t, colors...)

	assert.InDelta(t, 0.0, variance(wholeCube(), m), 1e-9)
}

func TestPartitionEarlyTerminationSingleColor(t *testing.T) {
	colors := repeat(100, [3]uint8{255, 0, 0})
	m := buildTestMoments(t, colors...)

	p := newPartitioner(m)
	kPrime := p.partition(4)
	assert.Equal(t, 1, kPrime)
}

func TestPartitionOverrequestCapsAtDistinctColors(t *testing.T) {
	colors := flatten2(
		repeat(25, [3]uint8{255, 0, 0}),
		repeat(25, [3]uint8{0, 255, 0}),
		repeat(25, [3]uint8{0, 0, 255}),
		repeat(25, [3]uint8{255, 255, 255}),
	)
	m := buildTestMoments(t, colors...)

	p := newPartitioner(m)
	kPrime := p.partition(16)
	assert.Equal(t, 4, kPrime)
}
