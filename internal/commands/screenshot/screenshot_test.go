package screenshot

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur404dev/wuquant/internal/config"
	"github.com/arthur404dev/wuquant/internal/utils/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()

	assert.Equal(t, "screenshot", cmd.Use)
	assert.Equal(t, "Take a screenshot", cmd.Short)
	assert.True(t, strings.Contains(cmd.Long, "screenshot of the entire screen"))

	regionFlag := cmd.Flags().Lookup("region")
	require.NotNil(t, regionFlag)
	assert.Equal(t, "r", regionFlag.Shorthand)

	quantizeF := cmd.Flags().Lookup("quantize")
	require.NotNil(t, quantizeF)
	assert.Equal(t, "q", quantizeF.Shorthand)

	colorsFlag := cmd.Flags().Lookup("colors")
	require.NotNil(t, colorsFlag)
	assert.Equal(t, "256", colorsFlag.DefValue)
}

func TestRunScreenshotFailsWithoutGrim(t *testing.T) {
	tempDir := t.TempDir()
	originalScreenshotsDir := paths.ScreenshotsDir
	paths.ScreenshotsDir = filepath.Join(tempDir, "screenshots")
	defer func() { paths.ScreenshotsDir = originalScreenshotsDir }()

	originalConfigDir := paths.WuquantConfigDir
	paths.WuquantConfigDir = filepath.Join(tempDir, "nonexistent-config")
	defer func() { paths.WuquantConfigDir = originalConfigDir }()
	require.NoError(t, config.Load())

	cmd := NewCommand()
	err := cmd.RunE(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grim not found")
}

func TestQuantizeImageProducesReducedPalette(t *testing.T) {
	bounds := image.Rect(0, 0, 8, 8)
	src := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if x < 4 {
				src.Set(x, y, color.RGBA{R: 0, G: 0, B: 0, A: 255})
			} else {
				src.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}

	out, err := quantizeImage(src, 2)
	require.NoError(t, err)
	assert.Equal(t, bounds, out.Bounds())

	left := out.At(0, 0)
	right := out.At(7, 7)
	lr, lg, lb, _ := left.RGBA()
	rr, rg, rb, _ := right.RGBA()
	assert.NotEqual(t, [3]uint32{lr, lg, lb}, [3]uint32{rr, rg, rb})
}
