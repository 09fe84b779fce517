// Package quantize exposes internal/quant as a standalone cobra
// command: decode an image, run it through the full quantizer
// lifecycle, and write back an indexed-color PNG or GIF.
package quantize

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/arthur404dev/wuquant/internal/config"
	"github.com/arthur404dev/wuquant/internal/quant"
	"github.com/arthur404dev/wuquant/internal/utils/logger"
	"github.com/arthur404dev/wuquant/internal/utils/notify"
	"github.com/arthur404dev/wuquant/internal/utils/paths"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	outputPath string
	colors     int
	format     string
	background string
)

// NewCommand creates the quantize command.
func NewCommand() *cobra.Command {
	cfg := config.Get()

	cmd := &cobra.Command{
		Use:   "quantize <image>...",
		Short: "Reduce an image to an indexed color palette",
		Long: `Reduce one or more images' color palettes to a caller-specified number of
colors using Wu's greedy variance-minimization quantizer.

Multiple input files are quantized concurrently, one goroutine per file,
each driving its own independent *quant.Quantizer — quantizers are not
safe to share across goroutines, but distinct instances never touch
shared state.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runQuantize,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: alongside input, suffixed _quantized)")
	cmd.Flags().IntVarP(&colors, "colors", "c", cfg.Quantize.DefaultColors, "Requested palette size (2-256)")
	cmd.Flags().StringVarP(&format, "format", "f", cfg.Quantize.OutputFormat, "Output container (png or gif)")
	cmd.Flags().StringVarP(&background, "background", "b", cfg.Quantize.BackgroundColor, "Hex background color for alpha flattening")

	return cmd
}

func runQuantize(cmd *cobra.Command, args []string) error {
	bg, err := parseHexColor(background)
	if err != nil {
		return fmt.Errorf("failed to parse background color: %w", err)
	}

	if outputPath != "" && len(args) > 1 {
		return fmt.Errorf("--output can only be used with a single input file")
	}

	var wg sync.WaitGroup
	errs := make([]error, len(args))
	for i, inputPath := range args {
		wg.Add(1)
		go func(i int, inputPath string) {
			defer wg.Done()
			errs[i] = quantizeOne(inputPath, bg)
		}(i, inputPath)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// quantizeOne drives a single *quant.Quantizer end to end for one input
// file. Called once per goroutine when the command is given several
// files; each call owns an independent quantizer, so no state is shared
// across concurrent invocations.
func quantizeOne(inputPath string, bg quant.RGB) error {
	jobID := uuid.New()
	log := logger.Log.With("job", jobID.String(), "input", inputPath)
	log.Info("quantize started", "colors", colors, "format", format)

	src, err := decodeImage(inputPath)
	if err != nil {
		return fmt.Errorf("failed to decode input image: %w", err)
	}

	out, paletteSize, err := quantizeToImage(src, colors, bg)
	if err != nil {
		return fmt.Errorf("failed to quantize image: %w", err)
	}
	log.Info("palette built", "requested", colors, "actual", paletteSize)

	dst := outputPath
	if dst == "" {
		dst = defaultOutputPath(inputPath, format)
	}
	if err := paths.EnsureParentDir(dst); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := encodeImage(dst, out, format); err != nil {
		return fmt.Errorf("failed to write output image: %w", err)
	}
	log.Info("quantize finished", "output", dst)

	cfg := config.Get()
	if cfg.Notification.Enabled && notify.IsAvailable() {
		notif := &notify.Notification{
			Summary: "Image quantized",
			Body:    fmt.Sprintf("%s -> %d colors", filepath.Base(dst), paletteSize),
			Icon:    dst,
			Timeout: cfg.Notification.GetTimeout(),
		}
		if err := notify.NewNotifier().Send(notif); err != nil {
			log.Warn("failed to send notification", "error", err)
		}
	}

	return nil
}

// quantizeToImage drives a *quant.Quantizer over every pixel of img and
// returns the resulting indexed image along with the actual palette
// size (K' <= k).
func quantizeToImage(img image.Image, k int, bg quant.RGB) (*image.Paletted, int, error) {
	bounds := img.Bounds()

	z := quant.New(quant.Config{Background: bg})
	if err := z.Prepare(bounds.Dx(), bounds.Dy()); err != nil {
		return nil, 0, err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := quant.FromImageColor(img.At(x, y))
			if err := z.AddColor(c); err != nil {
				return nil, 0, err
			}
		}
	}

	paletteRGB, err := z.BuildPalette(k)
	if err != nil {
		return nil, 0, err
	}

	pal := make(color.Palette, len(paletteRGB))
	for i, p := range paletteRGB {
		pal[i] = color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}
	}

	out := image.NewPaletted(bounds, pal)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			idx, err := z.NextPaletteIndex()
			if err != nil {
				return nil, 0, err
			}
			out.SetColorIndex(x, y, uint8(idx))
		}
	}

	return out, len(paletteRGB), nil
}

// decodeImage dispatches on file extension: stdlib handles png/jpeg/gif
// (jpeg registered for side effects above; gif and png decode directly
// since this package also needs their Encode entry points), and
// golang.org/x/image covers bmp/tiff/webp.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return bmp.Decode(f)
	case ".tif", ".tiff":
		return tiff.Decode(f)
	case ".webp":
		return webp.Decode(f)
	case ".gif":
		return gif.Decode(f)
	case ".png":
		return png.Decode(f)
	default:
		img, _, err := image.Decode(f)
		return img, err
	}
}

func encodeImage(path string, img image.Image, format string) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	switch strings.ToLower(format) {
	case "gif":
		return gif.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}

func defaultOutputPath(inputPath, format string) string {
	ext := ".png"
	if strings.ToLower(format) == "gif" {
		ext = ".gif"
	}
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(dir, base+"_quantized"+ext)
}

// parseHexColor parses a #RRGGBB string into a quant.RGB, matching
// config.isHexColor's format.
func parseHexColor(s string) (quant.RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return quant.RGB{}, fmt.Errorf("%q is not a #RRGGBB hex color", s)
	}
	r, err := strconv.ParseUint(s[1:3], 16, 8)
	if err != nil {
		return quant.RGB{}, fmt.Errorf("%q is not a #RRGGBB hex color: %w", s, err)
	}
	g, err := strconv.ParseUint(s[3:5], 16, 8)
	if err != nil {
		return quant.RGB{}, fmt.Errorf("%q is not a #RRGGBB hex color: %w", s, err)
	}
	b, err := strconv.ParseUint(s[5:7], 16, 8)
	if err != nil {
		return quant.RGB{}, fmt.Errorf("%q is not a #RRGGBB hex color: %w", s, err)
	}
	return quant.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}
