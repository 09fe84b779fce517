// Package screenshot captures the screen via grim/slurp and, optionally,
// reduces the capture to an indexed-color palette before saving — the
// same engine internal/commands/quantize exposes as a standalone tool.
package screenshot

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur404dev/wuquant/internal/config"
	"github.com/arthur404dev/wuquant/internal/quant"
	"github.com/arthur404dev/wuquant/internal/utils/logger"
	"github.com/arthur404dev/wuquant/internal/utils/notify"
	"github.com/arthur404dev/wuquant/internal/utils/paths"
	"github.com/spf13/cobra"
)

var (
	region       string
	quantizeFlag bool
	colors       int
)

// NewCommand creates the screenshot command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Take a screenshot",
		Long:  `Take a screenshot of the entire screen or a selected region.`,
		RunE:  runScreenshot,
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "Take a screenshot of a region (use 'slurp' or provide geometry)")
	cmd.Flags().BoolVarP(&quantizeFlag, "quantize", "q", false, "Reduce the capture to an indexed-color palette before saving")
	cmd.Flags().IntVarP(&colors, "colors", "c", 256, "Palette size to request when --quantize is set")

	return cmd
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	external := cfg.External
	screenshotCfg := cfg.Screenshot

	screenshotDir := screenshotCfg.Directory
	if screenshotDir == "" {
		screenshotDir = paths.ScreenshotsDir
	}

	if err := paths.EnsureDir(screenshotDir); err != nil {
		return fmt.Errorf("failed to create screenshots directory: %w", err)
	}

	filePattern := screenshotCfg.FileNamePattern
	if filePattern == "" {
		filePattern = "screenshot_%Y%m%d_%H%M%S"
	}
	filename := strings.ReplaceAll(filePattern, "%Y%m%d", time.Now().Format("20060102"))
	filename = strings.ReplaceAll(filename, "%H%M%S", time.Now().Format("150405"))
	filename = fmt.Sprintf("%s.png", filename)
	outputPath := filepath.Join(screenshotDir, filename)

	grimPath := external.Grim
	if grimPath == "" {
		grimPath = "grim"
	}
	if _, err := exec.LookPath(grimPath); err != nil {
		return fmt.Errorf("grim not found: %w", err)
	}

	capturePath := outputPath
	if quantizeFlag {
		cacheDir := filepath.Join(paths.WuquantCacheDir, "screenshots")
		if err := paths.EnsureDir(cacheDir); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
		capturePath = filepath.Join(cacheDir, "capture.png")
	}

	grimArgs := []string{}

	if region != "" {
		if region == "slurp" {
			slurpPath := external.Slurp
			if slurpPath == "" {
				slurpPath = "slurp"
			}
			if _, err := exec.LookPath(slurpPath); err != nil {
				return fmt.Errorf("slurp not found: %w", err)
			}

			slurpCmd := exec.Command(slurpPath)
			output, err := slurpCmd.Output()
			if err != nil {
				logger.Info("Screenshot cancelled")
				return nil
			}

			region = strings.TrimSpace(string(output))
			if region == "" {
				logger.Info("No region selected")
				return nil
			}
		}
		grimArgs = append(grimArgs, "-g", region)
	}

	grimArgs = append(grimArgs, capturePath)

	logger.Debug("Taking screenshot", "command", grimPath, "args", grimArgs)
	grimCmd := exec.Command(grimPath, grimArgs...)
	if err := grimCmd.Run(); err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}

	if quantizeFlag {
		if err := quantizeCapture(capturePath, outputPath, colors); err != nil {
			return fmt.Errorf("failed to quantize capture: %w", err)
		}
		os.Remove(capturePath)
	}

	logger.Info("Screenshot saved", "path", outputPath)

	if screenshotCfg.ShowNotification && notify.IsAvailable() {
		notif := &notify.Notification{
			Summary: "Screenshot captured",
			Body:    fmt.Sprintf("Saved to %s", filename),
			Icon:    outputPath,
			Timeout: screenshotCfg.GetNotificationTimeout(),
		}

		if err := notify.NewNotifier().Send(notif); err != nil {
			logger.Warn("Failed to send notification", "error", err)
		}
	}

	return nil
}

// quantizeCapture reduces the capture at srcPath to a palette of at
// most k colors and writes the result as an opaque PNG at dstPath.
func quantizeCapture(srcPath, dstPath string, k int) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode capture: %w", err)
	}

	out, err := quantizeImage(img, k)
	if err != nil {
		return err
	}

	w, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer w.Close()

	return png.Encode(w, out)
}

// quantizeImage drives a *quant.Quantizer over every pixel of img and
// rebuilds it as an *image.RGBA of the chosen palette colors.
func quantizeImage(img image.Image, k int) (image.Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	z := quant.NewDefault()
	if err := z.Prepare(width, height); err != nil {
		return nil, fmt.Errorf("failed to prepare quantizer: %w", err)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := quant.FromImageColor(img.At(x, y))
			if err := z.AddColor(c); err != nil {
				return nil, fmt.Errorf("failed to add color: %w", err)
			}
		}
	}

	palette, err := z.BuildPalette(k)
	if err != nil {
		return nil, fmt.Errorf("failed to build palette: %w", err)
	}
	logger.Debug("Quantized capture", "requested_colors", k, "palette_size", len(palette))

	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			idx, err := z.NextPaletteIndex()
			if err != nil {
				return nil, fmt.Errorf("failed to read palette index: %w", err)
			}
			rgb := palette[idx]
			out.Set(x, y, color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255})
		}
	}
	return out, nil
}
