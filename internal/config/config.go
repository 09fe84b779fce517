// Package config loads and validates the settings wuquant's commands need:
// the flatten background color, default palette size, and output/capture
// paths. Scoped down from a much larger multi-domain config, it keeps the
// same viper-backed load/defaults/validate shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur404dev/wuquant/internal/utils/paths"
	"github.com/spf13/viper"
)

// Config is the top-level configuration structure for wuquant.
type Config struct {
	Version    string           `mapstructure:"version" json:"version" yaml:"version" desc:"Configuration version" default:"0.1.0" example:"0.1.0"`
	Quantize   QuantizeConfig   `mapstructure:"quantize" json:"quantize" yaml:"quantize" desc:"Color quantization engine settings"`
	Screenshot ScreenshotConfig `mapstructure:"screenshot" json:"screenshot" yaml:"screenshot" desc:"Screenshot capture settings"`

	Notification NotificationConfig `mapstructure:"notification" json:"notification" yaml:"notification" desc:"System notification preferences"`
	External     ExternalTools      `mapstructure:"external_tools" json:"external_tools" yaml:"external_tools" desc:"External tool paths and command overrides"`
}

// QuantizeConfig controls the defaults internal/quant.Quantizer is driven
// with when the quantize command isn't given explicit flags.
type QuantizeConfig struct {
	BackgroundColor string `mapstructure:"background_color" json:"background_color" yaml:"background_color" desc:"Hex RGB the alpha flattener composites onto (see quant.Flatten)" default:"#FFFFFF" example:"#000000"`
	DefaultColors   int    `mapstructure:"default_colors" json:"default_colors" yaml:"default_colors" desc:"Requested palette size (K) when --colors is not given" default:"256" example:"16"`
	OutputDirectory string `mapstructure:"output_directory" json:"output_directory" yaml:"output_directory" desc:"Directory for quantized images; the quantize command does not read it and writes next to each input unless --output is given" example:"~/Pictures/Screenshots/quantized"`
	OutputFormat    string `mapstructure:"output_format" json:"output_format" yaml:"output_format" desc:"Output container (png or gif)" default:"png" example:"gif"`
}

// ScreenshotConfig represents screenshot capture configuration
type ScreenshotConfig struct {
	Directory           string `mapstructure:"directory" json:"directory" yaml:"directory" desc:"Directory to save screenshots" example:"~/Pictures/Screenshots"`
	FileNamePattern     string `mapstructure:"file_name_pattern" json:"file_name_pattern" yaml:"file_name_pattern" desc:"Filename pattern; the tokens %Y%m%d and %H%M%S are replaced with the date and time" default:"screenshot_%Y%m%d_%H%M%S" example:"screen_%Y%m%d-%H%M%S"`
	ShowNotification    bool   `mapstructure:"show_notification" json:"show_notification" yaml:"show_notification" desc:"Show notification after screenshot capture" default:"true" example:"true"`
	NotificationTimeout int    `mapstructure:"notification_timeout" json:"notification_timeout" yaml:"notification_timeout" desc:"Notification display duration in seconds" default:"3" example:"5"`
}

// NotificationConfig represents notification configuration
type NotificationConfig struct {
	Enabled        bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled" desc:"Enable system notifications" default:"true" example:"false"`
	DefaultTimeout int    `mapstructure:"default_timeout" json:"default_timeout" yaml:"default_timeout" desc:"Default notification timeout in seconds" default:"5" example:"10"`
	AppName        string `mapstructure:"app_name" json:"app_name" yaml:"app_name" desc:"Application name for notifications; not passed to the notifier, which sends as wuquant" default:"wuquant" example:"wuquant"`
}

// ExternalTools represents external tool paths
type ExternalTools struct {
	Grim      string `mapstructure:"grim" json:"grim" yaml:"grim" desc:"Path to grim screenshot tool" default:"grim" example:"/usr/bin/grim"`
	Slurp     string `mapstructure:"slurp" json:"slurp" yaml:"slurp" desc:"Path to slurp selection tool" default:"slurp" example:"/usr/bin/slurp"`
	Libnotify string `mapstructure:"libnotify" json:"libnotify" yaml:"libnotify" desc:"Path to notify-send notification tool" default:"notify-send" example:"/usr/bin/notify-send"`
	Dunstify  string `mapstructure:"dunstify" json:"dunstify" yaml:"dunstify" desc:"Path to dunstify notification tool" default:"dunstify" example:"/usr/bin/dunstify"`
}

// Global config instance
var cfg *Config

// GetDefaults returns the default configuration values
func GetDefaults() *Config {
	d := getDefaults()
	return &d
}

func getDefaults() Config {
	return Config{
		Version: "0.1.0",
		Quantize: QuantizeConfig{
			BackgroundColor: "#FFFFFF",
			DefaultColors:   256,
			OutputDirectory: paths.QuantizedDir,
			OutputFormat:    "png",
		},
		Screenshot: ScreenshotConfig{
			Directory:           paths.ScreenshotsDir,
			FileNamePattern:     "screenshot_%Y%m%d_%H%M%S",
			ShowNotification:    true,
			NotificationTimeout: 3,
		},
		Notification: NotificationConfig{
			Enabled:        true,
			DefaultTimeout: 5,
			AppName:        "wuquant",
		},
		External: ExternalTools{
			Grim:      "grim",
			Slurp:     "slurp",
			Libnotify: "notify-send",
			Dunstify:  "dunstify",
		},
	}
}

// Load reads configuration from the wuquant config file, falling back to
// defaults for anything unset.
func Load() error {
	setDefaults()

	viper.SetConfigType("json")
	configPath := filepath.Join(paths.WuquantConfigDir, "config.json")

	if paths.Exists(configPath) {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}
	} else {
		viper.SetConfigFile(configPath)
	}

	if bg := os.Getenv("WUQUANT_BACKGROUND_COLOR"); bg != "" {
		viper.Set("quantize.background_color", bg)
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// LoadFrom reads configuration from an explicit file path instead of the
// default wuquant config location, for the --config flag.
func LoadFrom(configPath string) error {
	setDefaults()

	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// Path returns the config file viper last loaded from, if any.
func Path() string {
	return viper.ConfigFileUsed()
}

// Get returns the current configuration, loading it on first use.
func Get() *Config {
	if cfg == nil {
		Load()
	}
	return cfg
}

// Save writes the current configuration to disk.
func Save() error {
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	configPath := filepath.Join(paths.WuquantConfigDir, "config.json")
	return paths.AtomicWriteJSON(configPath, cfg)
}

// setDefaults sets default values in viper
func setDefaults() {
	defaults := getDefaults()

	viper.SetDefault("version", defaults.Version)

	viper.SetDefault("quantize.background_color", defaults.Quantize.BackgroundColor)
	viper.SetDefault("quantize.default_colors", defaults.Quantize.DefaultColors)
	viper.SetDefault("quantize.output_directory", defaults.Quantize.OutputDirectory)
	viper.SetDefault("quantize.output_format", defaults.Quantize.OutputFormat)

	viper.SetDefault("screenshot.directory", defaults.Screenshot.Directory)
	viper.SetDefault("screenshot.file_name_pattern", defaults.Screenshot.FileNamePattern)
	viper.SetDefault("screenshot.show_notification", defaults.Screenshot.ShowNotification)
	viper.SetDefault("screenshot.notification_timeout", defaults.Screenshot.NotificationTimeout)

	viper.SetDefault("notification.enabled", defaults.Notification.Enabled)
	viper.SetDefault("notification.default_timeout", defaults.Notification.DefaultTimeout)
	viper.SetDefault("notification.app_name", defaults.Notification.AppName)

	viper.SetDefault("external_tools.grim", defaults.External.Grim)
	viper.SetDefault("external_tools.slurp", defaults.External.Slurp)
	viper.SetDefault("external_tools.libnotify", defaults.External.Libnotify)
	viper.SetDefault("external_tools.dunstify", defaults.External.Dunstify)
}

// Validate checks if the current configuration is valid.
func Validate() error {
	c := Get()
	var errs []string

	if c.Quantize.DefaultColors < 2 || c.Quantize.DefaultColors > 256 {
		errs = append(errs, fmt.Sprintf("quantize.default_colors must be in [2, 256], got %d", c.Quantize.DefaultColors))
	}

	if !isHexColor(c.Quantize.BackgroundColor) {
		errs = append(errs, fmt.Sprintf("quantize.background_color %q is not a #RRGGBB hex color", c.Quantize.BackgroundColor))
	}

	format := strings.ToLower(c.Quantize.OutputFormat)
	if format != "png" && format != "gif" {
		errs = append(errs, fmt.Sprintf("quantize.output_format must be png or gif, got %q", c.Quantize.OutputFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  • %s", strings.Join(errs, "\n  • "))
	}

	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func (c NotificationConfig) GetTimeout() time.Duration {
	return time.Duration(c.DefaultTimeout) * time.Second
}

func (c ScreenshotConfig) GetNotificationTimeout() time.Duration {
	return time.Duration(c.NotificationTimeout) * time.Second
}
