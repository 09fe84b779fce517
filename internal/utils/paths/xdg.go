package paths

import (
	"os"
	"path/filepath"
)

// XDG Base Directory paths
var (
	ConfigDir   string
	DataDir     string
	StateDir    string
	CacheDir    string
	PicturesDir string

	// wuquant-specific directories
	WuquantConfigDir string
	WuquantCacheDir  string

	// Specific paths
	UserConfigPath string

	// Directories
	ScreenshotsDir      string
	ScreenshotsCacheDir string
	QuantizedDir        string
)

func init() {
	// Initialize XDG base directories
	home, err := os.UserHomeDir()
	if err != nil {
		panic("Failed to get home directory: " + err.Error())
	}

	ConfigDir = getEnvOrDefault("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	DataDir = getEnvOrDefault("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	StateDir = getEnvOrDefault("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	CacheDir = getEnvOrDefault("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	PicturesDir = getEnvOrDefault("XDG_PICTURES_DIR", filepath.Join(home, "Pictures"))

	// Initialize wuquant-specific directories
	WuquantConfigDir = filepath.Join(ConfigDir, "wuquant")
	WuquantCacheDir = filepath.Join(CacheDir, "wuquant")

	// Initialize specific paths
	UserConfigPath = filepath.Join(WuquantConfigDir, "config.json")

	// Initialize directories
	ScreenshotsDir = filepath.Join(PicturesDir, "Screenshots")
	ScreenshotsCacheDir = filepath.Join(WuquantCacheDir, "screenshots")
	QuantizedDir = filepath.Join(PicturesDir, "Screenshots", "quantized")
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// EnsureParentDir creates the parent directory of a path if it doesn't exist
func EnsureParentDir(path string) error {
	parent := filepath.Dir(path)
	return EnsureDir(parent)
}

// Exists checks if a path exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFile checks if a path is a regular file
func IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
