// Package config handles library and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents library configuration stored in .physform/config.json.
type Config struct {
	Backend   string   `json:"backend"`              // file or s3
	S3        S3Config `json:"s3"`                   // used when Backend is s3
	RenderURL string   `json:"render_url,omitempty"` // LaTeX image service base URL
	RenderDPI int      `json:"render_dpi,omitempty"`
}

// S3Config locates the catalog object when the s3 backend is selected.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty"`
	Key       string `json:"key,omitempty"`
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	PathStyle bool   `json:"path_style,omitempty"`
}

const (
	LibraryDir  = ".physform"
	ConfigFile  = "config.json"
	CatalogFile = "formulas.txt"
	CacheDir    = "cache"
	DBFile      = "formulas.db"
)

// Backend names.
const (
	BackendFile = "file"
	BackendS3   = "s3"
)

// ValidBackends lists the supported backend values.
var ValidBackends = []string{BackendFile, BackendS3}

// LibraryPath returns the path to the .physform directory from a root path.
func LibraryPath(root string) string {
	return filepath.Join(root, LibraryDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, LibraryDir, ConfigFile)
}

// CatalogPath returns the path to formulas.txt from a root path.
func CatalogPath(root string) string {
	return filepath.Join(root, LibraryDir, CatalogFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, LibraryDir, CacheDir)
}

// DBPath returns the path to formulas.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, LibraryDir, CacheDir, DBFile)
}

// IsLibrary checks if the given path contains a formula library.
func IsLibrary(root string) bool {
	info, err := os.Stat(LibraryPath(root))
	return err == nil && info.IsDir()
}

// FindLibrary walks up from the given path to find a formula library.
// Returns the library root path or an error if not found.
func FindLibrary(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsLibrary(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a formula library (no %s directory found)", LibraryDir)
		}
		abs = parent
	}
}

// Default returns the configuration written by init.
func Default() *Config {
	return &Config{Backend: BackendFile}
}

// Load reads configuration from the library at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}

	return &cfg, nil
}

// Save writes configuration to the library at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"backend",
	"s3.bucket",
	"s3.key",
	"s3.region",
	"s3.endpoint",
	"s3.path_style",
	"render_url",
	"render_dpi",
}

// Get returns one configuration value in string form.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "backend":
		return c.Backend, nil
	case "s3.bucket":
		return c.S3.Bucket, nil
	case "s3.key":
		return c.S3.Key, nil
	case "s3.region":
		return c.S3.Region, nil
	case "s3.endpoint":
		return c.S3.Endpoint, nil
	case "s3.path_style":
		return strconv.FormatBool(c.S3.PathStyle), nil
	case "render_url":
		return c.RenderURL, nil
	case "render_dpi":
		if c.RenderDPI == 0 {
			return "", nil
		}
		return strconv.Itoa(c.RenderDPI), nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set updates one configuration key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		if err := ValidateBackend(value); err != nil {
			return err
		}
		c.Backend = value
	case "s3.bucket":
		c.S3.Bucket = value
	case "s3.key":
		c.S3.Key = value
	case "s3.region":
		c.S3.Region = value
	case "s3.endpoint":
		c.S3.Endpoint = value
	case "s3.path_style":
		c.S3.PathStyle = strings.EqualFold(value, "true")
	case "render_url":
		c.RenderURL = value
	case "render_dpi":
		dpi, err := strconv.Atoi(value)
		if err != nil || dpi <= 0 {
			return fmt.Errorf("invalid render_dpi: %s", value)
		}
		c.RenderDPI = dpi
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// ValidateBackend checks that the backend value is valid.
func ValidateBackend(backend string) error {
	for _, valid := range ValidBackends {
		if backend == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid backend: %s (valid: %v)", backend, ValidBackends)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
