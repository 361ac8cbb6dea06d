package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/logger"
)

// Config represents the complete configuration for foldercrawler
type Config struct {
	// Storage locates the persisted snapshots
	Storage StorageConfig `mapstructure:"storage"`

	// Crawl tunes enumeration
	Crawl CrawlConfig `mapstructure:"crawl"`

	// Content configures the grep command
	Content ContentConfig `mapstructure:"content"`

	// History configures the crawl-run database
	History HistoryConfig `mapstructure:"history"`

	// Log configures logging
	Log LogConfig `mapstructure:"log"`
}

// StorageConfig locates the snapshot files
type StorageConfig struct {
	Root        string `mapstructure:"root"`
	Extension   string `mapstructure:"extension"`
	Differences string `mapstructure:"differences"`
}

// CrawlConfig holds gitignore-style patterns left out of every crawl
type CrawlConfig struct {
	Ignore []string `mapstructure:"ignore"`
}

// ContentConfig lists the file extensions grep reads
type ContentConfig struct {
	Extensions []string `mapstructure:"extensions"`
}

// HistoryConfig enables the crawl history database. An empty Dir means
// the storage root.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig configures the rotating log file; an empty Path disables it
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Root:        "saved_crawls",
			Extension:   ".txt",
			Differences: filepath.Join("saved_crawls", "differences"),
		},
		Content: ContentConfig{Extensions: []string{".txt", ".py"}},
		History: HistoryConfig{Enabled: true},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File: LogFileConfig{
				MaxSizeMB:  10,
				MaxAgeDays: 30,
				MaxBackups: 3,
			},
		},
	}
}

// Validate checks if the configuration is complete and consistent
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Root) == "" {
		return fmt.Errorf("%w: storage.root cannot be empty", domain.ErrConfigInvalid)
	}
	if !strings.HasPrefix(c.Storage.Extension, ".") {
		return fmt.Errorf("%w: storage.extension must start with '.': %q", domain.ErrConfigInvalid, c.Storage.Extension)
	}
	for i, p := range c.Crawl.Ignore {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: crawl.ignore[%d] is blank", domain.ErrConfigInvalid, i)
		}
	}
	for _, ext := range c.Content.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: content extension must start with '.': %q", domain.ErrConfigInvalid, ext)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level: %s", domain.ErrConfigInvalid, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format: %s", domain.ErrConfigInvalid, c.Log.Format)
	}
	if c.Log.File.MaxSizeMB < 0 || c.Log.File.MaxAgeDays < 0 || c.Log.File.MaxBackups < 0 {
		return fmt.Errorf("%w: log file limits cannot be negative", domain.ErrConfigInvalid)
	}

	return nil
}

// StorageRoot returns the expanded storage root
func (c *Config) StorageRoot() string {
	return ExpandPath(c.Storage.Root)
}

// DifferencesDir returns the expanded materialize destination
func (c *Config) DifferencesDir() string {
	if c.Storage.Differences == "" {
		return filepath.Join(c.StorageRoot(), "differences")
	}
	return ExpandPath(c.Storage.Differences)
}

// HistoryDir returns where the history database lives
func (c *Config) HistoryDir() string {
	if c.History.Dir == "" {
		return c.StorageRoot()
	}
	return ExpandPath(c.History.Dir)
}

// LoggerConfig converts the log section for logger.Init. Logs go to
// stderr so they never mix with table output on stdout.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.Config{
		Level:    logger.ParseLevel(c.Log.Level),
		Format:   logger.ParseFormat(c.Log.Format),
		Outputs:  []logger.OutputConfig{{Type: logger.OutputStderr}},
		MaskHome: true,
	}
	if c.Log.File.Path != "" {
		cfg.Outputs = append(cfg.Outputs, logger.OutputConfig{Type: logger.OutputFile})
		cfg.File = logger.FileConfig{
			Enabled:    true,
			Path:       ExpandPath(c.Log.File.Path),
			MaxSizeMB:  c.Log.File.MaxSizeMB,
			MaxAgeDays: c.Log.File.MaxAgeDays,
			MaxBackups: c.Log.File.MaxBackups,
			Compress:   c.Log.File.Compress,
		}
	}
	return cfg
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			if len(path) == 1 {
				path = home
			} else if path[1] == '/' || path[1] == filepath.Separator {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}
