package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/comteq/jokes/internal/jokesapi"
)

// Config holds everything needed to reach the collection server and run the
// client around it.
type Config struct {
	BaseURL         string
	CollectionPath  string
	RequestTimeout  time.Duration
	HTTPLog         jokesapi.LogLevel
	LogFile         string
	RefreshInterval time.Duration // zero disables auto-refresh
	MetricsAddr     string        // empty disables /metrics
}

const (
	defaultConfigPath     = "~/.config/jokes/config.toml"
	defaultLogFile        = "~/.local/state/jokes/jokes.log"
	defaultRequestTimeout = 10 * time.Second
)

// DefaultPath returns the config location used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:        jokesapi.DefaultBaseURL,
		CollectionPath: jokesapi.DefaultCollectionPath,
		RequestTimeout: defaultRequestTimeout,
		HTTPLog:        jokesapi.LogBasic,
		LogFile:        mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL         string `toml:"base_url"`
		CollectionPath  string `toml:"collection_path"`
		RequestTimeout  int    `toml:"request_timeout_seconds"`
		HTTPLog         string `toml:"http_log"`
		LogFile         string `toml:"log_file"`
		RefreshInterval int    `toml:"refresh_interval_seconds"`
		MetricsAddr     string `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(raw.CollectionPath); v != "" {
		cfg.CollectionPath = v
	}
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	level, err := jokesapi.ParseLogLevel(raw.HTTPLog)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.HTTPLog = level
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if raw.RefreshInterval > 0 {
		cfg.RefreshInterval = time.Duration(raw.RefreshInterval) * time.Second
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	return cfg, nil
}

// ClientOptions maps the config onto the HTTP client options. The transport
// is left for the caller to assemble.
func (c Config) ClientOptions() jokesapi.Options {
	return jokesapi.Options{
		BaseURL:        c.BaseURL,
		CollectionPath: c.CollectionPath,
		Timeout:        c.RequestTimeout,
	}
}

// LogPath returns the log file, falling back to the default location.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return mustExpand(defaultLogFile)
	}
	return c.LogFile
}

// EnsureLogDir creates the directory holding the log file.
func (c Config) EnsureLogDir() error {
	if err := os.MkdirAll(filepath.Dir(c.LogPath()), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
