package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/comteq/jokes/internal/jokesapi"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != jokesapi.DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, jokesapi.DefaultBaseURL)
	}
	if cfg.CollectionPath != jokesapi.DefaultCollectionPath {
		t.Fatalf("CollectionPath = %q, want %q", cfg.CollectionPath, jokesapi.DefaultCollectionPath)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.HTTPLog != jokesapi.LogBasic {
		t.Fatalf("HTTPLog = %v, want basic", cfg.HTTPLog)
	}
	if cfg.RefreshInterval != 0 || cfg.MetricsAddr != "" {
		t.Fatalf("optional features enabled by default: %+v", cfg)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
base_url = "  http://127.0.0.1:8000  "
collection_path = " api/jokes/ "
request_timeout_seconds = 3
http_log = "BODY"
log_file = "  ~/logs/jokes.log  "
refresh_interval_seconds = 15
metrics_addr = " 127.0.0.1:9090 "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.CollectionPath != "api/jokes/" {
		t.Fatalf("CollectionPath = %q", cfg.CollectionPath)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.HTTPLog != jokesapi.LogBody {
		t.Fatalf("HTTPLog = %v, want body", cfg.HTTPLog)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "jokes.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.RefreshInterval != 15*time.Second {
		t.Fatalf("RefreshInterval = %v, want 15s", cfg.RefreshInterval)
	}
	if cfg.MetricsAddr != "127.0.0.1:9090" {
		t.Fatalf("MetricsAddr = %q", cfg.MetricsAddr)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
base_url = "   "
collection_path = ""
request_timeout_seconds = 0
http_log = ""
log_file = ""
refresh_interval_seconds = -5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `base_url = [`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_UnknownHTTPLogFails(t *testing.T) {
	path := writeConfig(t, `http_log = "everything"`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse config error", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := Config{BaseURL: "http://x", CollectionPath: "j/", RequestTimeout: time.Second}
	opts := cfg.ClientOptions()
	if opts.BaseURL != "http://x" || opts.CollectionPath != "j/" || opts.Timeout != time.Second {
		t.Fatalf("ClientOptions = %+v", opts)
	}
	if opts.Transport != nil {
		t.Fatalf("ClientOptions should leave Transport unset")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/jokes.log")) {
		t.Fatalf("LogPath = %q, want it to end with /jokes.log", got)
	}
}

func TestEnsureLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	cfg := Config{LogFile: filepath.Join(dir, "jokes.log")}
	if err := cfg.EnsureLogDir(); err != nil {
		t.Fatalf("EnsureLogDir returned error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("log dir not created: %v", err)
	}
}
