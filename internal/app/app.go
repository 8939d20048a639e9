package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/comteq/jokes/internal/collection"
	"github.com/comteq/jokes/internal/config"
	"github.com/comteq/jokes/internal/jokesapi"
	"github.com/comteq/jokes/internal/metrics"
	"github.com/comteq/jokes/internal/prefs"
	"github.com/comteq/jokes/internal/ui"
)

// Options configure a jokes session.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/jokes/prefs.toml
	RefreshEvery int    // seconds; zero keeps the config value
	Verbose      bool   // log to stderr instead of the log file
}

// Session owns the running pieces behind one invocation: the HTTP client,
// the syncer worker and the optional metrics listener.
type Session struct {
	Config   config.Config
	Syncer   *collection.Syncer
	Metrics  *metrics.Collector
	Endpoint string
	LogPath  string // empty when logging to stderr

	logFile io.Closer
	cancel  context.CancelFunc
}

// Open loads configuration, routes logging and starts the syncer worker.
// Close releases everything Open started.
func Open(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshInterval = time.Duration(opts.RefreshEvery) * time.Second
	}

	s := &Session{Config: cfg}
	if err := s.setupLogging(opts.Verbose); err != nil {
		return nil, err
	}

	s.Metrics = metrics.NewCollector()
	clientOpts := cfg.ClientOptions()
	clientOpts.Transport = s.Metrics.InstrumentTransport(jokesapi.NewTransport(nil, cfg.HTTPLog))

	client, err := jokesapi.NewClient(clientOpts)
	if err != nil {
		s.closeLog()
		return nil, fmt.Errorf("init jokes client: %w", err)
	}
	s.Endpoint = client.CollectionURL()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.Syncer = collection.New(client, collection.WithRecorder(s.Metrics))
	s.Syncer.Start(runCtx)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := s.Metrics.Serve(runCtx, cfg.MetricsAddr); err != nil {
				log.Printf("metrics: %v", err)
			}
		}()
	}

	log.Printf("session opened: %s (http log %s)", s.Endpoint, cfg.HTTPLog)
	return s, nil
}

func (s *Session) setupLogging(verbose bool) error {
	if verbose {
		log.SetOutput(os.Stderr)
		return nil
	}
	if err := s.Config.EnsureLogDir(); err != nil {
		return err
	}
	s.LogPath = s.Config.LogPath()
	f, err := tea.LogToFile(s.LogPath, "jokes")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	s.logFile = f
	return nil
}

func (s *Session) closeLog() {
	if s.logFile != nil {
		_ = s.logFile.Close()
		s.logFile = nil
		log.SetOutput(os.Stderr)
	}
}

// Close stops the worker and metrics listener and closes the log file.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.closeLog()
}

// Run boots the jokes TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	StartPoller(ctx, s.Syncer, s.Config.RefreshInterval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Syncer:    s.Syncer,
		Prefs:     prefs.Load(opts.PrefsPath),
		PrefsPath: opts.PrefsPath,
		Endpoint:  s.Endpoint,
		LogPath:   s.LogPath,
	})
}
