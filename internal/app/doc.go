// Package app wires configuration, logging, metrics, the HTTP client and the
// collection syncer together. It is the composition root for both the TUI
// and the one-shot CLI commands.
//
// # Startup
//
//	Open()
//	  ├─> config.Load()                 read ~/.config/jokes/config.toml
//	  ├─> tea.LogToFile()               route log output (or stderr with Verbose)
//	  ├─> metrics.NewCollector()        private Prometheus registry
//	  ├─> jokesapi.NewClient()          transport: metrics → request id → logging
//	  ├─> collection.New().Start()      single worker goroutine
//	  └─> metrics.Serve()               only when metrics_addr is set
//
//	Run()
//	  ├─> Open()
//	  ├─> StartPoller()                 only when refresh_interval > 0
//	  └─> ui.Run()                      blocks until quit
//
// # Refresh
//
// The poller issues Load intents on the syncer's queue, so refreshes are
// ordered with user intents like any other. Consecutive failures stretch the
// delay exponentially up to 30 seconds; the first success resets it.
//
// # Errors
//
// Open fails only for a bad config file, an unusable base URL or an
// unwritable log directory. Remote failures never surface here: they become
// Failed statuses on the syncer.
package app
