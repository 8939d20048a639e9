package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comteq/jokes/internal/mockserver"
	"github.com/comteq/jokes/internal/state"
)

func startMockServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := mockserver.New(mockserver.Seed()...)
	go func() { _ = srv.Listener(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })
	return "http://" + ln.Addr().String()
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestOpen_LoadsThroughConfiguredServer(t *testing.T) {
	base := startMockServer(t)
	logPath := filepath.Join(t.TempDir(), "state", "jokes.log")
	cfgPath := writeConfig(t, fmt.Sprintf(`
base_url = %q
http_log = "basic"
log_file = %q
`, base, logPath))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := Open(ctx, Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, base+"/jokes_api/", s.Endpoint)
	assert.Equal(t, logPath, s.LogPath)

	st, err := s.Syncer.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, state.PhaseLoaded, st.Phase)
	assert.Len(t, st.Items, len(mockserver.Seed()))

	families, err := s.Metrics.Registry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["jokes_http_requests_total"], "http requests not recorded")
	assert.True(t, names["jokes_intents_total"], "intents not recorded")

	s.Close()
	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "--> GET")
	assert.Contains(t, string(raw), "collection load finished")
}

func TestOpen_RefreshOverride(t *testing.T) {
	cfgPath := writeConfig(t, "refresh_interval_seconds = 60\n")

	s, err := Open(context.Background(), Options{ConfigPath: cfgPath, RefreshEvery: 5, Verbose: true})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 5*time.Second, s.Config.RefreshInterval)
	assert.Empty(t, s.LogPath)
}

func TestOpen_BadConfig(t *testing.T) {
	cfgPath := writeConfig(t, "http_log = \"loud\"\n")
	_, err := Open(context.Background(), Options{ConfigPath: cfgPath, Verbose: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestSession_CloseStopsSyncer(t *testing.T) {
	cfgPath := writeConfig(t, "base_url = \"http://127.0.0.1:1\"\nrequest_timeout_seconds = 1\n")
	s, err := Open(context.Background(), Options{ConfigPath: cfgPath, Verbose: true})
	require.NoError(t, err)
	s.Close()

	assert.Eventually(t, func() bool {
		_, err := s.Syncer.Load(context.Background())
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
}
