package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comteq/jokes/internal/jokesapi"
	"github.com/comteq/jokes/internal/mockserver"
)

func TestBuildCLI(t *testing.T) {
	cmd := BuildCLI()

	assert.Equal(t, "jokes", cmd.Use)
	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"list", "add", "update", "delete", "logs", "serve"} {
		assert.True(t, names[want], "missing %q command", want)
	}

	for _, flag := range []string{"config", "prefs", "refresh", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing --%s", flag)
	}
}

type testEnv struct {
	cfgPath string
	logPath string
	server  *mockserver.Server
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := mockserver.New(mockserver.Seed()...)
	go func() { _ = srv.Listener(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	dir := t.TempDir()
	logPath := filepath.Join(dir, "jokes.log")
	cfgPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("base_url = %q\nlog_file = %q\n", "http://"+ln.Addr().String(), logPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	return testEnv{cfgPath: cfgPath, logPath: logPath, server: srv}
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := BuildCLI()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^ID\s+SETUP\s+PUNCHLINE$`, lines[0])
	assert.Contains(t, lines[1], "Why do programmers prefer dark mode?")
	assert.True(t, strings.HasPrefix(lines[3], "3 "))
}

func TestListJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "list", "--json")
	require.NoError(t, err)

	var items []jokesapi.Joke
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 3)
	id, ok := items[0].Key()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestAddUpdateDelete(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "add", "--setup", "Knock knock", "--punchline", "Race condition")
	require.NoError(t, err)
	assert.Contains(t, out, "Race condition")
	require.Len(t, env.server.Items(), 4)

	out, err = env.run(t, "update", "4", "--setup", "Knock knock", "--punchline", "Who's there?")
	require.NoError(t, err)
	assert.Contains(t, out, "Who's there?")
	assert.NotContains(t, out, "Race condition")

	out, err = env.run(t, "delete", "4")
	require.NoError(t, err)
	assert.NotContains(t, out, "Knock knock")
	assert.Len(t, env.server.Items(), 3)
}

func TestDeleteMissingFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "delete", "99")
	require.Error(t, err)
	assert.True(t, IsFailed(err))
	assert.Equal(t, "Not found.", err.Error())
}

func TestAddRequiresFlags(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "add", "--setup", "only")
	require.Error(t, err)
	assert.False(t, IsFailed(err))
	assert.Len(t, env.server.Items(), 3)
}

func TestBlankTextNeverReachesServer(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"add blank setup", []string{"add", "--setup", "   ", "--punchline", "x"}, "setup must not be blank"},
		{"add empty punchline", []string{"add", "--setup", "x", "--punchline", ""}, "punchline must not be blank"},
		{"update blank punchline", []string{"update", "1", "--setup", "x", "--punchline", "\t"}, "punchline must not be blank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			require.Error(t, err)
			assert.False(t, IsFailed(err))
			assert.EqualError(t, err, tt.want)
		})
	}

	assert.Zero(t, env.server.Requests())
	assert.Len(t, env.server.Items(), 3)
}

func TestUpdateRejectsBadID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "update", "abc", "--setup", "a", "--punchline", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
}

func TestLogsAfterCommand(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "delete", "99")
	require.Error(t, err)

	out, err := env.run(t, "logs", "--grep", "DELETE")
	require.NoError(t, err)
	assert.Contains(t, out, "--> DELETE")
	assert.Contains(t, out, "collection delete failed")
	assert.NotContains(t, out, "--> GET")
}
