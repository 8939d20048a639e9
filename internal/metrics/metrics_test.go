package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comteq/jokes/internal/collection"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector()
	require.NotNil(t, c)
	assert.NotNil(t, c.Registry())

	// Independent registries: a second collector must not panic on
	// duplicate registration.
	assert.NotPanics(t, func() { NewCollector() })
}

func TestIntentLifecycle(t *testing.T) {
	c := NewCollector()

	c.IntentStarted(collection.IntentLoad)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inFlight))

	c.IntentFinished(collection.IntentLoad, collection.OutcomeLoaded, 120*time.Millisecond)
	c.CollectionSize(3)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.intents.WithLabelValues("load", "loaded")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.items))

	c.IntentStarted(collection.IntentDelete)
	c.IntentFinished(collection.IntentDelete, collection.OutcomeFailed, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.intents.WithLabelValues("delete", "failed")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.intentDuration))
}

func TestInstrumentTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(server.Close)

	c := NewCollector()
	client := &http.Client{Transport: c.InstrumentTransport(nil)}

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/1", nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("200", "get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("404", "delete")))
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.IntentStarted(collection.IntentAdd)
	c.IntentFinished(collection.IntentAdd, collection.OutcomeLoaded, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `jokes_intents_total{intent="add",outcome="loaded"} 1`)
	assert.Contains(t, body, "jokes_intents_in_flight 0")
	assert.Contains(t, body, "go_goroutines")
}

func TestServe(t *testing.T) {
	c := NewCollector()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.True(t, strings.Contains(string(raw), "jokes_collection_items"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}
