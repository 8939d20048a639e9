package jokesapi

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LogLevel selects how much of each exchange the logging transport records.
type LogLevel int

const (
	LogNone LogLevel = iota
	LogBasic
	LogHeaders
	LogBody
)

// ParseLogLevel maps a config value onto a LogLevel. Blank means LogBasic.
func ParseLogLevel(value string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "basic":
		return LogBasic, nil
	case "none", "off":
		return LogNone, nil
	case "headers":
		return LogHeaders, nil
	case "body":
		return LogBody, nil
	default:
		return LogNone, fmt.Errorf("unknown http log level %q", value)
	}
}

func (l LogLevel) String() string {
	switch l {
	case LogNone:
		return "none"
	case LogBasic:
		return "basic"
	case LogHeaders:
		return "headers"
	case LogBody:
		return "body"
	default:
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
}

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const maxLoggedBody = 4 << 10

// NewTransport wraps next with request-id tagging and exchange logging.
// A nil next uses http.DefaultTransport.
func NewTransport(next http.RoundTripper, level LogLevel) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	rt := next
	if level != LogNone {
		rt = &loggingTransport{next: next, level: level, logf: log.Printf}
	}
	return requestIDTransport{next: rt}
}

type requestIDTransport struct {
	next http.RoundTripper
}

func (t requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set(RequestIDHeader, uuid.NewString())
	return t.next.RoundTrip(clone)
}

type loggingTransport struct {
	next  http.RoundTripper
	level LogLevel
	logf  func(format string, args ...any)
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.level >= LogBody && req.Body != nil {
		raw, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		req = req.Clone(req.Context())
		req.Body = io.NopCloser(bytes.NewReader(raw))
		t.logf("--> %s %s [%s] (%d-byte body) %s", req.Method, req.URL, req.Header.Get(RequestIDHeader), len(raw), clip(raw))
	} else {
		t.logf("--> %s %s [%s]", req.Method, req.URL, req.Header.Get(RequestIDHeader))
	}
	if t.level >= LogHeaders {
		t.logHeaders(req.Header)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		t.logf("<-- HTTP FAILED %s %s (%s): %v", req.Method, req.URL, elapsed, err)
		return nil, err
	}

	if t.level >= LogHeaders {
		t.logHeaders(resp.Header)
	}
	if t.level >= LogBody && resp.Body != nil {
		raw, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(raw))
		if readErr != nil {
			t.logf("<-- %d %s (%s) body read failed: %v", resp.StatusCode, req.URL, elapsed, readErr)
			return resp, nil
		}
		t.logf("<-- %d %s (%s, %d-byte body) %s", resp.StatusCode, req.URL, elapsed, len(raw), clip(raw))
		return resp, nil
	}
	t.logf("<-- %d %s (%s)", resp.StatusCode, req.URL, elapsed)
	return resp, nil
}

func (t *loggingTransport) logHeaders(h http.Header) {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.logf("    %s: %s", name, strings.Join(h.Values(name), ", "))
	}
}

func clip(raw []byte) string {
	if len(raw) > maxLoggedBody {
		return string(raw[:maxLoggedBody]) + "..."
	}
	return string(raw)
}
