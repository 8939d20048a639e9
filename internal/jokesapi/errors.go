package jokesapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Kind classifies a failed collection request.
type Kind int

const (
	// KindTransport covers dial failures, non-2xx replies and undecodable bodies.
	KindTransport Kind = iota + 1
	// KindNotFound means the server has no record with the requested id.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// ErrNotFound matches any *Error of KindNotFound via errors.Is.
var ErrNotFound = errors.New("joke not found")

// Error is returned by every Client operation.
type Error struct {
	Kind   Kind
	Op     string // list, create, update, delete
	Status int    // HTTP status, zero when no response arrived
	// Message is the server's own description of the failure, the status line
	// for a bodiless non-404 reply, or the network error text when no response
	// arrived. A 404 without a description leaves it empty.
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("jokes api ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) succeed for not-found failures.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// Description returns the human-readable failure text shown to users.
func (e *Error) Description() string {
	return strings.TrimSpace(e.Message)
}

// IsNotFound reports whether err signals a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransport reports whether err is a transport-level collection failure.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransport
}

const maxPlainMessage = 200

// statusMessage renders a status the way an HTTP status line does, e.g.
// "HTTP 500 Internal Server Error".
func statusMessage(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("HTTP %d %s", code, text)
	}
	return fmt.Sprintf("HTTP %d", code)
}

// serverMessage extracts a description from an error response body. JSON
// bodies are searched for the usual detail fields; short plain-text bodies
// are used as-is. HTML pages and anything else yield "".
func serverMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "{") {
		var payload map[string]any
		if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
			return ""
		}
		for _, key := range []string{"detail", "message", "error"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}
	if strings.HasPrefix(trimmed, "<") || strings.Contains(trimmed, "\n") {
		return ""
	}
	if utf8.RuneCountInString(trimmed) > maxPlainMessage {
		return ""
	}
	return trimmed
}
