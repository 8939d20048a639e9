package jokesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public jokes server.
	DefaultBaseURL = "https://programmingwizards.tech/"
	// DefaultCollectionPath is the collection resource relative to the base URL.
	DefaultCollectionPath = "jokes_api/"

	defaultUserAgent = "jokes/0.1"
	defaultTimeout   = 10 * time.Second
	maxErrorBody     = 64 << 10
)

// Options configure a Client. Zero values use the defaults above.
type Options struct {
	BaseURL        string
	CollectionPath string
	Timeout        time.Duration
	Transport      http.RoundTripper
	UserAgent      string
}

// Client talks to the jokes collection over HTTP. Each call is single-shot;
// nothing is retried.
type Client struct {
	baseURL    *url.URL
	collection string
	http       *http.Client
	userAgent  string
}

// NewClient builds a Client for the configured server.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:    base,
		collection: normalizeCollectionPath(opts.CollectionPath),
		http: &http.Client{
			Timeout:   timeout,
			Transport: opts.Transport,
		},
		userAgent: userAgent,
	}, nil
}

// CollectionURL returns the absolute URL of the collection resource.
func (c *Client) CollectionURL() string {
	return c.baseURL.ResolveReference(&url.URL{Path: c.collection}).String()
}

// ListAll retrieves every record in server order.
func (c *Client) ListAll(ctx context.Context) ([]Joke, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Joke
	if err := c.do(ctx, "list", http.MethodGet, c.collection, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Create stores a new record and returns it with the server-assigned id.
func (c *Client) Create(ctx context.Context, joke Joke) (Joke, error) {
	if c == nil {
		return Joke{}, fmt.Errorf("client is nil")
	}
	joke.ID = nil
	var created Joke
	if err := c.do(ctx, "create", http.MethodPost, c.collection, joke, &created); err != nil {
		return Joke{}, err
	}
	return created, nil
}

// Update replaces the record with the given id.
func (c *Client) Update(ctx context.Context, id int64, joke Joke) (Joke, error) {
	if c == nil {
		return Joke{}, fmt.Errorf("client is nil")
	}
	joke = joke.WithID(id)
	var updated Joke
	if err := c.do(ctx, "update", http.MethodPut, c.itemPath(id), joke, &updated); err != nil {
		return Joke{}, err
	}
	if !updated.HasID() {
		updated = updated.WithID(id)
	}
	return updated, nil
}

// Delete removes the record with the given id and returns what the server
// echoed back. Servers replying 204 yield a record carrying only the id.
func (c *Client) Delete(ctx context.Context, id int64) (Joke, error) {
	if c == nil {
		return Joke{}, fmt.Errorf("client is nil")
	}
	var deleted Joke
	if err := c.do(ctx, "delete", http.MethodDelete, c.itemPath(id), nil, &deleted); err != nil {
		return Joke{}, err
	}
	if !deleted.HasID() {
		deleted = deleted.WithID(id)
	}
	return deleted, nil
}

func (c *Client) itemPath(id int64) string {
	return c.collection + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{
			Kind:    KindTransport,
			Op:      op,
			Message: err.Error(),
			Err:     fmt.Errorf("execute request: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		kind := KindTransport
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		message := serverMessage(raw)
		if message == "" && kind == KindTransport {
			message = statusMessage(resp.StatusCode)
		}
		return &Error{
			Kind:    kind,
			Op:      op,
			Status:  resp.StatusCode,
			Message: message,
			Err:     fmt.Errorf("api %s %s returned status %d", method, reqURL.Path, resp.StatusCode),
		}
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		wrapped := fmt.Errorf("decode response: %w", err)
		return &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, Message: wrapped.Error(), Err: wrapped}
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base_url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func normalizeCollectionPath(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		trimmed = strings.TrimSuffix(DefaultCollectionPath, "/")
	}
	return trimmed + "/"
}
