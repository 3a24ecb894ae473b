package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "folio/1.0"
	maxDocumentBytes = 10 << 20
)

// HTTP implements Source by issuing GET requests against a base URL.
type HTTP struct {
	base     *url.URL
	client   *http.Client
	maxBytes int64
}

// NewHTTP creates an HTTP source. A non-positive timeout uses the default.
func NewHTTP(baseURL string, timeout time.Duration) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("storage: unsupported scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTP{base: u, client: &http.Client{Timeout: timeout}, maxBytes: maxDocumentBytes}, nil
}

// Read fetches path relative to the base URL.
func (h *HTTP) Read(ctx context.Context, path string) ([]byte, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("storage: parse path %s: %w", path, err)
	}
	target := h.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("storage: create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Path: path, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("storage: read body %s: %w", path, err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, &TooLargeError{Path: path, Limit: h.maxBytes}
	}
	return data, nil
}
