// Package apitest provides typed test helpers for routers built with package
// api.
package apitest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Client wraps an httptest.Server for convenient API testing.
type Client struct {
	Server *httptest.Server
}

// NewClient starts a test server for h, closed when the test ends.
func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a decoded API response. Body is nil when the payload does
// not decode into Resp; Raw always holds the bytes received.
type Response[T any] struct {
	Status  int
	Headers http.Header
	Body    *T
	Raw     []byte
}

// Get sends a GET request and decodes the JSON response into Resp.
func Get[Resp any](t testing.TB, c *Client, path string, headers ...http.Header) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodGet, path, headers)
}

// Do sends a request with an arbitrary method and no body.
func Do[Resp any](t testing.TB, c *Client, method, path string, headers ...http.Header) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, method, path, headers)
}

func do[Resp any](t testing.TB, c *Client, method, path string, headers []http.Header) *Response[Resp] {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("apitest: create request: %v", err)
	}
	for _, h := range headers {
		for k, vs := range h {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}

	resp, err := c.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("apitest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("apitest: close body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("apitest: read body: %v", err)
	}

	result := &Response[Resp]{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Raw:     raw,
	}

	if len(raw) > 0 {
		var decoded Resp
		if json.Unmarshal(raw, &decoded) == nil {
			result.Body = &decoded
		}
	}

	return result
}
