package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moviebook/errs"
	"moviebook/movie"
)

// ErrNotFound is returned when the catalog has no movie for the given id.
var ErrNotFound = errs.Errorf(errs.ENOTFOUND, "catalog: movie not found")

// Client talks to the remote movie catalog over HTTP.
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
}

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// HTTPClient overrides the default transport, mostly for tests.
	HTTPClient *http.Client
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errs.Errorf(errs.EINVALID, "catalog: base url is required")
	}
	parsed, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("catalog: parse base url: %w", err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = newHTTPClient(opts.Timeout)
	}

	return &Client{
		baseURL: parsed,
		apiKey:  opts.APIKey,
		http:    hc,
	}, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          20,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}
}

// ListMovies fetches the whole catalog.
func (c *Client) ListMovies(ctx context.Context) ([]movie.RemoteMovie, error) {
	body, err := c.get(ctx, "/movies")
	if err != nil {
		return nil, err
	}

	var movies []movie.RemoteMovie
	if err := json.Unmarshal(body, &movies); err != nil {
		return nil, fmt.Errorf("catalog: decode movies: %w", err)
	}
	return movies, nil
}

// GetMovie fetches a single movie. A 404 or a null body yields ErrNotFound.
func (c *Client) GetMovie(ctx context.Context, id string) (movie.RemoteMovie, error) {
	body, err := c.get(ctx, "/movies/"+url.PathEscape(id))
	if err != nil {
		return movie.RemoteMovie{}, err
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return movie.RemoteMovie{}, ErrNotFound
	}

	var m movie.RemoteMovie
	if err := json.Unmarshal(body, &m); err != nil {
		return movie.RemoteMovie{}, fmt.Errorf("catalog: decode movie %q: %w", id, err)
	}
	return m, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+path, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errs.Errorf(errs.EUNAVAILABLE, "catalog: GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}
	return b, nil
}
