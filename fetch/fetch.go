// Package fetch is the outbound HTTP capability used by the platform adapters
// and the remux engine: page and API fetches with a short timeout, media
// transfers with a long one, and redirect resolution.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// maxPageBytes caps page and API bodies read into memory.
const maxPageBytes = 16 << 20

// Options configures a Client.
type Options struct {
	UserAgent      string
	AcceptLanguage string
	// Timeout bounds metadata fetches (pages, APIs, redirects).
	Timeout time.Duration
	// MediaTimeout bounds media transfers.
	MediaTimeout time.Duration
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// Client performs outbound fetches with the configured headers.
type Client struct {
	page  *http.Client
	media *http.Client
	opts  Options
}

// New builds a Client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MediaTimeout <= 0 {
		opts.MediaTimeout = 120 * time.Second
	}
	tr := opts.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}
	hdr := &headerTransport{base: tr, userAgent: opts.UserAgent, acceptLanguage: opts.AcceptLanguage}
	return &Client{
		page:  &http.Client{Timeout: opts.Timeout, Transport: hdr},
		media: &http.Client{Timeout: opts.MediaTimeout, Transport: hdr},
		opts:  opts,
	}
}

// HTTPClient returns the metadata client, for API clients that need one.
func (c *Client) HTTPClient() *http.Client { return c.page }

// StatusError is a non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}

// Get returns the body of url.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, c.page, url)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}

// Document fetches url and parses it as HTML, honouring the declared charset.
func (c *Client) Document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.do(ctx, c.page, url)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)
	r, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// Resolve follows redirects from url and returns the final location. The final
// status is ignored and the body is not read; only transport failures are
// errors.
func (c *Client) Resolve(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.page.Do(req)
	if err != nil {
		return "", err
	}
	closeBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("resolve ended on non-2xx status", slog.String("url", url), slog.Int("status", resp.StatusCode), slog.String("component", "fetch"))
	}
	return resp.Request.URL.String(), nil
}

// Download streams url into dst, creating or truncating it, and returns the
// number of bytes written. An empty body is an error. On failure dst may exist
// and the caller remains responsible for removing it.
func (c *Client) Download(ctx context.Context, url, dst string) (int64, error) {
	resp, err := c.do(ctx, c.media, url)
	if err != nil {
		return 0, err
	}
	defer closeBody(resp)
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", dst, err)
	}
	if n == 0 {
		return 0, errors.New("empty response body")
	}
	slog.Debug("download complete", slog.String("url", url), slog.String("path", dst), slog.Int64("bytes", n), slog.String("component", "fetch"))
	return n, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		closeBody(resp)
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}
	return resp, nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		slog.Warn("failed to close response body", slog.Any("err", err))
	}
}

// headerTransport sets the configured browser-like headers on every request
// that does not carry its own.
type headerTransport struct {
	base           http.RoundTripper
	userAgent      string
	acceptLanguage string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if (t.userAgent != "" && req.Header.Get("User-Agent") == "") || (t.acceptLanguage != "" && req.Header.Get("Accept-Language") == "") {
		req = req.Clone(req.Context())
		if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", t.userAgent)
		}
		if t.acceptLanguage != "" && req.Header.Get("Accept-Language") == "" {
			req.Header.Set("Accept-Language", t.acceptLanguage)
		}
	}
	return t.base.RoundTrip(req)
}
