// Package redditapi is a minimal client for the Reddit submission API using an
// application-only (client credentials) OAuth token.
package redditapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultBaseURL  = "https://oauth.reddit.com"
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
)

// ErrNotFound is returned when the API knows no submission for the query.
var ErrNotFound = errors.New("submission not found")

// Config configures a Client.
type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	// BaseURL and TokenURL default to the public Reddit endpoints.
	BaseURL  string
	TokenURL string
	Timeout  time.Duration
	// Transport is the underlying round tripper (default http.DefaultTransport).
	Transport http.RoundTripper
}

// Client queries submissions.
type Client struct {
	http *http.Client
	base string
}

// New returns a client that fetches and refreshes its app token on demand.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	// Reddit rejects requests without a descriptive User-Agent, including
	// the token request itself.
	ua := &uaTransport{ua: cfg.UserAgent, next: base}
	tokenHTTP := &http.Client{Transport: ua, Timeout: cfg.Timeout}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, tokenHTTP)
	hc := &http.Client{
		Transport: &oauth2.Transport{Source: cc.TokenSource(ctx), Base: ua},
		Timeout:   cfg.Timeout,
	}
	return &Client{http: hc, base: strings.TrimRight(cfg.BaseURL, "/")}
}

type uaTransport struct {
	ua   string
	next http.RoundTripper
}

func (t *uaTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.ua != "" {
		r = r.Clone(r.Context())
		r.Header.Set("User-Agent", t.ua)
	}
	return t.next.RoundTrip(r)
}

// SubmissionByID looks a submission up by its base36 id.
func (c *Client) SubmissionByID(ctx context.Context, id string) (*Submission, error) {
	if id == "" {
		return nil, fmt.Errorf("id empty")
	}
	q := url.Values{}
	q.Set("id", "t3_"+id)
	return c.info(ctx, q)
}

// SubmissionByURL looks a submission up by its permalink.
func (c *Client) SubmissionByURL(ctx context.Context, link string) (*Submission, error) {
	if link == "" {
		return nil, fmt.Errorf("url empty")
	}
	if id, ok := ParseID(link); ok {
		return c.SubmissionByID(ctx, id)
	}
	q := url.Values{}
	q.Set("url", link)
	return c.info(ctx, q)
}

func (c *Client) info(ctx context.Context, q url.Values) (*Submission, error) {
	q.Set("raw_json", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/info?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("reddit api %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	var body listing
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	for _, ch := range body.Data.Children {
		if ch.Kind == "t3" {
			s := ch.Data
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

var commentsID = regexp.MustCompile(`(?i)/comments/([a-z0-9]+)`)

// ParseID extracts the submission id from a canonical permalink.
func ParseID(link string) (string, bool) {
	m := commentsID.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}
