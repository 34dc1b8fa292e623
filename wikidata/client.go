// Package wikidata turns queries into lookups against Wikidata, the
// statement textifier, and the vector search service, and shapes the raw
// responses into search results, disambiguation candidates, hierarchies,
// profiles, and statement text.
package wikidata

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/teranos/wd/am"
	"github.com/teranos/wd/internal/httpclient"
)

// DefaultLimit is used when a caller passes limit <= 0
const DefaultLimit = 10

// DefaultLang is used when a caller passes a blank language code
const DefaultLang = "en"

// Client issues requests against the configured services. A Client holds no
// per-request state and is built once per invocation.
type Client struct {
	cfg  am.Config
	http *httpclient.Client
	now  func() time.Time
}

// Option customizes a Client
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	now        func() time.Time
}

// WithHTTPClient replaces the transport-level client (tests)
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithClock replaces the clock used for profile timestamps
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) { o.now = now }
}

// NewClient validates cfg and returns a Client for it
func NewClient(cfg am.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := clientOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		cfg: cfg,
		http: httpclient.New(httpclient.Options{
			Timeout:           cfg.Timeout(),
			UserAgent:         cfg.Request.UserAgent,
			RequestsPerSecond: cfg.Request.RequestsPerSecond,
			BlockPrivateIP:    cfg.Request.BlockPrivateIPs,
			HTTPClient:        options.httpClient,
		}),
		now: options.now,
	}, nil
}

// Config returns the configuration the client was built with
func (c *Client) Config() am.Config {
	return c.cfg
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, headers map[string]string, out any) error {
	return c.http.GetJSON(ctx, endpoint, params, headers, out)
}
