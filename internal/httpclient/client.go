// Package httpclient is the single outbound HTTP path of wd.
//
// Every remote call (MediaWiki API, SPARQL endpoint, textifier, vector
// search) goes through Client.GetJSON, which applies the configured timeout,
// User-Agent, optional request pacing, and SSRF checks, and turns non-2xx
// responses into *RemoteError.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/internal/util"
	"github.com/teranos/wd/logger"
	"golang.org/x/time/rate"
)

// MaxErrorBodyBytes caps how much of a failing response body is kept
const MaxErrorBodyBytes = 1 << 16

// Options configures a Client
type Options struct {
	Timeout           time.Duration // per request, including body read
	UserAgent         string
	RequestsPerSecond float64  // 0 disables pacing
	BlockPrivateIP    bool     // reject loopback/private targets
	AllowedSchemes    []string // Default: ["http", "https"]
	MaxRedirects      *int     // Default: 10

	// HTTPClient replaces the underlying transport client (tests)
	HTTPClient *http.Client
}

// Client wraps http.Client with SSRF protection, pacing, and JSON decoding
type Client struct {
	http           *http.Client
	timeout        time.Duration
	userAgent      string
	limiter        *rate.Limiter
	allowedSchemes []string
	blockPrivateIP bool
	maxRedirects   int
}

// RemoteError is returned when a service answers with HTTP status >= 400
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote service returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("remote service returned HTTP %d: %s", e.StatusCode, e.Body)
}

// New creates a Client from options
func New(opts Options) *Client {
	client := &Client{
		timeout:        opts.Timeout,
		userAgent:      strings.TrimSpace(opts.UserAgent),
		allowedSchemes: []string{"http", "https"},
		blockPrivateIP: opts.BlockPrivateIP,
		maxRedirects:   10,
	}
	if opts.AllowedSchemes != nil {
		client.allowedSchemes = opts.AllowedSchemes
	}
	if opts.MaxRedirects != nil {
		client.maxRedirects = *opts.MaxRedirects
	}
	if opts.RequestsPerSecond > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	if opts.HTTPClient != nil {
		client.http = opts.HTTPClient
	} else {
		client.http = &http.Client{}
		if client.blockPrivateIP {
			client.http.Transport = guardedTransport()
		}
	}

	// Set up redirect policy with SSRF protection
	client.http.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= client.maxRedirects {
			return errors.Newf("stopped after %d redirects", client.maxRedirects)
		}
		if err := client.validateURL(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	return client
}

// guardedTransport resolves the target host and refuses private addresses at
// dial time, which also covers DNS rebinding.
func guardedTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, errors.Wrap(err, "invalid address")
			}

			ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to resolve host %q", host)
			}
			for _, ip := range ips {
				if isPrivateIP(ip) {
					return nil, errors.Newf("private IP address blocked: %s", ip)
				}
			}

			return dialer.DialContext(ctx, network, addr)
		},
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// ValidateURL parses and checks a URL string against the client's policy
func (c *Client) ValidateURL(urlStr string) (*url.URL, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid URL"), errors.ErrInvalidRequest)
	}
	if err := c.validateURL(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) validateURL(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	allowed := false
	for _, allowedScheme := range c.allowedSchemes {
		if scheme == allowedScheme {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.NewInvalidRequestError("scheme %q not allowed (allowed: %v)", scheme, c.allowedSchemes)
	}

	// http://evil.com@localhost/ style confusion
	if u.User != nil {
		return errors.NewInvalidRequestError("URL contains credentials (potential SSRF attempt)")
	}

	hostname := u.Hostname()
	if hostname == "" {
		return errors.NewInvalidRequestError("URL missing hostname")
	}

	if c.blockPrivateIP {
		if isLocalhost(hostname) {
			return errors.NewInvalidRequestError("localhost access blocked")
		}
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return errors.NewInvalidRequestError("private IP address blocked: %s", hostname)
		}
	}

	return nil
}

// Do executes a request after the URL policy check and the rate limiter
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.validateURL(req.URL); err != nil {
		return nil, errors.Wrap(err, "request blocked by SSRF protection")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "rate limiter wait"), errors.ErrTransport)
		}
	}
	return c.http.Do(req)
}

// GetJSON sends a GET to endpoint with params, and decodes the JSON body into
// out. Blank header values are skipped.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, headers map[string]string, out any) error {
	u, err := c.ValidateURL(endpoint)
	if err != nil {
		return err
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to build request"), errors.ErrInvalidRequest)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, value := range headers {
		if strings.TrimSpace(value) == "" {
			continue
		}
		req.Header.Set(key, value)
	}

	log := logger.LoggerFromContext(ctx, "http")
	start := time.Now()

	resp, err := c.Do(req)
	if err != nil {
		log.Debugw("request failed",
			logger.FieldMethod, http.MethodGet,
			logger.FieldURL, redact(u),
			logger.FieldError, err.Error())
		if errors.IsInvalidRequestError(err) {
			return err
		}
		return errors.Mark(errors.Wrapf(err, "GET %s", u.Host), errors.ErrTransport)
	}
	defer resp.Body.Close()

	if logger.ShouldOutput(logger.Verbosity, logger.OutputHTTPCalls) {
		fields := []interface{}{
			logger.FieldMethod, http.MethodGet,
			logger.FieldURL, redact(u),
			logger.FieldStatus, resp.StatusCode,
		}
		if logger.ShouldOutput(logger.Verbosity, logger.OutputTiming) {
			fields = append(fields, logger.FieldDurationMS, time.Since(start).Milliseconds())
		}
		log.Debugw("request", fields...)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodyBytes))
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Body:       util.TruncateBytes(strings.TrimSpace(string(body)), MaxErrorBodyBytes),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to read response body"), errors.ErrTransport)
	}
	if logger.ShouldOutput(logger.Verbosity, logger.OutputResponseBody) {
		log.Debugw("response body", logger.FieldURL, redact(u), logger.FieldBody, util.TruncateBytes(string(body), 2048))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to decode response from %s", u.Host), errors.ErrDecode)
	}
	return nil
}

// AsRemoteError extracts a *RemoteError from an error chain
func AsRemoteError(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote, true
	}
	return nil, false
}

// redact drops the query string, which can hold user queries or secrets
func redact(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	return clean.String()
}
