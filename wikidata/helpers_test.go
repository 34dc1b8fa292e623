package wikidata

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teranos/wd/am"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// fakeServices stands in for the MediaWiki API, SPARQL endpoint, textifier,
// and vector search on one httptest server, routed by path.
type fakeServices struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	requests []*http.Request

	api       http.HandlerFunc
	sparql    http.HandlerFunc
	textifier http.HandlerFunc
	vector    http.HandlerFunc
}

func newFakeServices(t *testing.T) *fakeServices {
	t.Helper()
	f := &fakeServices{t: t}
	f.server = httptest.NewServer(http.HandlerFunc(f.route))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeServices) route(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	f.mu.Unlock()

	var handler http.HandlerFunc
	switch {
	case r.URL.Path == "/w/api.php":
		handler = f.api
	case r.URL.Path == "/sparql":
		handler = f.sparql
	case r.URL.Path == "/textify":
		handler = f.textifier
	case strings.HasPrefix(r.URL.Path, "/vector/"):
		handler = f.vector
	}
	if handler == nil {
		http.Error(w, "unexpected request to "+r.URL.Path, http.StatusNotFound)
		return
	}
	handler(w, r)
}

// requestsTo returns the recorded requests whose path has the given prefix
func (f *fakeServices) requestsTo(prefix string) []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*http.Request
	for _, r := range f.requests {
		if strings.HasPrefix(r.URL.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeServices) config() am.Config {
	return am.Config{
		Endpoints: am.EndpointsConfig{
			APIURL:          f.server.URL + "/w/api.php",
			QueryURL:        f.server.URL + "/sparql",
			TextifierURL:    f.server.URL + "/textify",
			VectorSearchURL: f.server.URL + "/vector/",
		},
		Request: am.RequestConfig{
			TimeoutSeconds: 5,
			UserAgent:      "wd-test/1.0",
		},
		Output: am.OutputConfig{Format: am.FormatText},
	}
}

func (f *fakeServices) client(opts ...Option) *Client {
	return f.clientWithConfig(f.config(), opts...)
}

func (f *fakeServices) clientWithConfig(cfg am.Config, opts ...Option) *Client {
	f.t.Helper()
	transport := &http.Transport{}
	f.t.Cleanup(transport.CloseIdleConnections)

	opts = append([]Option{WithHTTPClient(&http.Client{Transport: transport})}, opts...)
	client, err := NewClient(cfg, opts...)
	require.NoError(f.t, err)
	return client
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func statusHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, body, status)
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 2, 24, 12, 0, 0, 0, time.UTC)
}
