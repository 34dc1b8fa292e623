package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/teranos/wd/am"
	"github.com/teranos/wd/version"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// fakeWikidata routes the four remote services by path on one server
type fakeWikidata struct {
	server    *httptest.Server
	api       http.HandlerFunc
	sparql    http.HandlerFunc
	textifier http.HandlerFunc
	vector    http.HandlerFunc
}

func newFakeWikidata(t *testing.T) *fakeWikidata {
	t.Helper()
	f := &fakeWikidata{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
	}))
	t.Cleanup(f.server.Close)
	return f
}

// endpointFlags points every service flag at the fake server
func (f *fakeWikidata) endpointFlags() []string {
	return []string{
		"--wikidata-api-url=" + f.server.URL + "/w/api.php",
		"--wikidata-query-url=" + f.server.URL + "/sparql",
		"--textifier-url=" + f.server.URL + "/textify",
		"--vector-search-url=" + f.server.URL + "/vector/",
	}
}

// harness runs the command tree against an isolated config environment
type harness struct {
	t      *testing.T
	env    map[string]string
	home   string
	work   string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		t:    t,
		env:  map[string]string{},
		home: t.TempDir(),
		work: t.TempDir(),
	}
}

func (h *harness) options() Options {
	transport := &http.Transport{}
	h.t.Cleanup(transport.CloseIdleConnections)

	return Options{
		Stdout:  &h.stdout,
		Stderr:  &h.stderr,
		Version: version.New("1.2.3", "abc1234", "2026-02-24"),
		Config: am.LoadOptions{
			Getenv:    func(key string) string { return h.env[key] },
			HomeDir:   h.home,
			WorkDir:   h.work,
			SystemDir: h.t.TempDir(),
		},
		HTTPClient: &http.Client{Transport: transport},
		Clock:      func() time.Time { return time.Date(2026, 2, 24, 12, 0, 0, 0, time.UTC) },
	}
}

// run executes wd with args and returns stdout
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	err := Execute(context.Background(), h.options(), args)
	return h.stdout.String(), err
}

// runAgainst executes wd with the endpoint flags of f appended
func (h *harness) runAgainst(f *fakeWikidata, args ...string) (string, error) {
	h.t.Helper()
	return h.run(append(args, f.endpointFlags()...)...)
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}
