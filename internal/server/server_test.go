package server

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"github.com/vyk2rr/grip/internal/apperr"
	"github.com/vyk2rr/grip/internal/renderer"
	"github.com/vyk2rr/grip/internal/settings"
	"github.com/vyk2rr/grip/pkg/hash"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func testOptions(path string) Options {
	return Options{
		Path:     path,
		Settings: settings.Default(filepath.Join(os.TempDir(), "grip-test-home"), "test"),
		Renderer: renderer.NewOfflineRenderer(renderer.Options{}),
		Stderr:   io.Discard,
		Logger:   log.New(io.Discard),
	}
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "# Project\n\nHello.\n")
	writeFile(t, filepath.Join(dir, "docs", "guide.md"), "# Guide\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "plain notes")
	return dir
}

func get(t *testing.T, h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresRenderer(t *testing.T) {
	opts := testOptions(projectDir(t))
	opts.Renderer = nil
	if _, err := New(opts); err == nil {
		t.Fatal("New() without renderer should fail")
	}
}

func TestNewMissingSource(t *testing.T) {
	_, err := New(testOptions(filepath.Join(t.TempDir(), "missing.md")))
	if !apperr.IsValidation(err) {
		t.Fatalf("New() error = %v, want validation error", err)
	}
}

func TestRoutes(t *testing.T) {
	dir := projectDir(t)
	h := newTestServer(t, testOptions(dir)).routes()

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"root document", "/", http.StatusOK, "<h1 id=\"project\">Project</h1>"},
		{"nested document", "/docs/guide.md", http.StatusOK, "Guide"},
		{"directory without readme", "/docs", http.StatusNotFound, "No README found"},
		{"static file", "/notes.txt", http.StatusOK, "plain notes"},
		{"missing document", "/missing.md", http.StatusNotFound, "File not found"},
		{"stylesheet", styleURL, http.StatusOK, "markdown-body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("GET %s code = %d, want %d", tt.path, rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("GET %s body missing %q:\n%s", tt.path, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestPageOptions(t *testing.T) {
	opts := testOptions(projectDir(t))
	opts.Title = "Custom Title"
	opts.Wide = true
	opts.AutoRefresh = true
	rec := get(t, newTestServer(t, opts).routes(), "/", nil)

	body := rec.Body.String()
	for _, want := range []string{"<title>Custom Title</title>", "page wide", styleURL, "EventSource"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestPageWithoutAutoRefresh(t *testing.T) {
	s := newTestServer(t, testOptions(projectDir(t)))
	h := s.routes()

	if body := get(t, h, "/", nil).Body.String(); strings.Contains(body, "EventSource") {
		t.Error("page should not subscribe to refresh events")
	}
	if rec := get(t, h, refreshPrefix, nil); rec.Code != http.StatusNotFound {
		t.Errorf("refresh endpoint code = %d, want 404", rec.Code)
	}
}

func TestETag(t *testing.T) {
	h := newTestServer(t, testOptions(projectDir(t))).routes()

	first := get(t, h, "/", nil)
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("response has no ETag")
	}
	if first.Header().Get("Last-Modified") == "" {
		t.Error("response has no Last-Modified")
	}
	if etag != hash.ETag(first.Body.Bytes()) {
		t.Errorf("ETag = %s, want hash of body", etag)
	}

	second := get(t, h, "/", http.Header{"If-None-Match": {etag}})
	if second.Code != http.StatusNotModified {
		t.Errorf("conditional GET code = %d, want 304", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Errorf("304 response has a body")
	}
}

func TestStdinSource(t *testing.T) {
	opts := testOptions("-")
	opts.Stdin = strings.NewReader("# From stdin\n")
	h := newTestServer(t, opts).routes()

	rec := get(t, h, "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "From stdin") {
		t.Fatalf("GET / = %d %s", rec.Code, rec.Body.String())
	}
	if rec := get(t, h, "/other.md", nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET /other.md code = %d, want 404", rec.Code)
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, []byte) ([]byte, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestRenderFailure(t *testing.T) {
	opts := testOptions(projectDir(t))
	opts.Renderer = failingRenderer{}
	rec := get(t, newTestServer(t, opts).routes(), "/", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", rec.Code)
	}
}

func TestRefreshStream(t *testing.T) {
	dir := projectDir(t)
	opts := testOptions(dir)
	opts.AutoRefresh = true
	s := newTestServer(t, opts)

	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+refreshPrefix, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET refresh: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	events := bufio.NewReader(resp.Body)
	readEvent := func() string {
		t.Helper()
		for {
			line, err := events.ReadString('\n')
			if err != nil {
				t.Fatalf("read event: %v", err)
			}
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}

	if got, want := readEvent(), hash.Version([]byte("# Project\n\nHello.\n")); got != want {
		t.Fatalf("first event = %q, want %q", got, want)
	}

	updated := "# Project\n\nChanged.\n"
	writeFile(t, filepath.Join(dir, "README.md"), updated)
	s.hub.broadcast()

	if got, want := readEvent(), hash.Version([]byte(updated)); got != want {
		t.Errorf("event after change = %q, want %q", got, want)
	}
}

func TestHub(t *testing.T) {
	h := newHub()
	a, unsubA := h.subscribe()
	b, unsubB := h.subscribe()
	defer unsubB()

	h.broadcast()
	h.broadcast()

	for name, ch := range map[string]<-chan struct{}{"a": a, "b": b} {
		select {
		case <-ch:
		default:
			t.Errorf("subscriber %s not notified", name)
		}
		select {
		case <-ch:
			t.Errorf("subscriber %s holds more than one pending wake-up", name)
		default:
		}
	}

	unsubA()
	h.broadcast()
	select {
	case <-a:
		t.Error("unsubscribed channel notified")
	default:
	}
}

func TestWatcherBroadcastsChanges(t *testing.T) {
	dir := projectDir(t)
	h := newHub()
	changes, unsubscribe := h.subscribe()
	defer unsubscribe()

	w, err := newWatcher(dir, h, log.New(io.Discard))
	if err != nil {
		t.Fatalf("newWatcher() error = %v", err)
	}
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()

	writeFile(t, filepath.Join(dir, "docs", "guide.md"), "# Guide v2\n")

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("run() error = %v", err)
	}
}

func TestServeUntilCanceled(t *testing.T) {
	color.NoColor = true
	var stderr bytes.Buffer
	opts := testOptions(projectDir(t))
	opts.Stderr = &stderr
	s := newTestServer(t, opts)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln, "127.0.0.1") }()

	resp, err := http.Get("http://127.0.0.1:" + port + "/")
	if err != nil {
		cancel()
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / code = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve() did not stop after cancel")
	}

	if want := "Running on http://127.0.0.1:" + port + "/"; !strings.Contains(stderr.String(), want) {
		t.Errorf("stderr = %q, want %q", stderr.String(), want)
	}
}

func TestServeOpensBrowser(t *testing.T) {
	opts := testOptions(projectDir(t))
	opts.Browser = true
	opened := make(chan string, 1)
	opts.OpenBrowser = func(url string) error {
		opened <- url
		return nil
	}
	s := newTestServer(t, opts)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln, "127.0.0.1") }()

	select {
	case url := <-opened:
		if !strings.HasPrefix(url, "http://127.0.0.1:") {
			t.Errorf("opened %q", url)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("browser was not opened")
	}

	cancel()
	<-done
}

func TestRunInvalidPort(t *testing.T) {
	opts := testOptions(projectDir(t))
	opts.Port = "99999"
	err := newTestServer(t, opts).Run(context.Background())
	if !apperr.IsValidation(err) {
		t.Fatalf("Run() error = %v, want validation error", err)
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 6419, false},
		{"8080", 8080, false},
		{"0", 0, false},
		{"65536", 0, true},
		{"http", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePort(tt.in, 6419)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePort(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePort(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestListenBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	if !CheckPortInUse("127.0.0.1", port) {
		t.Error("CheckPortInUse() = false for a bound port")
	}

	_, err = listen("127.0.0.1", port)
	if !apperr.IsValidation(err) {
		t.Fatalf("listen() error = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "Port "+strconv.Itoa(port)+" is already in use") {
		t.Errorf("listen() error = %q", err)
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache-test")
	writeFile(t, filepath.Join(dir, "rendered", "abc.html"), "<p>x</p>")

	if err := ClearCache(dir); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("cache directory still exists: %v", err)
	}

	err := ClearCache(dir)
	if !apperr.IsValidation(err) || err.Error() != "No cache to clear" {
		t.Errorf("second ClearCache() error = %v", err)
	}
}
