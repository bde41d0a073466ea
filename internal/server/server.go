// Package server runs grip's local preview server.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vyk2rr/grip/internal/apperr"
	"github.com/vyk2rr/grip/internal/browser"
	"github.com/vyk2rr/grip/internal/reader"
	"github.com/vyk2rr/grip/internal/renderer"
	"github.com/vyk2rr/grip/internal/settings"
	"github.com/vyk2rr/grip/internal/ui"
)

const shutdownTimeout = 5 * time.Second

// Options configures one preview server.
type Options struct {
	// Path is the file or directory to preview, "-" for stdin, "" for the
	// current directory.
	Path string
	// Host and Port override the configured listen address when non-empty.
	Host string
	Port string

	UserContent bool
	Wide        bool
	Title       string
	Browser     bool
	AutoRefresh bool

	Settings *settings.Settings
	Renderer renderer.Renderer

	Stdin  io.Reader
	Stderr io.Writer
	Logger *log.Logger
	// OpenBrowser replaces the platform browser launcher.
	OpenBrowser browser.Opener
}

// Server serves rendered markdown over HTTP.
type Server struct {
	opts   Options
	src    reader.Reader
	hub    *hub
	logger *log.Logger
}

// New validates opts and prepares a server. Source problems, such as a
// missing README, are reported as validation errors.
func New(opts Options) (*Server, error) {
	if opts.Settings == nil {
		opts.Settings = settings.Default("", "")
	}
	if opts.Renderer == nil {
		return nil, errors.New("server: renderer is required")
	}

	src, err := reader.New(opts.Path, opts.Stdin)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(opts.Stderr, opts.Settings.Debug)
	}

	return &Server{opts: opts, src: src, hub: newHub(), logger: logger}, nil
}

// NewLogger returns the request logger used by the server.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "grip",
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Serve previews opts until ctx is canceled.
func Serve(ctx context.Context, opts Options) error {
	s, err := New(opts)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// Run binds the listen address and blocks until ctx is canceled or the
// server fails.
func (s *Server) Run(ctx context.Context) error {
	host := s.opts.Host
	if host == "" {
		host = s.opts.Settings.Host
	}
	port, err := parsePort(s.opts.Port, s.opts.Settings.Port)
	if err != nil {
		return err
	}

	ln, err := listen(host, port)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln, host)
}

func (s *Server) serve(ctx context.Context, ln net.Listener, host string) error {
	g, gctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	_, port, _ := net.SplitHostPort(ln.Addr().String())
	url := fmt.Sprintf("http://%s/", net.JoinHostPort(host, port))

	if !s.opts.Settings.Quiet {
		ui.New(s.opts.Stderr).Info("Running on %s (Press CTRL+C to quit)", url)
	}

	g.Go(func() error {
		err := httpServer.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if s.opts.AutoRefresh && s.src.Dir() != "" {
		w, err := newWatcher(s.src.Dir(), s.hub, s.logger)
		if err != nil {
			s.logger.Warn("auto-refresh disabled", "err", err)
		} else {
			g.Go(func() error { return w.run(gctx) })
		}
	}

	if s.opts.Browser {
		g.Go(func() error {
			if err := browser.OpenWhenReady(gctx, url, s.opts.OpenBrowser); err != nil && gctx.Err() == nil {
				s.logger.Warn("could not open browser", "err", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// ClearCache removes the render cache directory.
func ClearCache(cacheDir string) error {
	if cacheDir == "" {
		return apperr.Invalid("No cache to clear")
	}
	info, err := os.Stat(cacheDir)
	if err != nil || !info.IsDir() {
		return apperr.Invalid("No cache to clear")
	}
	if err := os.RemoveAll(cacheDir); err != nil {
		return fmt.Errorf("clear cache %s: %w", cacheDir, err)
	}
	return nil
}
