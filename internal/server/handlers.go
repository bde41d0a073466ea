package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vyk2rr/grip/internal/apperr"
	"github.com/vyk2rr/grip/internal/reader"
	"github.com/vyk2rr/grip/internal/renderer"
	"github.com/vyk2rr/grip/pkg/hash"
)

const (
	styleURL      = "/__/grip/static/style.css"
	refreshPrefix = "/__/grip/refresh/"
	keepAlive     = 15 * time.Second
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+styleURL, s.handleStyle)
	mux.HandleFunc("GET "+refreshPrefix+"{path...}", s.handleRefresh)
	mux.HandleFunc("GET /{path...}", s.handlePage)
	return s.logRequests(mux)
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(renderer.Stylesheet()))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	subpath := r.PathValue("path")

	if subpath != "" {
		dr, ok := s.src.(*reader.DirectoryReader)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if !dr.IsMarkdown(subpath) {
			http.FileServer(http.Dir(dr.Dir())).ServeHTTP(w, r)
			return
		}
	}

	page, err := s.renderPage(r, subpath)
	if err != nil {
		if apperr.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.logger.Error("render failed", "path", r.URL.Path, "err", err)
		http.Error(w, "Error rendering "+r.URL.Path, http.StatusInternalServerError)
		return
	}

	etag := hash.ETag(page)
	w.Header().Set("ETag", etag)
	if modified, err := s.src.LastUpdated(subpath); err == nil && !modified.IsZero() {
		w.Header().Set("Last-Modified", modified.UTC().Format(http.TimeFormat))
	}
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) renderPage(r *http.Request, subpath string) ([]byte, error) {
	text, err := s.src.Read(subpath)
	if err != nil {
		return nil, err
	}

	content, err := s.opts.Renderer.Render(r.Context(), text)
	if err != nil {
		return nil, err
	}

	page := renderer.Page{
		Title:       renderer.PageTitle(s.opts.Title, s.src.Filename(subpath)),
		Filename:    s.src.Filename(subpath),
		Content:     content,
		Wide:        s.opts.Wide,
		UserContent: s.opts.UserContent,
		StyleURL:    styleURL,
	}
	if s.opts.AutoRefresh {
		page.RefreshURL = refreshPrefix + subpath
	}

	var buf bytes.Buffer
	if err := renderer.WritePage(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// handleRefresh streams a fingerprint of the document as server-sent
// events: once on connect and again whenever it changes.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.opts.AutoRefresh {
		http.NotFound(w, r)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	subpath := r.PathValue("path")
	version, err := s.version(subpath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	changes, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	fmt.Fprintf(w, "data: %s\n\n", version)
	flusher.Flush()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-changes:
			next, err := s.version(subpath)
			if err != nil || next == version {
				continue
			}
			version = next
			s.logger.Info("refreshing", "path", "/"+subpath)
			fmt.Fprintf(w, "data: %s\n\n", version)
			flusher.Flush()
		}
	}
}

// version fingerprints the raw markdown at subpath.
func (s *Server) version(subpath string) (string, error) {
	text, err := s.src.Read(strings.Trim(subpath, "/"))
	if err != nil {
		return "", err
	}
	return hash.Version(text), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if strings.HasPrefix(r.URL.Path, refreshPrefix) {
			s.logger.Debug("refresh stream closed", "path", r.URL.Path)
			return
		}
		s.logger.Info(r.Method+" "+r.URL.Path, "status", rec.status, "duration", time.Since(start).Round(time.Microsecond))
	})
}
