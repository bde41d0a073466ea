package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vyk2rr/grip/internal/cli"
	"github.com/vyk2rr/grip/internal/exporter"
	"github.com/vyk2rr/grip/internal/git"
	"github.com/vyk2rr/grip/internal/github"
	"github.com/vyk2rr/grip/internal/renderer"
	"github.com/vyk2rr/grip/internal/server"
	"github.com/vyk2rr/grip/internal/settings"
	"github.com/vyk2rr/grip/internal/ui"
)

// app wires the command line to grip's settings, renderers, exporter and
// server.
type app struct {
	settings settings.Options
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logger   *log.Logger
	// findToken looks up a GitHub token for API rendering.
	findToken func(dir string) (*github.TokenResult, error)
	// remoteRepo derives the default --context from the working copy.
	remoteRepo func(dir string) (string, bool)
}

func newApp(env cli.Env) *app {
	return &app{
		settings:   settings.Options{Version: version},
		stdin:      os.Stdin,
		stdout:     env.Stdout,
		stderr:     env.Stderr,
		logger:     env.Logger,
		findToken:  github.FindToken,
		remoteRepo: git.RemoteRepository,
	}
}

func (a *app) ClearCache(ctx context.Context) error {
	s, err := settings.Load(a.settings)
	if err != nil {
		return err
	}
	if err := server.ClearCache(s.CacheDirectory); err != nil {
		return err
	}
	if !s.Quiet {
		ui.New(a.stderr).Success("Cache cleared.")
	}
	return nil
}

func (a *app) Export(ctx context.Context, cfg cli.OperationConfig) error {
	s, err := settings.Load(a.settings)
	if err != nil {
		return err
	}

	return exporter.Export(ctx, exporter.Options{
		Path:        cfg.Path,
		Output:      cfg.Output,
		UserContent: cfg.UserContent,
		Wide:        cfg.Wide,
		Title:       cfg.Title,
		Quiet:       s.Quiet,
		Renderer:    a.renderer(s, cfg),
		Stdin:       a.stdin,
		Stdout:      a.stdout,
		Stderr:      a.stderr,
	})
}

func (a *app) Serve(ctx context.Context, cfg cli.OperationConfig, host, port string) error {
	s, err := settings.Load(a.settings)
	if err != nil {
		return err
	}

	return server.Serve(ctx, server.Options{
		Path:        cfg.Path,
		Host:        host,
		Port:        port,
		UserContent: cfg.UserContent,
		Wide:        cfg.Wide,
		Title:       cfg.Title,
		Browser:     cfg.Browser,
		AutoRefresh: cfg.AutoRefresh && s.AutoRefresh,
		Settings:    s,
		Renderer:    a.renderer(s, cfg),
		Stdin:       a.stdin,
		Stderr:      a.stderr,
		Logger:      server.NewLogger(a.stderr, s.Debug),
	})
}

// renderer picks the renderer for one invocation. Command-line values win
// over settings. Credentials without an API URL select the public GitHub
// API; an API URL without credentials falls back to a discovered token. User content without --context takes the
// repository from the origin remote.
func (a *app) renderer(s *settings.Settings, cfg cli.OperationConfig) renderer.Renderer {
	wd, _ := os.Getwd()

	if cfg.UserContent && cfg.Context == "" && a.remoteRepo != nil {
		if repo, ok := a.remoteRepo(wd); ok {
			cfg.Context = repo
			a.debug("using repository context from origin", "context", repo)
		}
	}

	rc := renderer.Config{
		Options: renderer.Options{
			UserContent: cfg.UserContent,
			Context:     cfg.Context,
		},
		APIURL: firstNonEmpty(cfg.APIURL, s.APIURL),
		Auth: renderer.Credentials{
			Username: firstNonEmpty(cfg.Username, s.Username),
			Password: firstNonEmpty(cfg.Password, s.Password),
		},
		CacheDir: s.CacheDirectory,
	}

	// Credentials without an API URL select the public API.
	if rc.APIURL == "" && (rc.Auth.Username != "" || rc.Auth.Password != "") {
		rc.APIURL = renderer.DefaultAPIURL
		a.debug("credentials given, rendering through the GitHub API", "api", rc.APIURL)
	}

	if rc.APIURL != "" && rc.Auth.Username == "" && rc.Auth.Password == "" && a.findToken != nil {
		if tok, err := a.findToken(git.RepositoryRoot(wd)); err == nil {
			rc.Auth.Token = tok.Token
			a.debug("using GitHub token", "source", tok.Source)
		} else if !s.Quiet {
			out := ui.New(a.stderr)
			out.Warn("No GitHub credentials found, API requests are rate limited")
			out.DimMsg("Set GH_TOKEN or pass --user and --pass")
		}
	}

	return renderer.New(rc)
}

func (a *app) debug(msg string, keyvals ...interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, keyvals...)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
