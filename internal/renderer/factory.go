package renderer

// Config selects and configures a Renderer.
type Config struct {
	Options
	// APIURL switches to the GitHub API renderer. Empty renders offline.
	APIURL   string
	Auth     Credentials
	CacheDir string
}

// New returns the offline renderer unless an API URL is configured, in
// which case API responses are cached under CacheDir.
func New(cfg Config) Renderer {
	if cfg.APIURL == "" {
		return NewOfflineRenderer(cfg.Options)
	}

	var r Renderer = NewGitHubRenderer(cfg.APIURL, cfg.Options, cfg.Auth)
	if cfg.CacheDir != "" {
		r = NewCachingRenderer(r, cfg.CacheDir, cfg.Options)
	}
	return r
}
