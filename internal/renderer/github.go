package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vyk2rr/grip/internal/apperr"
)

// DefaultAPIURL is the public GitHub API.
const DefaultAPIURL = "https://api.github.com"

// Credentials authenticate against the GitHub API. Username/Password take
// precedence over Token.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// GitHubRenderer renders markdown through the GitHub markdown API.
type GitHubRenderer struct {
	APIURL string
	Opts   Options
	Auth   Credentials
	Client *http.Client
}

// NewGitHubRenderer returns a renderer for apiURL, or the public API when
// apiURL is empty.
func NewGitHubRenderer(apiURL string, opts Options, auth Credentials) *GitHubRenderer {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &GitHubRenderer{
		APIURL: strings.TrimRight(apiURL, "/"),
		Opts:   opts,
		Auth:   auth,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

type markdownRequest struct {
	Text    string `json:"text"`
	Mode    string `json:"mode"`
	Context string `json:"context,omitempty"`
}

func (r *GitHubRenderer) Render(ctx context.Context, text []byte) ([]byte, error) {
	req, err := r.newRequest(ctx, text)
	if err != nil {
		return nil, err
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render via %s: %w", r.APIURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read render response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return nil, apperr.Invalid("GitHub API rate limit reached, authenticate with --user and --pass to raise it")
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperr.Invalid("GitHub API rejected the credentials (%s)", resp.Status)
	default:
		return nil, fmt.Errorf("GitHub API returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
}

func (r *GitHubRenderer) newRequest(ctx context.Context, text []byte) (*http.Request, error) {
	var (
		url         string
		body        []byte
		contentType string
	)

	if r.Opts.UserContent {
		payload := markdownRequest{Text: string(text), Mode: "gfm", Context: r.Opts.Context}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		url, body, contentType = r.APIURL+"/markdown", data, "application/json"
	} else {
		url, body, contentType = r.APIURL+"/markdown/raw", text, "text/x-markdown"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/html")

	switch {
	case r.Auth.Username != "":
		req.SetBasicAuth(r.Auth.Username, r.Auth.Password)
	case r.Auth.Token != "":
		req.Header.Set("Authorization", "token "+r.Auth.Token)
	}
	return req, nil
}
