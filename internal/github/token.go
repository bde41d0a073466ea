package github

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoToken is returned when no source holds a token.
var ErrNoToken = errors.New("GitHub token not found")

// TokenResult holds a discovered token and where it came from.
type TokenResult struct {
	Token  string
	Source string
}

type tokenSource struct {
	name   string
	lookup func() (string, error)
}

// FindToken looks for a GitHub API token, first match wins:
//  1. GH_TOKEN environment variable
//  2. GITHUB_TOKEN environment variable
//  3. .env in dir
//  4. ~/.env
//  5. gh CLI hosts.yml ($XDG_CONFIG_HOME/gh or ~/.config/gh)
//
// Only used when rendering through the GitHub API without --user/--pass.
func FindToken(dir string) (*TokenResult, error) {
	sources := []tokenSource{
		{"GH_TOKEN env var", envLookup("GH_TOKEN")},
		{"GITHUB_TOKEN env var", envLookup("GITHUB_TOKEN")},
	}

	if dir != "" {
		projectEnv := filepath.Join(dir, ".env")
		sources = append(sources, tokenSource{projectEnv, fileLookup(projectEnv, parseEnvFile)})
	}
	if home, err := os.UserHomeDir(); err == nil {
		homeEnv := filepath.Join(home, ".env")
		sources = append(sources, tokenSource{homeEnv, fileLookup(homeEnv, parseEnvFile)})
	}
	if hosts := ghHostsPath(); hosts != "" {
		sources = append(sources, tokenSource{hosts, fileLookup(hosts, parseGHHostsYAML)})
	}

	for _, src := range sources {
		token, err := src.lookup()
		if err == nil && token != "" {
			return &TokenResult{Token: token, Source: src.name}, nil
		}
	}
	return nil, ErrNoToken
}

func envLookup(key string) func() (string, error) {
	return func() (string, error) {
		return os.Getenv(key), nil
	}
}

func fileLookup(path string, parse func(string) (string, error)) func() (string, error) {
	return func() (string, error) {
		return parse(path)
	}
}

// ghHostsPath returns the gh CLI hosts file location.
func ghHostsPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gh", "hosts.yml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gh", "hosts.yml")
}

// parseGHHostsYAML returns the first oauth_token value in a gh hosts.yml.
func parseGHHostsYAML(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		_, value, found := strings.Cut(scanner.Text(), "oauth_token:")
		if !found {
			continue
		}
		if token := strings.TrimSpace(value); token != "" {
			return token, nil
		}
	}
	return "", scanner.Err()
}
