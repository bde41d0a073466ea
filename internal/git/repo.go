package git

import (
	"os/exec"
	"strings"
)

// RepositoryRoot returns the top level of the worktree containing dir.
// Falls back to dir if it is not inside a git repository.
func RepositoryRoot(dir string) string {
	out, err := gitOutput(dir, "rev-parse", "--show-toplevel")
	if err != nil || out == "" {
		return dir
	}
	return out
}

// RemoteRepository returns "owner/repo" for the origin remote of the
// repository containing dir, when origin points at a GitHub-style host.
func RemoteRepository(dir string) (string, bool) {
	url, err := gitOutput(dir, "config", "--get", "remote.origin.url")
	if err != nil {
		return "", false
	}
	return ParseRemoteURL(url)
}

// ParseRemoteURL extracts "owner/repo" from an HTTPS, SSH or scp-style
// remote URL.
func ParseRemoteURL(url string) (string, bool) {
	url = strings.TrimSpace(url)
	url = strings.TrimSuffix(url, "/")
	url = strings.TrimSuffix(url, ".git")

	var path string
	switch {
	case strings.Contains(url, "://"):
		// https://host/owner/repo, ssh://git@host:22/owner/repo
		rest := url[strings.Index(url, "://")+3:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return "", false
		}
		path = rest[slash+1:]
	case strings.Contains(url, ":"):
		// git@host:owner/repo
		path = url[strings.Index(url, ":")+1:]
	default:
		return "", false
	}

	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", false
	}
	owner, repo := parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", false
	}
	return owner + "/" + repo, true
}

func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
