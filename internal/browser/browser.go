// Package browser opens the preview in the user's web browser once the
// server is answering.
package browser

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"time"
)

const (
	pollAttempts = 20
	pollInterval = 500 * time.Millisecond
)

// Opener launches a URL in a browser.
type Opener func(url string) error

// IsAvailable reports whether url answers with 200 OK.
func IsAvailable(ctx context.Context, url string) bool {
	client := &http.Client{Timeout: 1 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// OpenWhenReady waits for url to become available and then opens it with
// open, or with the platform default when open is nil.
func OpenWhenReady(ctx context.Context, url string, open Opener) error {
	if open == nil {
		open = Open
	}

	for i := 0; i < pollAttempts; i++ {
		if IsAvailable(ctx, url) {
			return open(url)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	return fmt.Errorf("server at %s not available, not opening browser", url)
}

// Open launches the platform's default browser on url.
func Open(url string) error {
	name, args := command(runtime.GOOS, url)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	// Reap the launcher; it exits as soon as the browser has the URL.
	go func() { _ = cmd.Wait() }()
	return nil
}

func command(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
