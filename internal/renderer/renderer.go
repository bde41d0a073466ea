// Package renderer converts markdown to HTML and wraps the result in a
// preview page.
package renderer

import "context"

// Renderer turns markdown text into an HTML fragment.
type Renderer interface {
	Render(ctx context.Context, text []byte) ([]byte, error)
}

// Options selects how markdown is interpreted.
type Options struct {
	// UserContent renders like an issue or comment: hard line breaks,
	// sanitized HTML and issue references.
	UserContent bool
	// Context is the "owner/repo" that issue references point into. Only
	// used together with UserContent.
	Context string
}

// cacheSalt distinguishes cache entries rendered with different options.
func (o Options) cacheSalt() string {
	if !o.UserContent {
		return "doc"
	}
	return "user:" + o.Context
}
