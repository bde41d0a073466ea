package renderer

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmrenderer "github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// OfflineRenderer renders GitHub-flavored markdown locally.
type OfflineRenderer struct {
	opts     Options
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

// NewOfflineRenderer builds a renderer for opts.
func NewOfflineRenderer(opts Options) *OfflineRenderer {
	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM, extension.Footnote, emoji.Emoji, highlighting{}),
	}

	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	htmlOpts := []gmrenderer.Option{html.WithUnsafe()}

	r := &OfflineRenderer{opts: opts}
	if opts.UserContent {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
		if opts.Context != "" {
			parserOpts = append(parserOpts, parser.WithInlineParsers(
				util.Prioritized(newIssueRefParser(opts.Context), 999),
			))
		}
		r.sanitize = userContentPolicy()
	}

	rendererOpts = append(rendererOpts,
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	r.md = goldmark.New(rendererOpts...)
	return r
}

func (r *OfflineRenderer) Render(ctx context.Context, text []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.md.Convert(text, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	if r.sanitize != nil {
		return r.sanitize.SanitizeBytes(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	languageClass = regexp.MustCompile(`^language-[\w+#-]+$`)
	chromaClass   = regexp.MustCompile(`^(chroma|[a-z][a-z0-9]{0,3})$`)
	checkboxType  = regexp.MustCompile(`^checkbox$`)
)

// userContentPolicy is the UGC policy plus what goldmark's GFM output needs:
// heading anchors, code languages, highlighting and task list checkboxes.
func userContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
	p.AllowAttrs("class").Matching(languageClass).OnElements("code")
	p.AllowAttrs("class").Matching(chromaClass).OnElements("pre", "span")
	p.AllowAttrs("type").Matching(checkboxType).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}
