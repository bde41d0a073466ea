package renderer

import (
	"bytes"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmrenderer "github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

const highlightStyle = "github"

var codeFormatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.PreventSurroundingPre(true),
)

var (
	highlightCSSOnce sync.Once
	highlightCSS     string
)

// HighlightCSS returns the rules for the classes highlighted code uses.
func HighlightCSS() string {
	highlightCSSOnce.Do(func() {
		var buf bytes.Buffer
		if err := codeFormatter.WriteCSS(&buf, styles.Get(highlightStyle)); err == nil {
			highlightCSS = buf.String()
		}
	})
	return highlightCSS
}

// highlighting renders fenced code blocks with a known language as
// chroma-classed spans.
type highlighting struct{}

func (highlighting) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(gmrenderer.WithNodeRenderers(
		util.Prioritized(codeBlockRenderer{}, 200),
	))
}

type codeBlockRenderer struct{}

func (r codeBlockRenderer) RegisterFuncs(reg gmrenderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	lang := n.Language(source)
	_, _ = w.WriteString("<pre")
	if len(lang) > 0 {
		_, _ = w.WriteString(` class="chroma"`)
	}
	_, _ = w.WriteString("><code")
	if len(lang) > 0 {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML(lang))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')

	if !highlight(w, string(lang), code.String()) {
		_, _ = w.Write(util.EscapeHTML(code.Bytes()))
	}

	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

// highlight writes code as highlighted spans. It reports false, having
// written nothing, when lang is unknown.
func highlight(w util.BufWriter, lang, code string) bool {
	if lang == "" {
		return false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return false
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return false
	}

	var buf bytes.Buffer
	if err := codeFormatter.Format(&buf, styles.Get(highlightStyle), iterator); err != nil {
		return false
	}
	_, _ = w.Write(buf.Bytes())
	return true
}
