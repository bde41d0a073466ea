package renderer

import (
	"fmt"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// issueRefParser links "#123" to an issue of the context repository.
type issueRefParser struct {
	repo string
}

func newIssueRefParser(repo string) parser.InlineParser {
	return &issueRefParser{repo: repo}
}

func (p *issueRefParser) Trigger() []byte {
	return []byte{'#'}
}

func (p *issueRefParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	if prev := block.PrecendingCharacter(); isWordRune(prev) {
		return nil
	}

	line, segment := block.PeekLine()
	n := 1
	for n < len(line) && line[n] >= '0' && line[n] <= '9' {
		n++
	}
	if n == 1 {
		return nil
	}
	if n < len(line) && isWordRune(rune(line[n])) {
		return nil
	}

	link := ast.NewLink()
	link.Destination = []byte(fmt.Sprintf("https://github.com/%s/issues/%s", p.repo, line[1:n]))
	link.AppendChild(link, ast.NewTextSegment(segment.WithStop(segment.Start+n)))
	block.Advance(n)
	return link
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
