// Package exporter writes a rendered preview page to a file or stdout.
package exporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vyk2rr/grip/internal/apperr"
	"github.com/vyk2rr/grip/internal/reader"
	"github.com/vyk2rr/grip/internal/renderer"
	"github.com/vyk2rr/grip/internal/ui"
)

// StdoutTarget selects standard output as the export target.
const StdoutTarget = "-"

// Options configures one export.
type Options struct {
	// Path is the source file or directory, "-" for stdin, "" for the
	// current directory.
	Path string
	// Output is the target file, "-" for stdout. Empty derives
	// "<source name>.html", or stdout when reading stdin.
	Output      string
	UserContent bool
	Wide        bool
	Title       string
	Quiet       bool

	Renderer renderer.Renderer
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// Export renders the source as a standalone HTML page with inlined styles.
func Export(ctx context.Context, opts Options) error {
	src, err := reader.New(opts.Path, opts.Stdin)
	if err != nil {
		return err
	}

	target, err := outputTarget(opts.Output, src)
	if err != nil {
		return err
	}

	toStdout := target == StdoutTarget
	if !toStdout && !opts.Quiet {
		ui.New(opts.Stderr).Line("Exporting to %s", target)
	}

	page, err := renderPage(ctx, src, opts)
	if err != nil {
		return err
	}

	if toStdout {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		_, err := stdout.Write(page)
		return err
	}

	if err := os.WriteFile(target, page, 0644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

func renderPage(ctx context.Context, src reader.Reader, opts Options) ([]byte, error) {
	text, err := src.Read("")
	if err != nil {
		return nil, err
	}

	content, err := opts.Renderer.Render(ctx, text)
	if err != nil {
		return nil, err
	}

	filename := src.Filename("")
	var buf bytes.Buffer
	err = renderer.WritePage(&buf, renderer.Page{
		Title:       renderer.PageTitle(opts.Title, filename),
		Filename:    filename,
		Content:     content,
		Wide:        opts.Wide,
		UserContent: opts.UserContent,
		InlineStyle: true,
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// outputTarget resolves the export destination.
func outputTarget(output string, src reader.Reader) (string, error) {
	if output == StdoutTarget {
		return StdoutTarget, nil
	}

	if output != "" {
		if info, err := os.Stat(output); err == nil && info.IsDir() {
			return "", apperr.Invalid("Export target is a directory: %s", output)
		}
		return output, nil
	}

	dr, ok := src.(*reader.DirectoryReader)
	if !ok {
		return StdoutTarget, nil
	}
	return DefaultTarget(dr.RootFilename()), nil
}

// DefaultTarget names the export file for a source document: the document's
// path relative to the working directory with its extension replaced by
// ".html".
func DefaultTarget(rootFilename string) string {
	name := rootFilename
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, rootFilename); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".html"
}
