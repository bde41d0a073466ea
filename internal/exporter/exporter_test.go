package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/vyk2rr/grip/internal/apperr"
	"github.com/vyk2rr/grip/internal/renderer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func baseOptions(stdout, stderr *bytes.Buffer) Options {
	return Options{
		Renderer: renderer.NewOfflineRenderer(renderer.Options{}),
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

func TestExportToFile(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	src := filepath.Join(dir, "README.md")
	out := filepath.Join(dir, "out.html")
	writeFile(t, src, "# Exported")

	var stdout, stderr bytes.Buffer
	opts := baseOptions(&stdout, &stderr)
	opts.Path = src
	opts.Output = out
	opts.Title = "Custom"

	if err := Export(context.Background(), opts); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	page := string(data)
	for _, want := range []string{"<title>Custom</title>", `<h1 id="exported">Exported</h1>`, "<style>"} {
		if !strings.Contains(page, want) {
			t.Errorf("exported page missing %q", want)
		}
	}
	if strings.Contains(page, "EventSource") {
		t.Error("exported page should not auto-refresh")
	}

	if got, want := stderr.String(), "Exporting to "+out+"\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestExportDefaultTarget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "docs", "README.md"), "# Docs")
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	opts := baseOptions(&stdout, &stderr)
	opts.Path = "docs"
	opts.Quiet = true

	if err := Export(context.Background(), opts); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "docs", "README.html")); err != nil {
		t.Errorf("default target not written: %v", err)
	}
	if stderr.Len() != 0 {
		t.Errorf("quiet export wrote %q", stderr.String())
	}
}

func TestExportToStdout(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "NOTES.md")
	writeFile(t, src, "hello")

	var stdout, stderr bytes.Buffer
	opts := baseOptions(&stdout, &stderr)
	opts.Path = src
	opts.Output = StdoutTarget

	if err := Export(context.Background(), opts); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "<title>NOTES.md - Grip</title>") {
		t.Errorf("stdout = %q, want page", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty for stdout export", stderr.String())
	}
}

func TestExportFromStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := baseOptions(&stdout, &stderr)
	opts.Path = "-"
	opts.Stdin = strings.NewReader("*piped*")

	if err := Export(context.Background(), opts); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "<em>piped</em>") {
		t.Errorf("stdout = %q, want rendered stdin", stdout.String())
	}
}

func TestExportErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "x")

	tests := []struct {
		name   string
		path   string
		output string
	}{
		{"missing source", filepath.Join(dir, "missing.md"), ""},
		{"directory without README", t.TempDir(), ""},
		{"target is a directory", filepath.Join(dir, "README.md"), dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			opts := baseOptions(&stdout, &stderr)
			opts.Path = tt.path
			opts.Output = tt.output

			err := Export(context.Background(), opts)
			if !apperr.IsValidation(err) {
				t.Errorf("Export() error = %v, want validation error", err)
			}
		})
	}
}

func TestDefaultTarget(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	t.Chdir(dir)

	tests := []struct {
		root string
		want string
	}{
		{filepath.Join(dir, "README.md"), "README.html"},
		{filepath.Join(dir, "docs", "guide.markdown"), filepath.Join("docs", "guide.html")},
		{filepath.Join(dir, "README"), "README.html"},
	}

	for _, tt := range tests {
		if got := DefaultTarget(tt.root); got != tt.want {
			t.Errorf("DefaultTarget(%q) = %q, want %q", tt.root, got, tt.want)
		}
	}
}
