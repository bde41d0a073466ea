// Package reader locates and reads the markdown documents grip renders.
package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vyk2rr/grip/internal/apperr"
)

// StdinMarker is the path that selects standard input.
const StdinMarker = "-"

// ReadmeNames lists the filenames searched for, in priority order, when a
// directory is given instead of a file.
var ReadmeNames = []string{
	"README.md", "README.markdown", "README.mdown", "README.mkdn", "README.mkd", "README.txt", "README",
	"readme.md", "readme.markdown", "readme.mdown", "readme.mkdn", "readme.mkd", "readme.txt", "readme",
}

var markdownExts = map[string]bool{
	".md": true, ".markdown": true, ".mdown": true, ".mkdn": true, ".mkd": true,
}

// Reader supplies markdown text for the root document and, for directory
// sources, any other document below the root. Subpaths use forward
// slashes; the empty subpath names the root document.
type Reader interface {
	// Filename is the display name of the document at subpath.
	Filename(subpath string) string
	// Read returns the raw markdown of the document at subpath.
	Read(subpath string) ([]byte, error)
	// LastUpdated reports when the document at subpath last changed.
	LastUpdated(subpath string) (time.Time, error)
	// Dir is the directory static assets are served from, empty for text
	// sources.
	Dir() string
}

// New returns a StdinReader for "-" and a DirectoryReader otherwise.
func New(path string, stdin io.Reader) (Reader, error) {
	if path == StdinMarker {
		return NewStdinReader(stdin), nil
	}
	return NewDirectoryReader(path)
}

// DirectoryReader reads a file, or the README inside a directory, and the
// markdown files next to it.
type DirectoryReader struct {
	rootFile string
	rootDir  string
}

// NewDirectoryReader resolves path to a markdown file. An empty path means
// the current directory.
func NewDirectoryReader(path string) (*DirectoryReader, error) {
	if path == "" {
		path = "."
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, apperr.Wrap(err, "File not found: "+path)
	}

	if !info.IsDir() {
		return &DirectoryReader{rootFile: abs, rootDir: filepath.Dir(abs)}, nil
	}

	readme := FindReadme(abs)
	if readme == "" {
		return nil, apperr.Invalid("No README found at %s", path)
	}
	return &DirectoryReader{rootFile: readme, rootDir: abs}, nil
}

// FindReadme returns the first README in dir, or "" when there is none.
func FindReadme(dir string) string {
	for _, name := range ReadmeNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// RootFilename is the absolute path of the root document.
func (r *DirectoryReader) RootFilename() string {
	return r.rootFile
}

func (r *DirectoryReader) Dir() string {
	return r.rootDir
}

func (r *DirectoryReader) Filename(subpath string) string {
	path, err := r.Resolve(subpath)
	if err != nil {
		return filepath.Base(r.rootFile)
	}
	return filepath.Base(path)
}

func (r *DirectoryReader) Read(subpath string) ([]byte, error) {
	path, err := r.Resolve(subpath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(err, "File not found: "+subpath)
	}
	return data, nil
}

func (r *DirectoryReader) LastUpdated(subpath string) (time.Time, error) {
	path, err := r.Resolve(subpath)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Resolve maps subpath to a file below the root directory. Directories
// resolve to their README. Paths leaving the root are rejected.
func (r *DirectoryReader) Resolve(subpath string) (string, error) {
	subpath = strings.Trim(subpath, "/")
	if subpath == "" {
		return r.rootFile, nil
	}

	path := filepath.Join(r.rootDir, filepath.FromSlash(subpath))
	rel, err := filepath.Rel(r.rootDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperr.Invalid("Path outside of served directory: %s", subpath)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", apperr.Wrap(err, "File not found: "+subpath)
	}
	if info.IsDir() {
		readme := FindReadme(path)
		if readme == "" {
			return "", apperr.Invalid("No README found at %s", subpath)
		}
		return readme, nil
	}
	return path, nil
}

// IsMarkdown reports whether subpath names a document grip renders rather
// than a static asset. Directories count, since they render their README.
func (r *DirectoryReader) IsMarkdown(subpath string) bool {
	subpath = strings.Trim(subpath, "/")
	if subpath == "" {
		return true
	}
	path := filepath.Join(r.rootDir, filepath.FromSlash(subpath))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return true
	}
	return markdownExts[strings.ToLower(filepath.Ext(path))]
}

// TextReader serves a fixed piece of text as the only document.
type TextReader struct {
	text     []byte
	filename string
	loaded   time.Time
}

// NewTextReader returns a reader for text displayed under filename.
func NewTextReader(text []byte, filename string) *TextReader {
	return &TextReader{text: text, filename: filename, loaded: time.Now()}
}

func (r *TextReader) Filename(string) string { return r.filename }

func (r *TextReader) Read(string) ([]byte, error) { return r.text, nil }

func (r *TextReader) LastUpdated(string) (time.Time, error) { return r.loaded, nil }

func (r *TextReader) Dir() string { return "" }

// StdinReader reads standard input once, on first use.
type StdinReader struct {
	in   io.Reader
	once sync.Once
	text []byte
	err  error
	at   time.Time
}

// NewStdinReader returns a reader over in, which defaults to os.Stdin.
func NewStdinReader(in io.Reader) *StdinReader {
	if in == nil {
		in = os.Stdin
	}
	return &StdinReader{in: in}
}

func (r *StdinReader) load() {
	r.once.Do(func() {
		r.text, r.err = io.ReadAll(r.in)
		r.at = time.Now()
	})
}

func (r *StdinReader) Filename(string) string { return StdinMarker }

func (r *StdinReader) Read(string) ([]byte, error) {
	r.load()
	if r.err != nil {
		return nil, fmt.Errorf("read stdin: %w", r.err)
	}
	return r.text, nil
}

func (r *StdinReader) LastUpdated(string) (time.Time, error) {
	r.load()
	return r.at, r.err
}

func (r *StdinReader) Dir() string { return "" }
