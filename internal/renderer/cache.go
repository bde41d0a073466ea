package renderer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vyk2rr/grip/pkg/hash"
)

// CachingRenderer stores rendered fragments on disk, keyed by a hash of the
// render options and the markdown text.
type CachingRenderer struct {
	next Renderer
	dir  string
	salt string
}

// NewCachingRenderer caches the output of next under dir/rendered.
func NewCachingRenderer(next Renderer, dir string, opts Options) *CachingRenderer {
	return &CachingRenderer{
		next: next,
		dir:  filepath.Join(dir, "rendered"),
		salt: opts.cacheSalt(),
	}
}

func (c *CachingRenderer) Render(ctx context.Context, text []byte) ([]byte, error) {
	path := filepath.Join(c.dir, hash.ContentKey(c.salt, text)+".html")
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	out, err := c.next.Render(ctx, text)
	if err != nil {
		return nil, err
	}

	// A failed cache write only costs a re-render next time.
	_ = writeAtomic(path, out)
	return out, nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".render-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
