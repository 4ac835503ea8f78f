// Package snapshot writes frames to image files. The format follows the
// extension: .webp (lossless) or .png.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/HugoSmits86/nativewebp"
)

// Save encodes img to path, replacing any existing file atomically.
func Save(path string, img image.Image) error {
	enc, err := encoder(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snap-*")
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := enc(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

func encoder(path string) (func(io.Writer, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return func(w io.Writer, img image.Image) error { return nativewebp.Encode(w, img, nil) }, nil
	case ".png":
		return png.Encode, nil
	}
	return nil, fmt.Errorf("snapshot: unsupported format %q", filepath.Ext(path))
}

// Driver keeps the latest frame and saves it on Close. With Every > 0 it
// also saves every Every-th frame.
type Driver struct {
	Path  string
	Every int

	mu    sync.Mutex
	last  *image.RGBA
	count int
}

func New(path string, every int) (*Driver, error) {
	if _, err := encoder(path); err != nil {
		return nil, err
	}
	return &Driver{Path: path, Every: every}, nil
}

func (d *Driver) Write(img *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil || d.last.Bounds() != img.Bounds() {
		d.last = image.NewRGBA(img.Bounds())
	}
	copy(d.last.Pix, img.Pix)
	d.count++
	if d.Every > 0 && d.count%d.Every == 0 {
		return Save(d.Path, d.last)
	}
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return nil
	}
	return Save(d.Path, d.last)
}
