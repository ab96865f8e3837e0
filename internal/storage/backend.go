package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/physform/internal/formula"
)

// Backend holds the raw catalog text.
type Backend interface {
	// Read returns the full catalog text. A catalog that does not exist yet
	// reads as (nil, nil).
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the catalog text wholesale.
	Write(ctx context.Context, data []byte) error
	// Location describes where the text lives, for messages.
	Location() string
}

// FileBackend stores the catalog in a local file.
type FileBackend struct {
	Path string
}

// NewFileBackend returns a backend for the file at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return data, nil
}

func (b *FileBackend) Write(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	if err := os.WriteFile(b.Path, data, 0644); err != nil {
		return fmt.Errorf("writing catalog file: %w", err)
	}
	return nil
}

func (b *FileBackend) Location() string {
	return b.Path
}

// Load decodes the catalog held by the backend.
func Load(ctx context.Context, b Backend, opts ...ParseOption) (*formula.Catalog, error) {
	data, err := b.Read(ctx)
	if err != nil {
		return nil, err
	}
	c, err := Parse(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", b.Location(), err)
	}
	return c, nil
}

// Save encodes the catalog and overwrites the backend contents.
func Save(ctx context.Context, b Backend, c *formula.Catalog) error {
	var buf bytes.Buffer
	if err := Serialize(&buf, c); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return b.Write(ctx, buf.Bytes())
}
