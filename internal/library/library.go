// Package library manages the data directory of converted books:
// importing new sources under unique folder names, listing what has
// been converted, and opening books through the bounded read cache.
package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/openfolio/folio/internal/book"
	"github.com/openfolio/folio/internal/config"
	"github.com/openfolio/folio/internal/converter"
)

// Library is constructed once at process start and shared by
// reference; the cache it owns is safe for concurrent readers.
type Library struct {
	cfg   *config.Config
	cache *book.Cache
}

// Entry is the listing row for one converted book, shaped for the
// ownership-record consumer: display metadata plus the spine length.
type Entry struct {
	ID       string
	Title    string
	Author   string
	Chapters int
}

// New creates a library over the configured data directory.
func New(cfg *config.Config) (*Library, error) {
	cache, err := book.NewCache(cfg.DataDir, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Library{cfg: cfg, cache: cache}, nil
}

// Import copies the source file into the upload directory under a
// fresh unique name, converts it into the data directory, and returns
// the converted book with its folder id.
func (l *Library) Import(sourcePath string) (*book.Book, string, error) {
	if err := os.MkdirAll(l.cfg.UploadDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.MkdirAll(l.cfg.DataDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create data directory: %w", err)
	}

	id := uuid.NewString()
	stored := filepath.Join(l.cfg.UploadDir, id+filepath.Ext(sourcePath))
	if err := copyFile(sourcePath, stored); err != nil {
		return nil, "", err
	}

	b, err := converter.ConvertWithOptions(stored, filepath.Join(l.cfg.DataDir, id), converter.Options{
		RasterScale: l.cfg.RasterScale,
		TOCStride:   l.cfg.TOCStride,
	})
	if err != nil {
		return nil, "", err
	}

	l.cache.Invalidate(id)
	return b, id, nil
}

// Open returns the converted book stored under the given folder id.
func (l *Library) Open(id string) (*book.Book, error) {
	return l.cache.Get(id)
}

// List scans the data directory and returns an entry for every folder
// holding a readable record. Folders without one (failed or foreign)
// are skipped.
func (l *Library) List() ([]Entry, error) {
	dirs, err := os.ReadDir(l.cfg.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var entries []Entry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		b, err := l.cache.Get(d.Name())
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			ID:       d.Name(),
			Title:    b.Metadata.Title,
			Author:   b.Metadata.DisplayAuthors(),
			Chapters: b.ChapterCount(),
		})
	}

	return entries, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create upload copy: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy upload: %w", err)
	}
	return out.Close()
}
