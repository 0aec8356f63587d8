package book

import (
	"fmt"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a bounded read-through cache of converted books, keyed by the
// output folder name under a common data directory. It is constructed
// once at process start and shared by reference; the LRU is safe for
// concurrent use. A conversion replacing a folder should call Invalidate
// so the next read picks up the fresh record.
type Cache struct {
	dataDir string
	books   *lru.Cache[string, *Book]
}

// NewCache creates a cache over dataDir holding at most capacity books.
func NewCache(dataDir string, capacity int) (*Cache, error) {
	books, err := lru.New[string, *Book](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create book cache: %w", err)
	}
	return &Cache{dataDir: dataDir, books: books}, nil
}

// Get returns the book stored under dataDir/folder, loading and caching
// it on first access. Load failures are not cached.
func (c *Cache) Get(folder string) (*Book, error) {
	if b, ok := c.books.Get(folder); ok {
		return b, nil
	}

	b, err := LoadRecord(folderPath(c.dataDir, folder))
	if err != nil {
		return nil, err
	}

	c.books.Add(folder, b)
	return b, nil
}

// Invalidate drops a folder from the cache.
func (c *Cache) Invalidate(folder string) {
	c.books.Remove(folder)
}

// Len reports the number of cached books.
func (c *Cache) Len() int {
	return c.books.Len()
}

func folderPath(dataDir, folder string) string {
	if dataDir == "" {
		return folder
	}
	return filepath.Join(dataDir, folder)
}
