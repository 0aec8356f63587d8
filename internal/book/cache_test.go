package book

import (
	"os"
	"path/filepath"
	"testing"
)

// writeRecord stores a minimal valid record under dataDir/folder.
func writeRecord(t *testing.T, dataDir, folder, title string) {
	t.Helper()
	dir := filepath.Join(dataDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	b := &Book{
		Metadata: Metadata{Title: title, Language: "en"},
		Version:  ModelVersion,
	}
	if err := SaveRecord(b, dir); err != nil {
		t.Fatal(err)
	}
}

func TestCacheReadThrough(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, "b1", "First")

	c, err := NewCache(dataDir, 4)
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Get("b1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Metadata.Title != "First" {
		t.Errorf("title = %q, want First", got.Metadata.Title)
	}

	// Second read must come from the cache: same pointer.
	again, err := c.Get("b1")
	if err != nil {
		t.Fatalf("Get (cached): %v", err)
	}
	if again != got {
		t.Error("expected cached book to be returned")
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := NewCache(t.TempDir(), 4)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Get("missing"); err == nil {
		t.Error("expected error for missing folder")
	}
	if c.Len() != 0 {
		t.Errorf("load failures must not be cached, len = %d", c.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, "b1", "First")
	writeRecord(t, dataDir, "b2", "Second")

	c, err := NewCache(dataDir, 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Get("b1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get("b2"); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1 after eviction", c.Len())
	}
}

func TestCacheInvalidate(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, "b1", "First")

	c, err := NewCache(dataDir, 4)
	if err != nil {
		t.Fatal(err)
	}

	old, err := c.Get("b1")
	if err != nil {
		t.Fatal(err)
	}

	writeRecord(t, dataDir, "b1", "Replaced")
	c.Invalidate("b1")

	fresh, err := c.Get("b1")
	if err != nil {
		t.Fatal(err)
	}
	if fresh == old || fresh.Metadata.Title != "Replaced" {
		t.Errorf("expected reloaded record, got %+v", fresh.Metadata)
	}
}
