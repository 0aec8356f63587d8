package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// RecordFile is the name of the serialized book inside an output directory.
const RecordFile = "book.json"

var (
	ErrRecordNotFound   = errors.New("book record not found")
	ErrVersionMismatch  = errors.New("book record version mismatch")
	ErrRecordUnreadable = errors.New("book record unreadable")
)

// SaveRecord writes the book to dir/book.json. The directory must exist;
// the conversion pipeline creates it before any component runs.
func SaveRecord(b *Book, dir string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal book: %w", err)
	}

	path := filepath.Join(dir, RecordFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// LoadRecord reads dir/book.json back into a Book. Records written by a
// different model version are rejected with ErrVersionMismatch so stale
// output directories surface cleanly instead of crashing readers.
func LoadRecord(dir string) (*Book, error) {
	path := filepath.Join(dir, RecordFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, path)
		}
		return nil, fmt.Errorf("failed to read record %s: %w", path, err)
	}

	var b Book
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordUnreadable, err)
	}

	if b.Version != ModelVersion {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrVersionMismatch, b.Version, ModelVersion)
	}

	return &b, nil
}
