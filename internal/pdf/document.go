// Package pdf wraps the MuPDF bindings behind the small surface the
// conversion engine needs: document info, page text, page rasters, and
// the flat outline list.
package pdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// baseDPI is the nominal PDF rendering resolution; Render scales it.
const baseDPI = 72

// Document is an open PDF file. Close must be called on every path
// once Open succeeds.
type Document struct {
	doc *fitz.Document
}

// OutlineItem is one entry of the document outline (bookmark list):
// a 1-based nesting level, a title, and a 1-based target page. Entries
// with unresolved targets carry Page <= 0 and are skipped downstream.
type OutlineItem struct {
	Level int
	Title string
	Page  int
}

// Open opens a PDF file for reading.
func Open(path string) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Close releases the underlying document handle.
func (d *Document) Close() error {
	return d.doc.Close()
}

// PageCount returns the number of physical pages.
func (d *Document) PageCount() int {
	return d.doc.NumPage()
}

// Info returns the document information dictionary. Absent keys are
// missing from the map; callers default per field.
func (d *Document) Info() map[string]string {
	return d.doc.Metadata()
}

// Text returns the text layer of the given 0-based page. Pure-image
// pages yield an empty string.
func (d *Document) Text(page int) (string, error) {
	text, err := d.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", page+1, err)
	}
	return text, nil
}

// Render rasterizes the given 0-based page at scale times the nominal
// page resolution.
func (d *Document) Render(page int, scale float64) (image.Image, error) {
	if scale <= 0 {
		scale = 1
	}
	img, err := d.doc.ImageDPI(page, scale*baseDPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page+1, err)
	}
	return img, nil
}

// Outline returns the document outline as a flat list in document
// order. Books without an outline return an empty slice.
func (d *Document) Outline() []OutlineItem {
	toc, err := d.doc.ToC()
	if err != nil {
		// An unreadable outline degrades to "no outline"
		return nil
	}

	items := make([]OutlineItem, 0, len(toc))
	for _, o := range toc {
		items = append(items, OutlineItem{
			Level: o.Level,
			Title: o.Title,
			Page:  o.Page,
		})
	}
	return items
}
