package converter

import (
	"log"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/openfolio/folio/internal/book"
	"github.com/openfolio/folio/internal/epub"
	"github.com/openfolio/folio/internal/pdf"
)

// buildEPUBTOC parses the book's declared navigation into the TOC
// forest. Books without usable navigation get a flat fallback with one
// entry per content document.
func buildEPUBTOC(r *epub.Reader, opf *epub.OPF) []book.TOCEntry {
	points, err := epub.LoadNavPoints(r, opf)
	if err != nil {
		log.Printf("warning: failed to parse navigation: %v", err)
	}

	toc := navPointsToTOC(points)
	if len(toc) == 0 {
		log.Printf("warning: empty TOC, building fallback from content documents")
		toc = fallbackEPUBTOC(opf)
	}
	return toc
}

// navPointsToTOC normalizes navigation points: hrefs are
// percent-decoded and split into file href and anchor on the first
// '#', children recurse preserving order and depth.
func navPointsToTOC(points []epub.NavPoint) []book.TOCEntry {
	if len(points) == 0 {
		return nil
	}

	entries := make([]book.TOCEntry, 0, len(points))
	for _, p := range points {
		href := percentDecode(p.Href)
		file, anchor, _ := strings.Cut(href, "#")
		entries = append(entries, book.TOCEntry{
			Title:    p.Title,
			Href:     href,
			FileHref: file,
			Anchor:   anchor,
			Children: navPointsToTOC(p.Children),
		})
	}
	return entries
}

// fallbackEPUBTOC emits one flat entry per content document in
// manifest order, titled by humanizing the filename.
func fallbackEPUBTOC(opf *epub.OPF) []book.TOCEntry {
	var entries []book.TOCEntry
	for _, id := range opf.ManifestOrder {
		item := opf.Manifest[id]
		if !item.IsDocument() {
			continue
		}
		entries = append(entries, book.TOCEntry{
			Title:    humanizeFilename(path.Base(item.Href)),
			Href:     item.Href,
			FileHref: item.Href,
		})
	}
	return entries
}

var titleCaser = cases.Title(language.English)

// humanizeFilename turns "chapter_01.xhtml" into "Chapter 01".
func humanizeFilename(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return titleCaser.String(name)
}

// outlineTOC rebuilds the navigation tree from a PDF's flat, leveled
// outline list. Entries targeting pages outside the document are
// skipped without aborting the outline.
func outlineTOC(items []pdf.OutlineItem, spine []book.Chapter) []book.TOCEntry {
	if len(items) == 0 {
		return nil
	}
	entries, _ := buildOutlineLevel(items, 0, 1, spine)
	return entries
}

// buildOutlineLevel consumes entries at the given level starting at
// idx, recursing after each emitted entry to collect a deeper run as
// its children. It returns the subtree and the index of the first
// entry it did not consume. Any entry whose level differs from the
// current one ends the run immediately: levels strictly below return
// control to the caller even when they skip more than one step, and a
// deeper jump with no parent entry is malformed and treated the same.
func buildOutlineLevel(items []pdf.OutlineItem, idx, level int, spine []book.Chapter) ([]book.TOCEntry, int) {
	var entries []book.TOCEntry

	for idx < len(items) {
		item := items[idx]
		if item.Level != level {
			return entries, idx
		}
		idx++

		pageIdx := item.Page - 1
		if pageIdx < 0 || pageIdx >= len(spine) {
			log.Printf("warning: outline entry %q targets page %d outside the document, skipping", item.Title, item.Page)
			continue
		}

		entry := book.TOCEntry{
			Title:    item.Title,
			Href:     spine[pageIdx].Href,
			FileHref: spine[pageIdx].Href,
		}
		entry.Children, idx = buildOutlineLevel(items, idx, level+1, spine)
		entries = append(entries, entry)
	}

	return entries, idx
}

// strideTOC is the fallback for PDFs without an outline: one entry per
// stride-th page, titled like the page itself.
func strideTOC(spine []book.Chapter, stride int) []book.TOCEntry {
	var entries []book.TOCEntry
	for i := 0; i < len(spine); i += stride {
		entries = append(entries, book.TOCEntry{
			Title:    spine[i].Title,
			Href:     spine[i].Href,
			FileHref: spine[i].Href,
		})
	}
	return entries
}
