// Package book defines the normalized document model produced by the
// conversion engine, together with its on-disk record format and the
// bounded read cache used by callers that serve converted books.
package book

import "strings"

// ModelVersion tags serialized records. LoadRecord rejects records
// written with a different version instead of misreading them.
const ModelVersion = "3.0"

// Metadata holds bibliographic information extracted from the source.
// Absent fields stay empty; extraction never fails on missing metadata.
type Metadata struct {
	Title       string   `json:"title"`
	Language    string   `json:"language"`
	Authors     []string `json:"authors"`
	Description string   `json:"description,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	Date        string   `json:"date,omitempty"`
	Identifiers []string `json:"identifiers,omitempty"`
	Subjects    []string `json:"subjects,omitempty"`
}

// DisplayAuthors joins the author list for single-line display.
func (m Metadata) DisplayAuthors() string {
	return strings.Join(m.Authors, ", ")
}

// Chapter is one content unit in the linear reading sequence: a source
// document for EPUB, a page for PDF. Href is the join key the TOC uses
// to reference content.
type Chapter struct {
	ID      string `json:"id"`
	Href    string `json:"href"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Text    string `json:"text"`
	Order   int    `json:"order"`
}

// TOCEntry is one node of the navigation tree. FileHref is Href with
// any fragment stripped; Anchor holds the stripped fragment. Children
// is empty for leaf entries.
type TOCEntry struct {
	Title    string     `json:"title"`
	Href     string     `json:"href"`
	FileHref string     `json:"file_href"`
	Anchor   string     `json:"anchor"`
	Children []TOCEntry `json:"children,omitempty"`
}

// Book is the complete converted document. It is assembled once per
// conversion and immutable afterwards.
type Book struct {
	Metadata Metadata          `json:"metadata"`
	Spine    []Chapter         `json:"spine"`
	TOC      []TOCEntry        `json:"toc"`
	Images   map[string]string `json:"images"`

	SourceFile  string `json:"source_file"`
	ProcessedAt string `json:"processed_at"`
	Version     string `json:"version"`
}

// ChapterCount reports the number of content units in the spine.
func (b *Book) ChapterCount() int {
	return len(b.Spine)
}

// ChapterByHref returns the spine chapter whose href matches, or nil.
// TOC entries may reference hrefs that no longer resolve; callers must
// treat a nil result as a broken link, not an error.
func (b *Book) ChapterByHref(href string) *Chapter {
	for i := range b.Spine {
		if b.Spine[i].Href == href {
			return &b.Spine[i]
		}
	}
	return nil
}
