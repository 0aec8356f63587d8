package epub

// OPF represents the parsed Open Package Format document
type OPF struct {
	Metadata      Metadata
	Manifest      map[string]ManifestItem // id -> item
	ManifestOrder []string                // manifest ids in document order
	Spine         []SpineItem
	Version       string
	NCXPath       string
	NavPath       string // EPUB 3 nav document, empty if absent
}

// Metadata represents the metadata section of the OPF.
// Single-valued fields take the first occurrence; list fields preserve
// document order. Every field may be empty.
type Metadata struct {
	Title       string
	Language    string
	Authors     []string
	Description string
	Publisher   string
	Date        string
	Identifiers []string
	Subjects    []string
	CoverID     string // EPUB 2.0 cover image manifest item ID (from meta name="cover")
}

// ManifestItem represents an item in the manifest
type ManifestItem struct {
	ID         string
	Href       string // zip-root-relative, slash-separated
	MediaType  string
	Properties []string
}

// IsDocument reports whether the item is a readable content document.
func (m ManifestItem) IsDocument() bool {
	return isHTMLMediaType(m.MediaType)
}

// IsImage reports whether the item is an embedded image asset.
func (m ManifestItem) IsImage() bool {
	return isImageMediaType(m.MediaType)
}

// SpineItem represents an item reference in the spine
type SpineItem struct {
	IDRef  string
	Linear bool
}

// NavPoint is one entry of the navigation tree, normalized from either
// an NCX navPoint or an EPUB 3 nav list item. Href keeps any fragment
// and is resolved to zip-root-relative form so it matches manifest
// hrefs. Children is empty for leaf entries; sections without a target
// have an empty Href.
type NavPoint struct {
	Title    string
	Href     string
	Children []NavPoint
}
