package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// opfPackage represents the OPF XML structure
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata represents the metadata section
type opfMetadata struct {
	Title       []string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator     []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Language    []string `xml:"http://purl.org/dc/elements/1.1/ language"`
	Identifier  []string `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Publisher   []string `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Date        []string `xml:"http://purl.org/dc/elements/1.1/ date"`
	Description []string `xml:"http://purl.org/dc/elements/1.1/ description"`
	Subject     []string `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Meta        []opfMeta `xml:"meta"`
}

// opfMeta represents a meta element (EPUB 2.0 cover declaration)
type opfMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

// opfManifest represents the manifest section
type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

// opfManifestItem represents an item in the manifest
type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// opfSpine represents the spine section
type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

// opfItemRef represents an itemref in the spine
type opfItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// ParseOPF parses OPF file content and returns the OPF structure.
// opfDir is the directory containing the OPF file (e.g., "OEBPS");
// manifest hrefs are resolved against it so they address the zip root.
func ParseOPF(content []byte, opfDir string) (*OPF, error) {
	var pkg opfPackage
	if err := xml.Unmarshal(content, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse OPF XML: %w", err)
	}

	opf := &OPF{
		Manifest: make(map[string]ManifestItem),
		Version:  pkg.Version,
	}

	opf.Metadata = parseMetadata(&pkg.Metadata)

	for _, item := range pkg.Manifest.Items {
		manifestItem := ManifestItem{
			ID:        item.ID,
			Href:      joinPath(opfDir, item.Href),
			MediaType: item.MediaType,
		}

		// Properties are space-separated
		if item.Properties != "" {
			manifestItem.Properties = strings.Fields(item.Properties)
		}

		opf.Manifest[item.ID] = manifestItem
		opf.ManifestOrder = append(opf.ManifestOrder, item.ID)

		// EPUB 3 marks the navigation document with a "nav" property
		if opf.NavPath == "" {
			for _, prop := range manifestItem.Properties {
				if prop == "nav" {
					opf.NavPath = manifestItem.Href
				}
			}
		}
	}

	for _, itemRef := range pkg.Spine.ItemRefs {
		opf.Spine = append(opf.Spine, SpineItem{
			IDRef:  itemRef.IDRef,
			Linear: itemRef.Linear != "no",
		})
	}

	// Resolve NCX path from the spine toc attribute
	if pkg.Spine.Toc != "" {
		if ncxItem, ok := opf.Manifest[pkg.Spine.Toc]; ok {
			opf.NCXPath = ncxItem.Href
		}
	}

	return opf, nil
}

// parseMetadata maps OPF metadata onto the engine model: first entry
// wins for single-valued fields, list fields keep document order.
func parseMetadata(meta *opfMetadata) Metadata {
	md := Metadata{
		Authors:     append([]string(nil), meta.Creator...),
		Identifiers: append([]string(nil), meta.Identifier...),
		Subjects:    append([]string(nil), meta.Subject...),
	}

	md.Title = first(meta.Title)
	md.Language = first(meta.Language)
	md.Publisher = first(meta.Publisher)
	md.Date = first(meta.Date)
	md.Description = first(meta.Description)

	for _, m := range meta.Meta {
		if m.Name == "cover" && m.Content != "" {
			md.CoverID = m.Content
			break
		}
	}

	return md
}

func first(values []string) string {
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

// joinPath joins the OPF directory with a relative href, keeping
// forward slashes and resolving any . or .. segments.
func joinPath(base, rel string) string {
	if base == "" || base == "." {
		return path.Clean(rel)
	}
	return path.Clean(path.Join(base, rel))
}

// FindCoverImage finds the cover image in the manifest
func (opf *OPF) FindCoverImage() (string, bool) {
	// EPUB 3.0: cover-image property
	for _, id := range opf.ManifestOrder {
		item := opf.Manifest[id]
		for _, prop := range item.Properties {
			if prop == "cover-image" {
				return item.Href, true
			}
		}
	}

	// EPUB 2.0: meta name="cover"
	if opf.Metadata.CoverID != "" {
		if item, ok := opf.Manifest[opf.Metadata.CoverID]; ok {
			return item.Href, true
		}
	}

	return "", false
}
