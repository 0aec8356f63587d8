package converter

import (
	"bytes"
	"fmt"
	"log"
	"path"

	"github.com/PuerkitoBio/goquery"

	"github.com/openfolio/folio/internal/book"
	"github.com/openfolio/folio/internal/epub"
)

// convertEPUB runs the EPUB pipeline: container open, OPF parse,
// metadata, image extraction, navigation TOC, and spine assembly.
func convertEPUB(sourcePath, outDir string, opts Options) (*book.Book, error) {
	r, err := epub.Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	opfData, err := r.ReadFile(r.OPFPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read OPF: %w", err)
	}

	opf, err := epub.ParseOPF(opfData, path.Dir(r.OPFPath()))
	if err != nil {
		return nil, err
	}

	md := epubMetadata(opf)

	imagesDir, err := prepareOutputDir(outDir)
	if err != nil {
		return nil, err
	}

	images, err := extractEPUBImages(r, opf, imagesDir)
	if err != nil {
		return nil, err
	}

	toc := buildEPUBTOC(r, opf)
	spine := assembleSpine(r, opf, images)

	return newBook(md, spine, toc, images, sourcePath), nil
}

// epubMetadata maps OPF metadata onto the model, defaulting the fields
// a reader cannot do without.
func epubMetadata(opf *epub.OPF) book.Metadata {
	md := book.Metadata{
		Title:       opf.Metadata.Title,
		Language:    opf.Metadata.Language,
		Authors:     opf.Metadata.Authors,
		Description: opf.Metadata.Description,
		Publisher:   opf.Metadata.Publisher,
		Date:        opf.Metadata.Date,
		Identifiers: opf.Metadata.Identifiers,
		Subjects:    opf.Metadata.Subjects,
	}
	if md.Title == "" {
		md.Title = "Untitled"
	}
	if md.Language == "" {
		md.Language = "en"
	}
	return md
}

// assembleSpine walks the declared reading order and emits one chapter
// per resolvable content document. Unresolvable or non-document refs
// are skipped without leaving gaps: Order always equals the position
// in the emitted sequence.
func assembleSpine(r *epub.Reader, opf *epub.OPF, images map[string]string) []book.Chapter {
	var spine []book.Chapter

	for _, ref := range opf.Spine {
		item, ok := opf.Manifest[ref.IDRef]
		if !ok {
			log.Printf("warning: spine item %q not found in manifest, skipping", ref.IDRef)
			continue
		}
		if !item.IsDocument() {
			continue
		}

		data, err := r.ReadFile(item.Href)
		if err != nil {
			log.Printf("warning: failed to read %q: %v, skipping", item.Href, err)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
		if err != nil {
			log.Printf("warning: failed to parse %q: %v, skipping", item.Href, err)
			continue
		}

		Sanitize(doc, images)

		order := len(spine)
		spine = append(spine, book.Chapter{
			ID:   ref.IDRef,
			Href: item.Href, // join key between TOC entries and content
			// Placeholder; readers overlay titles from the TOC
			Title:   fmt.Sprintf("Section %d", order+1),
			Content: bodyHTML(doc),
			Text:    PlainText(doc),
			Order:   order,
		})
	}

	return spine
}
