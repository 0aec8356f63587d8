package converter

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/openfolio/folio/internal/book"
	"github.com/openfolio/folio/internal/pdf"
)

// convertPDF runs the PDF pipeline. PDF has no reflowable markup, so
// each physical page is rendered to a PNG that doubles as the page's
// visual content, with the text layer kept alongside for search.
func convertPDF(sourcePath, outDir string, opts Options) (*book.Book, error) {
	doc, err := pdf.Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	md := pdfMetadata(doc.Info(), sourcePath)

	imagesDir, err := prepareOutputDir(outDir)
	if err != nil {
		return nil, err
	}

	images := make(map[string]string)
	var spine []book.Chapter

	for i := 0; i < doc.PageCount(); i++ {
		img, err := doc.Render(i, opts.RasterScale)
		if err != nil {
			// An unrenderable page stream aborts the conversion
			return nil, err
		}

		name := fmt.Sprintf("page_%d.png", i+1)
		if err := imaging.Save(img, filepath.Join(imagesDir, name)); err != nil {
			return nil, fmt.Errorf("failed to write page raster %s: %w", name, err)
		}
		rel := imagesDirName + "/" + name
		images[name] = rel

		text, err := doc.Text(i)
		if err != nil {
			log.Printf("warning: failed to extract text layer of page %d: %v", i+1, err)
			text = ""
		}

		id := fmt.Sprintf("page_%d", i+1)
		spine = append(spine, book.Chapter{
			ID:      id,
			Href:    id,
			Title:   fmt.Sprintf("Page %d", i+1),
			Content: pageContent(rel, i+1),
			Text:    text,
			Order:   i,
		})
	}

	toc := outlineTOC(doc.Outline(), spine)
	if len(toc) == 0 {
		toc = strideTOC(spine, opts.TOCStride)
	}

	return newBook(md, spine, toc, images, sourcePath), nil
}

// pageContent wraps a page raster in minimal display markup.
func pageContent(imgPath string, page int) string {
	return fmt.Sprintf(
		`<div style="text-align: center;"><img src="%s" alt="Page %d" style="max-width: 100%%; height: auto;"/></div>`,
		imgPath, page,
	)
}

// pdfMetadata maps the document information dictionary onto the model.
// The title falls back to the source filename; a comma-separated
// keyword string becomes the subject list.
func pdfMetadata(info map[string]string, sourcePath string) book.Metadata {
	md := book.Metadata{
		Title:       info["title"],
		Language:    "en",
		Description: info["subject"],
		Publisher:   info["producer"],
		Date:        info["creationDate"],
	}

	if md.Title == "" {
		md.Title = filepath.Base(sourcePath)
	}
	if author := info["author"]; author != "" {
		md.Authors = []string{author}
	}
	if keywords := info["keywords"]; keywords != "" {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				md.Subjects = append(md.Subjects, kw)
			}
		}
	}

	return md
}
