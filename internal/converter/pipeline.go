// Package converter turns source documents (EPUB, PDF) into the
// normalized book model: metadata, a linear spine of sanitized content
// units, a navigation tree, and relocated image assets, all persisted
// under a single output directory.
package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openfolio/folio/internal/book"
)

// imagesDirName is the output subdirectory holding extracted or
// rendered image assets.
const imagesDirName = "images"

const (
	defaultRasterScale = 2.0
	defaultTOCStride   = 10
)

var ErrUnsupportedFormat = errors.New("unsupported source format")

// Options tunes the conversion pipeline. The zero value selects the
// defaults: 2x page rasters and a fallback TOC node every 10th page.
type Options struct {
	RasterScale float64 // linear upscale factor for rendered PDF pages
	TOCStride   int     // page stride of the fallback PDF TOC
}

func (o Options) withDefaults() Options {
	if o.RasterScale <= 0 {
		o.RasterScale = defaultRasterScale
	}
	if o.TOCStride <= 0 {
		o.TOCStride = defaultTOCStride
	}
	return o
}

// Convert converts the source file into outDir with default options.
func Convert(sourcePath, outDir string) (*book.Book, error) {
	return ConvertWithOptions(sourcePath, outDir, Options{})
}

// ConvertWithOptions runs the full pipeline for a detected format:
// prepare the output directory, extract metadata and images, assemble
// the spine, build the TOC, serialize the record, and return the
// composed model. Any component failure aborts the whole conversion;
// partial output is superseded by the next run's directory clearing.
func ConvertWithOptions(sourcePath, outDir string, opts Options) (*book.Book, error) {
	opts = opts.withDefaults()

	var (
		b   *book.Book
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(sourcePath)); ext {
	case ".epub":
		b, err = convertEPUB(sourcePath, outDir, opts)
	case ".pdf":
		b, err = convertPDF(sourcePath, outDir, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if err := book.SaveRecord(b, outDir); err != nil {
		return nil, err
	}

	return b, nil
}

// prepareOutputDir clears any previous output and recreates the
// directory with its images subdirectory, so no stale assets survive a
// re-run.
func prepareOutputDir(outDir string) (string, error) {
	if err := os.RemoveAll(outDir); err != nil {
		return "", fmt.Errorf("failed to clear output directory: %w", err)
	}

	imagesDir := filepath.Join(outDir, imagesDirName)
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	return imagesDir, nil
}

// newBook composes the final model with its provenance fields.
func newBook(md book.Metadata, spine []book.Chapter, toc []book.TOCEntry, images map[string]string, sourcePath string) *book.Book {
	return &book.Book{
		Metadata:    md,
		Spine:       spine,
		TOC:         toc,
		Images:      images,
		SourceFile:  filepath.Base(sourcePath),
		ProcessedAt: time.Now().Format(time.RFC3339),
		Version:     book.ModelVersion,
	}
}
