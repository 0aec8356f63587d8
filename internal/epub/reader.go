// Package epub provides read access to EPUB containers: the zip
// archive, the OPF package document, and the navigation structure
// (EPUB 3 nav document or EPUB 2 NCX).
package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader provides access to EPUB file contents
type Reader struct {
	zipReader *zip.ReadCloser
	files     map[string]*zip.File
	opfPath   string
}

// container.xml structure
type container struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

var (
	ErrContainerNotFound = errors.New("META-INF/container.xml not found")
	ErrOPFPathNotFound   = errors.New("OPF path not found in container.xml")
)

// Open opens an EPUB file and locates its package document. A missing
// or malformed mimetype entry is tolerated; the container descriptor
// and OPF path are required.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open EPUB: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File),
	}

	for _, f := range zr.File {
		r.files[normalizePath(f.Name)] = f
	}

	if err := r.parseContainer(); err != nil {
		zr.Close()
		return nil, err
	}

	return r, nil
}

// Close closes the underlying zip archive.
func (r *Reader) Close() error {
	return r.zipReader.Close()
}

// OPFPath returns the path to the OPF file
func (r *Reader) OPFPath() string {
	return r.opfPath
}

// HasFile reports whether the archive contains the given path.
func (r *Reader) HasFile(path string) bool {
	_, ok := r.files[normalizePath(path)]
	return ok
}

// ReadFile reads the contents of a file from the EPUB
func (r *Reader) ReadFile(path string) ([]byte, error) {
	path = normalizePath(path)
	f, ok := r.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// parseContainer parses container.xml to extract OPF path
func (r *Reader) parseContainer() error {
	content, err := r.ReadFile("META-INF/container.xml")
	if err != nil {
		return ErrContainerNotFound
	}

	var c container
	if err := xml.Unmarshal(content, &c); err != nil {
		return fmt.Errorf("failed to parse container.xml: %w", err)
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			r.opfPath = normalizePath(rf.FullPath)
			return nil
		}
	}

	// If no media-type match, use the first one
	if len(c.Rootfiles.Rootfile) > 0 {
		r.opfPath = normalizePath(c.Rootfiles.Rootfile[0].FullPath)
		return nil
	}

	return ErrOPFPathNotFound
}

// normalizePath normalizes file paths (removes ./ prefix)
func normalizePath(path string) string {
	return strings.TrimPrefix(path, "./")
}

// isHTMLMediaType checks if a media type indicates an XHTML content file.
func isHTMLMediaType(mediaType string) bool {
	return strings.Contains(mediaType, "html")
}

// isImageMediaType checks if a media type indicates an image file.
func isImageMediaType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}
