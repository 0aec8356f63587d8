package converter

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/openfolio/folio/internal/epub"
)

// SanitizeFilename reduces a filename to letters, digits, '.', '_'
// and '-'. Distinct source names can collapse to the same sanitized
// name; in that case the last extracted asset wins.
func SanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == '.' || r == '_' || r == '-':
			out = append(out, r)
		}
	}
	return string(out)
}

// extractEPUBImages writes every embedded image asset into imagesDir
// under a sanitized filename and returns the lookup table used for
// reference rewriting. Each asset is indexed under both its full
// internal path and its bare filename, because content markup
// references assets inconsistently.
func extractEPUBImages(r *epub.Reader, opf *epub.OPF, imagesDir string) (map[string]string, error) {
	images := make(map[string]string)

	for _, id := range opf.ManifestOrder {
		item := opf.Manifest[id]
		if !item.IsImage() {
			continue
		}

		data, err := r.ReadFile(item.Href)
		if err != nil {
			log.Printf("warning: failed to read image %q: %v, skipping", item.Href, err)
			continue
		}

		base := path.Base(item.Href)
		safe := SanitizeFilename(base)
		if safe == "" {
			log.Printf("warning: image name %q sanitizes to nothing, skipping", base)
			continue
		}

		if err := os.WriteFile(filepath.Join(imagesDir, safe), data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write image %s: %w", safe, err)
		}

		rel := imagesDirName + "/" + safe
		images[item.Href] = rel
		images[base] = rel
	}

	return images, nil
}
