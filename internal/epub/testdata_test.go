package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// writeTestEPUB writes a zip archive built from the files map
// (zip-internal path -> content) to a temporary file and returns its
// path.
func writeTestEPUB(t *testing.T, files map[string]string) string {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for name, content := range files {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("writeTestEPUB: create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("writeTestEPUB: write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("writeTestEPUB: close writer: %v", err)
	}

	fp := filepath.Join(t.TempDir(), "test.epub")
	if err := os.WriteFile(fp, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writeTestEPUB: write file: %v", err)
	}
	return fp
}

const testContainerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
