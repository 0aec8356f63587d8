package epub

import (
	"errors"
	"strings"
	"testing"
)

func TestOpenLocatesOPF(t *testing.T) {
	fp := writeTestEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf":      `<package/>`,
	})

	r, err := Open(fp)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.OPFPath() != "OEBPS/content.opf" {
		t.Errorf("OPFPath = %q", r.OPFPath())
	}
}

func TestOpenWithoutMimetype(t *testing.T) {
	// Best-effort recovery: a missing mimetype entry is not fatal.
	fp := writeTestEPUB(t, map[string]string{
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf":      `<package/>`,
	})

	r, err := Open(fp)
	if err != nil {
		t.Fatalf("Open without mimetype: %v", err)
	}
	r.Close()
}

func TestOpenMissingContainer(t *testing.T) {
	fp := writeTestEPUB(t, map[string]string{
		"mimetype": "application/epub+zip",
	})

	if _, err := Open(fp); !errors.Is(err, ErrContainerNotFound) {
		t.Errorf("expected ErrContainerNotFound, got %v", err)
	}
}

func TestOpenNotAZip(t *testing.T) {
	if _, err := Open("/nonexistent/book.epub"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadFile(t *testing.T) {
	fp := writeTestEPUB(t, map[string]string{
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf":      `<package/>`,
		"OEBPS/ch1.xhtml":        "<html><body>hi</body></html>",
	})

	r, err := Open(fp)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	data, err := r.ReadFile("OEBPS/ch1.xhtml")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hi") {
		t.Errorf("unexpected content: %s", data)
	}

	// ./-prefixed paths normalize to the same entry
	if !r.HasFile("./OEBPS/ch1.xhtml") {
		t.Error("expected normalized path lookup to succeed")
	}

	if _, err := r.ReadFile("OEBPS/missing.xhtml"); err == nil {
		t.Error("expected error for missing entry")
	}
}
