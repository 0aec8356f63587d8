package converter

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/openfolio/folio/internal/book"
	"github.com/openfolio/folio/internal/epub"
	"github.com/openfolio/folio/internal/pdf"
)

func pageSpine(n int) []book.Chapter {
	spine := make([]book.Chapter, n)
	for i := range spine {
		href := fmt.Sprintf("page_%d", i+1)
		spine[i] = book.Chapter{
			ID:    href,
			Href:  href,
			Title: fmt.Sprintf("Page %d", i+1),
			Order: i,
		}
	}
	return spine
}

func TestOutlineTOCNesting(t *testing.T) {
	items := []pdf.OutlineItem{
		{Level: 1, Title: "A", Page: 1},
		{Level: 2, Title: "A.1", Page: 2},
		{Level: 1, Title: "B", Page: 3},
	}

	got := outlineTOC(items, pageSpine(3))
	want := []book.TOCEntry{
		{
			Title: "A", Href: "page_1", FileHref: "page_1",
			Children: []book.TOCEntry{
				{Title: "A.1", Href: "page_2", FileHref: "page_2"},
			},
		},
		{Title: "B", Href: "page_3", FileHref: "page_3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toc = %+v, want %+v", got, want)
	}
}

func TestOutlineTOCDeepReturn(t *testing.T) {
	// A level-3 run under B must not leak back into A's children when
	// the list drops straight back to level 1.
	items := []pdf.OutlineItem{
		{Level: 1, Title: "A", Page: 1},
		{Level: 2, Title: "B", Page: 2},
		{Level: 3, Title: "C", Page: 3},
		{Level: 1, Title: "D", Page: 4},
	}

	got := outlineTOC(items, pageSpine(4))
	if len(got) != 2 {
		t.Fatalf("root entries = %d, want 2: %+v", len(got), got)
	}
	if got[1].Title != "D" {
		t.Errorf("second root = %q, want D", got[1].Title)
	}
	a := got[0]
	if len(a.Children) != 1 || a.Children[0].Title != "B" {
		t.Fatalf("A children = %+v", a.Children)
	}
	b := a.Children[0]
	if len(b.Children) != 1 || b.Children[0].Title != "C" {
		t.Errorf("B children = %+v", b.Children)
	}
}

func TestOutlineTOCMalformedJump(t *testing.T) {
	// A jump from level 1 straight to level 3 has no parent entry at
	// level 2; the orphaned run ends the outline.
	items := []pdf.OutlineItem{
		{Level: 1, Title: "A", Page: 1},
		{Level: 3, Title: "orphan", Page: 2},
		{Level: 1, Title: "B", Page: 3},
	}

	got := outlineTOC(items, pageSpine(3))
	if len(got) != 1 || got[0].Title != "A" {
		t.Errorf("toc = %+v, want only A", got)
	}
	if len(got[0].Children) != 0 {
		t.Errorf("A children = %+v, want none", got[0].Children)
	}
}

func TestOutlineTOCSkipsOutOfRangePages(t *testing.T) {
	items := []pdf.OutlineItem{
		{Level: 1, Title: "A", Page: 1},
		{Level: 1, Title: "beyond", Page: 99},
		{Level: 1, Title: "zero", Page: 0},
		{Level: 1, Title: "B", Page: 2},
	}

	got := outlineTOC(items, pageSpine(2))
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "B" {
		t.Errorf("toc = %+v, want A and B only", got)
	}
}

func TestOutlineTOCEmpty(t *testing.T) {
	if got := outlineTOC(nil, pageSpine(5)); got != nil {
		t.Errorf("toc = %+v, want nil", got)
	}
}

func TestStrideTOC(t *testing.T) {
	got := strideTOC(pageSpine(25), 10)
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	wantTitles := []string{"Page 1", "Page 11", "Page 21"}
	for i, w := range wantTitles {
		if got[i].Title != w || got[i].FileHref != got[i].Href {
			t.Errorf("entry %d = %+v, want title %q", i, got[i], w)
		}
	}
}

func TestNavPointsToTOC(t *testing.T) {
	points := []epub.NavPoint{
		{
			Title: "Chapter One",
			Href:  "OEBPS/ch%201.xhtml#start",
			Children: []epub.NavPoint{
				{Title: "Part", Href: "OEBPS/ch%201.xhtml"},
			},
		},
	}

	got := navPointsToTOC(points)
	want := []book.TOCEntry{
		{
			Title:    "Chapter One",
			Href:     "OEBPS/ch 1.xhtml#start",
			FileHref: "OEBPS/ch 1.xhtml",
			Anchor:   "start",
			Children: []book.TOCEntry{
				{Title: "Part", Href: "OEBPS/ch 1.xhtml", FileHref: "OEBPS/ch 1.xhtml"},
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toc = %+v, want %+v", got, want)
	}
}

func TestHumanizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"chapter_01.xhtml", "Chapter 01"},
		{"the_great_escape.html", "The Great Escape"},
		{"intro.xhtml", "Intro"},
	}
	for _, tt := range tests {
		if got := humanizeFilename(tt.in); got != tt.want {
			t.Errorf("humanizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
