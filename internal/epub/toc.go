package epub

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LoadNavPoints loads the navigation tree for the book. EPUB 3 books
// are read from the nav document when one is declared, falling back to
// the NCX; EPUB 2 books use the NCX directly. A book with neither
// yields an empty slice, not an error; callers supply their own
// fallback structure.
func LoadNavPoints(r *Reader, opf *OPF) ([]NavPoint, error) {
	if opf.NavPath != "" {
		data, err := r.ReadFile(opf.NavPath)
		if err == nil {
			points, err := parseNavDocument(data, path.Dir(opf.NavPath))
			if err != nil {
				return nil, err
			}
			if len(points) > 0 {
				return points, nil
			}
		}
	}

	if opf.NCXPath != "" {
		data, err := r.ReadFile(opf.NCXPath)
		if err == nil {
			return parseNCX(data, path.Dir(opf.NCXPath))
		}
	}

	return nil, nil
}

// --- NCX (EPUB 2) ---

type ncxDocument struct {
	XMLName xml.Name  `xml:"ncx"`
	NavMap  ncxNavMap `xml:"navMap"`
}

type ncxNavMap struct {
	NavPoints []ncxNavPoint `xml:"navPoint"`
}

// ncxNavPoint may contain nested navPoints.
type ncxNavPoint struct {
	Label    ncxNavLabel   `xml:"navLabel"`
	Content  ncxContent    `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

type ncxNavLabel struct {
	Text string `xml:"text"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

// parseNCX parses NCX data into NavPoints. baseDir is the directory of
// the NCX file inside the archive, used to resolve relative srcs.
func parseNCX(data []byte, baseDir string) ([]NavPoint, error) {
	var doc ncxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse NCX: %w", err)
	}
	return convertNCXPoints(doc.NavMap.NavPoints, baseDir), nil
}

func convertNCXPoints(points []ncxNavPoint, baseDir string) []NavPoint {
	if len(points) == 0 {
		return nil
	}

	result := make([]NavPoint, 0, len(points))
	for _, np := range points {
		point := NavPoint{
			Title: strings.TrimSpace(np.Label.Text),
			Href:  resolveHref(baseDir, strings.TrimSpace(np.Content.Src)),
		}
		point.Children = convertNCXPoints(np.Children, baseDir)
		result = append(result, point)
	}
	return result
}

// --- Nav document (EPUB 3) ---

// parseNavDocument extracts the epub:type="toc" nav list from an
// EPUB 3 navigation document. Each list item is either a link (title
// plus href), a section heading with a nested list, or a bare heading;
// all three normalize to a NavPoint.
func parseNavDocument(data []byte, baseDir string) ([]NavPoint, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse nav document: %w", err)
	}

	var points []NavPoint
	doc.Find("nav").EachWithBreak(func(i int, nav *goquery.Selection) bool {
		if !hasEpubType(nav, "toc") {
			return true
		}
		if list := nav.Find("ol").First(); list.Length() > 0 {
			points = parseNavList(list, baseDir)
		}
		return false
	})

	return points, nil
}

func parseNavList(list *goquery.Selection, baseDir string) []NavPoint {
	var points []NavPoint
	list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		points = append(points, parseNavItem(li, baseDir))
	})
	return points
}

func parseNavItem(li *goquery.Selection, baseDir string) NavPoint {
	var point NavPoint

	if a := li.ChildrenFiltered("a").First(); a.Length() > 0 {
		point.Title = strings.TrimSpace(a.Text())
		if href, ok := a.Attr("href"); ok {
			point.Href = resolveHref(baseDir, href)
		}
	} else if span := li.ChildrenFiltered("span").First(); span.Length() > 0 {
		// Bare section heading without a target
		point.Title = strings.TrimSpace(span.Text())
	}

	if nested := li.ChildrenFiltered("ol").First(); nested.Length() > 0 {
		point.Children = parseNavList(nested, baseDir)
	}

	return point
}

// hasEpubType checks the epub:type attribute for a space-separated token.
func hasEpubType(s *goquery.Selection, token string) bool {
	val, _ := s.Attr("epub:type")
	for _, t := range strings.Fields(val) {
		if t == token {
			return true
		}
	}
	return false
}

// resolveHref resolves a navigation href against the directory of the
// document declaring it, preserving any fragment. The result matches
// manifest hrefs, which address the zip root.
func resolveHref(baseDir, href string) string {
	if href == "" {
		return ""
	}

	target, fragment, hasFragment := strings.Cut(href, "#")
	if target == "" {
		// Fragment-only reference within the nav document itself
		return href
	}

	resolved := joinPath(baseDir, target)
	if hasFragment {
		return resolved + "#" + fragment
	}
	return resolved
}
