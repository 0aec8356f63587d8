package converter

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// strippedSelector matches markup that is unsafe or irrelevant to
// static reading: scripting, styling, embedded frames and media,
// navigation landmarks, and form controls.
const strippedSelector = "script, style, iframe, video, nav, form, button, input"

// Sanitize cleans a parsed content document in place: image references
// are rewritten through the image map, stripped node kinds and comment
// nodes are removed.
func Sanitize(doc *goquery.Document, images map[string]string) {
	rewriteImageRefs(doc, images)
	doc.Find(strippedSelector).Remove()
	for _, root := range doc.Nodes {
		removeComments(root)
	}
}

// rewriteImageRefs points img and svg image elements at extracted
// assets. The reference is percent-decoded, then matched first against
// the full source path and then against its base filename. Misses are
// left untouched: a broken image is tolerated, not an error.
func rewriteImageRefs(doc *goquery.Document, images map[string]string) {
	if len(images) == 0 {
		return
	}

	doc.Find("img, image").Each(func(i int, s *goquery.Selection) {
		n := s.Get(0)
		ref := imageRef(n)
		if ref == "" {
			return
		}

		decoded := percentDecode(ref)
		target, ok := images[decoded]
		if !ok {
			target, ok = images[path.Base(decoded)]
		}
		if !ok {
			return
		}

		setImageRef(n, target)
	})
}

// imageRef picks the reference attribute off an image node: src when
// present, otherwise a plain or xlink-namespaced href (SVG image
// elements use either depending on the authoring tool).
func imageRef(n *html.Node) string {
	var src, href string
	for _, a := range n.Attr {
		if a.Key == "src" && src == "" {
			src = a.Val
		}
		if isHrefKey(a) && href == "" {
			href = a.Val
		}
	}
	if src != "" {
		return src
	}
	return href
}

// setImageRef overwrites every candidate reference attribute that is
// present, so the rewrite holds no matter which one the renderer reads.
func setImageRef(n *html.Node, target string) {
	for i := range n.Attr {
		if n.Attr[i].Key == "src" || isHrefKey(n.Attr[i]) {
			n.Attr[i].Val = target
		}
	}
}

func isHrefKey(a html.Attribute) bool {
	return a.Key == "href" || a.Key == "xlink:href"
}

// removeComments strips comment nodes from the subtree.
func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

// bodyHTML returns the inner markup of the body element, or the whole
// document when no body delimiter exists.
func bodyHTML(doc *goquery.Document) string {
	if body := doc.Find("body").First(); body.Length() > 0 {
		if h, err := body.Html(); err == nil {
			return h
		}
	}
	if h, err := doc.Html(); err == nil {
		return h
	}
	return ""
}

// PlainText flattens a document to searchable text: text nodes joined
// by single spaces, consecutive whitespace collapsed to one space.
func PlainText(doc *goquery.Document) string {
	var b strings.Builder
	for _, root := range doc.Nodes {
		appendText(&b, root)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func appendText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(b, c)
	}
}

// percentDecode unescapes URL encoding in a reference; undecodable
// input is used as-is.
func percentDecode(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}
