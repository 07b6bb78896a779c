package separator

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
)

const paragraphSelector = "p, li, h1, h2, h3, h4, h5, h6, blockquote, td"

// SeparateHTML extracts the paragraphs of an HTML document and separates
// them.
func SeparateHTML(r io.Reader) (*frame.Frame, error) {
	paragraphs, err := HTMLParagraphs(r)
	if err != nil {
		return nil, err
	}
	return SeparateParagraphs(paragraphs), nil
}

// HTMLParagraphs returns the text of block elements in document order.
// Nested matches (a <p> inside an <li>) are taken once, from the innermost
// element. Documents without block elements fall back to the text nodes of
// <body>.
func HTMLParagraphs(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, noscript").Remove()

	var paragraphs []string
	doc.Find(paragraphSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(paragraphSelector).Length() > 0 {
			return
		}
		if text := collapseSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return paragraphs, nil
	}

	for _, body := range doc.Find("body").Nodes {
		paragraphs = append(paragraphs, textNodes(body)...)
	}
	return paragraphs, nil
}

func textNodes(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := collapseSpace(n.Data); text != "" {
				out = append(out, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
