package capture

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractionFailedText replaces page text when the document cannot be read.
const ExtractionFailedText = "Failed to extract content"

// noiseElements are dropped together with their subtree.
var noiseElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Svg:      true,
	atom.Aside:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Iframe:   true,
}

// ExtractText returns the visible text of an HTML document with whitespace
// collapsed, truncated to limit runes. limit <= 0 means no limit.
func ExtractText(doc string, limit int) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}

	var words []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if noiseElements[n.DataAtom] || isHidden(n) {
				return
			}
		case html.TextNode:
			words = append(words, strings.Fields(n.Data)...)
			return
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return truncateRunes(strings.Join(words, " "), limit), nil
}

// isHidden reports elements the page (or HideElements) has made invisible.
func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(a.Val, "true") {
				return true
			}
		case "style":
			style := strings.ToLower(strings.ReplaceAll(a.Val, " ", ""))
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit]))
}
