package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// hasClass checks if a node has a specific CSS class
func hasClass(n *html.Node, className string) bool {
	for _, class := range strings.Fields(attr(n, "class")) {
		if class == className {
			return true
		}
	}
	return false
}

// attr gets an attribute value from a node
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// skipped reports elements whose text never belongs to a cell value:
// footnote markers, hidden sort keys, styles and scripts
func skipped(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}

	switch n.Data {
	case "style", "script":
		return true
	case "sup":
		return hasClass(n, "reference")
	}

	if hasClass(n, "sortkey") || hasClass(n, "mw-ref") {
		return true
	}
	style := strings.ReplaceAll(strings.ToLower(attr(n, "style")), " ", "")
	return strings.Contains(style, "display:none")
}

// cellText renders the visible text of a cell with <br> as a space and
// whitespace collapsed
func cellText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if skipped(node) {
			return
		}
		switch {
		case node.Type == html.TextNode:
			buf.WriteString(node.Data)
		case node.Type == html.ElementNode && node.Data == "br":
			buf.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(buf.String()), " ")
}
