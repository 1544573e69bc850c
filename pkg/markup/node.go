package markup

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Node is a read-only view over an element in a parsed document.
type Node struct {
	raw *html.Node
}

// Wrap exposes an existing html.Node as a markup Node. Nil stays nil.
func Wrap(n *html.Node) *Node {
	if n == nil {
		return nil
	}
	return &Node{raw: n}
}

// Raw returns the underlying html.Node.
func (n *Node) Raw() *html.Node {
	if n == nil {
		return nil
	}
	return n.raw
}

// Tag reports the lower-cased tag name. Text, comment and document nodes
// report an empty name.
func (n *Node) Tag() string {
	if n == nil || n.raw.Type != html.ElementNode {
		return ""
	}
	return n.raw.Data
}

// Attr returns the raw attribute value and whether it was present at all.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.raw.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Attrs returns a copy of the attribute map. Later duplicates win.
func (n *Node) Attrs() map[string]string {
	if n == nil || len(n.raw.Attr) == 0 {
		return nil
	}
	out := make(map[string]string, len(n.raw.Attr))
	for _, attr := range n.raw.Attr {
		out[attr.Key] = attr.Val
	}
	return out
}

// Children returns the element children in document order. Text and comment
// nodes are skipped.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for child := n.raw.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			out = append(out, &Node{raw: child})
		}
	}
	return out
}

// HasChildren reports whether the node has at least one element descendant.
func (n *Node) HasChildren() bool {
	if n == nil {
		return false
	}
	for child := n.raw.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// Text returns the concatenated text of the node and all its descendants.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return htmlquery.InnerText(n.raw)
}

// TrimmedText is Text with surrounding whitespace removed.
func (n *Node) TrimmedText() string {
	return strings.TrimSpace(n.Text())
}

// FindAll returns every descendant element with the given tag, in document
// order.
func (n *Node) FindAll(tag string) []*Node {
	if n == nil || !validTag(tag) {
		return nil
	}
	found, err := htmlquery.QueryAll(n.raw, ".//"+tag)
	if err != nil {
		return nil
	}
	out := make([]*Node, 0, len(found))
	for _, raw := range found {
		out = append(out, &Node{raw: raw})
	}
	return out
}

// First returns the first descendant element with the given tag.
func (n *Node) First(tag string) *Node {
	if n == nil || !validTag(tag) {
		return nil
	}
	found, err := htmlquery.Query(n.raw, ".//"+tag)
	if err != nil || found == nil {
		return nil
	}
	return &Node{raw: found}
}

func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
