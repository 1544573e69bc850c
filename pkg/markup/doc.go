// Package markup parses the restricted HTML-like page dialect into a read-only
// node tree. The dialect is tokenized with golang.org/x/net/html but assembled
// without HTML5 tree-construction rules: unknown tags such as <geometry> or
// <scrollbox> stay exactly where the author wrote them, and <select> keeps any
// children it was given. Deciding what a tag means is left to the window
// builder; this package only answers structural questions (children, text,
// attributes, descendant lookup via htmlquery).
package markup
