package markup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Document is a parsed page split into its head and body regions.
type Document struct {
	// Head holds metadata tags (title, geometry). Nil when the page has none.
	Head *Node
	// Body holds the widget tags. When the page omits <body>, the whole
	// document root is used.
	Body *Node
	// Source records where the document was read from, if anywhere.
	Source string
}

var voidElements = map[string]struct{}{
	"area": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "source": {}, "wbr": {},
}

// impliedEnd lists tags whose start closes an open element of the same tag,
// the way an unclosed <li> ends at the next <li>.
var impliedEnd = map[string]struct{}{
	"li": {}, "option": {},
}

// listScopes bound the search for an open element to close implicitly.
var listScopes = map[string]struct{}{
	"html": {}, "body": {}, "div": {}, "form": {}, "select": {},
	"listbox": {}, "scrollbox": {}, "ul": {}, "ol": {},
}

// Parse reads a page from r.
func Parse(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, errors.New("markup: reader is nil")
	}
	root := &html.Node{Type: html.DocumentNode}
	stack := []*html.Node{root}
	z := html.NewTokenizer(r)

	for {
		tt := z.Next()
		top := stack[len(stack)-1]
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("markup: tokenize: %w", err)
			}
			return newDocument(root), nil

		case html.TextToken:
			top.AppendChild(&html.Node{Type: html.TextNode, Data: string(z.Text())})

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if _, implied := impliedEnd[tok.Data]; implied {
				stack = closeImplied(stack, tok.Data)
				top = stack[len(stack)-1]
			}
			el := &html.Node{
				Type:     html.ElementNode,
				Data:     tok.Data,
				DataAtom: tok.DataAtom,
				Attr:     tok.Attr,
			}
			top.AppendChild(el)
			if _, void := voidElements[tok.Data]; tt == html.StartTagToken && !void {
				stack = append(stack, el)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Data == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// closeImplied pops an open element called tag, and everything above it,
// when it sits inside the nearest list scope.
func closeImplied(stack []*html.Node, tag string) []*html.Node {
	for i := len(stack) - 1; i > 0; i-- {
		name := stack[i].Data
		if name == tag {
			return stack[:i]
		}
		if _, scope := listScopes[name]; scope {
			break
		}
	}
	return stack
}

// ParseString parses an in-memory page.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// LoadFile reads and parses the page stored at path.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	if path == "" {
		return nil, errors.New("markup: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("markup: open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("markup: parse %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// LoadFS reads and parses the page called name from fsys.
func LoadFS(ctx context.Context, fsys fs.FS, name string) (*Document, error) {
	if name == "" {
		return nil, errors.New("markup: fs path is required")
	}
	if fsys == nil {
		return nil, errors.New("markup: fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("markup: open %s: %w", name, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("markup: parse %s: %w", name, err)
	}
	doc.Source = name
	return doc, nil
}

func newDocument(root *html.Node) *Document {
	doc := &Document{
		Head: Wrap(htmlquery.FindOne(root, "//head")),
		Body: Wrap(htmlquery.FindOne(root, "//body")),
	}
	if doc.Body == nil {
		doc.Body = Wrap(synthesizeBody(root))
	}
	return doc
}

// synthesizeBody moves every top-level node except <head> under a new <body>
// element so bare fragments build the same way as full pages.
func synthesizeBody(root *html.Node) *html.Node {
	container := root
	if outer := htmlquery.FindOne(root, "/html"); outer != nil {
		container = outer
	}
	body := &html.Node{Type: html.ElementNode, Data: "body"}
	for child := container.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type != html.ElementNode || child.Data != "head" {
			container.RemoveChild(child)
			body.AppendChild(child)
		}
		child = next
	}
	container.AppendChild(body)
	return body
}
