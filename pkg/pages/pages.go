// Package pages resolves link names to page documents stored under a single
// pages directory.
package pages

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/goliatone/go-formview/pkg/markup"
)

// DefaultDir is the pages directory used when none is configured.
const DefaultDir = "gui_pages"

// ErrNotFound is returned when a link does not name an existing page.
var ErrNotFound = errors.New("pages: page not found")

// Resolver maps link names onto page files.
type Resolver struct {
	dir  string
	fsys fs.FS
}

// New resolves links against the directory dir on disk.
func New(dir string) *Resolver {
	if dir == "" {
		dir = DefaultDir
	}
	return &Resolver{dir: dir, fsys: os.DirFS(dir)}
}

// NewFS resolves links against fsys. dir is only used to report paths.
func NewFS(fsys fs.FS, dir string) *Resolver {
	if dir == "" {
		dir = DefaultDir
	}
	return &Resolver{dir: dir, fsys: fsys}
}

// Dir returns the pages directory.
func (r *Resolver) Dir() string { return r.dir }

// Path returns the display path of link, whether or not it exists.
func (r *Resolver) Path(link string) string {
	return filepath.Join(r.dir, link)
}

// Resolve reports the path of link and whether a regular file exists there.
func (r *Resolver) Resolve(link string) (string, bool) {
	p := r.Path(link)
	name, ok := fsName(link)
	if !ok || r.fsys == nil {
		return p, false
	}
	info, err := fs.Stat(r.fsys, name)
	if err != nil || !info.Mode().IsRegular() {
		return p, false
	}
	return p, true
}

// Load parses the page named by link.
func (r *Resolver) Load(ctx context.Context, link string) (*markup.Document, error) {
	p, ok := r.Resolve(link)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	name, _ := fsName(link)
	doc, err := markup.LoadFS(ctx, r.fsys, name)
	if err != nil {
		return nil, err
	}
	doc.Source = p
	return doc, nil
}

func fsName(link string) (string, bool) {
	if link == "" {
		return "", false
	}
	name := path.Clean(filepath.ToSlash(link))
	if !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}
