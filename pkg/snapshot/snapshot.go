// Package snapshot captures the widget tree of a headless window and writes
// it out as HTML, JSON or YAML. It backs the dump command and makes page
// layouts easy to diff.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formview/pkg/toolkit/headless"
)

// Format selects the output encoding.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value onto a Format.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatHTML, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("snapshot: unknown format %q", raw)
	}
}

// Widget is the recorded state of one widget.
type Widget struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     string         `json:"kind" yaml:"kind"`
	Caption  string         `json:"caption,omitempty" yaml:"caption,omitempty"`
	Value    string         `json:"value,omitempty" yaml:"value,omitempty"`
	Checked  bool           `json:"checked,omitempty" yaml:"checked,omitempty"`
	Items    []string       `json:"items,omitempty" yaml:"items,omitempty"`
	Selected []int          `json:"selected,omitempty" yaml:"selected,omitempty"`
	Image    string         `json:"image,omitempty" yaml:"image,omitempty"`
	Grid     map[string]any `json:"grid,omitempty" yaml:"grid,omitempty"`
	Children []Widget       `json:"children,omitempty" yaml:"children,omitempty"`
}

// Window is a captured surface.
type Window struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Geometry string `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Root     Widget `json:"root" yaml:"root"`
}

// Capture records the current state of surface.
func Capture(surface *headless.Surface) Window {
	return Window{
		Title:    surface.Title,
		Geometry: surface.Geometry,
		Root:     capture(surface.Node),
	}
}

func capture(n *headless.Node) Widget {
	w := Widget{ID: n.ID(), Kind: string(n.Kind), Caption: n.Caption}
	if len(n.GridArgs) > 0 {
		w.Grid = map[string]any(n.GridArgs)
	}
	switch v := n.Widget().(type) {
	case *headless.Entry:
		w.Value = v.Value.Get()
	case *headless.Radio:
		w.Value = v.Choice
		w.Checked = v.Selected()
	case *headless.Check:
		w.Checked = v.Checked.Get()
	case *headless.Listbox:
		w.Items = v.Items()
		w.Selected = v.Selection()
	case *headless.Button:
		if v.Image != nil {
			w.Image = v.Image.ID()
		}
	case *headless.Canvas:
		for _, item := range v.Items {
			if item.Image != nil {
				w.Image = item.Image.ID()
				break
			}
		}
	}
	for _, child := range n.Children() {
		w.Children = append(w.Children, capture(child))
	}
	return w
}

// Row is one line of the HTML rendering.
type Row struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Depth   int    `json:"depth"`
	Indent  string `json:"indent"`
	Summary string `json:"summary"`
}

// Rows flattens the captured tree depth first.
func (w Window) Rows() []Row {
	var rows []Row
	var walk func(widget Widget, depth int)
	walk = func(widget Widget, depth int) {
		rows = append(rows, Row{
			ID:      widget.ID,
			Kind:    widget.Kind,
			Depth:   depth,
			Indent:  fmt.Sprintf("%dpx", depth*16),
			Summary: summarize(widget),
		})
		for _, child := range widget.Children {
			walk(child, depth+1)
		}
	}
	walk(w.Root, 0)
	return rows
}

func summarize(w Widget) string {
	var parts []string
	if w.Caption != "" {
		parts = append(parts, w.Caption)
	}
	if w.Value != "" {
		parts = append(parts, "value="+w.Value)
	}
	if w.Checked {
		parts = append(parts, "checked")
	}
	if len(w.Items) > 0 {
		parts = append(parts, "items="+strings.Join(w.Items, ","))
	}
	if w.Image != "" {
		parts = append(parts, "image="+w.Image)
	}
	if len(w.Grid) > 0 {
		keys := make([]string, 0, len(w.Grid))
		for k := range w.Grid {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		grid := make([]string, 0, len(keys))
		for _, k := range keys {
			grid = append(grid, fmt.Sprintf("%s=%v", k, w.Grid[k]))
		}
		parts = append(parts, "["+strings.Join(grid, " ")+"]")
	}
	return strings.Join(parts, " ")
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templates fs.FS
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// window.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templates = os.DirFS(path)
		}
	}
}

// Renderer writes captured windows.
type Renderer struct {
	engine *Engine
}

// New constructs a Renderer using the embedded templates by default.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templates: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	engine, err := NewEngine(cfg.templates, ".tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{engine: engine}, nil
}

// Write encodes snap to out in the given format.
func (r *Renderer) Write(out io.Writer, snap Window, format Format) error {
	switch format {
	case FormatHTML:
		_, err := r.HTML(snap, out)
		return err
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("snapshot: unknown format %q", format)
}

// HTML renders snap through window.tmpl.
func (r *Renderer) HTML(snap Window, out ...io.Writer) (string, error) {
	data := map[string]any{
		"title":    snap.Title,
		"geometry": snap.Geometry,
		"rows":     snap.Rows(),
	}
	return r.engine.RenderTemplate("window", data, out...)
}
