package headless

import (
	"fmt"

	"github.com/goliatone/go-formview/pkg/attrs"
	"github.com/goliatone/go-formview/pkg/binding"
	"github.com/goliatone/go-formview/pkg/toolkit"
)

// Kind names the widget type a Node records.
type Kind string

const (
	KindSurface   Kind = "surface"
	KindFrame     Kind = "frame"
	KindLabel     Kind = "label"
	KindButton    Kind = "button"
	KindEntry     Kind = "entry"
	KindListbox   Kind = "listbox"
	KindScrollbar Kind = "scrollbar"
	KindCanvas    Kind = "canvas"
	KindRadio     Kind = "radiobutton"
	KindCheck     Kind = "checkbutton"
)

// Node is the recorded state of one widget. Exported fields are meant for
// inspection; mutate widgets through their methods.
type Node struct {
	Kind      Kind
	Caption   string
	GridArgs  attrs.Args
	Gridded   bool
	Destroyed bool
	Options   map[string]any

	id       string
	parent   *Node
	children []*Node
	counters map[Kind]int
	cancels  []func()
	owner    *Toolkit
	self     toolkit.Widget
}

func (n *Node) node() *Node { return n }

// Widget returns the typed wrapper (*Label, *Button, ...) for the node.
func (n *Node) Widget() toolkit.Widget { return n.self }

// ID returns the tk-style widget path, e.g. ".!frame.!button2".
func (n *Node) ID() string { return n.id }

// Grid records the placement arguments.
func (n *Node) Grid(args attrs.Args) {
	n.GridArgs = args
	n.Gridded = true
}

// Destroy marks the node and its subtree destroyed, detaches any cell
// watchers and removes it from its parent.
func (n *Node) Destroy() {
	if n.Destroyed {
		return
	}
	n.destroyTree()
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	if n.owner != nil {
		n.owner.forget(n)
	}
}

func (n *Node) destroyTree() {
	n.Destroyed = true
	for _, cancel := range n.cancels {
		cancel()
	}
	n.cancels = nil
	for _, child := range n.children {
		child.destroyTree()
	}
}

// Parent returns the parent node, nil for surfaces.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the live child nodes in creation order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Walk visits n and every live descendant depth first.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) watch(cancel func()) {
	n.cancels = append(n.cancels, cancel)
}

func (n *Node) childID(kind Kind) string {
	if n.counters == nil {
		n.counters = make(map[Kind]int)
	}
	n.counters[kind]++
	suffix := ""
	if c := n.counters[kind]; c > 1 {
		suffix = fmt.Sprint(c)
	}
	base := n.id
	if base == "." {
		base = ""
	}
	return base + ".!" + string(kind) + suffix
}

type noder interface {
	node() *Node
}

func nodeOf(w toolkit.Widget) *Node {
	if w == nil {
		return nil
	}
	if n, ok := w.(noder); ok {
		return n.node()
	}
	return nil
}

// Label is a recorded label.
type Label struct {
	*Node
	bound  *binding.String
	cancel func()
}

// Text returns the displayed text.
func (l *Label) Text() string { return l.Caption }

// SetText replaces the displayed text and drops any binding.
func (l *Label) SetText(text string) {
	l.unbind()
	l.Caption = text
}

// BindText makes the label follow v.
func (l *Label) BindText(v *binding.String) {
	l.unbind()
	l.bound = v
	l.cancel = v.Watch(func(s string) { l.Caption = s })
	l.watch(l.unbind)
}

// Bound returns the cell the label follows, if any.
func (l *Label) Bound() *binding.String { return l.bound }

func (l *Label) unbind() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.bound = nil
}

// Button is a recorded button.
type Button struct {
	*Node
	Image   toolkit.Image
	command func()
	onClick func(toolkit.Widget)
}

// OnClick installs the click handler.
func (b *Button) OnClick(fn func(src toolkit.Widget)) { b.onClick = fn }

// Click simulates a user click.
func (b *Button) Click() {
	if b.Destroyed {
		return
	}
	if b.onClick != nil {
		b.onClick(b)
	}
	if b.command != nil {
		b.command()
	}
}

// Entry is a recorded text entry.
type Entry struct {
	*Node
	Value *binding.String
}

// Type simulates the user replacing the entry text.
func (e *Entry) Type(text string) { e.Value.Set(text) }

// Listbox is a recorded list widget.
type Listbox struct {
	*Node
	Args      attrs.Args
	items     []string
	selection []int
	YFirst    float64
}

// Insert appends items at the end.
func (l *Listbox) Insert(items ...string) { l.items = append(l.items, items...) }

// Items returns the current entries.
func (l *Listbox) Items() []string { return append([]string(nil), l.items...) }

// Selection returns the selected indices.
func (l *Listbox) Selection() []int { return append([]int(nil), l.selection...) }

// Select replaces the selection. Out-of-range indices are ignored.
func (l *Listbox) Select(indices ...int) {
	l.selection = l.selection[:0]
	for _, idx := range indices {
		if idx >= 0 && idx < len(l.items) {
			l.selection = append(l.selection, idx)
		}
	}
}

// YView scrolls so that fraction first of the content is at the top.
func (l *Listbox) YView(first float64) { l.YFirst = first }

// Scrollbar is a recorded scrollbar.
type Scrollbar struct {
	*Node
	Orient toolkit.Orientation
	Target toolkit.Scrollable
}

// Attach wires the scrollbar to target.
func (s *Scrollbar) Attach(target toolkit.Scrollable) { s.Target = target }

// Scroll simulates dragging the scrollbar.
func (s *Scrollbar) Scroll(first float64) {
	if s.Target != nil {
		s.Target.YView(first)
	}
}

// CanvasItem is something drawn on or embedded in a canvas.
type CanvasItem struct {
	X, Y   int
	Anchor toolkit.Anchor
	Image  toolkit.Image
	Child  toolkit.Frame
}

// Canvas is a recorded drawing surface.
type Canvas struct {
	*Node
	Items        []CanvasItem
	ScrollRegion toolkit.Region
	ConfigArgs   attrs.Args
	YFirst       float64
	onConfigure  []func()
}

// DrawImage records an image item.
func (c *Canvas) DrawImage(x, y int, anchor toolkit.Anchor, img toolkit.Image) {
	c.Items = append(c.Items, CanvasItem{X: x, Y: y, Anchor: anchor, Image: img})
}

// Embed records an embedded frame.
func (c *Canvas) Embed(x, y int, anchor toolkit.Anchor, child toolkit.Frame) {
	c.Items = append(c.Items, CanvasItem{X: x, Y: y, Anchor: anchor, Child: child})
}

// BBox is the union of all item rectangles. Embedded frames count as
// points since the headless toolkit does no geometry management.
func (c *Canvas) BBox() toolkit.Region {
	var r toolkit.Region
	for i, item := range c.Items {
		x1, y1 := item.X, item.Y
		if item.Image != nil {
			size := item.Image.Size()
			x1 += size.X
			y1 += size.Y
		}
		if i == 0 {
			r = toolkit.Region{X0: item.X, Y0: item.Y, X1: x1, Y1: y1}
			continue
		}
		r.X0 = min(r.X0, item.X)
		r.Y0 = min(r.Y0, item.Y)
		r.X1 = max(r.X1, x1)
		r.Y1 = max(r.Y1, y1)
	}
	return r
}

// Configure records the scroll region and size arguments.
func (c *Canvas) Configure(region toolkit.Region, args attrs.Args) {
	c.ScrollRegion = region
	c.ConfigArgs = args
}

// OnConfigure registers a resize handler.
func (c *Canvas) OnConfigure(fn func()) {
	if fn != nil {
		c.onConfigure = append(c.onConfigure, fn)
	}
}

// Resize simulates the canvas being resized by the window manager.
func (c *Canvas) Resize() {
	for _, fn := range c.onConfigure {
		fn()
	}
}

// YView scrolls the canvas.
func (c *Canvas) YView(first float64) { c.YFirst = first }

// Radio is a recorded exclusive-choice widget.
type Radio struct {
	*Node
	Value  *binding.String
	Choice string
}

// Choose simulates the user selecting this radio.
func (r *Radio) Choose() { r.Value.Set(r.Choice) }

// Selected reports whether the shared cell holds this radio's choice.
func (r *Radio) Selected() bool { return r.Value.Get() == r.Choice }

// Check is a recorded checkbutton.
type Check struct {
	*Node
	Checked *binding.Bool
}

// Toggle simulates the user clicking the checkbutton.
func (c *Check) Toggle() { c.Checked.Set(!c.Checked.Get()) }
