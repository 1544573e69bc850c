// Package headless implements the toolkit interfaces in memory. Nothing is
// drawn; every widget is recorded in a tree that tests, the snapshot
// renderer and the prompt toolkit can inspect and drive.
package headless

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/goliatone/go-formview/pkg/attrs"
	"github.com/goliatone/go-formview/pkg/binding"
	"github.com/goliatone/go-formview/pkg/toolkit"
)

// Name is the registry name of the headless toolkit.
const Name = "headless"

// Dialog is a recorded error dialog.
type Dialog struct {
	Title   string
	Message string
}

// Toolkit records widgets instead of drawing them.
type Toolkit struct {
	surfaces []*Surface
	byID     map[string]*Node
	grab     *Surface
	focus    *Surface
	dialogs  []Dialog
	images   map[string]*Image
	imageSeq int
	rootSeq  int

	quitOnce sync.Once
	quit     chan struct{}
}

var _ toolkit.Toolkit = (*Toolkit)(nil)

// New constructs an empty headless toolkit.
func New() *Toolkit {
	return &Toolkit{
		byID:   make(map[string]*Node),
		images: make(map[string]*Image),
		quit:   make(chan struct{}),
	}
}

// Factory adapts New to toolkit.Factory.
func Factory() (toolkit.Toolkit, error) {
	return New(), nil
}

// Name reports the toolkit identifier.
func (t *Toolkit) Name() string { return Name }

// NewSurface creates a root surface (no parent) or a child transient to
// opts.Parent.
func (t *Toolkit) NewSurface(opts toolkit.SurfaceOptions) (toolkit.Surface, error) {
	s := &Surface{}
	s.Node = &Node{Kind: KindSurface, owner: t, self: s}
	if opts.Parent != nil {
		parent, ok := opts.Parent.(*Surface)
		if !ok {
			return nil, errors.New("headless: parent surface belongs to another toolkit")
		}
		s.transient = parent
	}
	t.rootSeq++
	if t.rootSeq == 1 {
		s.id = "."
	} else {
		s.id = fmt.Sprintf(".!toplevel%d", t.rootSeq-1)
	}
	s.toolkit = t
	t.surfaces = append(t.surfaces, s)
	t.byID[s.id] = s.Node

	body := &Frame{}
	body.Node = t.child(s.Node, KindFrame, body)
	s.body = body
	return s, nil
}

// NewFrame creates a container.
func (t *Toolkit) NewFrame(parent toolkit.Widget, opts toolkit.FrameOptions) toolkit.Frame {
	f := &Frame{}
	f.Node = t.child(nodeOf(parent), KindFrame, f)
	f.Options = map[string]any{}
	if opts.Relief != "" {
		f.Options["relief"] = opts.Relief
	}
	if opts.Border != 0 {
		f.Options["bd"] = opts.Border
	}
	return f
}

// NewLabel creates a static label.
func (t *Toolkit) NewLabel(parent toolkit.Widget, text string) toolkit.Label {
	l := &Label{}
	l.Node = t.child(nodeOf(parent), KindLabel, l)
	l.Caption = text
	return l
}

// NewButton creates a button.
func (t *Toolkit) NewButton(parent toolkit.Widget, opts toolkit.ButtonOptions) toolkit.Button {
	b := &Button{Image: opts.Image, command: opts.Command}
	b.Node = t.child(nodeOf(parent), KindButton, b)
	b.Caption = opts.Text
	b.Options = map[string]any{}
	if opts.Width != 0 {
		b.Options["width"] = opts.Width
	}
	if opts.Height != 0 {
		b.Options["height"] = opts.Height
	}
	return b
}

// NewEntry creates a text entry bound to value.
func (t *Toolkit) NewEntry(parent toolkit.Widget, value *binding.String) toolkit.Widget {
	e := &Entry{Value: value}
	e.Node = t.child(nodeOf(parent), KindEntry, e)
	e.watch(value.Watch(func(s string) { e.Caption = s }))
	return e
}

// NewListbox creates a list widget.
func (t *Toolkit) NewListbox(parent toolkit.Widget, args attrs.Args) toolkit.Listbox {
	l := &Listbox{Args: args}
	l.Node = t.child(nodeOf(parent), KindListbox, l)
	return l
}

// NewScrollbar creates a scrollbar.
func (t *Toolkit) NewScrollbar(parent toolkit.Widget, orient toolkit.Orientation) toolkit.Scrollbar {
	s := &Scrollbar{Orient: orient}
	s.Node = t.child(nodeOf(parent), KindScrollbar, s)
	return s
}

// NewCanvas creates a drawing surface.
func (t *Toolkit) NewCanvas(parent toolkit.Widget, opts toolkit.CanvasOptions) toolkit.Canvas {
	c := &Canvas{}
	c.Node = t.child(nodeOf(parent), KindCanvas, c)
	c.Options = map[string]any{"highlightthickness": opts.HighlightThickness}
	return c
}

// NewRadio creates an exclusive-choice widget bound to value.
func (t *Toolkit) NewRadio(parent toolkit.Widget, text string, value *binding.String, choice string) toolkit.Widget {
	r := &Radio{Value: value, Choice: choice}
	r.Node = t.child(nodeOf(parent), KindRadio, r)
	r.Caption = text
	return r
}

// NewCheck creates a checkbutton bound to checked.
func (t *Toolkit) NewCheck(parent toolkit.Widget, text string, checked *binding.Bool) toolkit.Widget {
	c := &Check{Checked: checked}
	c.Node = t.child(nodeOf(parent), KindCheck, c)
	c.Caption = text
	return c
}

// NewImage registers img as a displayable image.
func (t *Toolkit) NewImage(img image.Image) (toolkit.Image, error) {
	if img == nil {
		return nil, errors.New("headless: image is nil")
	}
	t.imageSeq++
	handle := &Image{
		id:    fmt.Sprintf("pyimage%d", t.imageSeq),
		size:  img.Bounds().Size(),
		owner: t,
	}
	t.images[handle.id] = handle
	return handle, nil
}

// ShowError records an error dialog.
func (t *Toolkit) ShowError(title, message string) {
	t.dialogs = append(t.dialogs, Dialog{Title: title, Message: message})
}

// Run blocks until Quit is called or ctx is done.
func (t *Toolkit) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.quit:
		return nil
	}
}

// Quit ends Run.
func (t *Toolkit) Quit() {
	t.quitOnce.Do(func() { close(t.quit) })
}

// Done is closed once Quit has been called.
func (t *Toolkit) Done() <-chan struct{} { return t.quit }

// Dialogs returns every error dialog shown so far.
func (t *Toolkit) Dialogs() []Dialog {
	return append([]Dialog(nil), t.dialogs...)
}

// Surfaces returns the live surfaces in creation order.
func (t *Toolkit) Surfaces() []*Surface {
	return append([]*Surface(nil), t.surfaces...)
}

// Grabbed returns the surface currently holding the input grab.
func (t *Toolkit) Grabbed() *Surface { return t.grab }

// Focused returns the surface that last took focus.
func (t *Toolkit) Focused() *Surface { return t.focus }

// Lookup finds a live widget by ID.
func (t *Toolkit) Lookup(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// LiveImages reports how many images have not been released.
func (t *Toolkit) LiveImages() int { return len(t.images) }

func (t *Toolkit) child(parent *Node, kind Kind, self toolkit.Widget) *Node {
	n := &Node{Kind: kind, parent: parent, owner: t, self: self}
	if parent != nil {
		n.id = parent.childID(kind)
		parent.children = append(parent.children, n)
	} else {
		n.id = fmt.Sprintf(".!orphan%s%d", kind, len(t.byID))
	}
	t.byID[n.id] = n
	return n
}

func (t *Toolkit) forget(n *Node) {
	n.Walk(func(child *Node) bool {
		delete(t.byID, child.id)
		return true
	})
	delete(t.byID, n.id)
	for i, s := range t.surfaces {
		if s.Node == n {
			t.surfaces = append(t.surfaces[:i], t.surfaces[i+1:]...)
			break
		}
	}
	if t.grab != nil && t.grab.Node == n {
		t.grab = nil
	}
	if t.focus != nil && t.focus.Node == n {
		t.focus = nil
	}
}

// Frame is a recorded container.
type Frame struct {
	*Node
}

// Surface is a recorded top-level window.
type Surface struct {
	*Node
	Title     string
	Geometry  string
	transient *Surface
	toolkit   *Toolkit
	body      *Frame
	onClose   func()
}

// SetTitle records the window title.
func (s *Surface) SetTitle(title string) { s.Title = title }

// SetGeometry records the window geometry string.
func (s *Surface) SetGeometry(geometry string) { s.Geometry = geometry }

// Grab routes input to this surface.
func (s *Surface) Grab() { s.toolkit.grab = s }

// Focus gives this surface keyboard focus.
func (s *Surface) Focus() { s.toolkit.focus = s }

// OnClose registers the close handler.
func (s *Surface) OnClose(fn func()) { s.onClose = fn }

// Close simulates the user closing the window. Without a handler the surface
// is destroyed.
func (s *Surface) Close() {
	if s.onClose != nil {
		s.onClose()
		return
	}
	s.Destroy()
}

// Body returns the main frame.
func (s *Surface) Body() toolkit.Frame { return s.body }

// BodyFrame returns the main frame with its concrete type.
func (s *Surface) BodyFrame() *Frame { return s.body }

// Transient returns the surface this one is transient to.
func (s *Surface) Transient() *Surface { return s.transient }

// Image is a recorded image handle.
type Image struct {
	id       string
	size     image.Point
	owner    *Toolkit
	Released bool
}

// ID returns the image name.
func (i *Image) ID() string { return i.id }

// Size returns the pixel dimensions.
func (i *Image) Size() image.Point { return i.size }

// Release frees the image.
func (i *Image) Release() {
	if i.Released {
		return
	}
	i.Released = true
	delete(i.owner.images, i.id)
}
