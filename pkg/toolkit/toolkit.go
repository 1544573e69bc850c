// Package toolkit defines the seam between the window builder and whatever
// actually puts widgets on screen. The builder only ever talks to these
// interfaces; the headless and prompt sub-packages provide implementations.
package toolkit

import (
	"context"
	"image"

	"github.com/goliatone/go-formview/pkg/attrs"
	"github.com/goliatone/go-formview/pkg/binding"
)

// Anchor positions an item drawn or embedded on a canvas.
type Anchor string

// AnchorNW pins an item by its top-left corner.
const AnchorNW Anchor = "nw"

// Orientation of a scrollbar.
type Orientation string

// Vertical is the only orientation the builder uses.
const Vertical Orientation = "vertical"

// Widget is the minimal surface every toolkit element exposes. ID is the
// widget identity used to key button descriptors and synthesize frame ids;
// it must be unique within a toolkit instance.
type Widget interface {
	ID() string
	Grid(args attrs.Args)
	Destroy()
}

// Surface is a top-level window: the root window or a modal child.
type Surface interface {
	Widget
	SetTitle(title string)
	SetGeometry(geometry string)
	// Grab routes all input to this surface until another surface grabs.
	Grab()
	Focus()
	// OnClose registers the handler run when the user closes the surface.
	OnClose(fn func())
	// Body is the main frame every page widget is built into.
	Body() Frame
}

// Frame is a plain container.
type Frame interface {
	Widget
}

// Label displays static text or follows a string cell.
type Label interface {
	Widget
	Text() string
	SetText(text string)
	// BindText makes the label display the cell's value, live.
	BindText(v *binding.String)
}

// Button is a clickable widget.
type Button interface {
	Widget
	// OnClick installs the click handler; it receives the clicked widget.
	OnClick(fn func(src Widget))
}

// Listbox shows a list of strings.
type Listbox interface {
	Scrollable
	Insert(items ...string)
	Items() []string
	Selection() []int
	Select(indices ...int)
}

// Scrollable is a widget a scrollbar can drive.
type Scrollable interface {
	Widget
	YView(first float64)
}

// Scrollbar drives a Scrollable.
type Scrollbar interface {
	Widget
	Attach(target Scrollable)
}

// Region is a canvas scroll region in canvas coordinates.
type Region struct {
	X0, Y0, X1, Y1 int
}

// Canvas is a drawing surface that can also host an embedded frame.
type Canvas interface {
	Scrollable
	DrawImage(x, y int, anchor Anchor, img Image)
	Embed(x, y int, anchor Anchor, child Frame)
	// BBox is the bounding box of everything drawn or embedded.
	BBox() Region
	// Configure applies a scroll region and size arguments (height, width).
	Configure(region Region, args attrs.Args)
	// OnConfigure runs fn whenever the canvas is resized.
	OnConfigure(fn func())
}

// Image is a toolkit-displayable image. Release frees the rendering
// resource; the owner must keep the handle alive until then.
type Image interface {
	ID() string
	Size() image.Point
	Release()
}

// FrameOptions configure a frame.
type FrameOptions struct {
	Relief string
	Border int
}

// ButtonOptions configure a button.
type ButtonOptions struct {
	Text   string
	Image  Image
	Width  int
	Height int
	// Command runs on click in addition to any OnClick handler.
	Command func()
}

// CanvasOptions configure a canvas.
type CanvasOptions struct {
	HighlightThickness int
}

// SurfaceOptions configure a surface. A nil Parent creates the root surface;
// otherwise the surface is transient to Parent.
type SurfaceOptions struct {
	Parent Surface
}

// Toolkit creates widgets and runs the event loop.
type Toolkit interface {
	Name() string
	NewSurface(opts SurfaceOptions) (Surface, error)
	NewFrame(parent Widget, opts FrameOptions) Frame
	NewLabel(parent Widget, text string) Label
	NewButton(parent Widget, opts ButtonOptions) Button
	NewEntry(parent Widget, value *binding.String) Widget
	NewListbox(parent Widget, args attrs.Args) Listbox
	NewScrollbar(parent Widget, orient Orientation) Scrollbar
	NewCanvas(parent Widget, opts CanvasOptions) Canvas
	NewRadio(parent Widget, text string, value *binding.String, choice string) Widget
	NewCheck(parent Widget, text string, checked *binding.Bool) Widget
	NewImage(img image.Image) (Image, error)
	// ShowError presents a modal error dialog.
	ShowError(title, message string)
	// Run blocks in the event loop until Quit or ctx is done.
	Run(ctx context.Context) error
	Quit()
}
