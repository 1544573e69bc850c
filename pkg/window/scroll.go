package window

import (
	"context"

	"github.com/goliatone/go-formview/pkg/attrs"
	"github.com/goliatone/go-formview/pkg/markup"
	"github.com/goliatone/go-formview/pkg/toolkit"
)

// buildScrollFrame builds a bordered outer frame holding a canvas and a
// vertical scrollbar. The element's children go into an inner frame
// embedded in the canvas, and the canvas scroll region follows its content
// whenever it is resized.
func (w *Window) buildScrollFrame(ctx context.Context, node *markup.Node, parent toolkit.Widget, sc scope) (Built, error) {
	tk := w.app.toolkit

	outer := tk.NewFrame(parent, toolkit.FrameOptions{Relief: "groove", Border: 1})
	outer.Grid(attrs.GridArgs(node))

	canvas := tk.NewCanvas(outer, toolkit.CanvasOptions{HighlightThickness: 0})
	inner := tk.NewFrame(canvas, toolkit.FrameOptions{})
	bar := tk.NewScrollbar(outer, toolkit.Vertical)
	bar.Attach(canvas)

	bar.Grid(attrs.Args{"row": 0, "column": 1, "sticky": "ns"})
	canvas.Grid(attrs.Args{"row": 0, "column": 0, "sticky": "w"})
	canvas.Embed(0, 0, toolkit.AnchorNW, inner)

	size := attrs.FrameArgs(node)
	canvas.OnConfigure(func() {
		canvas.Configure(canvas.BBox(), size)
	})

	id := w.registerFrame(node, inner)
	w.frames["outer-"+id] = outer
	w.frames[id+"-canvas"] = canvas

	children, err := w.buildBody(ctx, node, inner, sc)
	if err != nil {
		return Built{}, err
	}
	return Built{Widget: outer, Children: children}, nil
}
