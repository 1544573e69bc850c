package window

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formview/pkg/attrs"
	"github.com/goliatone/go-formview/pkg/binding"
	"github.com/goliatone/go-formview/pkg/button"
	"github.com/goliatone/go-formview/pkg/form"
	"github.com/goliatone/go-formview/pkg/imaging"
	"github.com/goliatone/go-formview/pkg/markup"
	"github.com/goliatone/go-formview/pkg/toolkit"
)

// scope carries the enclosing <select> down to its options, through any
// containers in between.
type scope struct {
	name     string
	multiple bool
	value    *binding.String
}

func (s scope) inSelect() bool {
	return s.multiple || s.value != nil
}

func (w *Window) buildHead(head *markup.Node) error {
	if head == nil {
		return nil
	}
	for _, node := range head.Children() {
		kind, err := ParseTag(node.Tag())
		if err != nil {
			return err
		}
		switch kind {
		case TagTitle:
			w.surface.SetTitle(node.TrimmedText())
		case TagGeometry:
			w.surface.SetGeometry(node.TrimmedText())
		default:
			return fmt.Errorf("%w: <%s> is not allowed in head", ErrUnknownTag, node.Tag())
		}
	}
	return nil
}

// buildBody builds every element child of parent into container, in
// document order.
func (w *Window) buildBody(ctx context.Context, parent *markup.Node, container toolkit.Widget, sc scope) ([]Built, error) {
	children := parent.Children()
	out := make([]Built, 0, len(children))
	for _, node := range children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kind, err := ParseTag(node.Tag())
		if err != nil {
			return nil, err
		}
		built, err := w.buildTag(ctx, kind, node, container, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func (w *Window) buildTag(ctx context.Context, kind TagKind, node *markup.Node, parent toolkit.Widget, sc scope) (Built, error) {
	switch kind {
	case TagButton:
		return w.buildButton(ctx, node, parent)
	case TagLabel:
		return w.buildLabel(node, parent)
	case TagDiv:
		return w.buildFrame(ctx, node, parent, sc, true)
	case TagScrollbox:
		return w.buildListbox(node, parent, true)
	case TagListbox:
		return w.buildListbox(node, parent, false)
	case TagImg:
		return w.buildImage(ctx, node, parent)
	case TagForm:
		return w.buildFrame(ctx, node, parent, sc, false)
	case TagInput:
		return w.buildInput(node, parent)
	case TagSelect:
		return w.buildSelect(ctx, node, parent)
	case TagOption:
		return w.buildOption(ctx, node, parent, sc)
	case TagTitle, TagGeometry:
		return Built{}, fmt.Errorf("%w: <%s> is only allowed in head", ErrUnknownTag, node.Tag())
	}
	return Built{}, fmt.Errorf("%w: <%s>", ErrUnknownTag, node.Tag())
}

func (w *Window) buildButton(ctx context.Context, node *markup.Node, parent toolkit.Widget) (Built, error) {
	opts := toolkit.ButtonOptions{Text: node.TrimmedText()}
	if img := node.First("img"); img != nil {
		src, _ := img.Attr("src")
		handle, err := w.loadImage(ctx, src, w.app.iconSize)
		if err != nil {
			return Built{}, err
		}
		opts.Image = handle
		opts.Width = w.app.iconSize
		opts.Height = w.app.iconSize
	}
	b := w.app.toolkit.NewButton(parent, opts)
	b.Grid(attrs.GridArgs(node))
	w.buttons[b.ID()] = button.FromArgs(attrs.ButtonArgs(node))
	b.OnClick(w.clicked)
	return Built{Widget: b}, nil
}

func (w *Window) buildLabel(node *markup.Node, parent toolkit.Widget) (Built, error) {
	text := node.TrimmedText()
	label := w.app.toolkit.NewLabel(parent, text)
	label.Grid(attrs.GridArgs(node))

	name, _ := node.Attr("name")
	if ref, ok := node.Attr("for"); ok && ref != "" {
		fieldName := name
		if fieldName == "" {
			fieldName = "for:" + ref
		}
		if err := w.form.AddField(form.LabelFor(fieldName, ref, label)); err != nil {
			return Built{}, fmt.Errorf("window: label for %q: %w", ref, err)
		}
	}
	if typ, _ := node.Attr("type"); typ == "display" {
		cell := binding.NewString(text)
		label.BindText(cell)
		if err := w.form.AddField(form.Display(name, cell)); err != nil {
			return Built{}, err
		}
	}
	return Built{Widget: label}, nil
}

func (w *Window) buildFrame(ctx context.Context, node *markup.Node, parent toolkit.Widget, sc scope, scrollable bool) (Built, error) {
	if scrollable && attrs.Bool(node, "scrolling") {
		return w.buildScrollFrame(ctx, node, parent, sc)
	}
	frame := w.app.toolkit.NewFrame(parent, toolkit.FrameOptions{})
	children, err := w.buildBody(ctx, node, frame, sc)
	if err != nil {
		return Built{}, err
	}
	frame.Grid(attrs.GridArgs(node))
	w.registerFrame(node, frame)
	return Built{Widget: frame, Children: children}, nil
}

func (w *Window) buildListbox(node *markup.Node, parent toolkit.Widget, forceScroll bool) (Built, error) {
	tk := w.app.toolkit
	scrolling := forceScroll || attrs.Bool(node, "scrolling")

	container := parent
	var holder toolkit.Frame
	if scrolling {
		holder = tk.NewFrame(parent, toolkit.FrameOptions{})
		container = holder
	}

	list := tk.NewListbox(container, attrs.ListboxArgs(node))
	items := listItems(node)
	list.Insert(items...)
	id := w.registerFrame(node, list)
	name, _ := node.Attr("name")
	if name == "" {
		name = id
	}
	if err := w.form.AddField(form.Listbox(name, list, items)); err != nil {
		return Built{}, err
	}

	if !scrolling {
		list.Grid(attrs.GridArgs(node))
		return Built{Widget: list}, nil
	}

	bar := tk.NewScrollbar(holder, toolkit.Vertical)
	bar.Attach(list)
	list.Grid(attrs.Args{"row": 0, "column": 0, "sticky": "nsew"})
	bar.Grid(attrs.Args{"row": 0, "column": 1, "sticky": "ns"})
	holder.Grid(attrs.GridArgs(node))
	return Built{Widget: holder, Children: []Built{{Widget: list}, {Widget: bar}}}, nil
}

func listItems(node *markup.Node) []string {
	lis := node.FindAll("li")
	items := make([]string, 0, len(lis))
	for _, li := range lis {
		items = append(items, li.TrimmedText())
	}
	return items
}

func (w *Window) buildImage(ctx context.Context, node *markup.Node, parent toolkit.Widget) (Built, error) {
	src, _ := node.Attr("src")
	handle, err := w.loadImage(ctx, src, w.app.pictureSize)
	if err != nil {
		return Built{}, err
	}
	canvas := w.app.toolkit.NewCanvas(parent, toolkit.CanvasOptions{})
	canvas.Grid(attrs.GridArgs(node))
	canvas.DrawImage(0, 0, toolkit.AnchorNW, handle)
	return Built{Widget: canvas}, nil
}

func (w *Window) buildInput(node *markup.Node, parent toolkit.Widget) (Built, error) {
	raw, _ := node.Attr("type")
	typ, err := parseInputType(raw)
	if err != nil {
		return Built{}, err
	}
	tk := w.app.toolkit
	switch typ {
	case InputText:
		initial, _ := node.Attr("default")
		cell := binding.NewString(initial)
		entry := tk.NewEntry(parent, cell)
		entry.Grid(attrs.GridArgs(node))
		name, _ := node.Attr("name")
		if err := w.form.AddField(form.Input(name, cell)); err != nil {
			return Built{}, err
		}
		return Built{Widget: entry}, nil
	case InputSubmit:
		text, _ := node.Attr("text")
		b := tk.NewButton(parent, toolkit.ButtonOptions{Text: text, Command: w.submit})
		b.Grid(attrs.GridArgs(node))
		return Built{Widget: b}, nil
	}
	return Built{}, fmt.Errorf("%w: %q", ErrUnknownInputType, raw)
}

func (w *Window) buildSelect(ctx context.Context, node *markup.Node, parent toolkit.Widget) (Built, error) {
	name, _ := node.Attr("name")
	if attrs.Bool(node, "multiple") {
		if err := w.form.AddField(form.MultiSelect(name)); err != nil {
			return Built{}, err
		}
		return w.buildFrame(ctx, node, parent, scope{name: name, multiple: true}, true)
	}

	var initial string
	if first := node.First("option"); first != nil {
		initial = optionValue(first)
	}
	cell := binding.NewString(initial)
	if err := w.form.AddField(form.Select(name, cell)); err != nil {
		return Built{}, err
	}
	return w.buildFrame(ctx, node, parent, scope{name: name, value: cell}, true)
}

func (w *Window) buildOption(ctx context.Context, node *markup.Node, parent toolkit.Widget, sc scope) (Built, error) {
	tk := w.app.toolkit
	text := node.TrimmedText()
	value := optionValue(node)

	var widget toolkit.Widget
	switch {
	case sc.multiple:
		checked := binding.NewBool(false)
		if err := w.form.AddToMultipleSelect(sc.name, form.Choice{Checked: checked, Value: value}); err != nil {
			return Built{}, err
		}
		widget = tk.NewCheck(parent, text, checked)
	case sc.inSelect():
		widget = tk.NewRadio(parent, text, sc.value, value)
	default:
		w.logger.Debug("option outside select", zap.String("value", value))
		widget = tk.NewRadio(parent, text, binding.NewString(""), value)
	}
	widget.Grid(attrs.GridArgs(node))

	built := Built{Widget: widget}
	if node.HasChildren() {
		children, err := w.buildBody(ctx, node, parent, sc)
		if err != nil {
			return Built{}, err
		}
		built.Children = children
	}
	return built, nil
}

func optionValue(node *markup.Node) string {
	if value, ok := node.Attr("value"); ok && value != "" {
		return value
	}
	return node.TrimmedText()
}

func (w *Window) registerFrame(node *markup.Node, widget toolkit.Widget) string {
	id, ok := node.Attr("id")
	if !ok || id == "" {
		id = widget.ID()
	}
	w.frames[id] = widget
	return id
}

func (w *Window) loadImage(ctx context.Context, src string, size int) (toolkit.Image, error) {
	img, err := w.app.images.Load(ctx, imaging.FromPath(src), size)
	if err != nil {
		return nil, fmt.Errorf("window: image %q: %w", src, err)
	}
	handle, err := w.app.toolkit.NewImage(img)
	if err != nil {
		return nil, fmt.Errorf("window: image %q: %w", src, err)
	}
	w.images = append(w.images, handle)
	return handle, nil
}
