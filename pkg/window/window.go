package window

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-formview/pkg/button"
	"github.com/goliatone/go-formview/pkg/form"
	"github.com/goliatone/go-formview/pkg/markup"
	"github.com/goliatone/go-formview/pkg/toolkit"
)

// Built is the widget produced for one element plus whatever its children
// produced.
type Built struct {
	Widget   toolkit.Widget
	Children []Built
}

// Window displays one page document.
type Window struct {
	app     *App
	doc     *markup.Document
	def     Definition
	surface toolkit.Surface
	parent  *Window
	form    *form.Form
	buttons map[string]button.Descriptor
	frames  map[string]toolkit.Widget
	images  []toolkit.Image
	built   []Built
	logger  *zap.Logger

	posted      bool
	initialized bool
	destroyed   bool
}

// App returns the application context.
func (w *Window) App() *App { return w.app }

// Client returns the value the app was given with WithClient.
func (w *Window) Client() any { return w.app.client }

// Document returns the page the window displays.
func (w *Window) Document() *markup.Document { return w.doc }

// Surface returns the toolkit window.
func (w *Window) Surface() toolkit.Surface { return w.surface }

// Parent returns the window that opened this one, nil for the root.
func (w *Window) Parent() *Window { return w.parent }

// Root reports whether this is the root window.
func (w *Window) Root() bool { return w.parent == nil }

// Form returns the window's form, nil before Initialize.
func (w *Window) Form() *form.Form { return w.form }

// Built returns the widget tree produced for the page body.
func (w *Window) Built() []Built { return w.built }

// Destroyed reports whether the window has been torn down.
func (w *Window) Destroyed() bool { return w.destroyed }

// Frame looks up a container or listbox by its id attribute, or by widget
// ID when the element had none. Scrolling frames also register
// "outer-<id>" and "<id>-canvas".
func (w *Window) Frame(id string) (toolkit.Widget, bool) {
	widget, ok := w.frames[id]
	return widget, ok
}

// FrameIDs lists every registered frame id.
func (w *Window) FrameIDs() []string {
	ids := make([]string, 0, len(w.frames))
	for id := range w.frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Button returns the descriptor of the clickable widget with the given ID.
func (w *Window) Button(id string) (button.Descriptor, bool) {
	d, ok := w.buttons[id]
	return d, ok
}

// Images returns the image handles the window keeps alive.
func (w *Window) Images() []toolkit.Image {
	return append([]toolkit.Image(nil), w.images...)
}

// Post runs the window's post hook exactly once. The default hook calls
// Initialize and ignores args; a Definition.Post receives them.
func (w *Window) Post(ctx context.Context, args ...string) error {
	if w.posted {
		return ErrAlreadyPosted
	}
	w.posted = true
	if w.def.Post != nil {
		return w.def.Post(ctx, w, args...)
	}
	return w.Initialize(ctx)
}

// Initialize builds the head and body into the surface and binds the form.
func (w *Window) Initialize(ctx context.Context) error {
	if w.initialized {
		return ErrAlreadyPosted
	}
	w.initialized = true

	opts := []form.Option{form.WithLogger(w.logger.Named("form"))}
	if w.def.Submit != nil {
		opts = append(opts, form.WithSubmit(w.def.Submit))
	}
	w.form = form.New(opts...)

	if err := w.buildHead(w.doc.Head); err != nil {
		return err
	}
	body := w.surface.Body()
	if w.doc.Body != nil {
		built, err := w.buildBody(ctx, w.doc.Body, body, scope{})
		if err != nil {
			return err
		}
		w.built = built
	}
	if err := w.form.Resolve(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	body.Grid(nil)
	w.logger.Debug("window initialized",
		zap.Int("fields", w.form.Len()),
		zap.Int("buttons", len(w.buttons)),
		zap.Int("images", len(w.images)),
	)
	return nil
}

// Back closes this window and returns input to its parent.
func (w *Window) Back() error {
	if w.parent == nil {
		return ErrNoParent
	}
	w.app.stack.Remove(w)
	return nil
}

func (w *Window) destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	for _, img := range w.images {
		img.Release()
	}
	w.images = nil
	w.surface.Destroy()
	w.logger.Debug("window destroyed")
}

// ButtonCount reports how many clickable widgets carry a descriptor.
func (w *Window) ButtonCount() int { return len(w.buttons) }
