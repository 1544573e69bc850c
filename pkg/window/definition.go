package window

import (
	"context"

	"github.com/goliatone/go-formview/pkg/button"
	"github.com/goliatone/go-formview/pkg/form"
)

// ActionContext is what an action callback receives.
type ActionContext struct {
	Window *Window
	Button button.Descriptor
	// Args holds the button's free-form argument, or nothing when the markup
	// supplied none.
	Args []string
}

// ActionFunc is a named callback invoked by action buttons.
type ActionFunc func(ctx context.Context, call ActionContext) error

// PostFunc replaces the default post hook. It runs before the widget tree
// exists and is expected to call w.Initialize itself once its setup is done.
type PostFunc func(ctx context.Context, w *Window, args ...string) error

// Definition customises the windows opened for one page.
type Definition struct {
	// Submit replaces the form's default submit report.
	Submit form.SubmitFunc
	// Actions are looked up by action buttons before the app-wide actions.
	Actions map[string]ActionFunc
	// Post replaces the default post hook.
	Post PostFunc
}

func buttonArgs(d button.Descriptor) []string {
	if !d.HasArgs() {
		return nil
	}
	return []string{d.Args}
}
