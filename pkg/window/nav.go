package window

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formview/pkg/button"
	"github.com/goliatone/go-formview/pkg/toolkit"
)

// clicked is installed on every button built from markup. Failures are
// logged and never reach the event loop.
func (w *Window) clicked(src toolkit.Widget) {
	d, ok := w.buttons[src.ID()]
	if !ok {
		w.logger.Warn("click on unknown button", zap.String("widget", src.ID()))
		return
	}
	if err := w.Dispatch(w.app.context(), d); err != nil {
		w.logger.Error("button failed",
			zap.String("widget", src.ID()),
			zap.Stringer("kind", d.Kind),
			zap.Error(err),
		)
	}
}

func (w *Window) submit() {
	if err := w.form.Submit(w.app.context()); err != nil {
		w.logger.Error("form submit failed", zap.Error(err))
	}
}

// Dispatch performs what a button with descriptor d does when clicked.
func (w *Window) Dispatch(ctx context.Context, d button.Descriptor) error {
	switch d.Kind {
	case button.KindBack:
		return w.Back()
	case button.KindLink:
		_, err := w.Navigate(ctx, d.Link, buttonArgs(d)...)
		return err
	case button.KindAction:
		return w.invoke(ctx, d)
	case button.KindUnset:
		w.logger.Debug("button has no behaviour", zap.String("title", d.Title))
		return nil
	}
	return fmt.Errorf("window: unhandled button kind %s", d.Kind)
}

// Navigate opens link as a modal child of w and posts it with args. A
// missing page raises an error dialog and returns ErrPageNotFound.
func (w *Window) Navigate(ctx context.Context, link string, args ...string) (*Window, error) {
	resolver := w.app.pages
	path, ok := resolver.Resolve(link)
	w.logger.Info("link clicked", zap.String("link", link), zap.String("path", path))
	if !ok {
		w.app.toolkit.ShowError("Page not Found", `Error: "`+path+`" does not exist!`)
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, path)
	}
	doc, err := resolver.Load(ctx, link)
	if err != nil {
		return nil, err
	}
	child, err := w.app.Open(doc, w, w.app.definitions[link])
	if err != nil {
		return nil, err
	}
	if err := child.Post(ctx, args...); err != nil {
		w.app.stack.Remove(child)
		return nil, err
	}
	return child, nil
}

func (w *Window) invoke(ctx context.Context, d button.Descriptor) (err error) {
	fn, ok := w.app.action(w.def, d.Action)
	if !ok {
		return &ActionError{Action: d.Action, Err: ErrActionNotFound}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &ActionError{Action: d.Action, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	call := ActionContext{Window: w, Button: d, Args: buttonArgs(d)}
	if callErr := fn(ctx, call); callErr != nil {
		var actionErr *ActionError
		if errors.As(callErr, &actionErr) {
			return actionErr
		}
		return &ActionError{Action: d.Action, Err: callErr}
	}
	return nil
}
