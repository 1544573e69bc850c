// Package formview turns markup pages into windows of live widgets. The
// root package re-exports the pieces most callers need; the subpackages
// under pkg/ hold the implementation.
package formview

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-formview/pkg/markup"
	"github.com/goliatone/go-formview/pkg/snapshot"
	"github.com/goliatone/go-formview/pkg/toolkit"
	"github.com/goliatone/go-formview/pkg/toolkit/headless"
	"github.com/goliatone/go-formview/pkg/window"
)

// App aliases window.App for callers that only import the root package.
type App = window.App

// Window aliases window.Window.
type Window = window.Window

// Definition customises the windows opened for one page.
type Definition = window.Definition

// ActionFunc is a named callback invoked by action buttons.
type ActionFunc = window.ActionFunc

// ActionContext is what an action callback receives.
type ActionContext = window.ActionContext

// Option configures an App.
type Option = window.Option

// NewApp exposes the window.New constructor from the top-level module.
func NewApp(tk toolkit.Toolkit, options ...window.Option) *window.App {
	return window.New(tk, options...)
}

// Snapshot builds the page read from r in a headless toolkit and returns its
// widget tree encoded in format. It is the simplest way to see what a page
// produces without opening a window.
func Snapshot(ctx context.Context, r io.Reader, format snapshot.Format, options ...window.Option) ([]byte, error) {
	doc, err := markup.Parse(r)
	if err != nil {
		return nil, err
	}
	return SnapshotDocument(ctx, doc, format, options...)
}

// SnapshotDocument is Snapshot for an already parsed page.
func SnapshotDocument(ctx context.Context, doc *markup.Document, format snapshot.Format, options ...window.Option) ([]byte, error) {
	app := window.New(headless.New(), options...)
	w, err := app.Main(ctx, doc, window.Definition{})
	if err != nil {
		return nil, err
	}
	surface, ok := w.Surface().(*headless.Surface)
	if !ok {
		return nil, fmt.Errorf("formview: unexpected surface %T", w.Surface())
	}
	renderer, err := snapshot.New()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := renderer.Write(&buf, snapshot.Capture(surface), format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
