package window

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formview/pkg/button"
	"github.com/goliatone/go-formview/pkg/toolkit/headless"
)

func clickButton(t *testing.T, w *Window, caption string) {
	t.Helper()
	for _, n := range widgets(w, headless.KindButton) {
		if n.Caption == caption {
			n.Widget().(*headless.Button).Click()
			return
		}
	}
	t.Fatalf("no button %q in %v", caption, captions(widgets(w, headless.KindButton)))
}

var navPages = fstest.MapFS{
	"child.html": {Data: []byte(`<html><head><title>Child</title></head>
<body><img src="child.png"><button btype="back">Back</button><button link="grandchild.html">Deeper</button></body></html>`)},
	"grandchild.html": {Data: []byte(`<body><label>leaf</label></body>`)},
}

func TestNavigation_LinkOpensModalChild(t *testing.T) {
	app, tk, _ := newTestApp(t, navPages)
	root := mustMain(t, app, `<body><button link="child.html">Open</button></body>`, Definition{})

	if tk.Grabbed() != root.Surface() {
		t.Fatalf("root should hold the grab initially")
	}
	clickButton(t, root, "Open")

	if app.Stack().Len() != 2 {
		t.Fatalf("expected two windows, got %d", app.Stack().Len())
	}
	child := app.Stack().Top()
	surface := child.Surface().(*headless.Surface)
	if surface.Title != "Child" {
		t.Fatalf("child page not built, title %q", surface.Title)
	}
	if surface.Transient() != root.Surface() {
		t.Fatalf("child must be transient to its parent")
	}
	if tk.Grabbed() != surface || tk.Focused() != surface {
		t.Fatalf("child must take grab and focus")
	}
	if child.Parent() != root || child.Root() {
		t.Fatalf("unexpected child parent")
	}
	if tk.LiveImages() != 1 {
		t.Fatalf("child image should be live, got %d", tk.LiveImages())
	}

	clickButton(t, child, "Back")

	if app.Stack().Len() != 1 || app.Stack().Top() != root {
		t.Fatalf("back should leave only the root")
	}
	if !child.Destroyed() || !surface.Destroyed {
		t.Fatalf("child window should be destroyed")
	}
	if tk.Grabbed() != root.Surface() || tk.Focused() != root.Surface() {
		t.Fatalf("root must regain grab and focus")
	}
	if tk.LiveImages() != 0 {
		t.Fatalf("child images must be released, %d live", tk.LiveImages())
	}
}

func TestNavigation_BackClosesWindowsAbove(t *testing.T) {
	app, tk, _ := newTestApp(t, navPages)
	root := mustMain(t, app, `<body><button link="child.html">Open</button></body>`, Definition{})
	clickButton(t, root, "Open")
	child := app.Stack().Top()
	clickButton(t, child, "Deeper")
	grandchild := app.Stack().Top()
	if app.Stack().Len() != 3 || grandchild.Parent() != child {
		t.Fatalf("expected three stacked windows")
	}

	if err := child.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if !grandchild.Destroyed() || !child.Destroyed() {
		t.Fatalf("windows above and including child must be gone")
	}
	if app.Stack().Len() != 1 || tk.Grabbed() != root.Surface() {
		t.Fatalf("root should be alone with the grab")
	}
	if err := root.Back(); !errors.Is(err, ErrNoParent) {
		t.Fatalf("root back: got %v", err)
	}
}

func TestNavigation_CloseActsAsBack(t *testing.T) {
	app, tk, _ := newTestApp(t, navPages)
	root := mustMain(t, app, `<body><button link="child.html">Open</button></body>`, Definition{})
	clickButton(t, root, "Open")
	child := app.Stack().Top()

	child.Surface().(*headless.Surface).Close()
	if !child.Destroyed() || tk.Grabbed() != root.Surface() {
		t.Fatalf("closing a child should behave like back")
	}

	root.Surface().(*headless.Surface).Close()
	select {
	case <-tk.Done():
	default:
		t.Fatalf("closing the root should shut the app down")
	}
}

func TestNavigation_MissingPageShowsDialog(t *testing.T) {
	app, tk, _ := newTestApp(t, navPages)
	root := mustMain(t, app, `<body><button link="nowhere.html">Go</button></body>`, Definition{})
	clickButton(t, root, "Go")

	want := []headless.Dialog{{Title: "Page not Found", Message: `Error: "gui_pages/nowhere.html" does not exist!`}}
	if diff := cmp.Diff(want, tk.Dialogs()); diff != "" {
		t.Fatalf("dialogs mismatch (-want +got):\n%s", diff)
	}
	if app.Stack().Len() != 1 {
		t.Fatalf("no window should open")
	}

	_, err := root.Navigate(context.Background(), "nowhere.html")
	if !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestNavigation_DefinitionPostReceivesArgs(t *testing.T) {
	var gotArgs []string
	var gotClient any
	def := Definition{Post: func(ctx context.Context, w *Window, args ...string) error {
		gotArgs = args
		gotClient = w.Client()
		return w.Initialize(ctx)
	}}
	app, _, _ := newTestApp(t, navPages, WithDefinition("grandchild.html", def), WithClient("conn-1"))
	root := mustMain(t, app, `<body><button link="grandchild.html" args="42">Go</button></body>`, Definition{})
	clickButton(t, root, "Go")

	if diff := cmp.Diff([]string{"42"}, gotArgs); diff != "" {
		t.Fatalf("post args mismatch (-want +got):\n%s", diff)
	}
	if gotClient != "conn-1" {
		t.Fatalf("client should be shared, got %v", gotClient)
	}
	if labels := widgets(app.Stack().Top(), headless.KindLabel); len(labels) != 1 {
		t.Fatalf("custom post should still build the page")
	}
}

func TestNavigation_FailedPostClosesChild(t *testing.T) {
	boom := errors.New("boom")
	def := Definition{Post: func(context.Context, *Window, ...string) error { return boom }}
	app, tk, _ := newTestApp(t, navPages, WithDefinition("grandchild.html", def))
	root := mustMain(t, app, `<body></body>`, Definition{})

	if _, err := root.Navigate(context.Background(), "grandchild.html"); !errors.Is(err, boom) {
		t.Fatalf("expected post error, got %v", err)
	}
	if app.Stack().Len() != 1 || tk.Grabbed() != root.Surface() {
		t.Fatalf("failed child must be removed")
	}
}

func TestActions_Dispatch(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var calls []ActionContext
	def := Definition{Actions: map[string]ActionFunc{
		"save": func(_ context.Context, call ActionContext) error {
			calls = append(calls, call)
			return nil
		},
		"fail": func(context.Context, ActionContext) error { return errors.New("disk full") },
		"explode": func(context.Context, ActionContext) error {
			panic("kaboom")
		},
	}}
	global := func(_ context.Context, call ActionContext) error {
		calls = append(calls, call)
		return nil
	}
	app, _, _ := newTestApp(t, nil, WithLogger(zap.New(core)), WithAction("refresh", global))
	root := mustMain(t, app, `<body>
  <button action="save" args="draft" title="Save it">Save</button>
  <button action="refresh">Refresh</button>
  <button action="fail">Fail</button>
  <button action="explode">Explode</button>
  <button action="missing">Missing</button>
  <button>Inert</button>
</body>`, def)

	for _, caption := range []string{"Save", "Refresh", "Fail", "Explode", "Missing", "Inert"} {
		clickButton(t, root, caption)
	}

	if len(calls) != 2 {
		t.Fatalf("expected two successful calls, got %d", len(calls))
	}
	if calls[0].Window != root || calls[0].Button.Title != "Save it" || calls[0].Button.Kind != button.KindAction {
		t.Fatalf("unexpected save call %+v", calls[0])
	}
	if diff := cmp.Diff([]string{"draft"}, calls[0].Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if calls[1].Args != nil {
		t.Fatalf("buttons without args pass none, got %v", calls[1].Args)
	}

	failures := logs.FilterMessage("button failed").All()
	if len(failures) != 3 {
		t.Fatalf("expected three logged failures, got %d", len(failures))
	}
	for _, entry := range failures {
		err, _ := entry.ContextMap()["error"].(string)
		if err == "" {
			t.Fatalf("failure without error field: %+v", entry.ContextMap())
		}
	}
	if logs.FilterMessage("button has no behaviour").Len() != 1 {
		t.Fatalf("inert button should be logged at debug")
	}
}

func TestActions_ErrorTypes(t *testing.T) {
	app, _, _ := newTestApp(t, nil)
	root := mustMain(t, app, `<body></body>`, Definition{Actions: map[string]ActionFunc{
		"explode": func(context.Context, ActionContext) error { panic("kaboom") },
	}})

	err := root.Dispatch(context.Background(), button.New(button.Descriptor{Action: "missing"}))
	var actionErr *ActionError
	if !errors.As(err, &actionErr) || actionErr.Action != "missing" || !errors.Is(err, ErrActionNotFound) {
		t.Fatalf("expected missing action error, got %v", err)
	}

	err = root.Dispatch(context.Background(), button.New(button.Descriptor{Action: "explode"}))
	if !errors.As(err, &actionErr) || actionErr.Action != "explode" {
		t.Fatalf("expected recovered panic, got %v", err)
	}
}

func TestApp_OpenPathLoadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "dialog.html")
	if err := os.WriteFile(page, []byte(`<html><head><title>Dialog</title></head><body><button btype="back">Done</button></body></html>`), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	app, tk, _ := newTestApp(t, nil)
	root := mustMain(t, app, `<body><label>root</label></body>`, Definition{})

	child, err := app.OpenPath(context.Background(), page, root, Definition{})
	if err != nil {
		t.Fatalf("open path: %v", err)
	}
	if tk.Grabbed() != child.Surface() || app.Stack().Len() != 2 {
		t.Fatalf("child should be pushed and grabbed")
	}
	if child.Document().Source != page {
		t.Fatalf("source: got %q", child.Document().Source)
	}
	if err := child.Post(context.Background()); err != nil {
		t.Fatalf("post: %v", err)
	}
	if got := child.Surface().(*headless.Surface).Title; got != "Dialog" {
		t.Fatalf("title: got %q", got)
	}
	clickButton(t, child, "Done")
	if !child.Destroyed() || tk.Grabbed() != root.Surface() {
		t.Fatalf("back should return to the root")
	}

	if _, err := app.OpenPath(context.Background(), filepath.Join(dir, "missing.html"), root, Definition{}); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestStack_Pop(t *testing.T) {
	app, tk, _ := newTestApp(t, navPages)
	root := mustMain(t, app, `<body></body>`, Definition{})
	child, err := root.Navigate(context.Background(), "grandchild.html")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}

	if got := app.Stack().Pop(); got != child {
		t.Fatalf("pop should return the child")
	}
	if !child.Destroyed() || tk.Grabbed() != root.Surface() {
		t.Fatalf("pop should destroy the child and regrant the root")
	}
	if diff := cmp.Diff([]*Window{root}, app.Stack().Windows(), cmp.Comparer(func(a, b *Window) bool { return a == b })); diff != "" {
		t.Fatalf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_RunStopsOnShutdown(t *testing.T) {
	app, _, _ := newTestApp(t, nil)
	mustMain(t, app, `<body></body>`, Definition{})
	go app.Shutdown()
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	doc, _ := markupDoc(`<body></body>`)
	if _, err := app.Main(context.Background(), doc, Definition{}); err == nil {
		t.Fatalf("second root must be rejected")
	}
}
