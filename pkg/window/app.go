// Package window turns parsed page documents into live widget trees and
// manages the windows that display them: the root window, modal children
// opened by link buttons, and the stack that decides which one takes input.
package window

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formview/pkg/button"
	"github.com/goliatone/go-formview/pkg/imaging"
	"github.com/goliatone/go-formview/pkg/markup"
	"github.com/goliatone/go-formview/pkg/pages"
	"github.com/goliatone/go-formview/pkg/toolkit"
)

const (
	// DefaultIconSize is the long edge of images nested in buttons.
	DefaultIconSize = 20
	// DefaultPictureSize is the long edge of standalone <img> elements.
	DefaultPictureSize = 250
)

// Option configures an App.
type Option func(*App)

// WithClient attaches an opaque value every window can read back through
// Window.Client, typically a network client shared by the whole program.
func WithClient(client any) Option {
	return func(a *App) {
		a.client = client
	}
}

// WithPages sets the resolver used by link buttons.
func WithPages(resolver *pages.Resolver) Option {
	return func(a *App) {
		if resolver != nil {
			a.pages = resolver
		}
	}
}

// WithImages sets the image loader.
func WithImages(loader imaging.Loader) Option {
	return func(a *App) {
		if loader != nil {
			a.images = loader
		}
	}
}

// WithDefinition customises windows opened for link.
func WithDefinition(link string, def Definition) Option {
	return func(a *App) {
		a.definitions[link] = def
	}
}

// WithAction registers an app-wide action, used when a window's own
// definition has no action of that name.
func WithAction(name string, fn ActionFunc) Option {
	return func(a *App) {
		if fn != nil {
			a.actions[name] = fn
		}
	}
}

// WithLogger sets the logger. Windows log through named children of it.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithImageSizes overrides the icon and picture sizes. Non-positive values
// keep the defaults.
func WithImageSizes(icon, picture int) Option {
	return func(a *App) {
		if icon > 0 {
			a.iconSize = icon
		}
		if picture > 0 {
			a.pictureSize = picture
		}
	}
}

// App is the application context shared by every window.
type App struct {
	toolkit     toolkit.Toolkit
	client      any
	pages       *pages.Resolver
	images      imaging.Loader
	definitions map[string]Definition
	actions     map[string]ActionFunc
	logger      *zap.Logger
	iconSize    int
	pictureSize int
	stack       *Stack

	mu   sync.RWMutex
	ctx  context.Context
	root *Window
}

// New constructs an App drawing through tk.
func New(tk toolkit.Toolkit, opts ...Option) *App {
	a := &App{
		toolkit:     tk,
		definitions: make(map[string]Definition),
		actions:     make(map[string]ActionFunc),
		logger:      zap.NewNop(),
		iconSize:    DefaultIconSize,
		pictureSize: DefaultPictureSize,
		stack:       &Stack{},
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(a)
	}
	if a.pages == nil {
		a.pages = pages.New(pages.DefaultDir)
	}
	if a.images == nil {
		a.images = imaging.New()
	}
	a.logger = a.logger.Named("window")
	return a
}

// Client returns the value attached with WithClient.
func (a *App) Client() any { return a.client }

// Toolkit returns the toolkit the app draws through.
func (a *App) Toolkit() toolkit.Toolkit { return a.toolkit }

// Pages returns the page resolver.
func (a *App) Pages() *pages.Resolver { return a.pages }

// Stack returns the window stack.
func (a *App) Stack() *Stack { return a.stack }

// Root returns the root window, nil before Main.
func (a *App) Root() *Window {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.root
}

// Main builds the root window from doc. The root is initialised straight
// away and closing it shuts the app down.
func (a *App) Main(ctx context.Context, doc *markup.Document, def Definition) (*Window, error) {
	if a.Root() != nil {
		return nil, fmt.Errorf("window: root window already exists")
	}
	w, err := a.newWindow(doc, nil, def)
	if err != nil {
		return nil, err
	}
	w.surface.OnClose(a.Shutdown)
	a.stack.Push(w)
	w.posted = true
	if err := w.Initialize(ctx); err != nil {
		a.stack.Remove(w)
		return nil, err
	}
	a.mu.Lock()
	a.root = w
	a.mu.Unlock()
	return w, nil
}

// MainPath loads the page at path and builds the root window from it.
func (a *App) MainPath(ctx context.Context, path string, def Definition) (*Window, error) {
	doc, err := markup.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return a.Main(ctx, doc, def)
}

// Open creates a modal child of parent from doc. The child takes the input
// grab immediately but its widgets are only built once it is posted.
func (a *App) Open(doc *markup.Document, parent *Window, def Definition) (*Window, error) {
	if parent == nil {
		return nil, fmt.Errorf("window: child window needs a parent")
	}
	w, err := a.newWindow(doc, parent, def)
	if err != nil {
		return nil, err
	}
	w.surface.OnClose(func() {
		if err := w.Back(); err != nil {
			w.logger.Warn("close window", zap.Error(err))
		}
	})
	a.stack.Push(w)
	return w, nil
}

// OpenPath loads the page at path and opens it as a modal child of parent.
func (a *App) OpenPath(ctx context.Context, path string, parent *Window, def Definition) (*Window, error) {
	doc, err := markup.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return a.Open(doc, parent, def)
}

// Run hands control to the toolkit's event loop until it quits or ctx ends.
// Click handlers triggered during Run see ctx.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
	a.logger.Debug("event loop started", zap.String("toolkit", a.toolkit.Name()))
	err := a.toolkit.Run(ctx)
	a.logger.Debug("event loop stopped", zap.Error(err))
	return err
}

// Shutdown ends the event loop.
func (a *App) Shutdown() {
	a.logger.Info("shutting down")
	a.toolkit.Quit()
}

func (a *App) context() context.Context {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ctx
}

func (a *App) action(def Definition, name string) (ActionFunc, bool) {
	if fn, ok := def.Actions[name]; ok && fn != nil {
		return fn, true
	}
	fn, ok := a.actions[name]
	return fn, ok
}

func (a *App) newWindow(doc *markup.Document, parent *Window, def Definition) (*Window, error) {
	if doc == nil {
		return nil, fmt.Errorf("window: document is nil")
	}
	opts := toolkit.SurfaceOptions{}
	if parent != nil {
		opts.Parent = parent.surface
	}
	surface, err := a.toolkit.NewSurface(opts)
	if err != nil {
		return nil, fmt.Errorf("window: create surface: %w", err)
	}
	logger := a.logger
	if doc.Source != "" {
		logger = logger.With(zap.String("page", doc.Source))
	}
	return &Window{
		app:     a,
		doc:     doc,
		def:     def,
		surface: surface,
		parent:  parent,
		buttons: make(map[string]button.Descriptor),
		frames:  make(map[string]toolkit.Widget),
		logger:  logger,
	}, nil
}
