// Package prompt drives pages from a terminal. Widgets are recorded in a
// headless tree; Run turns the window holding the input grab into a menu of
// its interactive widgets and applies the user's choices to them.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formview/pkg/binding"
	"github.com/goliatone/go-formview/pkg/toolkit"
	"github.com/goliatone/go-formview/pkg/toolkit/headless"
)

// Name is the registry name of the prompt toolkit.
const Name = "prompt"

const closeEntry = "Close window"

// Option configures the prompt toolkit.
type Option func(*Toolkit)

// WithDriver overrides the terminal driver.
func WithDriver(driver Driver) Option {
	return func(t *Toolkit) {
		if driver != nil {
			t.driver = driver
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Toolkit) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Toolkit is a headless toolkit with an interactive event loop.
type Toolkit struct {
	*headless.Toolkit
	driver Driver
	logger *zap.Logger
	shown  *headless.Surface
}

var _ toolkit.Toolkit = (*Toolkit)(nil)

// New constructs a prompt toolkit using the survey driver by default.
func New(opts ...Option) *Toolkit {
	t := &Toolkit{
		Toolkit: headless.New(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(t)
	}
	if t.driver == nil {
		t.driver = NewSurveyDriver()
	}
	return t
}

// Factory adapts New to toolkit.Factory.
func Factory() (toolkit.Toolkit, error) {
	return New(), nil
}

// Name reports the toolkit identifier.
func (t *Toolkit) Name() string { return Name }

// ShowError records the dialog and prints it.
func (t *Toolkit) ShowError(title, message string) {
	t.Toolkit.ShowError(title, message)
	if err := t.driver.Info(context.Background(), title+": "+message); err != nil {
		t.logger.Warn("show error", zap.Error(err))
	}
}

// Run presents the grabbed window until Quit is called, ctx ends, no window
// is left, or the user aborts.
func (t *Toolkit) Run(ctx context.Context) error {
	for {
		select {
		case <-t.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		surface := t.Grabbed()
		if surface == nil {
			return nil
		}
		if err := t.step(ctx, surface); err != nil {
			if errors.Is(err, ErrAborted) {
				t.logger.Info("aborted by user")
				t.Quit()
				return nil
			}
			return err
		}
	}
}

type entry struct {
	label string
	run   func(ctx context.Context) error
}

func (t *Toolkit) step(ctx context.Context, surface *headless.Surface) error {
	if surface != t.shown {
		t.shown = surface
		if err := t.describe(ctx, surface); err != nil {
			return err
		}
	}

	entries := t.entries(surface)
	options := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		options = append(options, e.label)
	}
	options = append(options, closeEntry)

	idx, err := t.driver.Select(ctx, SelectConfig{Message: heading(surface), Options: options})
	if err != nil {
		return err
	}
	switch {
	case idx == len(entries):
		t.shown = nil
		surface.Close()
	case idx >= 0 && idx < len(entries):
		return entries[idx].run(ctx)
	default:
		t.logger.Debug("nothing selected", zap.Int("index", idx))
	}
	return nil
}

func heading(surface *headless.Surface) string {
	if surface.Title != "" {
		return surface.Title
	}
	return "Window " + surface.ID()
}

// describe prints the static content of the window: labels and pictures.
func (t *Toolkit) describe(ctx context.Context, surface *headless.Surface) error {
	var lines []string
	surface.Walk(func(n *headless.Node) bool {
		switch w := n.Widget().(type) {
		case *headless.Label:
			if text := strings.TrimSpace(w.Text()); text != "" {
				lines = append(lines, text)
			}
		case *headless.Canvas:
			for _, item := range w.Items {
				if item.Image != nil {
					size := item.Image.Size()
					lines = append(lines, fmt.Sprintf("[image %dx%d]", size.X, size.Y))
				}
			}
		}
		return true
	})
	for _, line := range lines {
		if err := t.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (t *Toolkit) entries(surface *headless.Surface) []entry {
	var out []entry
	seen := make(map[*binding.String]bool)
	surface.Walk(func(n *headless.Node) bool {
		switch w := n.Widget().(type) {
		case *headless.Button:
			out = append(out, entry{label: "Press " + buttonCaption(w), run: func(context.Context) error {
				w.Click()
				return nil
			}})
		case *headless.Entry:
			out = append(out, entry{label: fmt.Sprintf("Edit %q", w.Value.Get()), run: t.editEntry(w)})
		case *headless.Radio:
			if seen[w.Value] {
				return true
			}
			seen[w.Value] = true
			group := radioGroup(surface, w.Value)
			out = append(out, entry{label: "Choose: " + selectedCaption(group), run: t.chooseRadio(group)})
		case *headless.Check:
			mark := " "
			if w.Checked.Get() {
				mark = "x"
			}
			out = append(out, entry{label: fmt.Sprintf("[%s] %s", mark, w.Caption), run: func(context.Context) error {
				w.Toggle()
				return nil
			}})
		case *headless.Listbox:
			out = append(out, entry{label: fmt.Sprintf("Select from list (%d items)", len(w.Items())), run: t.selectItems(w)})
		}
		return true
	})
	return out
}

func buttonCaption(b *headless.Button) string {
	if b.Caption != "" {
		return b.Caption
	}
	if b.Image != nil {
		return "[" + b.Image.ID() + "]"
	}
	return b.ID()
}

func (t *Toolkit) editEntry(e *headless.Entry) func(context.Context) error {
	return func(ctx context.Context) error {
		value, err := t.driver.Input(ctx, InputConfig{Message: "Text", Default: e.Value.Get()})
		if err != nil {
			return err
		}
		e.Type(value)
		return nil
	}
}

func radioGroup(surface *headless.Surface, cell *binding.String) []*headless.Radio {
	var group []*headless.Radio
	surface.Walk(func(n *headless.Node) bool {
		if r, ok := n.Widget().(*headless.Radio); ok && r.Value == cell {
			group = append(group, r)
		}
		return true
	})
	return group
}

func selectedCaption(group []*headless.Radio) string {
	for _, r := range group {
		if r.Selected() {
			return r.Caption
		}
	}
	return "(none)"
}

func (t *Toolkit) chooseRadio(group []*headless.Radio) func(context.Context) error {
	return func(ctx context.Context) error {
		options := make([]string, 0, len(group))
		current := 0
		for i, r := range group {
			options = append(options, r.Caption)
			if r.Selected() {
				current = i
			}
		}
		idx, err := t.driver.Select(ctx, SelectConfig{Message: "Choose", Options: options, DefaultIndex: current})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(group) {
			group[idx].Choose()
		}
		return nil
	}
}

func (t *Toolkit) selectItems(l *headless.Listbox) func(context.Context) error {
	return func(ctx context.Context) error {
		indices, err := t.driver.MultiSelect(ctx, SelectConfig{
			Message:  "Select",
			Options:  l.Items(),
			Defaults: l.Selection(),
		})
		if err != nil {
			return err
		}
		l.Select(indices...)
		return nil
	}
}
