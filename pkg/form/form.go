// Package form holds the per-window Form: an ordered set of named Fields
// bound to widget cells, plus the submit behaviour.
package form

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

var (
	// ErrFieldNotFound is returned when a name does not match any field.
	ErrFieldNotFound = errors.New("form: field not found")
	// ErrFieldKind is returned when a field exists but has the wrong kind.
	ErrFieldKind = errors.New("form: wrong field kind")
	// ErrUnbindable is returned when a label-for references a field that has
	// no string cell to follow.
	ErrUnbindable = errors.New("form: field cannot back a label")
)

// SubmitFunc replaces the default submit behaviour.
type SubmitFunc func(ctx context.Context, f *Form) error

// Option configures a Form.
type Option func(*Form)

// WithSubmit installs custom submission logic.
func WithSubmit(fn SubmitFunc) Option {
	return func(f *Form) {
		f.submit = fn
	}
}

// WithLogger sets the logger used by the default submit report.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form maps field names to fields, preserving first-insertion order.
type Form struct {
	order   []string
	fields  map[string]*Field
	pending []*Field
	submit  SubmitFunc
	logger  *zap.Logger
}

// New constructs an empty form.
func New(opts ...Option) *Form {
	f := &Form{
		fields: make(map[string]*Field),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// AddField inserts field by name; an existing field with the same name is
// replaced, along with any binding it still had queued. A label-for field is
// bound straight away when its reference is already registered and queued
// for Resolve otherwise.
func (f *Form) AddField(field Field) error {
	stored := &field
	if prev, exists := f.fields[field.Name]; !exists {
		f.order = append(f.order, field.Name)
	} else {
		f.dropPending(prev)
	}
	f.fields[field.Name] = stored

	if stored.Kind == FieldLabelFor {
		bound, err := f.bindLabel(stored)
		if err != nil {
			return err
		}
		if !bound {
			f.pending = append(f.pending, stored)
		}
	}
	return nil
}

// Resolve binds every queued label-for field. Any reference still missing is
// an authoring error.
func (f *Form) Resolve() error {
	var missing []string
	remaining := f.pending[:0]
	for _, field := range f.pending {
		bound, err := f.bindLabel(field)
		if err != nil {
			return err
		}
		if !bound {
			missing = append(missing, field.For)
			remaining = append(remaining, field)
		}
	}
	f.pending = remaining
	if len(missing) > 0 {
		return fmt.Errorf("%w: label references %s", ErrFieldNotFound, strings.Join(missing, ", "))
	}
	return nil
}

func (f *Form) dropPending(field *Field) {
	kept := f.pending[:0]
	for _, queued := range f.pending {
		if queued != field {
			kept = append(kept, queued)
		}
	}
	f.pending = kept
}

// Pending reports how many label-for bindings are waiting on Resolve.
func (f *Form) Pending() int {
	return len(f.pending)
}

func (f *Form) bindLabel(field *Field) (bool, error) {
	ref, ok := f.fields[field.For]
	if !ok || ref == field {
		return false, nil
	}
	if ref.Value == nil {
		return false, fmt.Errorf("%w: %q is a %s field", ErrUnbindable, field.For, ref.Kind)
	}
	field.Value = ref.Value
	if field.Label != nil {
		field.Label.BindText(ref.Value)
	}
	return true, nil
}

// AddToMultipleSelect appends a choice to the named multi-select field.
func (f *Form) AddToMultipleSelect(name string, choice Choice) error {
	field, err := f.Get(name)
	if err != nil {
		return err
	}
	if field.Kind != FieldMultiSelect {
		return fmt.Errorf("%w: %q is a %s field", ErrFieldKind, name, field.Kind)
	}
	field.Choices = append(field.Choices, choice)
	return nil
}

// Field looks a field up by name.
func (f *Form) Field(name string) (*Field, bool) {
	field, ok := f.fields[name]
	return field, ok
}

// Get is Field returning ErrFieldNotFound for unknown names.
func (f *Form) Get(name string) (*Field, error) {
	field, ok := f.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	return field, nil
}

// Fields returns the fields in insertion order.
func (f *Form) Fields() []*Field {
	out := make([]*Field, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.fields[name])
	}
	return out
}

// Len reports the number of fields.
func (f *Form) Len() int {
	return len(f.order)
}

// Values snapshots the current field state. Single-valued fields map to a
// string; multi-selects and listboxes map to the checked or selected values.
// Label-for fields are views onto other fields and are left out.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.order))
	for _, field := range f.Fields() {
		switch field.Kind {
		case FieldInput, FieldLabel, FieldSelect:
			out[field.Name] = field.Value.Get()
		case FieldMultiSelect:
			out[field.Name] = field.Checked()
		case FieldListbox:
			out[field.Name] = field.Selected()
		}
	}
	return out
}

// SetText pushes value into a field's cell. Markup is stripped first, so
// text received from elsewhere cannot smuggle tags into the page.
func (f *Form) SetText(name, value string) error {
	field, err := f.Get(name)
	if err != nil {
		return err
	}
	if field.Value == nil {
		return fmt.Errorf("%w: %q is a %s field", ErrFieldKind, name, field.Kind)
	}
	field.Value.Set(sanitizeText(value))
	return nil
}

// Submit runs the installed SubmitFunc, or reports every field through the
// logger when none was installed.
func (f *Form) Submit(ctx context.Context) error {
	if f.submit != nil {
		return f.submit(ctx, f)
	}
	f.report()
	return nil
}

func (f *Form) report() {
	for _, field := range f.Fields() {
		f.logger.Info("form field",
			zap.String("name", field.Name),
			zap.Stringer("kind", field.Kind),
			zap.Any("value", fieldValue(field)),
		)
	}
}

func fieldValue(field *Field) any {
	switch field.Kind {
	case FieldMultiSelect:
		return field.Checked()
	case FieldListbox:
		return field.Items
	case FieldLabelFor:
		return field.For
	default:
		return field.Value.Get()
	}
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func sanitizeText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(textPolicy.Sanitize(raw))
}
