package form

import (
	"github.com/goliatone/go-formview/pkg/binding"
	"github.com/goliatone/go-formview/pkg/toolkit"
)

// FieldKind identifies the binding shape a Field carries.
type FieldKind int

const (
	// FieldInput is a text entry backed by a string cell.
	FieldInput FieldKind = iota
	// FieldLabelFor is a label that mirrors another field's cell.
	FieldLabelFor
	// FieldLabel is a display label other code can push text into.
	FieldLabel
	// FieldSelect is a group of exclusive choices sharing one string cell.
	FieldSelect
	// FieldMultiSelect is a group of checkbuttons, one boolean cell each.
	FieldMultiSelect
	// FieldListbox is a list widget and the items it was populated with.
	FieldListbox
)

func (k FieldKind) String() string {
	switch k {
	case FieldInput:
		return "input"
	case FieldLabelFor:
		return "for_label"
	case FieldLabel:
		return "label"
	case FieldSelect:
		return "select"
	case FieldMultiSelect:
		return "multiple_select"
	case FieldListbox:
		return "listbox"
	default:
		return "unknown"
	}
}

// Choice is one checkbutton of a multi-select field.
type Choice struct {
	Checked *binding.Bool
	Value   string
}

// Field is a named binding between widget state and a logical value. Which
// payload members are set depends on Kind:
//
//	FieldInput, FieldLabel, FieldSelect  Value
//	FieldLabelFor                        For, Label (Value once resolved)
//	FieldMultiSelect                     Choices
//	FieldListbox                         List, Items
type Field struct {
	Kind    FieldKind
	Name    string
	Value   *binding.String
	For     string
	Label   toolkit.Label
	Choices []Choice
	List    toolkit.Listbox
	Items   []string
}

// Input builds a plain text field.
func Input(name string, value *binding.String) Field {
	return Field{Kind: FieldInput, Name: name, Value: value}
}

// Display builds a display label field.
func Display(name string, value *binding.String) Field {
	return Field{Kind: FieldLabel, Name: name, Value: value}
}

// LabelFor builds a deferred label binding to the field called ref.
func LabelFor(name, ref string, label toolkit.Label) Field {
	return Field{Kind: FieldLabelFor, Name: name, For: ref, Label: label}
}

// Select builds a single-select field around the shared cell.
func Select(name string, value *binding.String) Field {
	return Field{Kind: FieldSelect, Name: name, Value: value}
}

// MultiSelect builds an empty multi-select field.
func MultiSelect(name string) Field {
	return Field{Kind: FieldMultiSelect, Name: name}
}

// Listbox builds a listbox field.
func Listbox(name string, list toolkit.Listbox, items []string) Field {
	return Field{Kind: FieldListbox, Name: name, List: list, Items: items}
}

// Checked returns the values of the checked choices, in document order.
func (f *Field) Checked() []string {
	var out []string
	for _, choice := range f.Choices {
		if choice.Checked.Get() {
			out = append(out, choice.Value)
		}
	}
	return out
}

// Selected returns the listbox items currently selected.
func (f *Field) Selected() []string {
	if f.List == nil {
		return nil
	}
	var out []string
	for _, idx := range f.List.Selection() {
		if idx >= 0 && idx < len(f.Items) {
			out = append(out, f.Items[idx])
		}
	}
	return out
}
