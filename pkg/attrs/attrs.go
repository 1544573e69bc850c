// Package attrs maps markup attributes onto typed widget arguments. Each
// element kind owns a fixed table of attribute names and primitive types;
// coercion is total, so missing or uncastable attributes are simply left out.
package attrs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formview/pkg/markup"
)

// Type is the primitive an attribute value is cast to.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	default:
		return "string"
	}
}

// Kind selects one of the attribute tables.
type Kind int

const (
	KindGrid Kind = iota
	KindListbox
	KindButton
	KindFrame
)

func (k Kind) String() string {
	switch k {
	case KindGrid:
		return "grid"
	case KindListbox:
		return "listbox"
	case KindButton:
		return "button"
	case KindFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// Spec is the attribute table for one kind.
type Spec map[string]Type

var specs = map[Kind]Spec{
	KindGrid: {
		"padx":   TypeInt,
		"pady":   TypeInt,
		"sticky": TypeString,
		"row":    TypeInt,
		"column": TypeInt,
	},
	KindListbox: {
		"height":     TypeInt,
		"width":      TypeInt,
		"selectmode": TypeString,
	},
	KindButton: {
		"link":   TypeString,
		"action": TypeString,
		"btype":  TypeString,
		"title":  TypeString,
		"args":   TypeString,
	},
	KindFrame: {
		"height": TypeInt,
		"width":  TypeInt,
	},
}

// SpecFor returns a copy of the table registered for kind.
func SpecFor(kind Kind) Spec {
	spec := specs[kind]
	out := make(Spec, len(spec))
	for name, typ := range spec {
		out[name] = typ
	}
	return out
}

// Names lists the attribute names of a kind in sorted order.
func (s Spec) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attribute reads name from node and casts it to typ. The boolean reports
// whether both the read and the cast succeeded.
func Attribute(node *markup.Node, name string, typ Type) (any, bool) {
	raw, ok := node.Attr(name)
	if !ok {
		return nil, false
	}
	return cast(raw, typ)
}

// String reads a string attribute.
func String(node *markup.Node, name string) (string, bool) {
	return node.Attr(name)
}

// Int reads an integer attribute.
func Int(node *markup.Node, name string) (int, bool) {
	v, ok := Attribute(node, name, TypeInt)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// Bool reads a boolean attribute. Only "true" (any case) is true.
func Bool(node *markup.Node, name string) bool {
	v, ok := Attribute(node, name, TypeBool)
	if !ok {
		return false
	}
	return v.(bool)
}

// ElementArgs extracts every attribute registered for kind that is present on
// node and casts cleanly.
func ElementArgs(node *markup.Node, kind Kind) Args {
	spec := specs[kind]
	out := make(Args, len(spec))
	for name, typ := range spec {
		if v, ok := Attribute(node, name, typ); ok {
			out[name] = v
		}
	}
	return out
}

// GridArgs extracts the grid placement attributes.
func GridArgs(node *markup.Node) Args { return ElementArgs(node, KindGrid) }

// ListboxArgs extracts the listbox construction attributes.
func ListboxArgs(node *markup.Node) Args { return ElementArgs(node, KindListbox) }

// ButtonArgs extracts the button descriptor attributes.
func ButtonArgs(node *markup.Node) Args { return ElementArgs(node, KindButton) }

// FrameArgs extracts the frame size attributes.
func FrameArgs(node *markup.Node) Args { return ElementArgs(node, KindFrame) }

func cast(raw string, typ Type) (any, bool) {
	switch typ {
	case TypeInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, false
		}
		return n, true
	case TypeBool:
		return strings.EqualFold(strings.TrimSpace(raw), "true"), true
	default:
		return raw, true
	}
}
