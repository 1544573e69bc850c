// Package button describes what a clickable widget does when pressed.
package button

import (
	"strings"

	"github.com/goliatone/go-formview/pkg/attrs"
)

// Kind is the click behaviour of a button.
type Kind int

const (
	// KindUnset means the markup gave neither a kind nor anything to infer
	// one from. Clicking such a button does nothing.
	KindUnset Kind = iota
	// KindBack closes the current window and returns to its parent.
	KindBack
	// KindLink opens the linked page in a modal child window.
	KindLink
	// KindAction invokes a registered callback.
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindBack:
		return "back"
	case KindLink:
		return "link"
	case KindAction:
		return "action"
	default:
		return "unset"
	}
}

// ParseKind maps a btype attribute value onto a Kind.
func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "back":
		return KindBack, true
	case "link":
		return KindLink, true
	case "action":
		return KindAction, true
	default:
		return KindUnset, false
	}
}

// Descriptor is the metadata attached to a clickable widget.
type Descriptor struct {
	Link   string
	Action string
	Kind   Kind
	Title  string
	Args   string
}

// New builds a descriptor, inferring the kind when it is unset: a link
// makes it a link button, otherwise an action makes it an action button.
func New(d Descriptor) Descriptor {
	if d.Kind != KindUnset {
		return d
	}
	switch {
	case d.Link != "":
		d.Kind = KindLink
	case d.Action != "":
		d.Kind = KindAction
	}
	return d
}

// FromArgs builds a descriptor from coerced button attributes. An explicit
// btype that does not parse is treated as absent.
func FromArgs(args attrs.Args) Descriptor {
	var d Descriptor
	d.Link, _ = args.String("link")
	d.Action, _ = args.String("action")
	d.Title, _ = args.String("title")
	d.Args, _ = args.String("args")
	if raw, ok := args.String("btype"); ok {
		d.Kind, _ = ParseKind(raw)
	}
	return New(d)
}

// HasArgs reports whether a free-form argument was supplied.
func (d Descriptor) HasArgs() bool {
	return d.Args != ""
}
