package window

import (
	"fmt"
	"strings"
)

// TagKind is the closed set of tags a page may use.
type TagKind int

const (
	TagTitle TagKind = iota + 1
	TagGeometry
	TagButton
	TagLabel
	TagDiv
	TagScrollbox
	TagListbox
	TagImg
	TagForm
	TagInput
	TagSelect
	TagOption
)

var tagNames = map[string]TagKind{
	"title":     TagTitle,
	"geometry":  TagGeometry,
	"button":    TagButton,
	"label":     TagLabel,
	"div":       TagDiv,
	"scrollbox": TagScrollbox,
	"listbox":   TagListbox,
	"img":       TagImg,
	"form":      TagForm,
	"input":     TagInput,
	"select":    TagSelect,
	"option":    TagOption,
}

// ParseTag maps a tag name onto its kind.
func ParseTag(name string) (TagKind, error) {
	kind, ok := tagNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: <%s>", ErrUnknownTag, name)
	}
	return kind, nil
}

// Head reports whether the tag belongs in the page head.
func (k TagKind) Head() bool {
	return k == TagTitle || k == TagGeometry
}

func (k TagKind) String() string {
	for name, kind := range tagNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// InputType is the closed set of <input> types.
type InputType int

const (
	InputText InputType = iota + 1
	InputSubmit
)

func parseInputType(raw string) (InputType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text":
		return InputText, nil
	case "submit":
		return InputSubmit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownInputType, raw)
	}
}
