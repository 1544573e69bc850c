package attrs

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formview/pkg/markup"
)

func firstNode(t *testing.T, src string) *markup.Node {
	t.Helper()
	doc, err := markup.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	children := doc.Body.Children()
	if len(children) == 0 {
		t.Fatalf("no element in %q", src)
	}
	return children[0]
}

func TestElementArgs_CastsAndDrops(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind Kind
		want Args
	}{
		{
			name: "grid all valid",
			src:  `<label row="1" column="2" padx="3" pady="4" sticky="nsew">x</label>`,
			kind: KindGrid,
			want: Args{"row": 1, "column": 2, "padx": 3, "pady": 4, "sticky": "nsew"},
		},
		{
			name: "grid uncastable dropped",
			src:  `<label row="first" column=" 2 " padx="">x</label>`,
			kind: KindGrid,
			want: Args{"column": 2},
		},
		{
			name: "listbox",
			src:  `<listbox height="5" width="wide" selectmode="multiple"></listbox>`,
			kind: KindListbox,
			want: Args{"height": 5, "selectmode": "multiple"},
		},
		{
			name: "button strings",
			src:  `<button link="next.html" title="Go" args="7">Go</button>`,
			kind: KindButton,
			want: Args{"link": "next.html", "title": "Go", "args": "7"},
		},
		{
			name: "frame none present",
			src:  `<div></div>`,
			kind: KindFrame,
			want: Args{},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ElementArgs(firstNode(t, tc.src), tc.kind)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestElementArgs_EveryDeclaredAttributeCastsOrIsAbsent(t *testing.T) {
	node := firstNode(t, `<div padx="x" pady="2" sticky="w" row="-1" column="1.5"
		height="10" width="q" selectmode="single"
		link="a" action="b" btype="back" title="t" args="z"></div>`)

	for _, kind := range []Kind{KindGrid, KindListbox, KindButton, KindFrame} {
		spec := SpecFor(kind)
		args := ElementArgs(node, kind)
		for _, name := range spec.Names() {
			v, present := args[name]
			if !present {
				continue
			}
			switch spec[name] {
			case TypeInt:
				if _, ok := v.(int); !ok {
					t.Fatalf("%s.%s: expected int, got %T", kind, name, v)
				}
			case TypeString:
				if _, ok := v.(string); !ok {
					t.Fatalf("%s.%s: expected string, got %T", kind, name, v)
				}
			}
		}
		for name := range args {
			if _, declared := spec[name]; !declared {
				t.Fatalf("%s: undeclared attribute %q leaked", kind, name)
			}
		}
	}

	grid := ElementArgs(node, KindGrid)
	if grid.Has("padx") || grid.Has("column") {
		t.Fatalf("uncastable ints must be absent: %v", grid)
	}
	if row, ok := grid.Int("row"); !ok || row != -1 {
		t.Fatalf("row: got %d ok=%v", row, ok)
	}
}

func TestBool(t *testing.T) {
	node := firstNode(t, `<div scrolling="TRUE" multiple="yes"></div>`)
	if !Bool(node, "scrolling") {
		t.Fatalf("TRUE should be true")
	}
	if Bool(node, "multiple") {
		t.Fatalf("yes should be false")
	}
	if Bool(node, "absent") {
		t.Fatalf("absent should be false")
	}
}
