package form

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formview/pkg/attrs"
	"github.com/goliatone/go-formview/pkg/binding"
)

type stubLabel struct {
	text   string
	cancel func()
}

func (l *stubLabel) ID() string { return "label" }
func (l *stubLabel) Grid(attrs.Args) {}
func (l *stubLabel) Destroy() {}
func (l *stubLabel) Text() string { return l.text }
func (l *stubLabel) SetText(text string) { l.text = text }
func (l *stubLabel) BindText(v *binding.String) {
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = v.Watch(func(s string) { l.text = s })
}

type stubList struct {
	items    []string
	selected []int
}

func (l *stubList) ID() string { return "list" }
func (l *stubList) Grid(attrs.Args) {}
func (l *stubList) Destroy() {}
func (l *stubList) Insert(items ...string) { l.items = append(l.items, items...) }
func (l *stubList) Items() []string { return l.items }
func (l *stubList) Selection() []int { return l.selected }
func (l *stubList) Select(indices ...int) { l.selected = indices }
func (l *stubList) YView(float64) {}

func TestForm_FieldRetrievableByName(t *testing.T) {
	f := New()
	first := binding.NewString("a")
	second := binding.NewString("b")

	if err := f.AddField(Input("name", first)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.AddField(Input("other", binding.NewString(""))); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.AddField(Input("name", second)); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, ok := f.Field("name")
	if !ok || got.Value != second {
		t.Fatalf("expected last write to win")
	}
	var names []string
	for _, field := range f.Fields() {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"name", "other"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if _, err := f.Get("missing"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestForm_LabelForIsLiveBinding(t *testing.T) {
	f := New()
	cell := binding.NewString("initial")
	if err := f.AddField(Input("user", cell)); err != nil {
		t.Fatalf("add input: %v", err)
	}
	label := &stubLabel{}
	if err := f.AddField(LabelFor("echo", "user", label)); err != nil {
		t.Fatalf("add label: %v", err)
	}
	if label.text != "initial" {
		t.Fatalf("label should show current value, got %q", label.text)
	}

	cell.Set("typed")
	if label.text != "typed" {
		t.Fatalf("label should follow later writes, got %q", label.text)
	}
	if f.Pending() != 0 {
		t.Fatalf("nothing should be pending")
	}
}

func TestForm_LabelForDeferredUntilResolve(t *testing.T) {
	f := New()
	label := &stubLabel{}
	if err := f.AddField(LabelFor("echo", "user", label)); err != nil {
		t.Fatalf("add label: %v", err)
	}
	if f.Pending() != 1 {
		t.Fatalf("label should be pending")
	}

	cell := binding.NewString("later")
	if err := f.AddField(Input("user", cell)); err != nil {
		t.Fatalf("add input: %v", err)
	}
	if err := f.Resolve(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	cell.Set("after")
	if label.text != "after" {
		t.Fatalf("label not bound after resolve, got %q", label.text)
	}
}

func TestForm_ReplacedLabelForIsNotResolved(t *testing.T) {
	f := New()
	label := &stubLabel{}
	if err := f.AddField(LabelFor("status", "user", label)); err != nil {
		t.Fatalf("add label: %v", err)
	}
	display := binding.NewString("shown")
	label.BindText(display)
	if err := f.AddField(Display("status", display)); err != nil {
		t.Fatalf("add display: %v", err)
	}
	if f.Pending() != 0 {
		t.Fatalf("replaced label-for must leave the queue, %d pending", f.Pending())
	}

	user := binding.NewString("typed")
	if err := f.AddField(Input("user", user)); err != nil {
		t.Fatalf("add input: %v", err)
	}
	if err := f.Resolve(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	user.Set("changed")
	if label.text != "shown" {
		t.Fatalf("label should keep following the display cell, got %q", label.text)
	}
	if got, _ := f.Field("status"); got.Kind != FieldLabel || got.Value != display {
		t.Fatalf("status should be the display field, got %+v", got)
	}
}

func TestForm_ResolveMissingReference(t *testing.T) {
	f := New()
	if err := f.AddField(LabelFor("echo", "ghost", &stubLabel{})); err != nil {
		t.Fatalf("add label: %v", err)
	}
	if err := f.Resolve(); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestForm_LabelForUnbindable(t *testing.T) {
	f := New()
	if err := f.AddField(MultiSelect("tags")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.AddField(LabelFor("echo", "tags", &stubLabel{})); !errors.Is(err, ErrUnbindable) {
		t.Fatalf("expected ErrUnbindable, got %v", err)
	}
}

func TestForm_MultiSelectGrowsPerOption(t *testing.T) {
	f := New()
	if err := f.AddField(MultiSelect("tags")); err != nil {
		t.Fatalf("add: %v", err)
	}
	for i, value := range []string{"a", "b", "c"} {
		if err := f.AddToMultipleSelect("tags", Choice{Checked: binding.NewBool(i == 1), Value: value}); err != nil {
			t.Fatalf("append %s: %v", value, err)
		}
		field, _ := f.Field("tags")
		if len(field.Choices) != i+1 {
			t.Fatalf("expected %d choices, got %d", i+1, len(field.Choices))
		}
	}
	field, _ := f.Field("tags")
	if diff := cmp.Diff([]string{"b"}, field.Checked()); diff != "" {
		t.Fatalf("checked mismatch (-want +got):\n%s", diff)
	}

	if err := f.AddField(Input("plain", binding.NewString(""))); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.AddToMultipleSelect("plain", Choice{}); !errors.Is(err, ErrFieldKind) {
		t.Fatalf("expected ErrFieldKind, got %v", err)
	}
	if err := f.AddToMultipleSelect("nope", Choice{}); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestForm_Values(t *testing.T) {
	f := New()
	list := &stubList{items: []string{"x", "y", "z"}}
	list.Select(0, 2)

	mustAdd(t, f, Input("name", binding.NewString("ada")))
	mustAdd(t, f, Select("color", binding.NewString("red")))
	mustAdd(t, f, MultiSelect("tags"))
	mustAdd(t, f, Listbox("pick", list, list.items))
	mustAdd(t, f, LabelFor("echo", "name", &stubLabel{}))
	if err := f.AddToMultipleSelect("tags", Choice{Checked: binding.NewBool(true), Value: "go"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	want := map[string]any{
		"name":  "ada",
		"color": "red",
		"tags":  []string{"go"},
		"pick":  []string{"x", "z"},
	}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_SetTextStripsMarkup(t *testing.T) {
	f := New()
	cell := binding.NewString("")
	mustAdd(t, f, Display("status", cell))

	if err := f.SetText("status", `<b>Saved</b> &amp; synced<script>x()</script>`); err != nil {
		t.Fatalf("set text: %v", err)
	}
	if cell.Get() != "Saved & synced" {
		t.Fatalf("unexpected text %q", cell.Get())
	}

	mustAdd(t, f, MultiSelect("tags"))
	if err := f.SetText("tags", "x"); !errors.Is(err, ErrFieldKind) {
		t.Fatalf("expected ErrFieldKind, got %v", err)
	}
}

func TestForm_SubmitDefaultReportsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := New(WithLogger(zap.New(core)))
	mustAdd(t, f, Input("name", binding.NewString("ada")))
	mustAdd(t, f, Select("color", binding.NewString("red")))

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	entries := logs.FilterMessage("form field").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 report entries, got %d", len(entries))
	}
	if entries[0].ContextMap()["name"] != "name" || entries[1].ContextMap()["value"] != "red" {
		t.Fatalf("unexpected report: %v / %v", entries[0].ContextMap(), entries[1].ContextMap())
	}
}

func TestForm_SubmitCustom(t *testing.T) {
	var got map[string]any
	f := New(WithSubmit(func(_ context.Context, f *Form) error {
		got = f.Values()
		return errors.New("rejected")
	}))
	mustAdd(t, f, Input("name", binding.NewString("ada")))

	if err := f.Submit(context.Background()); err == nil || err.Error() != "rejected" {
		t.Fatalf("expected custom error, got %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "ada"}, got); diff != "" {
		t.Fatalf("custom submit saw (-want +got):\n%s", diff)
	}
}

func mustAdd(t *testing.T, f *Form, field Field) {
	t.Helper()
	if err := f.AddField(field); err != nil {
		t.Fatalf("add %s: %v", field.Name, err)
	}
}
