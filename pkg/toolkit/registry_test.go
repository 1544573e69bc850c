package toolkit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry_RegisterAndNew(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("b", func() (Toolkit, error) { return nil, nil })
	reg.MustRegister("a", func() (Toolkit, error) { return nil, errors.New("boom") })

	if diff := cmp.Diff([]string{"a", "b"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if err := reg.Register("a", func() (Toolkit, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := reg.New("a"); err == nil {
		t.Fatalf("expected factory error to surface")
	}
	if _, err := reg.New("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
