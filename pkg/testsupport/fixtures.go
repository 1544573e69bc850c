package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formview/pkg/markup"
	"github.com/goliatone/go-formview/pkg/pages"
	"github.com/goliatone/go-formview/pkg/toolkit/headless"
	"github.com/goliatone/go-formview/pkg/window"
)

// ParsePage parses src or fails the test.
func ParsePage(t *testing.T, src string) *markup.Document {
	t.Helper()
	doc, err := markup.ParseString(src)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return doc
}

// BuildPage builds src as the root window of a fresh headless app. Linked
// pages are served from files; extra options are applied after the defaults.
func BuildPage(t *testing.T, src string, files fstest.MapFS, opts ...window.Option) (*window.Window, *headless.Toolkit) {
	t.Helper()
	if files == nil {
		files = fstest.MapFS{}
	}
	tk := headless.New()
	base := []window.Option{window.WithPages(pages.NewFS(files, pages.DefaultDir))}
	app := window.New(tk, append(base, opts...)...)
	w, err := app.Main(Context(), ParsePage(t, src), window.Definition{})
	if err != nil {
		t.Fatalf("build page: %v", err)
	}
	return w, tk
}

// CompareGoldenJSON marshals got and diffs it against the JSON golden at
// path. Both sides are decoded into plain values first so number types and
// key order do not matter. With UPDATE_GOLDENS set the golden is rewritten.
func CompareGoldenJSON(t *testing.T, path string, got any) {
	t.Helper()

	payload, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if WriteMaybeGolden(t, path, append(payload, '\n')) {
		return
	}

	var want, have any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	if err := json.Unmarshal(payload, &have); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs render against a buffer and returns both the string
// result and what was written, so tests can check they agree.
func CaptureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
