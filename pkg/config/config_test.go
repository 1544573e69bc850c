package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func TestParse_YAMLAndJSON(t *testing.T) {
	want := Default()
	want.PagesDir = "screens"
	want.Toolkit = "headless"
	want.Images.IconSize = 32
	want.Log.Development = true

	cases := []struct {
		name string
		data string
	}{
		{name: "yaml", data: "pages_dir: screens\ntoolkit: headless\nimages:\n  icon_size: 32\nlog:\n  development: true\n"},
		{name: "json", data: `{"pages_dir":"screens","toolkit":"headless","images":{"icon_size":32},"log":{"development":true}}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse([]byte(tc.data), tc.name)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	got, err := Parse([]byte("  \n"), "empty")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("log:\n  level: chatty\n"), "bad"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := Parse([]byte("images:\n  picture_size: -4\n"), "bad"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := Parse([]byte("pages_dir: [unterminated"), "bad"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{"formview.yaml": {Data: []byte("main_page: home.html\n")}}
	cfg, err := LoadFS(fsys, DefaultFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.MainPath(); got != filepath.Join("gui_pages", "home.html") {
		t.Fatalf("main path: %q", got)
	}

	dir := t.TempDir()
	cfg, err = LoadOptional(filepath.Join(dir, DefaultFile))
	if err != nil {
		t.Fatalf("missing optional file should give defaults: %v", err)
	}
	if cfg.Toolkit != "prompt" {
		t.Fatalf("unexpected toolkit %q", cfg.Toolkit)
	}

	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("toolkit: headless\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = LoadOptional(path)
	if err != nil || cfg.Toolkit != "headless" {
		t.Fatalf("load optional: %+v %v", cfg, err)
	}
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatalf("missing required file should fail")
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	logger, err := cfg.Logger()
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug level should be enabled")
	}
}
