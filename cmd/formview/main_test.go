package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const checkPageSrc = `<html><head><title>Signup</title></head>
<body>
  <label for="user">Name</label>
  <input type="text" name="user">
  <div id="extra"><button link="more.html">More</button></div>
</body></html>`

func writePage(t *testing.T, src string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.html")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return dir, path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheck_ListsFieldsAndFrames(t *testing.T) {
	dir, path := writePage(t, checkPageSrc)
	out, err := execute(t, "check", path, "--pages", dir)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	for _, want := range []string{"page " + path + ": ok", "for:user", "user", "frame extra", "buttons 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCheck_ReportsBuildErrors(t *testing.T) {
	dir, path := writePage(t, `<body><blink>no</blink></body>`)
	if _, err := execute(t, "check", path, "--pages", dir); err == nil {
		t.Fatalf("expected unknown tag error")
	}
}

func TestDump_JSON(t *testing.T) {
	dir, path := writePage(t, checkPageSrc)
	out, err := execute(t, "dump", path, "--pages", dir, "--format", "json")
	if err != nil {
		t.Fatalf("dump: %v\n%s", err, out)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if decoded["title"] != "Signup" {
		t.Fatalf("unexpected title %v", decoded["title"])
	}
}

func TestDump_RejectsUnknownFormat(t *testing.T) {
	dir, path := writePage(t, checkPageSrc)
	if _, err := execute(t, "dump", path, "--pages", dir, "--format", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}
