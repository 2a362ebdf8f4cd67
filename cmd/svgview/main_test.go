package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestViewerLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.svg")
	if err := os.WriteFile(path, []byte(`<svg width="10" height="10"/>`), 0o600); err != nil {
		t.Fatal(err)
	}
	v := &viewer{path: path}
	if err := v.load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if v.doc == nil || !v.reload {
		t.Fatalf("doc = %v, reload = %v after load", v.doc, v.reload)
	}

	v.path = filepath.Join(filepath.Dir(path), "missing.svg")
	if err := v.load(); err == nil {
		t.Error("load of a missing file succeeded")
	}
}
