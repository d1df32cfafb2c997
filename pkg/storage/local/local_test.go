package local

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func seedObject(t *testing.T, base, key, content string) {
	t.Helper()
	path := filepath.Join(base, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestListObjects(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	backend, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	seedObject(t, base, "dev/components/a/a.1.js", "a")
	seedObject(t, base, "dev/components/b/b.2.js", "b")
	seedObject(t, base, "stage/components/a/a.1.js", "a")

	keys, err := backend.ListObjects(ctx, "dev/")
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	sort.Strings(keys)
	want := []string{"dev/components/a/a.1.js", "dev/components/b/b.2.js"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestCopyObject(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	backend, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	seedObject(t, base, "dev/components/a/a.1.js", "payload")

	if err := backend.CopyObject(ctx, "dev/components/a/a.1.js", "stage/components/a/a.1.js"); err != nil {
		t.Fatalf("CopyObject: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "stage", "components", "a", "a.1.js"))
	if err != nil {
		t.Fatalf("read copied object: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("copied content mismatch: %q", data)
	}
}

func TestCopyObjectMissingSource(t *testing.T) {
	ctx := context.Background()
	backend, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := backend.CopyObject(ctx, "dev/missing.js", "stage/missing.js"); err == nil {
		t.Fatalf("expected missing source to fail")
	}
}
