package ingest

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quay/licenseassess"
)

type stringIgnore []string

func (s stringIgnore) IsIgnored(path string) bool {
	for _, seg := range s {
		if strings.Contains(path, seg) {
			return true
		}
	}
	return false
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadBuildsRecords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "LICENSE"), "MIT License")
	writeFile(t, filepath.Join(root, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(root, "vendor", "ignored.go"), "package vendor")
	writeFile(t, filepath.Join(root, "empty.txt"), "")

	reg := assess.NewRegistry()
	ignore := stringIgnore{"vendor"}
	if err := Read(context.Background(), root, ignore, assess.SHA256, reg); err != nil {
		t.Fatal(err)
	}

	if reg.Len() != 3 {
		t.Fatalf("got %d records, want 3 (vendor excluded)", reg.Len())
	}

	rec, ok := reg.Get(filepath.Join(root, "LICENSE"))
	if !ok {
		t.Fatal("expected LICENSE record")
	}
	if rec.Text != "MIT License" {
		t.Errorf("Text = %q, want %q", rec.Text, "MIT License")
	}
	if rec.IsEmpty {
		t.Error("LICENSE should not be empty")
	}
	if rec.ContentHash.Algorithm() != assess.SHA256 {
		t.Errorf("hash algorithm = %q, want sha256", rec.ContentHash.Algorithm())
	}
	sum := sha256.Sum256([]byte("MIT License"))
	want, _ := assess.NewDigest(assess.SHA256, sum[:])
	if rec.ContentHash.String() != want.String() {
		t.Errorf("ContentHash = %q, want %q", rec.ContentHash.String(), want.String())
	}

	empty, ok := reg.Get(filepath.Join(root, "empty.txt"))
	if !ok {
		t.Fatal("expected empty.txt record")
	}
	if !empty.IsEmpty {
		t.Error("empty.txt should be marked IsEmpty")
	}

	if _, ok := reg.Get(filepath.Join(root, "vendor", "ignored.go")); ok {
		t.Error("vendor/ignored.go should have been excluded")
	}
}

func TestReadExtensionField(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "x")
	writeFile(t, filepath.Join(root, ".gitignore"), "x")
	writeFile(t, filepath.Join(root, "README"), "x")

	reg := assess.NewRegistry()
	if err := Read(context.Background(), root, nil, assess.SHA256, reg); err != nil {
		t.Fatal(err)
	}

	tt := []struct{ Name, WantExt string }{
		{"a.txt", ".txt"},
		{".gitignore", ".gitignore"},
		{"README", ""},
	}
	for _, tc := range tt {
		rec, ok := reg.Get(filepath.Join(root, tc.Name))
		if !ok {
			t.Fatalf("missing record for %s", tc.Name)
		}
		if rec.Extension != tc.WantExt {
			t.Errorf("%s: Extension = %q, want %q", tc.Name, rec.Extension, tc.WantExt)
		}
	}
}
