package stdlib

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverFindsNeplFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.nepl", "a.nepl", "ignore.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	m, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Files) != 2 {
		t.Fatalf("expected 2 .nepl files, got %v", m.Files)
	}
	if filepath.Base(m.Files[0]) != "a.nepl" || filepath.Base(m.Files[1]) != "b.nepl" {
		t.Errorf("expected sorted order, got %v", m.Files)
	}
}

func TestVerifyDetectsMissingFile(t *testing.T) {
	dir := t.TempDir()
	gone := filepath.Join(dir, "gone.nepl")
	m := Manifest{Root: dir, Files: []string{gone}}
	err := m.Verify()
	if err == nil {
		t.Fatal("expected Verify to fail for a missing file")
	}
	if _, ok := err.(*Missing); !ok {
		t.Errorf("expected *Missing, got %T", err)
	}
}
