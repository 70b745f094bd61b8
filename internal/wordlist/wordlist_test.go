package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("Apple\tap-ul\nBall\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 || entries[0].Hint != "ap-ul" || entries[1].Text != "Ball" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestLoadEntriesMissingFile(t *testing.T) {
	if _, err := LoadEntries(filepath.Join(t.TempDir(), "none.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
