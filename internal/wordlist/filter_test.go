package wordlist

import (
	"strings"
	"testing"
)

func TestDefaultFilter(t *testing.T) {
	filter := DefaultFilter()
	for _, word := range []string{"hello", "résumé", "naïve", "don’t", "ice cream"} {
		if !filter(word) {
			t.Fatalf("expected %q to pass", word)
		}
	}
	for _, word := range []string{"", "bell\a", strings.Repeat("a", MaxWordLength+1)} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestParseEntries(t *testing.T) {
	input := "# animals\nCat\tkat\n\nDog\n  Cat  \nBird\t  \n"
	entries, err := ParseEntries(strings.NewReader(input), DefaultFilter())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []Entry{{Text: "Cat", Hint: "kat"}, {Text: "Dog"}, {Text: "Bird"}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(entries), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], entries[i])
		}
	}
}

func TestParseEntriesEmpty(t *testing.T) {
	if _, err := ParseEntries(strings.NewReader("\n# nothing\n"), nil); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
