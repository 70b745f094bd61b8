package wordlist

import (
	"unicode"
	"unicode/utf8"
)

// MaxWordLength bounds an importable word in runes.
const MaxWordLength = 64

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// DefaultFilter keeps non-blank words without control characters that fit
// in MaxWordLength runes.
func DefaultFilter() FilterFunc {
	return filterPrintable
}

func filterPrintable(word string) bool {
	if word == "" || utf8.RuneCountInString(word) > MaxWordLength {
		return false
	}
	for _, r := range word {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return false
		}
	}
	return true
}
