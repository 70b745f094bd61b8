// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one importable word with an optional pronunciation hint.
type Entry struct {
	Text string
	Hint string
}

// LoadEntries reads one entry per line from the provided file path.
func LoadEntries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ParseEntries(file, DefaultFilter())
}

// ParseEntries reads "text" or "text<TAB>hint" lines. Blank lines and
// lines starting with # are skipped, as are entries rejected by keep and
// repeats of an earlier text.
func ParseEntries(r io.Reader, keep FilterFunc) ([]Entry, error) {
	var entries []Entry
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		text, hint, _ := strings.Cut(line, "\t")
		e := Entry{Text: strings.TrimSpace(text), Hint: strings.TrimSpace(hint)}
		if keep != nil && !keep(e.Text) {
			continue
		}
		if _, dup := seen[e.Text]; dup {
			continue
		}
		seen[e.Text] = struct{}{}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return entries, nil
}
