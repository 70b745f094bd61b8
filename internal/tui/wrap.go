package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// runesMatch compares letters case-insensitively; the learner is judged on
// spelling, not on the shift key.
func runesMatch(target, typed rune) bool {
	return target == typed || unicode.ToLower(target) == unicode.ToLower(typed)
}

func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		if i < len(inputRunes) {
			switch {
			case target == ' ' && inputRunes[i] != ' ':
				displayed = '•'
				style = incorrectStyle
			case runesMatch(target, inputRunes[i]):
				style = correctStyle
			default:
				style = incorrectStyle
			}
		}
		if i == cursorIndex && i >= len(inputRunes) {
			style = cursorStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

// plainRunes wraps unstyled text, such as a pronunciation hint.
func plainRunes(text string, style func(...string) string) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		out = append(out, styledRune{s: style(string(r)), width: runewidth.RuneWidth(r), isSpace: r == ' '})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks at the last space that fits, or mid-word when a
// single word is wider than width.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpace := -1

	flush := func(upTo int, skip int) {
		out.WriteString(renderStyledRunes(line[:upTo]))
		out.WriteRune('\n')
		line = append([]styledRune{}, line[skip:]...)
		lineWidth = 0
		lastSpace = -1
		for i, item := range line {
			lineWidth += item.width
			if item.isSpace {
				lastSpace = i
			}
		}
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				flush(lastSpace, lastSpace+1)
			} else {
				flush(len(line), len(line))
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}
