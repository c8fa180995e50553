package layout

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most width characters, splitting on
// single spaces. A word longer than width gets a line of its own and is never
// split. Lengths count runes.
func Wrap(text string, width int) []string {
	var lines []string
	var line string
	for _, word := range strings.Split(text, " ") {
		if utf8.RuneCountInString(word) > width {
			if line != "" {
				lines = append(lines, line)
			}
			lines = append(lines, word)
			line = ""
			continue
		}
		next := word
		if line != "" {
			next = line + " " + word
		}
		if utf8.RuneCountInString(next) > width {
			lines = append(lines, line)
			line = word
		} else {
			line = next
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
