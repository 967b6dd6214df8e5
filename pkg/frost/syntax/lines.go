package syntax

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// LineIndex converts byte offsets into 1-based line and column numbers.
// Columns count runes, not bytes.
type LineIndex struct {
	text   string
	starts []int
}

// NewLineIndex indexes the line starts of text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// LineCol returns the position of offset. Offsets past the end clamp to the end.
func (li *LineIndex) LineCol(offset int) (line, column int) {
	if offset > len(li.text) {
		offset = len(li.text)
	}
	if offset < 0 {
		offset = 0
	}
	// index of the last line start <= offset
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	start := li.starts[i]
	return i + 1, utf8.RuneCountInString(li.text[start:offset]) + 1
}

// Line returns the text of the 1-based line n without its line ending.
func (li *LineIndex) Line(n int) string {
	if n < 1 || n > len(li.starts) {
		return ""
	}
	start := li.starts[n-1]
	end := len(li.text)
	if n < len(li.starts) {
		end = li.starts[n] - 1
	}
	return strings.TrimSuffix(li.text[start:end], "\r")
}

// LineCount returns the number of lines; an empty text has one.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}
