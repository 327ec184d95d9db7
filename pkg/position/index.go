// Package position translates offsets in a text into 1-based line and column
// numbers. Columns count characters (Unicode code points), not bytes.
package position

import (
	"sort"
	"unicode/utf8"
)

// LineInfo describes one line of the indexed text.
type LineInfo struct {
	// StartOffset is the byte offset of the first byte of the line.
	StartOffset int

	// NewlineStart is the byte offset of the line terminator ("\n" or "\r\n"),
	// or the end of text for the last line.
	NewlineStart int

	// EndOffset is the byte offset just past the line terminator.
	EndOffset int

	// StartChar is the character offset of the first character of the line.
	StartChar int
}

// Index maps offsets to lines for a single text.
type Index struct {
	text  string
	lines []LineInfo
	chars int
}

// NewIndex builds an index for text. LF and CRLF line endings are recognised.
func NewIndex(text string) *Index {
	idx := &Index{text: text}

	lineStart, lineChar, chars := 0, 0, 0
	for i, r := range text {
		chars++
		if r != '\n' {
			continue
		}
		newlineStart := i
		if i > 0 && text[i-1] == '\r' {
			newlineStart = i - 1
		}
		idx.lines = append(idx.lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    i + 1,
			StartChar:    lineChar,
		})
		lineStart = i + 1
		lineChar = chars
	}

	idx.lines = append(idx.lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(text),
		EndOffset:    len(text),
		StartChar:    lineChar,
	})
	idx.chars = chars

	return idx
}

// LineCount returns the number of lines. Text ending in a newline has an
// empty final line.
func (x *Index) LineCount() int {
	return len(x.lines)
}

// Len returns the number of characters in the text.
func (x *Index) Len() int {
	return x.chars
}

// Position converts a character offset to a 1-based line and column.
// Offsets past the end map to the end of the last line; negative offsets
// return (0, 0).
func (x *Index) Position(charOffset int) (int, int) {
	if charOffset < 0 {
		return 0, 0
	}
	if charOffset > x.chars {
		charOffset = x.chars
	}

	lineIdx := sort.Search(len(x.lines), func(i int) bool {
		return x.lines[i].StartChar > charOffset
	}) - 1

	return lineIdx + 1, charOffset - x.lines[lineIdx].StartChar + 1
}

// CharOffset converts a byte offset to a character offset.
func (x *Index) CharOffset(byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(x.text) {
		return x.chars
	}

	lineIdx := sort.Search(len(x.lines), func(i int) bool {
		return x.lines[i].EndOffset > byteOffset
	})
	line := x.lines[lineIdx]

	return line.StartChar + utf8.RuneCountInString(x.text[line.StartOffset:byteOffset])
}

// Line returns the text of a 1-based line without its terminator, or "" when
// n is out of range.
func (x *Index) Line(n int) string {
	if n < 1 || n > len(x.lines) {
		return ""
	}
	line := x.lines[n-1]
	return x.text[line.StartOffset:line.NewlineStart]
}

// Lines returns the line table.
func (x *Index) Lines() []LineInfo {
	return x.lines
}
