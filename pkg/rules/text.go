package rules

import "unicode/utf8"

// document is scanned text decoded once into runes, with the byte offset of
// every rune so matches can be reported in both units.
type document struct {
	text    string
	runes   []rune
	offsets []int
}

func newDocument(text string) *document {
	n := utf8.RuneCountInString(text)
	doc := &document{
		text:    text,
		runes:   make([]rune, 0, n),
		offsets: make([]int, 0, n+1),
	}
	for i, r := range text {
		doc.runes = append(doc.runes, r)
		doc.offsets = append(doc.offsets, i)
	}
	doc.offsets = append(doc.offsets, len(text))
	return doc
}

// slice returns the text between two character offsets.
func (d *document) slice(start, end int) string {
	return d.text[d.offsets[start]:d.offsets[end]]
}
