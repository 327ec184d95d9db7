// Package markdown finds fenced code blocks in markdown documents so their
// contents can be scanned like source files.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/sentinel/pkg/langdetect"
)

// Segment is a byte range [Start, Stop) of the source.
type Segment struct {
	Start int
	Stop  int
}

// Block is a fenced code block whose info string names a known language.
type Block struct {
	// Language is derived from the first word of the info string.
	Language langdetect.Language

	// Info is the full info string after the opening fence.
	Info string

	// Segments are the byte ranges of the block's content lines.
	Segments []Segment

	// Contiguous is true when the segments form one unbroken range of the
	// source, which makes the block safe to rewrite in place.
	Contiguous bool
}

// Span returns the byte range from the first to the last content line.
func (b Block) Span() Segment {
	if len(b.Segments) == 0 {
		return Segment{}
	}
	return Segment{Start: b.Segments[0].Start, Stop: b.Segments[len(b.Segments)-1].Stop}
}

// Parser extracts code blocks. The zero value is not usable; call New.
type Parser struct {
	md goldmark.Markdown
}

// New returns a Parser for GitHub-flavoured markdown.
func New() *Parser {
	return &Parser{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

var defaultParser = New()

// CodeBlocks returns the fenced code blocks of content in document order.
func CodeBlocks(content []byte) []Block {
	return defaultParser.CodeBlocks(content)
}

// CodeBlocks returns the fenced code blocks of content in document order.
// Blocks without a recognised language or without content are left out.
func (p *Parser) CodeBlocks(content []byte) []Block {
	doc := p.md.Parser().Parse(text.NewReader(content))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if block, ok := newBlock(fenced, content); ok {
			blocks = append(blocks, block)
		}
		return ast.WalkSkipChildren, nil
	})

	return blocks
}

func newBlock(n *ast.FencedCodeBlock, source []byte) (Block, bool) {
	if n.Info == nil {
		return Block{}, false
	}

	info := string(n.Info.Segment.Value(source))
	lang, ok := langdetect.FromFenceInfo(info)
	if !ok {
		return Block{}, false
	}

	lines := n.Lines()
	if lines.Len() == 0 {
		return Block{}, false
	}

	block := Block{
		Language:   lang,
		Info:       info,
		Segments:   make([]Segment, 0, lines.Len()),
		Contiguous: true,
	}
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Padding > 0 || (i > 0 && seg.Start != block.Segments[i-1].Stop) {
			block.Contiguous = false
		}
		block.Segments = append(block.Segments, Segment{Start: seg.Start, Stop: seg.Stop})
	}

	return block, true
}
