package fix

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff represents a unified diff between original and modified content.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Original is the original file content.
	Original []byte

	// Modified is the modified file content.
	Modified []byte

	// Hunks contains the diff hunks.
	Hunks []DiffHunk

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// DiffHunk represents a single hunk in a unified diff.
type DiffHunk struct {
	// OriginalStart is the 1-based line number where the hunk starts in the original.
	OriginalStart int

	// OriginalCount is the number of lines from the original in this hunk.
	OriginalCount int

	// ModifiedStart is the 1-based line number where the hunk starts in the modified.
	ModifiedStart int

	// ModifiedCount is the number of lines from the modified in this hunk.
	ModifiedCount int

	// Lines contains the diff lines in this hunk.
	Lines []DiffLine
}

// DiffLine represents a single line in a diff hunk.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if string(original) == string(modified) {
		return nil
	}

	origLines := splitLines(original)
	modLines := splitLines(modified)

	matcher := difflib.NewMatcher(origLines, modLines)
	groups := matcher.GetGroupedOpCodes(contextLines)
	if len(groups) == 0 {
		return nil
	}

	diff := &Diff{
		Path:     path,
		Original: original,
		Modified: modified,
		Hunks:    make([]DiffHunk, 0, len(groups)),
	}

	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		hunk := DiffHunk{
			OriginalStart: hunkStart(first.I1, last.I2),
			OriginalCount: last.I2 - first.I1,
			ModifiedStart: hunkStart(first.J1, last.J2),
			ModifiedCount: last.J2 - first.J1,
		}

		for _, op := range group {
			if op.Tag == 'e' {
				for _, line := range origLines[op.I1:op.I2] {
					hunk.Lines = append(hunk.Lines, DiffLine{Kind: DiffLineContext, Content: line})
				}
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				for _, line := range origLines[op.I1:op.I2] {
					hunk.Lines = append(hunk.Lines, DiffLine{Kind: DiffLineRemove, Content: line})
					diff.Deletions++
				}
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				for _, line := range modLines[op.J1:op.J2] {
					hunk.Lines = append(hunk.Lines, DiffLine{Kind: DiffLineAdd, Content: line})
					diff.Additions++
				}
			}
		}

		diff.Hunks = append(diff.Hunks, hunk)
	}

	return diff
}

// hunkStart converts a 0-based range start into the 1-based hunk header
// number. Empty ranges point at the line before the change.
func hunkStart(start, stop int) int {
	if stop == start {
		return start
	}
	return start + 1
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)

		for _, line := range hunk.Lines {
			switch line.Kind {
			case DiffLineContext:
				fmt.Fprintf(&builder, " %s\n", line.Content)
			case DiffLineAdd:
				fmt.Fprintf(&builder, "+%s\n", line.Content)
			case DiffLineRemove:
				fmt.Fprintf(&builder, "-%s\n", line.Content)
			}
		}
	}

	return builder.String()
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// splitLines splits content into lines, dropping the final newline.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
