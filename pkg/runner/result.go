package runner

import (
	"slices"

	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the pipeline result for this file.
	// Nil if the file encountered an error during processing.
	Result *lint.PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files processed without error,
	// including skipped files.
	FilesProcessed int

	// FilesSkipped is the number of files skipped (ineligible language,
	// budget exceeded, concurrent modification).
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FindingsTotal is the total number of findings across all files.
	FindingsTotal int

	// FindingsFixable is the number of findings whose rule has a quick fix.
	FindingsFixable int

	// FindingsByStatus maps rule statuses to finding counts.
	FindingsByStatus map[rules.Status]int

	// FindingsBySeverity maps report severities to finding counts.
	FindingsBySeverity map[string]int

	// FilesWithFindings is the number of files with at least one finding.
	FilesWithFindings int

	// FilesModified is the number of files rewritten by fixes.
	FilesModified int

	// Replacements is the number of bulk-fix replacements made.
	Replacements int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasFindings reports whether any findings were reported.
func (r *Result) HasFindings() bool {
	if r == nil {
		return false
	}
	return r.Stats.FindingsTotal > 0
}

// HasFailures reports whether the run fails under the given statuses. With no
// statuses any finding fails the run.
func (r *Result) HasFailures(failOn []rules.Status) bool {
	if r == nil {
		return false
	}
	if len(failOn) == 0 {
		return r.HasFindings()
	}
	return slices.ContainsFunc(failOn, func(s rules.Status) bool {
		return r.Stats.FindingsByStatus[s] > 0
	})
}

// HasErrors reports whether any file could not be processed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

func newStats() Stats {
	return Stats{
		FindingsByStatus:   make(map[rules.Status]int),
		FindingsBySeverity: make(map[string]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesProcessed++

	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Written {
		r.Stats.FilesModified++
	}

	if pr.FileResult == nil {
		return
	}

	r.Stats.Replacements += len(pr.Replacements)
	r.Stats.FindingsTotal += pr.IssueCount()
	r.Stats.FindingsFixable += pr.FixableCount()
	if pr.HasIssues() {
		r.Stats.FilesWithFindings++
	}

	for _, d := range pr.Diagnostics {
		r.Stats.FindingsByStatus[d.Status]++
		r.Stats.FindingsBySeverity[string(d.Severity)]++
	}
}
