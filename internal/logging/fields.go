package logging

// Field names for structured log entries.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldConfig     = "config"
	FieldWorkingDir = "working_dir"

	// Run settings.
	FieldFix      = "fix"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"
	FieldTimeout  = "timeout"
	FieldLanguage = "language"
	FieldReason   = "reason"

	// Run statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesSkipped    = "files_skipped"
	FieldFindings        = "findings"
	FieldReplacements    = "replacements"
	FieldFilesModified   = "files_modified"
	FieldDuration        = "duration"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rules.
	FieldRule    = "rule"
	FieldRules   = "rules"
	FieldStatus  = "status"
	FieldPattern = "pattern"
)
