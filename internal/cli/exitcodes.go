package cli

import (
	"errors"

	"github.com/yaklabco/sentinel/internal/configloader"
	"github.com/yaklabco/sentinel/pkg/lint"
)

// Exit codes for sentinel.
const (
	// ExitSuccess indicates successful execution with no failing findings.
	ExitSuccess = 0

	// ExitFindings indicates the scan completed and reported findings, or
	// that a quick fix had nothing to apply to.
	ExitFindings = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates files that could not be read or written.
	ExitIOError = 74
)

// ExitCode maps the error returned by a command to the process exit code.
func ExitCode(err error) int {
	var verr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFindingsReported), errors.Is(err, ErrProblemsFound),
		errors.Is(err, lint.ErrNoFixAvailable), errors.Is(err, ErrNoMatchingFinding):
		return ExitFindings
	case errors.Is(err, ErrFilesFailed):
		return ExitIOError
	case errors.As(err, &verr):
		return ExitConfigError
	case errors.Is(err, errUsage):
		return ExitInvalidUsage
	default:
		return ExitInternalError
	}
}

// IsReportedError reports whether err only signals an exit status whose
// cause was already written to the output.
func IsReportedError(err error) bool {
	return errors.Is(err, ErrFindingsReported) || errors.Is(err, ErrProblemsFound)
}

// errUsage marks errors caused by invalid arguments.
var errUsage = errors.New("invalid usage")
