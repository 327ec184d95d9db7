package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/sentinel/internal/logging"
	"github.com/yaklabco/sentinel/pkg/lint"
)

// Runner orchestrates multi-file scanning using a lint.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths on the pipeline's filesystem and
// processes them with at most opts.Jobs workers. Outcomes are ordered by
// path regardless of completion order. A per-file failure is recorded on
// its outcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, r.Pipeline.FS.Afero(), opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	logger := logging.FromContext(ctx)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files), logging.FieldJobs, opts.Jobs)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)

	// Each worker owns one slot, so no locking is needed.
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			outcome := FileOutcome{Path: path}
			pr, err := r.Pipeline.ProcessFile(gctx, path, pipelineOpts)
			if err != nil {
				logger.Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
				outcome.Error = err
			} else {
				if pr.Skipped {
					logger.Debug("file skipped", logging.FieldPath, path, logging.FieldReason, pr.SkipReason)
				}
				outcome.Result = pr
			}

			outcomes[i] = outcome
			done[i] = true
			return nil
		})
	}

	waitErr := g.Wait()

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome)
		}
	}

	if waitErr != nil {
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}
