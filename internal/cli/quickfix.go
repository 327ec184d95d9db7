package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sentinel/internal/logging"
	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/fix"
	"github.com/yaklabco/sentinel/pkg/fsutil"
	"github.com/yaklabco/sentinel/pkg/langdetect"
	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/reporter"
	"github.com/yaklabco/sentinel/pkg/runner"
)

// ErrNoMatchingFinding is returned when quickfix finds nothing to apply to.
var ErrNoMatchingFinding = errors.New("no matching finding")

type quickFixFlags struct {
	rule   string
	offset int
	dryRun bool
	rules  []string
}

func newQuickFixCommand() *cobra.Command {
	flags := &quickFixFlags{}

	cmd := &cobra.Command{
		Use:   "quickfix FILE --rule ID",
		Short: "Apply one rule's quick fix to a single finding",
		Long: `Replace the text of a single finding with its rule's quick fix, the way an
editor code action does. Without --offset the first finding of the rule is
used; --offset selects the finding starting at that character offset.

Examples:
  sentinel quickfix src/app.js --rule array-at
  sentinel quickfix src/app.js --rule array-at --offset 120 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuickFix(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.rule, "rule", "", "id of the rule whose quick fix to apply")
	cmd.Flags().IntVar(&flags.offset, "offset", -1, "character offset of the finding (default: first finding)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show the change without writing it")
	cmd.Flags().StringSliceVar(&flags.rules, "rules", nil, "rule files (.json, .yaml, .toml) replacing the built-in set")
	_ = cmd.MarkFlagRequired("rule")

	return cmd
}

func runQuickFix(cmd *cobra.Command, file string, flags *quickFixFlags) error {
	cli := &config.Config{}
	if cmd.Flags().Changed("rules") {
		cli.Rules = flags.rules
	}

	sess, err := newSession(cmd, cli)
	if err != nil {
		return err
	}

	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(sess.workDir, path)
	}

	// Fail before reading when the rule has nothing to offer.
	replacement, err := lint.ResolveQuickFix(sess.rules, flags.rule)
	if err != nil {
		return err
	}

	fsys := fsutil.New(nil)
	content, info, err := fsys.ReadFile(sess.ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFilesFailed, err)
	}

	lang, ok := langdetect.Classify(path, content)
	if !ok {
		return fmt.Errorf("%s: %s", file, lint.SkipUnsupportedLanguage)
	}

	pipeline := lint.NewPipeline(sess.newEngine(), fsys, sess.cfg)
	pr, err := pipeline.ProcessContent(sess.ctx, path, lang, content, lint.PipelineOptions{Timeout: sess.cfg.Timeout})
	if err != nil {
		return err
	}
	if pr.Skipped {
		return fmt.Errorf("%s: %s", file, pr.SkipReason)
	}

	diag, ok := pickDiagnostic(pr.Diagnostics, flags.rule, flags.offset)
	if !ok {
		if flags.offset >= 0 {
			return fmt.Errorf("%w: rule %q at offset %d in %s", ErrNoMatchingFinding, flags.rule, flags.offset, file)
		}
		return fmt.Errorf("%w: rule %q in %s", ErrNoMatchingFinding, flags.rule, file)
	}

	fixed, err := lint.ApplyQuickFix(string(content), diag.Finding, sess.rules)
	if err != nil {
		return err
	}

	if flags.dryRun {
		return previewQuickFix(cmd, sess, path, content, []byte(fixed))
	}

	modified, err := fsys.CheckModified(sess.ctx, info)
	if err != nil {
		return fmt.Errorf("check modified: %w", err)
	}
	if modified {
		return fmt.Errorf("%s: %s", file, lint.SkipModified)
	}

	if sess.cfg.BackupsEnabled() {
		if _, err := fsys.CreateBackup(sess.ctx, path); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}
	if err := fsys.WriteAtomic(sess.ctx, path, []byte(fixed), info.Mode); err != nil {
		return fmt.Errorf("%w: %w", lint.ErrWriteFailure, err)
	}

	logging.NewInteractiveWithWriter(cmd.OutOrStdout()).Info("applied quick fix",
		logging.FieldPath, fmt.Sprintf("%s:%d:%d", file, diag.StartLine, diag.StartColumn),
		logging.FieldRule, diag.RuleID,
		"from", diag.Match,
		"to", replacement,
	)
	return nil
}

// pickDiagnostic returns the first finding of ruleID, or the one starting at
// offset when offset is not negative.
func pickDiagnostic(diags []lint.Diagnostic, ruleID string, offset int) (lint.Diagnostic, bool) {
	for _, d := range diags {
		if d.RuleID != ruleID {
			continue
		}
		if offset < 0 || d.Start == offset {
			return d, true
		}
	}
	return lint.Diagnostic{}, false
}

func previewQuickFix(cmd *cobra.Command, sess *session, path string, original, fixed []byte) error {
	rep := reporter.NewDiffReporter(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Color:       colorMode(cmd),
		WorkingDir:  sess.workDir,
		ShowSummary: false,
	})

	result := &runner.Result{Files: []runner.FileOutcome{{
		Path: path,
		Result: &lint.PipelineResult{
			Path:     path,
			Modified: true,
			Diff:     fix.GenerateDiff(path, original, fixed),
		},
	}}}

	if _, err := rep.Report(sess.ctx, result); err != nil {
		return fmt.Errorf("report diff: %w", err)
	}
	return nil
}
