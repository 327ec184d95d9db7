package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sentinel/internal/configloader"
	"github.com/yaklabco/sentinel/internal/logging"
	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/fsutil"
	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/reporter"
	"github.com/yaklabco/sentinel/pkg/runner"
)

var (
	// ErrFindingsReported is returned when a scan reports findings that
	// fail the run.
	ErrFindingsReported = errors.New("findings reported")

	// ErrFilesFailed is returned when one or more files could not be processed.
	ErrFilesFailed = errors.New("files could not be processed")
)

type scanFlags struct {
	format    string
	rules     []string
	ignore    []string
	include   []string
	failOn    []string
	timeout   time.Duration
	noContext bool
	compact   bool
}

func newScanCommand() *cobra.Command {
	var cfg config.Config
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files for constructs outside the compatibility baseline",
		Long:  scanLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, &cfg, flags)
		},
	}

	addScanFlags(cmd, &cfg, flags)

	return cmd
}

func newFixCommand() *cobra.Command {
	var cfg config.Config
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Rewrite files with every rule's fix code",
		Long: `Scan files and rewrite every match of a rule that has fix code.
Equivalent to "sentinel scan --fix". Findings that remain after fixing are
reported.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Fix = true
			return runScan(cmd, args, &cfg, flags)
		},
	}

	addScanFlags(cmd, &cfg, flags)
	if f := cmd.Flags().Lookup("fix"); f != nil {
		f.Hidden = true
	}

	return cmd
}

const scanLongDescription = `Scan JavaScript, TypeScript and HTML files for constructs outside the
compatibility baseline.

By default, scans the current directory recursively, skipping
node_modules. Specify paths to scan specific files or directories.

Examples:
  sentinel scan                        # Scan current directory
  sentinel scan src/                   # Scan one directory
  sentinel scan --markdown docs/       # Include code blocks in markdown
  sentinel scan --fix                  # Rewrite fixable constructs
  sentinel scan --fix --dry-run        # Show fixes without applying
  sentinel scan --format json          # Output as JSON for CI
  sentinel scan --fail-on unsupported  # Fail only on unsupported findings`

func runScan(cmd *cobra.Command, args []string, cli *config.Config, flags *scanFlags) error {
	if cmd.Flags().Changed("format") {
		cli.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("rules") {
		cli.Rules = flags.rules
	}
	if cmd.Flags().Changed("ignore") {
		cli.Ignore = flags.ignore
	}
	if cmd.Flags().Changed("include") {
		cli.Include = flags.include
	}
	if cmd.Flags().Changed("fail-on") {
		cli.FailOn = flags.failOn
	}
	cli.NoContext = flags.noContext

	sess, err := newSession(cmd, cli, explicitOverrides(cmd, cli, flags)...)
	if err != nil {
		return err
	}
	cfg := sess.cfg

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	// The diff format previews fixes.
	if format == reporter.FormatDiff && !cfg.Fix {
		cfg.Fix = true
		cfg.DryRun = true
	}

	pipeline := lint.NewPipeline(sess.newEngine(), fsutil.New(nil), cfg)
	scanRunner := runner.New(pipeline)

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = sess.workDir

	sess.logger.Debug("starting scan",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	started := time.Now()
	result, err := scanRunner.Run(sess.ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("scan failed"), err)
	}

	sess.logger.Debug("scan finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldFindings, result.Stats.FindingsTotal,
		logging.FieldReplacements, result.Stats.Replacements,
		logging.FieldDuration, time.Since(started),
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowContext: !cfg.NoContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     flags.compact,
		WorkingDir:  sess.workDir,
		ToolVersion: toolVersion(cmd),
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(sess.ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return resultError(result, cfg)
}

// explicitOverrides returns the settings of the scalar and boolean flags the
// user set, so "--timeout 0" or "--markdown=false" replace configured values.
func explicitOverrides(cmd *cobra.Command, cli *config.Config, flags *scanFlags) []configloader.Override {
	var overrides []configloader.Override
	set := func(name string, override configloader.Override) {
		if cmd.Flags().Changed(name) {
			overrides = append(overrides, override)
		}
	}

	set("timeout", func(c *config.Config) { c.Timeout = flags.timeout })
	set("markdown", func(c *config.Config) { c.Markdown = cli.Markdown })
	set("skip-generated", func(c *config.Config) { c.SkipGenerated = cli.SkipGenerated })
	set("fix", func(c *config.Config) { c.Fix = cli.Fix })
	set("dry-run", func(c *config.Config) { c.DryRun = cli.DryRun })
	set("no-backups", func(c *config.Config) { c.NoBackups = cli.NoBackups })
	set("jobs", func(c *config.Config) { c.Jobs = cli.Jobs })
	return overrides
}

// resultError turns a finished run into the error that sets the exit code.
func resultError(result *runner.Result, cfg *config.Config) error {
	if result.HasErrors() {
		return ErrFilesFailed
	}
	if result.HasFailures(cfg.FailStatuses()) {
		return ErrFindingsReported
	}
	return nil
}

func addScanFlags(cmd *cobra.Command, cfg *config.Config, flags *scanFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "rewrite files with each rule's fix code")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes without applying them")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, sarif, diff, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.rules, "rules", nil, "rule files (.json, .yaml, .toml) replacing the built-in set")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns files must match")
	cmd.Flags().StringSliceVar(&flags.failOn, "fail-on", nil, "statuses that fail the scan: safe, risky, unsupported")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", config.DefaultTimeout, "per-file scan budget (0 disables)")
	cmd.Flags().BoolVar(&cfg.Markdown, "markdown", false, "scan fenced code blocks in markdown files")
	cmd.Flags().BoolVar(&cfg.SkipGenerated, "skip-generated", false, "skip minified and generated files")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output where supported")
}

// toolVersion returns the version recorded on the root command.
func toolVersion(cmd *cobra.Command) string {
	if v := cmd.Root().Version; v != "" {
		return v
	}
	return "dev"
}
