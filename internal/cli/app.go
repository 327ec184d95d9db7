package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/sentinel/internal/configloader"
	"github.com/yaklabco/sentinel/internal/logging"
	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// session is the state shared by the commands that scan: the resolved
// configuration and the active rule set.
type session struct {
	ctx     context.Context
	logger  *log.Logger
	workDir string
	cfg     *config.Config

	// loaded is the rule set as read; rules holds the complete rules of it.
	loaded []rules.Rule
	rules  []rules.Rule
}

// newSession resolves configuration with cli layered on top and loads the
// configured rules.
func newSession(cmd *cobra.Command, cli *config.Config, overrides ...configloader.Override) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
		Overrides:    overrides,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldFix, cfg.Fix,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldTimeout, cfg.Timeout,
	)

	loaded, err := readRules(cfg)
	if err != nil {
		return nil, err
	}

	return &session{
		ctx:     logging.WithLogger(ctx, logger),
		logger:  logger,
		workDir: workDir,
		cfg:     cfg,
		loaded:  loaded,
		rules:   filterRules(loaded, logger),
	}, nil
}

// readRules reads the configured rule files, or the built-in set when none
// are configured.
func readRules(cfg *config.Config) ([]rules.Rule, error) {
	if len(cfg.Rules) == 0 {
		return rules.Default(), nil
	}
	rs, err := rules.LoadAll(afero.NewOsFs(), cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return rs, nil
}

// filterRules drops incomplete rules with a warning.
func filterRules(rs []rules.Rule, logger *log.Logger) []rules.Rule {
	kept, dropped := rules.Filter(rs)
	for _, d := range dropped {
		logger.Warn("rule dropped",
			logging.FieldRule, d.Rule.ID,
			"index", d.Index,
			"missing", d.Missing,
		)
	}

	logger.Debug("rules loaded", logging.FieldRules, len(kept))
	return kept
}

// newEngine compiles the session's rules. Rules that fail to compile are
// logged and left out.
func (s *session) newEngine() *lint.Engine {
	engine, err := lint.NewEngine(s.rules, lint.EngineOptions{
		MatchTimeout: s.cfg.Timeout,
		Languages:    s.cfg.EligibleLanguages(),
	})
	for _, ce := range rules.CompileErrors(err) {
		s.logger.Warn("rule skipped",
			logging.FieldRule, ce.RuleID,
			logging.FieldPattern, ce.Pattern,
			logging.FieldError, ce.Err,
		)
	}
	return engine
}

// colorMode returns the --color flag value.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}
