package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sentinel/internal/logging"
	"github.com/yaklabco/sentinel/internal/ui/pretty"
	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// ErrProblemsFound is returned when "rules check" finds problems.
var ErrProblemsFound = errors.New("rule problems found")

const formatJSON = "json"

type rulesFlags struct {
	format string
	rules  []string
}

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
	Pattern string `json:"pattern"`
	Fix     string `json:"fix,omitempty"`
	FixCode string `json:"fixCode,omitempty"`
	Link    string `json:"link,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules",
		Long: `List the active rules with their status, whether they offer a quick fix
or fix code, and the reason they are flagged.

Rules come from the files named by --rules or the "rules" config key, or
from the built-in set when none are configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd, rulesCLIConfig(cmd, flags))
			if err != nil {
				return err
			}

			if flags.format == formatJSON {
				return writeRulesJSON(cmd.OutOrStdout(), sess.rules)
			}

			logger := logging.NewInteractiveWithWriter(cmd.OutOrStdout())
			if len(sess.rules) == 0 {
				logger.Info("no rules loaded")
				return nil
			}

			for _, r := range sess.rules {
				logger.Info(r.ID,
					logging.FieldStatus, r.Status,
					"quick_fix", yesNo(r.HasFix()),
					"fix_code", yesNo(r.HasFixCode()),
					"reason", r.Reason,
				)
			}
			return nil
		},
	}

	addRulesFlags(cmd, flags)
	cmd.AddCommand(newRulesCheckCommand())

	return cmd
}

func addRulesFlags(cmd *cobra.Command, flags *rulesFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringSliceVar(&flags.rules, "rules", nil, "rule files (.json, .yaml, .toml) replacing the built-in set")
}

func rulesCLIConfig(cmd *cobra.Command, flags *rulesFlags) *config.Config {
	cli := &config.Config{}
	if cmd.Flags().Changed("rules") {
		cli.Rules = flags.rules
	}
	return cli
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func writeRulesJSON(w io.Writer, rs []rules.Rule) error {
	infos := make([]ruleInfo, 0, len(rs))
	for _, r := range rs {
		infos = append(infos, ruleInfo{
			ID:      r.ID,
			Status:  r.Status.String(),
			Reason:  r.Reason,
			Pattern: r.Pattern,
			Fix:     r.Fix,
			FixCode: r.FixCode,
			Link:    r.Link,
		})
	}
	return encodeJSON(w, infos)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// checkReport is the outcome of "rules check".
type checkReport struct {
	Rules         int               `json:"rules"`
	Dropped       []droppedRule     `json:"dropped"`
	InvalidRegex  []invalidRule     `json:"invalidPatterns"`
	Duplicates    []rules.Duplicate `json:"duplicates"`
	ProblemsFound int               `json:"problems"`
}

type droppedRule struct {
	Index   int      `json:"index"`
	ID      string   `json:"id,omitempty"`
	Missing []string `json:"missing"`
}

type invalidRule struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
	Error   string `json:"error"`
}

func newRulesCheckCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the rule set for problems",
		Long: `Check the rule set for incomplete rules, patterns that do not compile and
patterns shared by more than one rule. Exits with status 1 when any
problem is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd, rulesCLIConfig(cmd, flags))
			if err != nil {
				return err
			}

			report := checkRules(sess.loaded)

			if flags.format == formatJSON {
				if err := encodeJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
				writeCheckText(cmd.OutOrStdout(), styles, report)
			}

			if report.ProblemsFound > 0 {
				return ErrProblemsFound
			}
			return nil
		},
	}

	addRulesFlags(cmd, flags)

	return cmd
}

// checkRules inspects the rule set as loaded, before incomplete rules are
// dropped, so duplicates among them are reported too.
func checkRules(loaded []rules.Rule) checkReport {
	kept, dropped := rules.Filter(loaded)

	report := checkReport{
		Rules:        len(loaded),
		Dropped:      make([]droppedRule, 0, len(dropped)),
		InvalidRegex: make([]invalidRule, 0),
		Duplicates:   rules.DuplicatePatterns(loaded),
	}

	for _, d := range dropped {
		report.Dropped = append(report.Dropped, droppedRule{Index: d.Index, ID: d.Rule.ID, Missing: d.Missing})
	}

	for _, err := range rules.Validate(kept) {
		var ce *rules.CompileError
		if errors.As(err, &ce) {
			report.InvalidRegex = append(report.InvalidRegex, invalidRule{
				ID:      ce.RuleID,
				Pattern: ce.Pattern,
				Error:   ce.Err.Error(),
			})
		}
	}

	report.ProblemsFound = len(report.Dropped) + len(report.InvalidRegex) + len(report.Duplicates)
	return report
}

func writeCheckText(w io.Writer, styles *pretty.Styles, report checkReport) {
	for _, d := range report.Dropped {
		fmt.Fprintf(w, "%s rule #%d %s is missing %v\n",
			styles.Warning.Render("incomplete:"), d.Index, styles.RuleID.Render(d.ID), d.Missing)
	}
	for _, inv := range report.InvalidRegex {
		fmt.Fprintf(w, "%s %s %s: %s\n",
			styles.Error.Render("invalid pattern:"), styles.RuleID.Render(inv.ID),
			styles.Match.Render(inv.Pattern), inv.Error)
	}
	for _, dup := range report.Duplicates {
		fmt.Fprintf(w, "%s %s shared by %v\n",
			styles.Warning.Render("duplicate pattern:"), styles.Match.Render(dup.Pattern), dup.IDs)
	}

	if report.ProblemsFound == 0 {
		fmt.Fprintln(w, styles.Success.Render(fmt.Sprintf("%d rules checked, no problems found", report.Rules)))
		return
	}
	fmt.Fprintln(w, styles.Failure.Render(fmt.Sprintf("%d rules checked, %d problems found", report.Rules, report.ProblemsFound)))
}
