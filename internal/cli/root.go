// Package cli provides the Cobra command structure for sentinel.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sentinel/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root sentinel command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "sentinel",
		Short: "Flag web platform features outside a browser compatibility baseline",
		Long: `sentinel scans JavaScript, TypeScript and HTML sources for web platform
features that are not part of a browser compatibility baseline.

Each rule pairs a regular expression with a reason and a status (safe,
risky or unsupported). Rules may carry a quick fix for a single finding
and fix code that rewrites every match in a file.`,
		Version: info.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newFixCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newQuickFixCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(&color).ApplyToCommand(rootCmd)

	return rootCmd
}
