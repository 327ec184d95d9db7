package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sentinel/internal/configloader"
	"github.com/yaklabco/sentinel/internal/logging"
	"github.com/yaklabco/sentinel/pkg/rules"
)

const defaultConfigName = ".sentinel.yml"

type initFlags struct {
	force  bool
	output string
	rules  string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter .sentinel.yml",
		Long: `Create a new .sentinel.yml configuration file in the current directory
with the default settings documented.

Examples:
  sentinel init                        Create .sentinel.yml
  sentinel init --rules rules.json     Also write the built-in rules to rules.json
  sentinel init --output ci.yml        Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite existing files without asking")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigName, "output file path")
	cmd.Flags().StringVar(&flags.rules, "rules", "", "also write the built-in rule set to this JSON file")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractiveWithWriter(cmd.OutOrStdout())

	configPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	ok, err := confirmOverwrite(cmd, configPath, flags.force)
	if err != nil || !ok {
		return err
	}
	if err := configloader.WriteConfig(configPath); err != nil {
		return err
	}
	logger.Info("created configuration file", logging.FieldPath, flags.output)

	if flags.rules != "" {
		rulesPath, err := filepath.Abs(flags.rules)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		ok, err := confirmOverwrite(cmd, rulesPath, flags.force)
		if err != nil || !ok {
			return err
		}
		if err := os.WriteFile(rulesPath, rules.DefaultJSON(), 0o644); err != nil {
			return fmt.Errorf("write rules: %w", err)
		}
		logger.Info("wrote built-in rules", logging.FieldPath, flags.rules)
		logger.Info("add the file under \"rules:\" in the configuration to use it")
	}

	logger.Info("run 'sentinel rules' to see the active rules")
	return nil
}

// confirmOverwrite reports whether path may be written. An existing file is
// overwritten with --force, after a prompt on an interactive terminal, and
// otherwise refused.
func confirmOverwrite(cmd *cobra.Command, path string, force bool) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return true, nil
	}

	if force {
		logging.Default().Warn("overwriting existing file", logging.FieldPath, path)
		return true, nil
	}

	if !configloader.IsInteractive() {
		return false, fmt.Errorf("%w: file %q already exists; use --force to overwrite", errUsage, path)
	}

	return prompt(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("%s exists. Overwrite? [y/N] ", path))
}

func prompt(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := io.WriteString(out, question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
