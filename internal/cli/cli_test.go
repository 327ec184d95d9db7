package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yaklabco/sentinel/internal/cli"
)

func newRoot() *cli.BuildInfo {
	return &cli.BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(*newRoot())

	if cmd.Use != "sentinel" {
		t.Errorf("expected Use to be 'sentinel', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(*newRoot())

	for _, path := range [][]string{
		{"scan"}, {"fix"}, {"rules"}, {"rules", "check"}, {"quickfix"}, {"init"}, {"version"},
	} {
		subCmd, _, err := cmd.Find(path)
		if err != nil {
			t.Errorf("expected subcommand %v to exist, got error: %v", path, err)
			continue
		}
		if subCmd.Name() != path[len(path)-1] {
			t.Errorf("expected subcommand name %q, got %q", path[len(path)-1], subCmd.Name())
		}
	}
}

func TestScanCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(*newRoot())
	scanCmd, _, err := cmd.Find([]string{"scan"})
	if err != nil {
		t.Fatalf("scan command not found: %v", err)
	}

	for _, flagName := range []string{
		"rules", "fix", "dry-run", "format", "jobs", "ignore", "include",
		"timeout", "markdown", "skip-generated", "no-backups", "no-context", "fail-on",
	} {
		if scanCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on scan command", flagName)
		}
	}

	if err := scanCmd.Args(scanCmd, []string{"a.js", "src/"}); err != nil {
		t.Errorf("scan should accept arbitrary args, got error: %v", err)
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(*newRoot())

	for _, flagName := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2024-01-01"})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	for _, want := range []string{"version=1.2.3", "commit=abc123"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q missing %q", out.String(), want)
		}
	}
}

func TestHelpListsEnvironment(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(*newRoot())
	cmd.SetArgs([]string{"--help", "--color", "never"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Usage:", "Commands:", "scan", "Flags:", "--config", "Environment:", "SENTINEL_TIMEOUT"} {
		if !strings.Contains(got, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(*newRoot())
	cmd.SetArgs([]string{"scan", "--no-such-flag"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	if got := cli.ExitCode(err); got != cli.ExitInvalidUsage {
		t.Errorf("expected exit code %d, got %d (%v)", cli.ExitInvalidUsage, got, err)
	}
}
