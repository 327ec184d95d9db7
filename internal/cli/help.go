package cli

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/sentinel/internal/configloader"
	"github.com/yaklabco/sentinel/internal/ui/pretty"
)

// helpStyles contains the styles used to render command help.
type helpStyles struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{plain, plain, plain, plain, plain}
	}
	return helpStyles{
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help for Cobra commands. The color mode is
// read when help is rendered, after flags are parsed.
type HelpFormatter struct {
	colorMode *string
}

// NewHelpFormatter creates a help formatter that follows *colorMode.
func NewHelpFormatter(colorMode *string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}{{ heading "Usage:" }}{{if .Runnable}}
  {{ command .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}
{{- if not .HasParent}}

{{ heading "Environment:" }}
{{ env }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

func (h *HelpFormatter) render(cmd *cobra.Command) error {
	mode := "auto"
	if h.colorMode != nil {
		mode = *h.colorMode
	}
	styles := newHelpStyles(pretty.IsColorEnabled(mode, cmd.OutOrStdout()))

	funcs := template.FuncMap{
		"heading": styles.heading.Render,
		"command": styles.command.Render,
		"name":    styles.name.Render,
		"rpad":    rpad,
		"trim":    trimTrailingWhitespaces,
		"flags": func(fs interface{ FlagUsages() string }) string {
			return styleFlagUsages(fs.FlagUsages(), styles)
		},
		"env": func() string {
			return envUsage(styles)
		},
	}

	tmpl, err := template.New("help").Funcs(funcs).Parse(helpTemplate)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	return tmpl.Execute(cmd.OutOrStdout(), cmd)
}

// ApplyToCommand applies the styled help to cmd and its subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(h.render)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.render(c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// styleFlagUsages colors the flag names of pflag's usage block. Each line
// reads "  -f, --flag type   description".
func styleFlagUsages(usages string, styles helpStyles) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		spec, desc, ok := strings.Cut(trimmed, "   ")
		if !ok {
			continue
		}

		tokens := strings.Fields(spec)
		for j, tok := range tokens {
			if name, comma := strings.CutSuffix(tok, ","); strings.HasPrefix(name, "-") {
				tokens[j] = styles.flag.Render(name)
				if comma {
					tokens[j] += ","
				}
			} else {
				tokens[j] = styles.dim.Render(tok)
			}
		}

		indent := line[:len(line)-len(trimmed)]
		lines[i] = indent + strings.Join(tokens, " ") + "   " + strings.TrimLeft(desc, " ")
	}
	return strings.Join(lines, "\n")
}

func envUsage(styles helpStyles) string {
	vars := configloader.ListEnvVars()
	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		lines = append(lines, "  "+styles.flag.Render(rpad(v.Name, width))+"   "+v.Description)
	}
	return strings.Join(lines, "\n")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
