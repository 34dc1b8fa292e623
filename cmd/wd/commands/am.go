package commands

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/wd/am"
	"github.com/teranos/wd/display"
	"github.com/teranos/wd/errors"
)

const amFormatTOML = "toml"

func newAmCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: "Show wd configuration",
		Long: `am - Show wd configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Legacy environment variables (WD_API_URI, WD_QUERY_URI, TEXTIFIER_URI, ...)
3. Environment variables (WD_* prefix, e.g. WD_ENDPOINTS_API_URL)
4. Project config (./am.toml, searching up directories)
5. User config (~/.wd/am.toml)
6. System config (/etc/wd/am.toml)
7. Default values

Examples:
  wd am show                    # Show current configuration
  wd am show --format json      # Show configuration in JSON format
  wd am validate                # Validate current configuration
  wd am where                   # Show which config files were found`,
	}
	cmd.AddCommand(newAmShowCommand(a), newAmValidateCommand(a), newAmWhereCommand(a))
	return cmd
}

func newAmShowCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the resolved wd configuration from all sources. Secrets are masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
				format = am.FormatJSON
			}
			return writeConfig(a, strings.ToLower(strings.TrimSpace(format)), a.cfg.Masked())
		},
	}
	cmd.Flags().StringVar(&format, "format", amFormatTOML, "Output format: toml, json, yaml")
	return cmd
}

func writeConfig(a *app, format string, cfg am.Config) error {
	out := a.opts.Stdout
	switch format {
	case am.FormatJSON:
		return display.WriteJSON(out, cfg)
	case am.FormatYAML:
		if _, err := fmt.Fprintln(out, "# wd configuration"); err != nil {
			return err
		}
		return display.WriteYAML(out, cfg)
	case amFormatTOML:
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		_, err = fmt.Fprintf(out, "# wd configuration\n%s", data)
		return err
	default:
		return errors.WithHint(
			errors.NewInvalidRequestError("unsupported format %q", format),
			"use one of: toml, json, yaml",
		)
	}
}

func newAmValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			_, err := fmt.Fprintln(a.opts.Stdout, pterm.Green("✓")+" Configuration is valid")
			return err
		},
	}
}

func newAmWhereCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show where configuration is loaded from",
		Long: `Show the configuration cascade and which files were checked.

Files are listed lowest precedence first; later files override earlier ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := am.ConfigFiles(a.opts.Config)

			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			if p.Structured() {
				return p.Print("", files)
			}

			var b strings.Builder
			b.WriteString("Configuration cascade (later overrides earlier):\n")
			for _, file := range files {
				mark := pterm.Gray("✗")
				status := "missing"
				if file.Exists {
					mark = pterm.Green("✓")
					status = "loaded"
				}
				fmt.Fprintf(&b, "  %s [%s] %s (%s)\n", mark, strings.ToUpper(string(file.Source)), file.Path, status)
			}
			b.WriteString("  Then WD_* environment variables, legacy variables, and flags")
			return p.Print(b.String(), files)
		},
	}
}
