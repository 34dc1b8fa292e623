// Package display writes command results to stdout as text, JSON, or YAML.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/teranos/wd/am"
	"github.com/teranos/wd/errors"
	"gopkg.in/yaml.v3"
)

// ResolveFormat picks the output format for cmd: an explicit --json wins,
// then an explicit --format, then the configured format.
func ResolveFormat(cmd *cobra.Command, configured string) (string, error) {
	format := configured
	if cmd != nil {
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
			format = am.FormatJSON
		}
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = am.FormatText
	}
	switch format {
	case am.FormatText, am.FormatJSON, am.FormatYAML:
		return format, nil
	default:
		return "", errors.WithHint(
			errors.NewInvalidRequestError("unsupported output format %q", format),
			"use one of: text, json, yaml",
		)
	}
}

// Printer renders results in one format
type Printer struct {
	Out    io.Writer
	Format string
}

// NewPrinter returns a Printer writing to out
func NewPrinter(out io.Writer, format string) *Printer {
	return &Printer{Out: out, Format: format}
}

// Structured reports whether the printer emits JSON or YAML
func (p *Printer) Structured() bool {
	return p.Format == am.FormatJSON || p.Format == am.FormatYAML
}

// Print writes payload in structured formats and text otherwise
func (p *Printer) Print(text string, payload any) error {
	switch p.Format {
	case am.FormatJSON:
		return WriteJSON(p.Out, payload)
	case am.FormatYAML:
		return WriteYAML(p.Out, payload)
	default:
		return WriteText(p.Out, text)
	}
}

// WriteText writes text followed by a newline unless it already ends in one
func WriteText(w io.Writer, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

// MarshalJSON marshals v with two-space indentation
func MarshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal JSON")
	}
	return data, nil
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteYAML writes v as YAML
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to marshal YAML")
	}
	return enc.Close()
}
