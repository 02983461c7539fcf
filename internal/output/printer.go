// Package output renders operation results for the CLI as styled text, JSON
// or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how results are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --output value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Printer writes results to Out
type Printer struct {
	Out    io.Writer
	Format Format
	// Color enables diff highlighting in text output
	Color bool
}

// NewPrinter creates a Printer
func NewPrinter(out io.Writer, format Format, color bool) *Printer {
	return &Printer{Out: out, Format: format, Color: color}
}

// Print writes v in the configured format
func (p *Printer) Print(v any) error {
	switch p.Format {
	case FormatJSON:
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(p.Out, p.text(v))
		return err
	}
}
