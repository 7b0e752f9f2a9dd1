// Package output provides formatters for displaying kimchi resources
// in various formats (table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/ss23/kimchi/internal/osinfo"
	"github.com/ss23/kimchi/internal/template"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format for declarative configs.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// OSDefaults pairs a guest OS identity with its recommended settings for
// display.
type OSDefaults struct {
	Distro   string       `json:"distro" yaml:"distro"`
	Version  string       `json:"version" yaml:"version"`
	Defaults osinfo.Entry `json:"defaults" yaml:"defaults"`
}

// Formatter formats kimchi resources for output.
type Formatter interface {
	// FormatVolumes formats the volume descriptors of a compilation.
	FormatVolumes(vols []template.VolumeDescriptor) (string, error)

	// FormatFindings formats integrity check findings.
	FormatFindings(findings template.Findings) (string, error)

	// FormatOSDefaults formats a merged OS defaults entry.
	FormatOSDefaults(defaults OSDefaults) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}
