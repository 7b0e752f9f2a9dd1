package output

import (
	"encoding/json"
	"fmt"

	"github.com/ss23/kimchi/internal/template"
)

// JSONFormatter formats kimchi resources as JSON.
type JSONFormatter struct{}

// FormatVolumes formats volume descriptors as a JSON array.
func (f *JSONFormatter) FormatVolumes(vols []template.VolumeDescriptor) (string, error) {
	if len(vols) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(vols, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal volumes to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatFindings formats integrity findings as JSON.
func (f *JSONFormatter) FormatFindings(findings template.Findings) (string, error) {
	data, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal findings to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatOSDefaults formats a merged OS defaults entry as JSON.
func (f *JSONFormatter) FormatOSDefaults(defaults OSDefaults) (string, error) {
	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal OS defaults to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
