package output

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ss23/kimchi/internal/template"
)

// YAMLFormatter formats kimchi resources as YAML.
type YAMLFormatter struct{}

// FormatVolumes formats volume descriptors as a multi-document YAML
// stream, one document per volume.
func (f *YAMLFormatter) FormatVolumes(vols []template.VolumeDescriptor) (string, error) {
	if len(vols) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for i, vol := range vols {
		if i > 0 {
			sb.WriteString("---\n")
		}
		data, err := yaml.Marshal(vol)
		if err != nil {
			return "", fmt.Errorf("failed to marshal volume %q to YAML: %w", vol.Name, err)
		}
		sb.Write(data)
	}

	return sb.String(), nil
}

// FormatFindings formats integrity findings as YAML.
func (f *YAMLFormatter) FormatFindings(findings template.Findings) (string, error) {
	data, err := yaml.Marshal(findings)
	if err != nil {
		return "", fmt.Errorf("failed to marshal findings to YAML: %w", err)
	}

	return string(data), nil
}

// FormatOSDefaults formats a merged OS defaults entry as YAML.
func (f *YAMLFormatter) FormatOSDefaults(defaults OSDefaults) (string, error) {
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return "", fmt.Errorf("failed to marshal OS defaults to YAML: %w", err)
	}

	return string(data), nil
}
