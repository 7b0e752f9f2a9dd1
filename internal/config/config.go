// Package config loads Template resources from YAML files.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ss23/kimchi/api/v1alpha1"
)

// LoadFromFile loads a Template resource from a YAML file.
// The file must be in the kimchi.ss23.dev/v1alpha1 format.
func LoadFromFile(path string) (*v1alpha1.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return LoadFromYAML(data)
}

// LoadFromYAML loads a Template resource from YAML bytes. The resource
// is normalized and structurally validated before it is returned.
func LoadFromYAML(data []byte) (*v1alpha1.Template, error) {
	var tpl v1alpha1.Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	// Validate that apiVersion and kind are present
	if tpl.APIVersion == "" {
		return nil, fmt.Errorf("missing required field: apiVersion")
	}
	if tpl.Kind == "" {
		return nil, fmt.Errorf("missing required field: kind")
	}

	expectedAPIVersion := v1alpha1.GroupName + "/" + v1alpha1.Version
	if tpl.APIVersion != expectedAPIVersion {
		return nil, fmt.Errorf("unsupported apiVersion: %s (expected: %s)", tpl.APIVersion, expectedAPIVersion)
	}
	if tpl.Kind != v1alpha1.TemplateKind {
		return nil, fmt.Errorf("unsupported kind: %s (expected: %s)", tpl.Kind, v1alpha1.TemplateKind)
	}

	tpl.Normalize()

	if err := Validate(&tpl); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &tpl, nil
}

// Name pattern after normalization to lowercase. Dots are allowed since
// generated names embed OS versions and timestamps.
var (
	namePattern      = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*[a-z0-9]$`)
	shortNamePattern = regexp.MustCompile(`^[a-z0-9]$`)
)

// Validate checks the resource envelope for structural errors. Template
// semantics such as device naming, install sources, and topology
// constraints are checked by the template compiler, which reports typed
// errors for them.
func Validate(tpl *v1alpha1.Template) error {
	// An empty name is allowed; one is generated during compilation.
	if tpl.Name != "" {
		pattern := namePattern
		if len(tpl.Name) == 1 {
			pattern = shortNamePattern
		}
		if !pattern.MatchString(tpl.Name) {
			return fmt.Errorf("metadata.name must start and end with alphanumeric characters and contain only alphanumeric, dots, hyphens, or underscores, got %q", tpl.Name)
		}
	}

	if tpl.Spec.CPUs < 0 {
		return fmt.Errorf("spec.cpus must not be negative, got %d", tpl.Spec.CPUs)
	}

	return nil
}
