package v1alpha1

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// GroupName is the API group for kimchi resources.
	GroupName = "kimchi.ss23.dev"

	// Version is the API version.
	Version = "v1alpha1"

	// TemplateKind is the kind string for Template resources.
	TemplateKind = "Template"
)

// NewTemplate creates a new Template with TypeMeta and ObjectMeta defaults.
func NewTemplate(name string) *Template {
	now := Time{Time: time.Now()}

	return &Template{
		TypeMeta: TypeMeta{
			APIVersion: GroupName + "/" + Version,
			Kind:       TemplateKind,
		},
		ObjectMeta: ObjectMeta{
			Name:              name,
			UID:               uuid.New().String(),
			CreationTimestamp: now,
			Generation:        1,
		},
		Spec: TemplateSpec{},
	}
}

// SetDefaultAPIVersion ensures the template has the correct apiVersion and kind.
// Useful when loading from files that might be missing these fields.
func SetDefaultAPIVersion(t *Template) {
	if t.APIVersion == "" {
		t.APIVersion = GroupName + "/" + Version
	}
	if t.Kind == "" {
		t.Kind = TemplateKind
	}
}

// GetName returns the template name from metadata.
func (t *Template) GetName() string {
	return t.Name
}

// HasInstallSource reports whether the template carries any source the guest
// OS could be identified or installed from: a cdrom or a base-image disk.
func (t *Template) HasInstallSource() bool {
	if t.Spec.CDROM != "" {
		return true
	}
	for i := range t.Spec.Disks {
		if t.Spec.Disks[i].Base != "" {
			return true
		}
	}
	return false
}

// BaseDisks returns the indexes of disks carrying a base-image reference,
// in declaration order.
func (t *Template) BaseDisks() []int {
	var out []int
	for i := range t.Spec.Disks {
		if t.Spec.Disks[i].Base != "" {
			out = append(out, i)
		}
	}
	return out
}

// Normalize sanitizes user input to consistent formats.
// This is called automatically before validation.
func (t *Template) Normalize() {
	// Normalize template name to lowercase
	t.Name = strings.ToLower(strings.TrimSpace(t.Name))

	// Normalize OS identity to lowercase; the defaults table is keyed on
	// lowercase distro names
	t.Spec.OSDistro = strings.ToLower(strings.TrimSpace(t.Spec.OSDistro))
	t.Spec.OSVersion = strings.TrimSpace(t.Spec.OSVersion)

	// Trim media and pool references; their case is meaningful
	t.Spec.CDROM = strings.TrimSpace(t.Spec.CDROM)
	t.Spec.StoragePool = strings.TrimSpace(t.Spec.StoragePool)
}
