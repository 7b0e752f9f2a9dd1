package v1alpha1

// Template describes a reusable recipe for stamping out libvirt virtual
// machines: guest OS identity, sizing, disks, networks, and peripherals.
//
// This resource carries only the caller-supplied parameters. Anything left
// unset is filled in from per-OS recommended defaults when the template is
// resolved, so a minimal template needs nothing beyond install media or a
// base disk image. It can be used standalone via the kimchi CLI or as a
// Custom Resource Definition in a Kubernetes cluster.
//
// +kubebuilder:object:root=true
// +kubebuilder:resource:shortName=tmpl;tmpls
// +kubebuilder:printcolumn:name="Distro",type=string,JSONPath=`.spec.osDistro`
// +kubebuilder:printcolumn:name="Version",type=string,JSONPath=`.spec.osVersion`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type Template struct {
	// TypeMeta contains the API version and kind.
	TypeMeta `json:",inline" yaml:",inline"`

	// ObjectMeta contains metadata like name, labels, annotations.
	// +optional
	ObjectMeta `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Spec defines the desired template parameters.
	Spec TemplateSpec `json:"spec" yaml:"spec"`
}

// TemplateSpec defines the caller-supplied template parameters.
//
// Every field is optional except that at least one source of install media
// must be present: either a CDROM or one disk carrying a Base image.
//
// +k8s:deepcopy-gen=true
type TemplateSpec struct {
	// OSDistro identifies the guest OS distribution (e.g., "fedora").
	// When empty it is inferred by probing the install media, if probing
	// is requested, and is "unknown" otherwise.
	// +optional
	OSDistro string `json:"osDistro,omitempty" yaml:"osDistro,omitempty"`

	// OSVersion identifies the guest OS version (e.g., "19").
	// +optional
	OSVersion string `json:"osVersion,omitempty" yaml:"osVersion,omitempty"`

	// CPUs is the number of virtual CPUs to allocate.
	// Defaults to the OS-recommended count.
	// +optional
	// +kubebuilder:validation:Minimum=1
	CPUs int `json:"cpus,omitempty" yaml:"cpus,omitempty"`

	// MemoryMiB is the amount of memory to allocate in mebibytes (MiB).
	// Defaults to the OS-recommended amount.
	// +optional
	// +kubebuilder:validation:Minimum=1
	MemoryMiB uint `json:"memoryMiB,omitempty" yaml:"memoryMiB,omitempty"`

	// CDROM points at install media: an absolute local path or a remote
	// URL (http, https, ftp, ftps, tftp, nfs, ...).
	// +optional
	CDROM string `json:"cdrom,omitempty" yaml:"cdrom,omitempty"`

	// Disks defines the VM's disks, in order. The order determines device
	// naming for disks without an explicit index.
	// +optional
	Disks []DiskSpec `json:"disks,omitempty" yaml:"disks,omitempty"`

	// Networks lists the libvirt network names to attach interfaces to.
	// Defaults to the OS defaults table's network list.
	// +optional
	Networks []string `json:"networks,omitempty" yaml:"networks,omitempty"`

	// Graphics configures the VM display. Fields set here override the
	// OS-recommended graphics field-by-field rather than wholesale.
	// +optional
	Graphics *GraphicsSpec `json:"graphics,omitempty" yaml:"graphics,omitempty"`

	// StoragePool is a pool reference of the form "/storagepools/<name>"
	// (a plain pool name is also accepted). All disks of one template are
	// provisioned from this single pool.
	// +optional
	StoragePool string `json:"storagePool,omitempty" yaml:"storagePool,omitempty"`

	// FCHostSupport selects volume-addressed LUN passthrough for SCSI
	// pools when the host has fibre-channel support; block addressing is
	// used otherwise.
	// +optional
	FCHostSupport bool `json:"fcHostSupport,omitempty" yaml:"fcHostSupport,omitempty"`

	// Arch is the guest architecture (e.g., "x86_64", "ppc64").
	// Defaults to the OS defaults table's architecture.
	// +optional
	Arch string `json:"arch,omitempty" yaml:"arch,omitempty"`

	// DomainType is the libvirt domain type (e.g., "kvm").
	// +optional
	DomainType string `json:"domainType,omitempty" yaml:"domainType,omitempty"`

	// DiskBus is the bus for data disks: "ide", "virtio", or "scsi".
	// +optional
	// +kubebuilder:validation:Enum=ide;virtio;scsi
	DiskBus string `json:"diskBus,omitempty" yaml:"diskBus,omitempty"`

	// NICModel is the network interface model (e.g., "virtio", "e1000").
	// +optional
	NICModel string `json:"nicModel,omitempty" yaml:"nicModel,omitempty"`

	// CDROMBus is the bus for the cdrom device.
	// +optional
	// +kubebuilder:validation:Enum=ide;virtio;scsi
	CDROMBus string `json:"cdromBus,omitempty" yaml:"cdromBus,omitempty"`

	// CDROMIndex is the device-letter index for the cdrom on its bus.
	// A pointer distinguishes "unset" from index 0.
	// +optional
	CDROMIndex *int `json:"cdromIndex,omitempty" yaml:"cdromIndex,omitempty"`

	// MouseBus, when present, emits a mouse input device on that bus.
	// Absent means no mouse device, not a default.
	// +optional
	MouseBus string `json:"mouseBus,omitempty" yaml:"mouseBus,omitempty"`

	// KeyboardBus, when present, emits a keyboard input device on that bus.
	// +optional
	KeyboardBus string `json:"keyboardBus,omitempty" yaml:"keyboardBus,omitempty"`

	// TabletBus, when present, emits a tablet input device on that bus.
	// +optional
	TabletBus string `json:"tabletBus,omitempty" yaml:"tabletBus,omitempty"`

	// SoundModel, when present, emits a sound device of that model.
	// +optional
	SoundModel string `json:"soundModel,omitempty" yaml:"soundModel,omitempty"`
}

// DiskSpec defines one disk of a template.
//
// +k8s:deepcopy-gen=true
type DiskSpec struct {
	// Index is the device-letter index on the disk bus. Disks without an
	// explicit index use their position in the disk list. Resolved indexes
	// must be unique across the template.
	// +optional
	Index *int `json:"index,omitempty" yaml:"index,omitempty"`

	// Bus overrides the template disk bus for this disk.
	// +optional
	// +kubebuilder:validation:Enum=ide;virtio;scsi
	Bus string `json:"bus,omitempty" yaml:"bus,omitempty"`

	// SizeGiB is the disk capacity in gibibytes. Required unless Base is
	// set, in which case it defaults to the base image's virtual size.
	// +optional
	// +kubebuilder:validation:Minimum=1
	SizeGiB uint64 `json:"sizeGiB,omitempty" yaml:"sizeGiB,omitempty"`

	// Base is the path to a backing image the disk is cloned from.
	// +optional
	Base string `json:"base,omitempty" yaml:"base,omitempty"`

	// Volume names a pre-existing pool volume. Used by SCSI passthrough
	// and iSCSI topologies, which reference volumes rather than create them.
	// +optional
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
}

// GraphicsSpec defines the VM display configuration.
//
// +k8s:deepcopy-gen=true
type GraphicsSpec struct {
	// Type is the display type: "vnc" or "spice".
	// +optional
	// +kubebuilder:validation:Enum=vnc;spice
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Listen is the address the display server listens on.
	// +optional
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty"`
}

// DeepCopy creates a deep copy of Template.
func (in *Template) DeepCopy() *Template {
	if in == nil {
		return nil
	}
	out := new(Template)
	out.TypeMeta = *in.TypeMeta.DeepCopy()
	out.ObjectMeta = *in.ObjectMeta.DeepCopy()
	out.Spec = *in.Spec.DeepCopy()
	return out
}

// DeepCopy creates a deep copy of TemplateSpec.
func (in *TemplateSpec) DeepCopy() *TemplateSpec {
	if in == nil {
		return nil
	}
	out := new(TemplateSpec)
	*out = *in

	// Deep copy Disks slice
	if in.Disks != nil {
		out.Disks = make([]DiskSpec, len(in.Disks))
		for i := range in.Disks {
			out.Disks[i] = *in.Disks[i].DeepCopy()
		}
	}

	// Deep copy Networks slice
	if in.Networks != nil {
		out.Networks = make([]string, len(in.Networks))
		copy(out.Networks, in.Networks)
	}

	// Deep copy Graphics
	if in.Graphics != nil {
		out.Graphics = in.Graphics.DeepCopy()
	}

	// Deep copy CDROMIndex pointer
	if in.CDROMIndex != nil {
		index := *in.CDROMIndex
		out.CDROMIndex = &index
	}

	return out
}

// DeepCopy creates a deep copy of DiskSpec.
func (in *DiskSpec) DeepCopy() *DiskSpec {
	if in == nil {
		return nil
	}
	out := new(DiskSpec)
	*out = *in

	// Deep copy Index pointer
	if in.Index != nil {
		index := *in.Index
		out.Index = &index
	}

	return out
}

// DeepCopy creates a deep copy of GraphicsSpec.
func (in *GraphicsSpec) DeepCopy() *GraphicsSpec {
	if in == nil {
		return nil
	}
	out := new(GraphicsSpec)
	*out = *in
	return out
}
