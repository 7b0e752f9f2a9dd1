package template

import (
	"context"
	"fmt"
	"path"

	"libvirt.org/go/libvirtxml"
)

// BackingStore references the base image a volume is layered on.
type BackingStore struct {
	Path   string `json:"path" yaml:"path"`
	Format string `json:"format" yaml:"format"`
}

// VolumeDescriptor describes one storage volume to provision for a VM
// instance, including its serialized form.
type VolumeDescriptor struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`

	// Format is raw or qcow2 depending on the pool topology.
	Format string `json:"format" yaml:"format"`

	// CapacityGiB and AllocationGiB are in GiB. Allocation is zero for
	// sparse qcow2 volumes and equals capacity for raw ones.
	CapacityGiB   uint64 `json:"capacityGiB" yaml:"capacityGiB"`
	AllocationGiB uint64 `json:"allocationGiB" yaml:"allocationGiB"`

	Base *BackingStore `json:"base,omitempty" yaml:"base,omitempty"`

	// XML is the volume descriptor document.
	XML string `json:"xml" yaml:"xml"`
}

// VolumeDescriptors compiles the volume descriptors a VM instance built
// from this template needs, in disk order. Topologies that only attach
// pre-existing volumes return an empty slice.
func (t *Template) VolumeDescriptors(ctx context.Context, vmUUID string) ([]VolumeDescriptor, error) {
	backend, err := t.poolBackend(ctx)
	if err != nil {
		return nil, err
	}
	return backend.VolumeDescriptors(ctx, t, vmUUID)
}

func (b fileBackend) VolumeDescriptors(ctx context.Context, t *Template, vmUUID string) ([]VolumeDescriptor, error) {
	poolPath, err := t.storage.PoolPath(ctx, t.PoolName())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path of pool %q: %w", t.PoolName(), err)
	}

	descriptors := make([]VolumeDescriptor, 0, len(t.Disks))
	for _, d := range t.Disks {
		name := volumeFileName(vmUUID, d.Index)
		desc := VolumeDescriptor{
			Name:        name,
			Path:        path.Join(poolPath, name),
			Format:      b.format,
			CapacityGiB: d.SizeGiB,
		}
		if b.fullAllocation {
			desc.AllocationGiB = desc.CapacityGiB
		}

		if d.Base != "" {
			if t.images == nil {
				return nil, fmt.Errorf("no image prober configured")
			}
			info, err := t.images.ImageInfo(ctx, d.Base)
			if err != nil {
				return nil, mediaFormat(CodeBadBaseImage, d.Base, err)
			}
			if info.Format == "" {
				return nil, invalidParameter(CodeBadBaseFormat, d.Base)
			}
			desc.Base = &BackingStore{Path: d.Base, Format: info.Format}
		}

		xml, err := volumeXML(desc)
		if err != nil {
			return nil, fmt.Errorf("failed to build descriptor for volume %q: %w", name, err)
		}
		desc.XML = xml
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

func volumeXML(desc VolumeDescriptor) (string, error) {
	vol := libvirtxml.StorageVolume{
		Name:       desc.Name,
		Allocation: &libvirtxml.StorageVolumeSize{Value: desc.AllocationGiB, Unit: "G"},
		Capacity:   &libvirtxml.StorageVolumeSize{Value: desc.CapacityGiB, Unit: "G"},
		Target: &libvirtxml.StorageVolumeTarget{
			Path:   desc.Path,
			Format: &libvirtxml.StorageVolumeTargetFormat{Type: desc.Format},
		},
	}
	if desc.Base != nil {
		vol.BackingStore = &libvirtxml.StorageVolumeBackingStore{
			Path:   desc.Base.Path,
			Format: &libvirtxml.StorageVolumeTargetFormat{Type: desc.Base.Format},
		}
	}
	return vol.Marshal()
}
