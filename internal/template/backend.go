package template

import (
	"context"
	"fmt"
	"path"

	"libvirt.org/go/libvirtxml"
)

// Pool kind tokens as reported by StorageGateway.PoolKind.
const (
	PoolKindFile    = "file"
	PoolKindLogical = "logical"
	PoolKindSCSI    = "scsi"
	PoolKindISCSI   = "iscsi"
)

// poolBackend generates the storage artifacts for one pool topology.
// A template has exactly one backend, selected from the resolved pool
// kind; disk descriptor fragments and volume descriptors always come
// from the same backend.
type poolBackend interface {
	// DomainDisks returns the inline disk fragments for the domain
	// descriptor, cdrom excluded.
	DomainDisks(ctx context.Context, t *Template, vmUUID string) ([]libvirtxml.DomainDisk, error)

	// VolumeDescriptors returns the standalone volume descriptors to
	// provision before the domain is defined. Backends whose volumes
	// pre-exist return nil.
	VolumeDescriptors(ctx context.Context, t *Template, vmUUID string) ([]VolumeDescriptor, error)
}

// backendFor maps a pool kind to its backend. Unrecognized kinds get
// the plain file treatment.
func backendFor(kind string) poolBackend {
	switch kind {
	case PoolKindISCSI:
		return iscsiBackend{}
	case PoolKindSCSI:
		return scsiBackend{}
	case PoolKindLogical:
		return fileBackend{format: "raw", fullAllocation: true}
	default:
		return fileBackend{format: "qcow2"}
	}
}

// fileBackend provisions one pool volume per disk and points the domain
// at the resulting files. LVM pools use the same shape with raw format
// and full preallocation, since logical volumes cannot grow on demand.
type fileBackend struct {
	format         string
	fullAllocation bool
}

func (b fileBackend) DomainDisks(ctx context.Context, t *Template, vmUUID string) ([]libvirtxml.DomainDisk, error) {
	poolPath, err := t.storage.PoolPath(ctx, t.PoolName())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path of pool %q: %w", t.PoolName(), err)
	}

	disks := make([]libvirtxml.DomainDisk, 0, len(t.Disks))
	for _, d := range t.Disks {
		dev, err := deviceName(d.Bus, d.Index)
		if err != nil {
			return nil, err
		}
		disks = append(disks, libvirtxml.DomainDisk{
			Device: "disk",
			Driver: &libvirtxml.DomainDiskDriver{Name: "qemu", Type: b.format, Cache: "none"},
			Source: &libvirtxml.DomainDiskSource{
				File: &libvirtxml.DomainDiskSourceFile{File: path.Join(poolPath, volumeFileName(vmUUID, d.Index))},
			},
			Target: &libvirtxml.DomainDiskTarget{Dev: dev, Bus: d.Bus},
		})
	}
	return disks, nil
}

// scsiBackend passes pool LUNs through to the guest. Only disks that
// name a volume participate. With fibre-channel host support the disk
// addresses the volume through the pool; without it the resolved device
// path is used directly.
type scsiBackend struct{}

func (scsiBackend) DomainDisks(ctx context.Context, t *Template, vmUUID string) ([]libvirtxml.DomainDisk, error) {
	pool := t.PoolName()

	var disks []libvirtxml.DomainDisk
	i := 0
	for _, d := range t.Disks {
		if d.Volume == "" {
			continue
		}
		dev, err := deviceName("scsi", i)
		if err != nil {
			return nil, err
		}
		i++

		source := &libvirtxml.DomainDiskSource{}
		if t.FCHostSupport {
			source.Volume = &libvirtxml.DomainDiskSourceVolume{Pool: pool, Volume: d.Volume}
		} else {
			devPath, err := t.storage.VolumePath(ctx, pool, d.Volume)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve volume %q in pool %q: %w", d.Volume, pool, err)
			}
			source.Block = &libvirtxml.DomainDiskSourceBlock{Dev: devPath}
		}

		disks = append(disks, libvirtxml.DomainDisk{
			Device: "lun",
			Driver: &libvirtxml.DomainDiskDriver{Name: "qemu", Type: "raw", Cache: "none"},
			Source: source,
			Target: &libvirtxml.DomainDiskTarget{Dev: dev, Bus: "scsi"},
		})
	}
	return disks, nil
}

func (scsiBackend) VolumeDescriptors(ctx context.Context, t *Template, vmUUID string) ([]VolumeDescriptor, error) {
	return nil, nil
}

// iscsiBackend attaches pre-existing iSCSI volumes as block devices on
// the template's disk bus.
type iscsiBackend struct{}

func (iscsiBackend) DomainDisks(ctx context.Context, t *Template, vmUUID string) ([]libvirtxml.DomainDisk, error) {
	pool := t.PoolName()

	disks := make([]libvirtxml.DomainDisk, 0, len(t.Disks))
	for i, d := range t.Disks {
		if d.Volume == "" {
			return nil, invalidParameter(CodeMissingVolume, fmt.Sprintf("disk %d", i))
		}
		devPath, err := t.storage.VolumePath(ctx, pool, d.Volume)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve volume %q in pool %q: %w", d.Volume, pool, err)
		}
		dev, err := deviceName(d.Bus, i)
		if err != nil {
			return nil, err
		}
		disks = append(disks, libvirtxml.DomainDisk{
			Device: "disk",
			Driver: &libvirtxml.DomainDiskDriver{Name: "qemu", Type: "raw"},
			Source: &libvirtxml.DomainDiskSource{
				Block: &libvirtxml.DomainDiskSourceBlock{Dev: devPath},
			},
			Target: &libvirtxml.DomainDiskTarget{Dev: dev, Bus: d.Bus},
		})
	}
	return disks, nil
}

func (iscsiBackend) VolumeDescriptors(ctx context.Context, t *Template, vmUUID string) ([]VolumeDescriptor, error) {
	return nil, nil
}
