// Package template compiles declarative VM templates into libvirt
// domain and storage volume descriptors.
//
// A Template is constructed once by New from caller parameters layered
// over the recommended settings for the guest OS (see internal/osinfo),
// and is read-only afterwards. Compilation stamps out per-instance
// artifacts any number of times without touching the template.
//
// Construction and Defaults:
//
// The only required parameter is an install source: a cdrom (local ISO
// path or remote URL) or a disk backed by a base image. With Scan set,
// the media is probed to identify the guest OS, and the identification
// drives the defaults lookup. Explicit parameters always win; graphics
// settings merge field by field.
//
// Storage Topologies:
//
// All disks of a template live in one storage pool. The pool's resolved
// kind selects the backend:
//   - file: per-instance qcow2 volumes, provisioned from descriptors
//   - logical: same shape, raw format, fully preallocated
//   - scsi: LUN passthrough of pre-existing pool volumes
//   - iscsi: pre-existing volumes attached as block devices
//
// Compilation:
//
// DomainXML produces the domain descriptor; VolumeDescriptors produces
// the volume documents to provision first (file and logical pools
// only). Remote install media is attached as a native network disk when
// the management layer streams its scheme, and through an emulator
// command line passthrough otherwise.
//
// Consumer-Side Interfaces:
//
// Collaborators are narrow interfaces declared here (MediaProber,
// ImageProber, StorageGateway, Inventory, ReachabilityChecker) and
// satisfied by internal/media and internal/storage in production, by
// mocks in tests.
//
// Example usage:
//
//	tpl, err := template.New(ctx, "", spec, template.BuildOptions{
//	    Scan:    true,
//	    Media:   isoProber,
//	    Images:  imageProber,
//	    Storage: gateway,
//	})
//	if err != nil {
//	    return err
//	}
//
//	vmUUID := uuid.New().String()
//	vols, err := tpl.VolumeDescriptors(ctx, vmUUID)
//	if err != nil {
//	    return err
//	}
//	xml, err := tpl.DomainXML(ctx, "myvm", vmUUID, template.CompileOptions{
//	    StreamProtocols: caps.StreamProtocols,
//	    StreamDNS:       caps.StreamDNS,
//	})
package template
