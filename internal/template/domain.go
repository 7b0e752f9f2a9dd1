package template

import (
	"context"
	"fmt"
	"net"

	"libvirt.org/go/libvirtxml"
)

// CompileOptions carries the per-compilation inputs to DomainXML: the
// capabilities of the management layer the descriptor is destined for,
// and optional display overrides.
type CompileOptions struct {
	// Graphics overrides the template's display settings field by
	// field. Nil keeps the template's.
	Graphics *Graphics

	// StreamProtocols lists the URL schemes the management layer can
	// stream natively. Remote media outside this set is attached
	// through an emulator command line passthrough instead.
	StreamProtocols []string

	// StreamDNS keeps hostnames in media URLs. When unset, hostnames
	// are resolved to addresses before they reach the descriptor.
	StreamDNS bool

	// ResolveHost overrides hostname resolution. Nil uses the system
	// resolver.
	ResolveHost func(host string) (string, error)
}

func (o CompileOptions) resolveHost(host string) (string, error) {
	if o.ResolveHost != nil {
		return o.ResolveHost(host)
	}
	addrs, err := net.LookupHost(host)
	if err != nil {
		return "", err
	}
	return addrs[0], nil
}

// DomainXML compiles the template into a domain descriptor for one VM
// instance. The instance's identity is supplied by the caller; the
// template itself stays untouched, so one template can stamp out any
// number of instances.
func (t *Template) DomainXML(ctx context.Context, vmName, vmUUID string, opts CompileOptions) (string, error) {
	graphics := t.Graphics
	if opts.Graphics != nil {
		if opts.Graphics.Type != "" {
			graphics.Type = opts.Graphics.Type
		}
		if opts.Graphics.Listen != "" {
			graphics.Listen = opts.Graphics.Listen
		}
	}
	switch graphics.Type {
	case "vnc", "spice":
	default:
		return "", invalidParameter(CodeBadGraphicsType, graphics.Type)
	}

	backend, err := t.poolBackend(ctx)
	if err != nil {
		return "", err
	}
	disks, err := backend.DomainDisks(ctx, t, vmUUID)
	if err != nil {
		return "", err
	}

	cdrom, cmdline, err := t.cdromDevices(opts)
	if err != nil {
		return "", err
	}
	if cdrom != nil {
		disks = append(disks, *cdrom)
	}

	graphicDevices, channels := graphicsDevices(graphics)

	domain := libvirtxml.Domain{
		Type: t.DomainType,
		Name: vmName,
		UUID: vmUUID,
		Memory: &libvirtxml.DomainMemory{
			Value: t.MemoryMiB,
			Unit:  "MiB",
		},
		VCPU: &libvirtxml.DomainVCPU{Value: uint(t.CPUs)},
		OS: &libvirtxml.DomainOS{
			Type: &libvirtxml.DomainOSType{Arch: t.Arch, Type: "hvm"},
			BootDevices: []libvirtxml.DomainBootDevice{
				{Dev: "hd"},
				{Dev: "cdrom"},
			},
		},
		Features: &libvirtxml.DomainFeatureList{
			ACPI: &libvirtxml.DomainFeature{},
			APIC: &libvirtxml.DomainFeatureAPIC{},
			PAE:  &libvirtxml.DomainFeature{},
		},
		Clock:      &libvirtxml.DomainClock{Offset: "utc"},
		OnPoweroff: "destroy",
		OnReboot:   "restart",
		OnCrash:    "restart",
		Devices: &libvirtxml.DomainDeviceList{
			Disks:      disks,
			Interfaces: t.interfaceDevices(),
			Graphics:   graphicDevices,
			Channels:   channels,
			Inputs:     t.inputDevices(),
			Sounds:     t.soundDevices(),
			MemBalloon: &libvirtxml.DomainMemBalloon{Model: "virtio"},
		},
		QEMUCommandline: cmdline,
	}

	xml, err := domain.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to build domain descriptor for %q: %w", vmName, err)
	}
	return xml, nil
}
