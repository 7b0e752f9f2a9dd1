package template

import (
	"libvirt.org/go/libvirtxml"

	"github.com/ss23/kimchi/internal/osinfo"
)

// interfaceDevices returns one network interface per template network,
// all using the template's NIC model.
func (t *Template) interfaceDevices() []libvirtxml.DomainInterface {
	var driver *libvirtxml.DomainInterfaceDriver
	if t.vhostDisabled() {
		driver = &libvirtxml.DomainInterfaceDriver{Name: "qemu"}
	}

	interfaces := make([]libvirtxml.DomainInterface, 0, len(t.Networks))
	for _, network := range t.Networks {
		interfaces = append(interfaces, libvirtxml.DomainInterface{
			Source: &libvirtxml.DomainInterfaceSource{
				Network: &libvirtxml.DomainInterfaceSourceNetwork{Network: network},
			},
			Model:  &libvirtxml.DomainInterfaceModel{Type: t.NICModel},
			Driver: driver,
		})
	}
	return interfaces
}

// vhostDisabled reports whether the guest must fall back to the
// userspace network driver. Little-endian guests on big-endian ppc64
// hosts hit a vhost byte-order defect, so Ubuntu 14.04+ and SLES 12+
// guests on ppc64 are pinned to qemu.
func (t *Template) vhostDisabled() bool {
	if t.Arch != "ppc64" {
		return false
	}
	switch t.OSDistro {
	case "ubuntu":
		return osinfo.CompareVersions(t.OSVersion, "14.04") >= 0
	case "sles":
		return osinfo.CompareVersions(t.OSVersion, "12") >= 0
	}
	return false
}

// inputDevices returns the pointer, keyboard and tablet devices the
// template configures. A device with no bus is omitted.
func (t *Template) inputDevices() []libvirtxml.DomainInput {
	var inputs []libvirtxml.DomainInput
	if t.MouseBus != "" {
		inputs = append(inputs, libvirtxml.DomainInput{Type: "mouse", Bus: t.MouseBus})
	}
	if t.KeyboardBus != "" {
		inputs = append(inputs, libvirtxml.DomainInput{Type: "keyboard", Bus: t.KeyboardBus})
	}
	if t.TabletBus != "" {
		inputs = append(inputs, libvirtxml.DomainInput{Type: "tablet", Bus: t.TabletBus})
	}
	return inputs
}

func (t *Template) soundDevices() []libvirtxml.DomainSound {
	if t.SoundModel == "" {
		return nil
	}
	return []libvirtxml.DomainSound{{Model: t.SoundModel}}
}

// graphicsDevices returns the display device and, for spice, the agent
// channel that the guest tools expect alongside it.
func graphicsDevices(g Graphics) ([]libvirtxml.DomainGraphic, []libvirtxml.DomainChannel) {
	var graphic libvirtxml.DomainGraphic
	var channels []libvirtxml.DomainChannel

	switch g.Type {
	case "spice":
		graphic.Spice = &libvirtxml.DomainGraphicSpice{AutoPort: "yes", Listen: g.Listen}
		channels = append(channels, libvirtxml.DomainChannel{
			Source: &libvirtxml.DomainChardevSource{
				SpiceVMC: &libvirtxml.DomainChardevSourceSpiceVMC{},
			},
			Target: &libvirtxml.DomainChannelTarget{
				VirtIO: &libvirtxml.DomainChannelTargetVirtIO{Name: "com.redhat.spice.0"},
			},
		})
	default:
		graphic.VNC = &libvirtxml.DomainGraphicVNC{AutoPort: "yes", Listen: g.Listen}
	}

	return []libvirtxml.DomainGraphic{graphic}, channels
}
