// Package osinfo provides recommended virtual machine settings for known
// guest operating systems. Lookups are keyed by distro and version and
// always succeed: unidentified guests receive a conservative generic
// profile so a template can be resolved without knowing what it will run.
//
// The tables are fixed at build time. Lookup results are freshly built
// values, so callers may mutate them freely.
package osinfo

import (
	"runtime"
)

// Entry holds the recommended settings for one guest OS on one
// architecture. Peripheral fields left empty mean the device is not
// recommended and should be omitted, not defaulted.
type Entry struct {
	CPUs       int           `json:"cpus" yaml:"cpus"`
	MemoryMiB  uint          `json:"memoryMiB" yaml:"memoryMiB"`
	Disks      []DiskDefault `json:"disks" yaml:"disks"`
	DiskBus    string        `json:"diskBus" yaml:"diskBus"`
	NICModel   string        `json:"nicModel" yaml:"nicModel"`
	CDROMBus   string        `json:"cdromBus" yaml:"cdromBus"`
	CDROMIndex int           `json:"cdromIndex" yaml:"cdromIndex"`

	// Peripherals. Empty means absent.
	MouseBus    string `json:"mouseBus,omitempty" yaml:"mouseBus,omitempty"`
	KeyboardBus string `json:"keyboardBus,omitempty" yaml:"keyboardBus,omitempty"`
	TabletBus   string `json:"tabletBus,omitempty" yaml:"tabletBus,omitempty"`
	SoundModel  string `json:"soundModel,omitempty" yaml:"soundModel,omitempty"`

	Networks    []string `json:"networks" yaml:"networks"`
	StoragePool string   `json:"storagePool" yaml:"storagePool"`
	DomainType  string   `json:"domainType" yaml:"domainType"`
	Arch        string   `json:"arch" yaml:"arch"`
	Graphics    Graphics `json:"graphics" yaml:"graphics"`
}

// DiskDefault describes one recommended disk.
type DiskDefault struct {
	Index   int    `json:"index" yaml:"index"`
	SizeGiB uint64 `json:"sizeGiB" yaml:"sizeGiB"`
}

// Graphics describes the recommended display configuration.
type Graphics struct {
	Type   string `json:"type" yaml:"type"`
	Listen string `json:"listen" yaml:"listen"`
}

// family groups machine architectures that share a settings profile.
type family string

const (
	familyX86   family = "x86"
	familyPower family = "power"
)

// modernVersionBases maps each distro to the first version whose installer
// ships paravirtualized (virtio) drivers. Older versions get emulated
// hardware the installer is guaranteed to drive.
var modernVersionBases = map[family]map[string]string{
	familyX86: {
		"debian":   "6.0",
		"ubuntu":   "7.10",
		"opensuse": "10.3",
		"centos":   "5.3",
		"rhel":     "6.0",
		"fedora":   "16",
		"gentoo":   "0",
		"sles":     "11",
	},
	familyPower: {
		"rhel":     "6.5",
		"fedora":   "19",
		"ubuntu":   "14.04",
		"opensuse": "13.1",
		"sles":     "11sp3",
	},
}

// Lookup returns the recommended settings for the given guest OS on the
// host architecture. Unknown distros get the generic legacy profile.
func Lookup(distro, version string) Entry {
	return LookupForArch(HostArch(), distro, version)
}

// LookupForArch returns the recommended settings for the given guest OS on
// an explicit machine architecture (e.g. "x86_64", "ppc64").
func LookupForArch(arch, distro, version string) Entry {
	fam := familyOf(arch)

	e := Entry{
		CPUs:        1,
		MemoryMiB:   1024,
		Disks:       []DiskDefault{{Index: 0, SizeGiB: 10}},
		CDROMBus:    "ide",
		CDROMIndex:  2,
		MouseBus:    "ps2",
		Networks:    []string{"default"},
		StoragePool: "/storagepools/default",
		DomainType:  "kvm",
		Arch:        arch,
		Graphics:    Graphics{Type: "vnc", Listen: "127.0.0.1"},
	}

	modern := false
	if base, ok := modernVersionBases[fam][distro]; ok {
		modern = CompareVersions(version, base) >= 0
	}

	switch fam {
	case familyPower:
		e.MemoryMiB = 1280
		e.CDROMBus = "scsi"
		e.MouseBus = "usb"
		e.KeyboardBus = "usb"
		e.TabletBus = "usb"
		if modern {
			e.DiskBus = "virtio"
			e.NICModel = "virtio"
		} else {
			e.DiskBus = "scsi"
			e.NICModel = "spapr-vlan"
		}
	default:
		e.SoundModel = "ich6"
		if modern {
			e.DiskBus = "virtio"
			e.NICModel = "virtio"
		} else {
			e.DiskBus = "ide"
			e.NICModel = "e1000"
		}
	}

	return e
}

// HostArch returns the machine architecture in libvirt's naming
// ("x86_64", "aarch64", ...), derived from the Go runtime.
func HostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "386":
		return "i686"
	case "arm64":
		return "aarch64"
	}
	return runtime.GOARCH
}

func familyOf(arch string) family {
	switch arch {
	case "ppc", "ppc64", "ppc64le":
		return familyPower
	}
	return familyX86
}
