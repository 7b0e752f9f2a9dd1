package template

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ss23/kimchi/api/v1alpha1"
	"github.com/ss23/kimchi/internal/osinfo"
)

// mediaSchemes lists the URL schemes the media prober knows how to read.
// Only checked when scanning; without a scan any remote URL is accepted
// and transport questions are settled at compile time.
var mediaSchemes = []string{"http", "https", "ftp", "ftps", "tftp"}

// Graphics is the resolved display configuration.
type Graphics struct {
	Type   string
	Listen string
}

// Disk is one fully resolved disk of a template.
type Disk struct {
	// Index is the device-letter index on the disk's bus.
	Index int

	// Bus is the effective bus for this disk.
	Bus string

	// SizeGiB is the capacity in GiB. Zero for volume-reference disks.
	SizeGiB uint64

	// Base is the backing image path, or "".
	Base string

	// Volume is the pre-existing pool volume name used by passthrough
	// and iSCSI topologies, or "".
	Volume string
}

// Template is a fully resolved VM template: caller parameters layered
// over OS-recommended defaults. It is built once by New and then only
// read; descriptor compilation never mutates it.
type Template struct {
	Name string

	OSDistro  string
	OSVersion string

	CPUs      int
	MemoryMiB uint

	// CDROM is the install media path or URL, or "".
	CDROM string

	// cdromStream is set when CDROM is a remote URL rather than a local
	// path.
	cdromStream bool

	Disks    []Disk
	Networks []string
	Graphics Graphics

	// StoragePool is the pool reference as supplied ("/storagepools/x").
	StoragePool string

	FCHostSupport bool

	Arch       string
	DomainType string
	DiskBus    string
	NICModel   string
	CDROMBus   string
	CDROMIndex int

	// Peripherals. Empty means the device is omitted.
	MouseBus    string
	KeyboardBus string
	TabletBus   string
	SoundModel  string

	images    ImageProber
	storage   StorageGateway
	inventory Inventory
	reach     ReachabilityChecker
}

// BuildOptions configures template construction. All collaborator fields
// are optional; operations that need an absent collaborator fail with a
// descriptive error when invoked.
type BuildOptions struct {
	// Scan probes the install media (or the first base image) to
	// identify the guest OS.
	Scan bool

	// OSLookup overrides the defaults table. Nil uses osinfo.
	OSLookup OSLookup

	// Media probes removable install media. Required when Scan is set
	// and the spec has a cdrom.
	Media MediaProber

	// Images probes base disk images. Required when Scan is set and the
	// spec has base-image disks, and for disk size backfill and volume
	// backing-store resolution.
	Images ImageProber

	// Storage answers pool topology and path questions at compile time.
	Storage StorageGateway

	// Inventory and Reach serve CheckIntegrity.
	Inventory Inventory
	Reach     ReachabilityChecker
}

// New builds a Template from raw parameters.
//
// The only required input is some source of install media: a cdrom or a
// disk with a base image. Everything else defaults from the recommended
// settings for the guest OS, which is identified by probing the media
// when opts.Scan is set. Explicit parameters always win over defaults;
// graphics parameters merge field by field rather than wholesale.
//
// When name is empty one is generated: distro, version and a millisecond
// timestamp for an identified OS, a random UUID otherwise.
func New(ctx context.Context, name string, spec v1alpha1.TemplateSpec, opts BuildOptions) (*Template, error) {
	t := &Template{
		FCHostSupport: spec.FCHostSupport,
		images:        opts.Images,
		storage:       opts.Storage,
		inventory:     opts.Inventory,
		reach:         opts.Reach,
	}

	distro, version, err := t.identifyOS(ctx, spec, opts)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = genName(distro, version)
	}
	t.Name = name

	// Explicit OS identity wins over the probed one.
	t.OSDistro = distro
	t.OSVersion = version
	if spec.OSDistro != "" {
		t.OSDistro = spec.OSDistro
	}
	if spec.OSVersion != "" {
		t.OSVersion = spec.OSVersion
	}

	lookup := opts.OSLookup
	if lookup == nil {
		lookup = osinfo.LookupForArch
	}
	arch := spec.Arch
	if arch == "" {
		arch = osinfo.HostArch()
	}
	entry := lookup(arch, t.OSDistro, t.OSVersion)

	t.merge(spec, entry)

	if err := t.resolveDisks(ctx, spec, entry); err != nil {
		return nil, err
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// identifyOS determines (distro, version) from the install media. The
// cdrom is authoritative when present; otherwise the base image of a
// disk is probed. A template with neither has nothing to install or
// boot from and is rejected.
func (t *Template) identifyOS(ctx context.Context, spec v1alpha1.TemplateSpec, opts BuildOptions) (string, string, error) {
	distro, version := "unknown", "unknown"

	if spec.CDROM != "" {
		t.CDROM = spec.CDROM
		t.cdromStream = !strings.HasPrefix(spec.CDROM, "/")

		if opts.Scan {
			if !probeableMedia(spec.CDROM) {
				return "", "", invalidParameter(CodeBadMediaPath, spec.CDROM)
			}
			if opts.Media == nil {
				return "", "", fmt.Errorf("no media prober configured")
			}
			probedDistro, probedVersion, err := opts.Media.ProbeMedia(ctx, spec.CDROM)
			if err != nil {
				return "", "", mediaFormat(CodeBadISOMedia, spec.CDROM, err)
			}
			distro, version = probedDistro, probedVersion
		}
		return distro, version, nil
	}

	baseDisks := 0
	for _, d := range spec.Disks {
		if d.Base == "" {
			continue
		}
		baseDisks++
		if opts.Scan {
			if opts.Images == nil {
				return "", "", fmt.Errorf("no image prober configured")
			}
			probedDistro, probedVersion, err := opts.Images.ProbeImage(ctx, d.Base)
			if err != nil {
				return "", "", mediaFormat(CodeBadBaseImage, d.Base, err)
			}
			distro, version = probedDistro, probedVersion
		}
	}
	if baseDisks == 0 {
		return "", "", missingParameter(CodeNoInstallMedia, "")
	}
	return distro, version, nil
}

func probeableMedia(path string) bool {
	if strings.HasPrefix(path, "/") {
		return true
	}
	for _, scheme := range mediaSchemes {
		if strings.HasPrefix(path, scheme+"://") {
			return true
		}
	}
	return false
}

// genName builds a practically unique template name without a central
// registry.
func genName(distro, version string) string {
	if distro == "unknown" {
		return uuid.New().String()
	}
	return fmt.Sprintf("%s%s.%d", distro, version, time.Now().UnixMilli())
}

// merge overlays explicit parameters on the recommended entry. Explicit
// values win field by field.
func (t *Template) merge(spec v1alpha1.TemplateSpec, entry osinfo.Entry) {
	t.CPUs = entry.CPUs
	if spec.CPUs != 0 {
		t.CPUs = spec.CPUs
	}
	t.MemoryMiB = entry.MemoryMiB
	if spec.MemoryMiB != 0 {
		t.MemoryMiB = spec.MemoryMiB
	}

	t.Networks = entry.Networks
	if spec.Networks != nil {
		t.Networks = spec.Networks
	}

	t.Graphics = Graphics{Type: entry.Graphics.Type, Listen: entry.Graphics.Listen}
	if spec.Graphics != nil {
		if spec.Graphics.Type != "" {
			t.Graphics.Type = spec.Graphics.Type
		}
		if spec.Graphics.Listen != "" {
			t.Graphics.Listen = spec.Graphics.Listen
		}
	}

	t.StoragePool = entry.StoragePool
	if spec.StoragePool != "" {
		t.StoragePool = spec.StoragePool
	}

	t.Arch = entry.Arch
	t.DomainType = entry.DomainType
	if spec.DomainType != "" {
		t.DomainType = spec.DomainType
	}
	t.DiskBus = entry.DiskBus
	if spec.DiskBus != "" {
		t.DiskBus = spec.DiskBus
	}
	t.NICModel = entry.NICModel
	if spec.NICModel != "" {
		t.NICModel = spec.NICModel
	}
	t.CDROMBus = entry.CDROMBus
	if spec.CDROMBus != "" {
		t.CDROMBus = spec.CDROMBus
	}
	t.CDROMIndex = entry.CDROMIndex
	if spec.CDROMIndex != nil {
		t.CDROMIndex = *spec.CDROMIndex
	}

	t.MouseBus = entry.MouseBus
	if spec.MouseBus != "" {
		t.MouseBus = spec.MouseBus
	}
	t.KeyboardBus = entry.KeyboardBus
	if spec.KeyboardBus != "" {
		t.KeyboardBus = spec.KeyboardBus
	}
	t.TabletBus = entry.TabletBus
	if spec.TabletBus != "" {
		t.TabletBus = spec.TabletBus
	}
	t.SoundModel = entry.SoundModel
	if spec.SoundModel != "" {
		t.SoundModel = spec.SoundModel
	}
}

// resolveDisks turns the spec's disk list (or the OS-recommended one when
// none is given) into fully resolved disks: positional indexes filled in,
// per-disk bus defaulted, sizes backfilled from base images.
func (t *Template) resolveDisks(ctx context.Context, spec v1alpha1.TemplateSpec, entry osinfo.Entry) error {
	if len(spec.Disks) == 0 {
		for _, d := range entry.Disks {
			t.Disks = append(t.Disks, Disk{Index: d.Index, Bus: t.DiskBus, SizeGiB: d.SizeGiB})
		}
		return nil
	}

	for i, d := range spec.Disks {
		disk := Disk{
			Index:   i,
			Bus:     t.DiskBus,
			SizeGiB: d.SizeGiB,
			Base:    d.Base,
			Volume:  d.Volume,
		}
		if d.Index != nil {
			disk.Index = *d.Index
		}
		if d.Bus != "" {
			disk.Bus = d.Bus
		}

		if disk.SizeGiB == 0 && disk.Base != "" {
			if t.images == nil {
				return fmt.Errorf("no image prober configured")
			}
			info, err := t.images.ImageInfo(ctx, disk.Base)
			if err != nil {
				return mediaFormat(CodeBadBaseImage, disk.Base, err)
			}
			disk.SizeGiB = info.VirtualSizeGiB
		}

		t.Disks = append(t.Disks, disk)
	}
	return nil
}

// validate checks the resolved template for contradictions a descriptor
// could not express.
func (t *Template) validate() error {
	// Device names must be well formed and pairwise distinct.
	seen := make(map[string]bool, len(t.Disks))
	for _, d := range t.Disks {
		dev, err := deviceName(d.Bus, d.Index)
		if err != nil {
			return err
		}
		if seen[dev] {
			return invalidParameter(CodeDuplicateDevice, dev)
		}
		seen[dev] = true

		if d.SizeGiB == 0 && d.Volume == "" {
			return invalidParameter(CodeMissingDiskSize, fmt.Sprintf("disk %s", dev))
		}
	}

	if t.CDROM != "" {
		if _, err := deviceName(t.CDROMBus, t.CDROMIndex); err != nil {
			return err
		}
	}

	switch t.Graphics.Type {
	case "vnc", "spice":
	default:
		return invalidParameter(CodeBadGraphicsType, t.Graphics.Type)
	}

	return nil
}

// PoolName returns the resolved name of the template's storage pool.
func (t *Template) PoolName() string {
	return PoolNameFromRef(t.StoragePool)
}

// poolBackend resolves the template's storage topology and returns the
// matching backend. All disks of one template share a single topology.
func (t *Template) poolBackend(ctx context.Context) (poolBackend, error) {
	if t.storage == nil {
		return nil, fmt.Errorf("no storage gateway configured")
	}
	kind, err := t.storage.PoolKind(ctx, t.PoolName())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve type of pool %q: %w", t.PoolName(), err)
	}
	return backendFor(kind), nil
}
