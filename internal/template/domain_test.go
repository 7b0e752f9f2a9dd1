package template

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ss23/kimchi/api/v1alpha1"
)

const testVMUUID = "306e863d-e5e4-4632-a8a5-92f1d0d7db51"

func mustNew(t *testing.T, spec v1alpha1.TemplateSpec, opts BuildOptions) *Template {
	t.Helper()
	tpl, err := New(context.Background(), "t1", spec, opts)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return tpl
}

func assertContains(t *testing.T, xml string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(xml, want) {
			t.Errorf("descriptor is missing %q\n%s", want, xml)
		}
	}
}

func assertNotContains(t *testing.T, xml string, rejects ...string) {
	t.Helper()
	for _, reject := range rejects {
		if strings.Contains(xml, reject) {
			t.Errorf("descriptor unexpectedly contains %q\n%s", reject, xml)
		}
	}
}

func TestDomainXML_FilePool(t *testing.T) {
	opts, _ := testBuildOptions()
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "/isos/f17.iso",
		Arch:  "x86_64",
	}, opts)

	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}

	assertContains(t, xml,
		`<domain type="kvm">`,
		`<name>vm-1</name>`,
		`<uuid>`+testVMUUID+`</uuid>`,
		`<memory unit="MiB">1024</memory>`,
		`<vcpu>1</vcpu>`,
		`<type arch="x86_64">hvm</type>`,
		`<boot dev="hd">`,
		`<boot dev="cdrom">`,
		`<acpi>`,
		`<apic>`,
		`<pae>`,
		`<clock offset="utc">`,
		`<on_poweroff>destroy</on_poweroff>`,
		`<on_reboot>restart</on_reboot>`,
		`<on_crash>restart</on_crash>`,
		`<memballoon model="virtio">`,
	)

	// The recommended 10 GiB disk on the unknown-guest ide profile.
	assertContains(t, xml,
		`<disk type="file" device="disk">`,
		`<driver name="qemu" type="qcow2" cache="none">`,
		`<source file="/var/lib/libvirt/images/`+testVMUUID+`-0.img">`,
		`<target dev="hda" bus="ide">`,
	)

	// Local install media on the default second ide channel.
	assertContains(t, xml,
		`<disk type="file" device="cdrom">`,
		`<source file="/isos/f17.iso">`,
		`<target dev="hdc" bus="ide">`,
		`<readonly>`,
	)

	assertContains(t, xml,
		`<interface type="network">`,
		`<source network="default">`,
		`<model type="e1000">`,
		`<sound model="ich6">`,
		`<input type="mouse" bus="ps2">`,
	)

	assertContains(t, xml, `type="vnc"`, `autoport="yes"`, `listen="127.0.0.1"`)
	assertNotContains(t, xml, "spicevmc", "libvirt.org/schemas/domain/qemu/1.0")
}

func TestDomainXML_LogicalPool(t *testing.T) {
	opts, gateway := testBuildOptions()
	gateway.poolKindFunc = func(ctx context.Context, pool string) (string, error) {
		return PoolKindLogical, nil
	}

	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "/isos/f17.iso",
		Arch:  "x86_64",
	}, opts)

	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}

	// Logical pools keep the file-backed shape but use raw volumes.
	assertContains(t, xml,
		`<disk type="file" device="disk">`,
		`<driver name="qemu" type="raw" cache="none">`,
	)
	assertNotContains(t, xml, `type="qcow2"`)
}

func TestDomainXML_SpiceGraphics(t *testing.T) {
	opts, _ := testBuildOptions()
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM:    "/isos/f17.iso",
		Arch:     "x86_64",
		Graphics: &v1alpha1.GraphicsSpec{Type: "spice"},
	}, opts)

	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}

	// Spice brings the guest agent channel with it.
	assertContains(t, xml,
		`type="spice"`,
		`<channel type="spicevmc">`,
		`name="com.redhat.spice.0"`,
	)
	assertNotContains(t, xml, `type="vnc"`)
}

func TestDomainXML_GraphicsOverride(t *testing.T) {
	opts, _ := testBuildOptions()
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "/isos/f17.iso",
		Arch:  "x86_64",
	}, opts)

	// Override only the listen address; the type keeps the template's.
	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{
		Graphics: &Graphics{Listen: "0.0.0.0"},
	})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}
	assertContains(t, xml, `type="vnc"`, `listen="0.0.0.0"`)
	assertNotContains(t, xml, "spicevmc")

	// The template itself is untouched by per-compile overrides.
	if tpl.Graphics.Listen != "127.0.0.1" {
		t.Errorf("template Graphics.Listen = %q after compile, want %q", tpl.Graphics.Listen, "127.0.0.1")
	}

	_, err = tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{
		Graphics: &Graphics{Type: "sdl"},
	})
	if ErrorCode(err) != CodeBadGraphicsType {
		t.Fatalf("DomainXML() error = %v, want %s", err, CodeBadGraphicsType)
	}
}

func TestDomainXML_NativeStreamCDROM(t *testing.T) {
	opts, _ := testBuildOptions()
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "nfs://nfs.example.com/export/f17.iso",
		Arch:  "x86_64",
	}, opts)

	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{
		StreamProtocols: []string{"http", "https", "nfs"},
		StreamDNS:       true,
	})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}

	// Natively streamable media becomes a network disk with the scheme's
	// default port filled in.
	assertContains(t, xml,
		`<disk type="network" device="cdrom">`,
		`<source protocol="nfs" name="/export/f17.iso">`,
		`<host name="nfs.example.com" port="2049">`,
		`<target dev="hdc" bus="ide">`,
		`<readonly>`,
	)
	assertNotContains(t, xml, "libvirt.org/schemas/domain/qemu/1.0", "-drive")
}

func TestDomainXML_NativeStreamExplicitPort(t *testing.T) {
	opts, _ := testBuildOptions()
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "http://mirror.example.com:8080/isos/f17.iso",
		Arch:  "x86_64",
	}, opts)

	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{
		StreamProtocols: []string{"http"},
		StreamDNS:       true,
	})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}
	assertContains(t, xml,
		`<source protocol="http" name="/isos/f17.iso">`,
		`<host name="mirror.example.com" port="8080">`,
	)
}

func TestDomainXML_StreamFallbackCDROM(t *testing.T) {
	opts, _ := testBuildOptions()
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "nfs://nfs.example.com/export/f17.iso",
		Arch:  "x86_64",
	}, opts)

	// nfs is not in the streamable set, so the media is wired into the
	// emulator directly and the descriptor gains the qemu namespace.
	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{
		StreamProtocols: []string{"http", "https"},
		StreamDNS:       true,
	})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}

	assertContains(t, xml,
		"libvirt.org/schemas/domain/qemu/1.0",
		`value="-drive"`,
		`value="file=nfs://nfs.example.com/export/f17.iso,if=none,id=drive-ide0-1-0,readonly=on,format=raw"`,
		`value="-device"`,
		`value="ide-cd,bus=ide.1,unit=0,drive=drive-ide0-1-0,id=ide0-1-0"`,
	)
	assertNotContains(t, xml, `device="cdrom"`)
}

func TestDomainXML_StreamHostResolution(t *testing.T) {
	opts, _ := testBuildOptions()
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "nfs://nfs.example.com/export/f17.iso",
		Arch:  "x86_64",
	}, opts)

	resolve := func(host string) (string, error) {
		if host != "nfs.example.com" {
			return "", errors.New("unexpected host")
		}
		return "192.168.0.5", nil
	}

	// Without DNS support the URL is rewritten around the resolved
	// address, default port included.
	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{
		StreamProtocols: []string{"http"},
		ResolveHost:     resolve,
	})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}
	assertContains(t, xml, `value="file=nfs://192.168.0.5:2049/export/f17.iso,if=none,id=drive-ide0-1-0,readonly=on,format=raw"`)

	// Same for the native path: the host element carries the address.
	xml, err = tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{
		StreamProtocols: []string{"nfs"},
		ResolveHost:     resolve,
	})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}
	assertContains(t, xml, `<host name="192.168.0.5" port="2049">`)

	// Resolution failures surface instead of producing a useless URL.
	_, err = tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{
		StreamProtocols: []string{"nfs"},
		ResolveHost: func(host string) (string, error) {
			return "", errors.New("no such host")
		},
	})
	if err == nil || !strings.Contains(err.Error(), "failed to resolve media host") {
		t.Fatalf("DomainXML() error = %v, want a resolution failure", err)
	}
}

func TestDomainXML_MediaURLErrors(t *testing.T) {
	// Unknown scheme: no default port to fill in.
	opts, _ := testBuildOptions()
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "xyzzy://host.example.com/f17.iso",
		Arch:  "x86_64",
	}, opts)
	_, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{StreamDNS: true})
	if ErrorCode(err) != CodeUnknownPort {
		t.Fatalf("DomainXML() error = %v, want %s", err, CodeUnknownPort)
	}

	// A relative path is neither a local file nor a usable URL.
	opts, _ = testBuildOptions()
	tpl = mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "isos/f17.iso",
		Arch:  "x86_64",
	}, opts)
	_, err = tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{StreamDNS: true})
	if ErrorCode(err) != CodeBadMediaURL {
		t.Fatalf("DomainXML() error = %v, want %s", err, CodeBadMediaURL)
	}
}

func TestDomainXML_SCSIPassthrough(t *testing.T) {
	spec := v1alpha1.TemplateSpec{
		CDROM: "/isos/f17.iso",
		Arch:  "x86_64",
		Disks: []v1alpha1.DiskSpec{
			{Volume: "unit:0:0:1"},
			{Volume: "unit:0:0:4"},
		},
	}

	// Fibre-channel hosts address the LUN through the pool.
	opts, gateway := testBuildOptions()
	gateway.poolKindFunc = func(ctx context.Context, pool string) (string, error) {
		return PoolKindSCSI, nil
	}
	spec.FCHostSupport = true
	tpl := mustNew(t, spec, opts)

	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}
	assertContains(t, xml,
		`<disk type="volume" device="lun">`,
		`<driver name="qemu" type="raw" cache="none">`,
		`<source pool="default" volume="unit:0:0:1">`,
		`<source pool="default" volume="unit:0:0:4">`,
		`<target dev="sda" bus="scsi">`,
		`<target dev="sdb" bus="scsi">`,
	)
	if len(gateway.volumePathCalls) != 0 {
		t.Errorf("VolumePath calls = %v, want none with fc support", gateway.volumePathCalls)
	}

	// Without fc support the device path is resolved up front.
	opts, gateway = testBuildOptions()
	gateway.poolKindFunc = func(ctx context.Context, pool string) (string, error) {
		return PoolKindSCSI, nil
	}
	spec.FCHostSupport = false
	tpl = mustNew(t, spec, opts)

	xml, err = tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}
	assertContains(t, xml,
		`<disk type="block" device="lun">`,
		`<source dev="/dev/disk/by-id/unit:0:0:1">`,
		`<target dev="sda" bus="scsi">`,
	)
	if len(gateway.volumePathCalls) != 2 || gateway.volumePathCalls[0] != "default/unit:0:0:1" {
		t.Errorf("VolumePath calls = %v, want the two luns in order", gateway.volumePathCalls)
	}
}

func TestDomainXML_SCSISkipsNonVolumeDisks(t *testing.T) {
	opts, gateway := testBuildOptions()
	gateway.poolKindFunc = func(ctx context.Context, pool string) (string, error) {
		return PoolKindSCSI, nil
	}
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "/isos/f17.iso",
		Arch:  "x86_64",
		Disks: []v1alpha1.DiskSpec{
			{SizeGiB: 10},
			{Volume: "unit:0:0:1"},
		},
	}, opts)

	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}

	// Only the volume-bearing disk participates, and it takes the first
	// device letter.
	if got := strings.Count(xml, `device="lun"`); got != 1 {
		t.Errorf("descriptor has %d lun disks, want 1", got)
	}
	assertContains(t, xml, `<target dev="sda" bus="scsi">`)
}

func TestDomainXML_ISCSIVolumes(t *testing.T) {
	opts, gateway := testBuildOptions()
	gateway.poolKindFunc = func(ctx context.Context, pool string) (string, error) {
		return PoolKindISCSI, nil
	}
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM:   "/isos/f17.iso",
		Arch:    "x86_64",
		DiskBus: "virtio",
		Disks: []v1alpha1.DiskSpec{
			{Volume: "iqn-vol-0"},
			{Volume: "iqn-vol-1"},
		},
	}, opts)

	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}

	assertContains(t, xml,
		`<disk type="block" device="disk">`,
		`<driver name="qemu" type="raw">`,
		`<source dev="/dev/disk/by-id/iqn-vol-0">`,
		`<source dev="/dev/disk/by-id/iqn-vol-1">`,
		`<target dev="vda" bus="virtio">`,
		`<target dev="vdb" bus="virtio">`,
	)
}

func TestDomainXML_ISCSIRequiresVolumes(t *testing.T) {
	opts, gateway := testBuildOptions()
	gateway.poolKindFunc = func(ctx context.Context, pool string) (string, error) {
		return PoolKindISCSI, nil
	}
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "/isos/f17.iso",
		Arch:  "x86_64",
		Disks: []v1alpha1.DiskSpec{{SizeGiB: 10}},
	}, opts)

	_, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if ErrorCode(err) != CodeMissingVolume {
		t.Fatalf("DomainXML() error = %v, want %s", err, CodeMissingVolume)
	}
}

func TestDomainXML_VhostPinnedOnPower(t *testing.T) {
	tests := []struct {
		name    string
		arch    string
		distro  string
		version string
		wantPin bool
	}{
		{name: "ubuntu 14.04 on ppc64", arch: "ppc64", distro: "ubuntu", version: "14.04", wantPin: true},
		{name: "ubuntu 13.10 on ppc64", arch: "ppc64", distro: "ubuntu", version: "13.10", wantPin: false},
		{name: "sles 12 on ppc64", arch: "ppc64", distro: "sles", version: "12", wantPin: true},
		{name: "sles 11sp3 on ppc64", arch: "ppc64", distro: "sles", version: "11sp3", wantPin: false},
		{name: "fedora on ppc64", arch: "ppc64", distro: "fedora", version: "19", wantPin: false},
		{name: "ubuntu 14.04 on x86", arch: "x86_64", distro: "ubuntu", version: "14.04", wantPin: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _ := testBuildOptions()
			tpl := mustNew(t, v1alpha1.TemplateSpec{
				OSDistro:  tt.distro,
				OSVersion: tt.version,
				CDROM:     "/isos/test.iso",
				Arch:      tt.arch,
			}, opts)

			xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
			if err != nil {
				t.Fatalf("DomainXML() unexpected error: %v", err)
			}

			// Disk drivers always carry a type attribute, so the bare
			// qemu driver can only come from an interface.
			pinned := strings.Contains(xml, `<driver name="qemu"></driver>`)
			if pinned != tt.wantPin {
				t.Errorf("driver pinned = %v, want %v", pinned, tt.wantPin)
			}
		})
	}
}

func TestDomainXML_MultipleNetworks(t *testing.T) {
	opts, _ := testBuildOptions()
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM:    "/isos/f17.iso",
		Arch:     "x86_64",
		Networks: []string{"mgmt", "data"},
	}, opts)

	xml, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err != nil {
		t.Fatalf("DomainXML() unexpected error: %v", err)
	}

	if got := strings.Count(xml, `<interface type="network">`); got != 2 {
		t.Errorf("descriptor has %d interfaces, want 2", got)
	}
	assertContains(t, xml, `<source network="mgmt">`, `<source network="data">`)
}

func TestDomainXML_GatewayErrors(t *testing.T) {
	opts, gateway := testBuildOptions()
	gateway.poolKindFunc = func(ctx context.Context, pool string) (string, error) {
		return "", errors.New("pool not found")
	}
	tpl := mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "/isos/f17.iso",
		Arch:  "x86_64",
	}, opts)

	_, err := tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err == nil || !strings.Contains(err.Error(), "failed to resolve type of pool") {
		t.Fatalf("DomainXML() error = %v, want a pool resolution failure", err)
	}

	opts, gateway = testBuildOptions()
	gateway.poolPathFunc = func(ctx context.Context, pool string) (string, error) {
		return "", errors.New("pool not found")
	}
	tpl = mustNew(t, v1alpha1.TemplateSpec{
		CDROM: "/isos/f17.iso",
		Arch:  "x86_64",
	}, opts)

	_, err = tpl.DomainXML(context.Background(), "vm-1", testVMUUID, CompileOptions{})
	if err == nil || !strings.Contains(err.Error(), "failed to resolve path of pool") {
		t.Fatalf("DomainXML() error = %v, want a pool path failure", err)
	}
}
