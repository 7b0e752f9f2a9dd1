package template

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"libvirt.org/go/libvirtxml"
)

// servicePorts maps media URL schemes to their default ports. Looked up
// when the URL does not carry an explicit port; schemes outside the
// table fall back to the system services database.
var servicePorts = map[string]int{
	"http":  80,
	"https": 443,
	"ftp":   21,
	"ftps":  990,
	"tftp":  69,
	"nfs":   2049,
}

func defaultPort(scheme string) (int, error) {
	if port, ok := servicePorts[scheme]; ok {
		return port, nil
	}
	port, err := net.LookupPort("tcp", scheme)
	if err != nil {
		return 0, invalidParameter(CodeUnknownPort, scheme)
	}
	return port, nil
}

// cdromDevices builds the cdrom attachment. Local media becomes a plain
// file-backed cdrom disk. Remote media becomes a network disk when the
// management layer streams the URL's scheme natively; otherwise the
// media is wired straight into the emulator through a command line
// passthrough, which is the only remaining way to boot from it.
//
// Exactly one of the two return values is set for a template with a
// cdrom; both are nil without one.
func (t *Template) cdromDevices(opts CompileOptions) (*libvirtxml.DomainDisk, *libvirtxml.DomainQEMUCommandline, error) {
	if t.CDROM == "" {
		return nil, nil, nil
	}

	dev, err := deviceName(t.CDROMBus, t.CDROMIndex)
	if err != nil {
		return nil, nil, err
	}

	if !t.cdromStream {
		return &libvirtxml.DomainDisk{
			Device: "cdrom",
			Driver: &libvirtxml.DomainDiskDriver{Name: "qemu", Type: "raw"},
			Source: &libvirtxml.DomainDiskSource{
				File: &libvirtxml.DomainDiskSourceFile{File: t.CDROM},
			},
			Target:   &libvirtxml.DomainDiskTarget{Dev: dev, Bus: t.CDROMBus},
			ReadOnly: &libvirtxml.DomainDiskReadOnly{},
		}, nil, nil
	}

	u, err := url.Parse(t.CDROM)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return nil, nil, invalidParameter(CodeBadMediaURL, t.CDROM)
	}

	port := 0
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, nil, invalidParameter(CodeBadMediaURL, t.CDROM)
		}
	} else {
		port, err = defaultPort(u.Scheme)
		if err != nil {
			return nil, nil, err
		}
	}

	host := u.Hostname()
	mediaURL := t.CDROM
	if !opts.StreamDNS {
		// The emulator may run where the management host's resolver is
		// not available, so bake the address in up front.
		addr, err := opts.resolveHost(host)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve media host %q: %w", host, err)
		}
		host = addr
		mediaURL = fmt.Sprintf("%s://%s:%d%s", u.Scheme, host, port, u.Path)
	}

	if !containsString(opts.StreamProtocols, u.Scheme) {
		return nil, qemuCDROMCommandline(mediaURL, t.CDROMBus), nil
	}

	return &libvirtxml.DomainDisk{
		Device: "cdrom",
		Driver: &libvirtxml.DomainDiskDriver{Name: "qemu", Type: "raw"},
		Source: &libvirtxml.DomainDiskSource{
			Network: &libvirtxml.DomainDiskSourceNetwork{
				Protocol: u.Scheme,
				Name:     u.Path,
				Hosts: []libvirtxml.DomainDiskSourceHost{
					{Name: host, Port: strconv.Itoa(port)},
				},
			},
		},
		Target:   &libvirtxml.DomainDiskTarget{Dev: dev, Bus: t.CDROMBus},
		ReadOnly: &libvirtxml.DomainDiskReadOnly{},
	}, nil, nil
}

// qemuCDROMCommandline emulates a cdrom on the second channel of the
// given bus, fed directly from the media URL.
func qemuCDROMCommandline(mediaURL, bus string) *libvirtxml.DomainQEMUCommandline {
	id := fmt.Sprintf("%s0-1-0", bus)
	return &libvirtxml.DomainQEMUCommandline{
		Args: []libvirtxml.DomainQEMUCommandlineArg{
			{Value: "-drive"},
			{Value: fmt.Sprintf("file=%s,if=none,id=drive-%s,readonly=on,format=raw", mediaURL, id)},
			{Value: "-device"},
			{Value: fmt.Sprintf("%s-cd,bus=%s.1,unit=0,drive=drive-%s,id=%s", bus, bus, id, id)},
		},
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
