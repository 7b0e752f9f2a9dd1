package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ss23/kimchi/internal/template"
)

// TableFormatter formats kimchi resources as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits column headers when true.
	NoHeaders bool
}

// FormatVolumes formats volume descriptors as a table. The XML documents
// are omitted; use the yaml or json format to retrieve them.
func (f *TableFormatter) FormatVolumes(vols []template.VolumeDescriptor) (string, error) {
	if len(vols) == 0 {
		return "No volumes to create\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 8, 2, ' ', 0)

	if !f.NoHeaders {
		fmt.Fprintln(w, "NAME\tFORMAT\tCAPACITY\tALLOCATION\tBASE\tPATH")
	}

	for _, vol := range vols {
		base := "-"
		if vol.Base != nil {
			base = vol.Base.Path
		}
		fmt.Fprintf(w, "%s\t%s\t%d GiB\t%d GiB\t%s\t%s\n",
			vol.Name, vol.Format, vol.CapacityGiB, vol.AllocationGiB, base, vol.Path)
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush table writer: %w", err)
	}

	return buf.String(), nil
}

// FormatFindings formats integrity findings as a table.
func (f *TableFormatter) FormatFindings(findings template.Findings) (string, error) {
	if findings.Empty() {
		return "No dangling references found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 8, 2, ' ', 0)

	if !f.NoHeaders {
		fmt.Fprintln(w, "KIND\tRESOURCE")
	}

	for _, name := range findings.Networks {
		fmt.Fprintf(w, "network\t%s\n", name)
	}
	for _, name := range findings.StoragePools {
		fmt.Fprintf(w, "storagepool\t%s\n", name)
	}
	for _, name := range findings.CDROM {
		fmt.Fprintf(w, "cdrom\t%s\n", name)
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush table writer: %w", err)
	}

	return buf.String(), nil
}

// FormatOSDefaults formats a merged OS defaults entry as a settings table.
func (f *TableFormatter) FormatOSDefaults(defaults OSDefaults) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 8, 2, ' ', 0)

	if !f.NoHeaders {
		fmt.Fprintln(w, "SETTING\tVALUE")
	}

	e := defaults.Defaults
	fmt.Fprintf(w, "distro\t%s\n", defaults.Distro)
	fmt.Fprintf(w, "version\t%s\n", defaults.Version)
	fmt.Fprintf(w, "arch\t%s\n", e.Arch)
	fmt.Fprintf(w, "domain type\t%s\n", e.DomainType)
	fmt.Fprintf(w, "cpus\t%d\n", e.CPUs)
	fmt.Fprintf(w, "memory\t%d MiB\n", e.MemoryMiB)
	for _, d := range e.Disks {
		fmt.Fprintf(w, "disk %d\t%d GiB\n", d.Index, d.SizeGiB)
	}
	fmt.Fprintf(w, "disk bus\t%s\n", e.DiskBus)
	fmt.Fprintf(w, "nic model\t%s\n", e.NICModel)
	fmt.Fprintf(w, "cdrom bus\t%s\n", e.CDROMBus)
	fmt.Fprintf(w, "cdrom index\t%d\n", e.CDROMIndex)
	if e.MouseBus != "" {
		fmt.Fprintf(w, "mouse bus\t%s\n", e.MouseBus)
	}
	if e.KeyboardBus != "" {
		fmt.Fprintf(w, "keyboard bus\t%s\n", e.KeyboardBus)
	}
	if e.TabletBus != "" {
		fmt.Fprintf(w, "tablet bus\t%s\n", e.TabletBus)
	}
	if e.SoundModel != "" {
		fmt.Fprintf(w, "sound model\t%s\n", e.SoundModel)
	}
	fmt.Fprintf(w, "networks\t%s\n", strings.Join(e.Networks, ", "))
	fmt.Fprintf(w, "storage pool\t%s\n", e.StoragePool)
	fmt.Fprintf(w, "graphics\t%s on %s\n", e.Graphics.Type, e.Graphics.Listen)

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush table writer: %w", err)
	}

	return buf.String(), nil
}
