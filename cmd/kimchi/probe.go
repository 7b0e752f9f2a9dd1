package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ss23/kimchi/internal/media"
)

// Probe commands
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe install media and disk images",
	Long: `Inspect install media and base disk images without compiling a
template.

These are the same probes a template resolution runs with --scan.`,
}

func init() {
	probeCmd.AddCommand(probeMediaCmd)
	probeCmd.AddCommand(probeImageCmd)
}

var probeMediaCmd = &cobra.Command{
	Use:   "media <path-or-url>",
	Short: "Identify the guest OS on install media",
	Long: `Read the volume label of an ISO image and identify the guest OS it
installs.

The media may be a local file or an HTTP(S) URL; remote images are read
with range requests, not downloaded.

Example:
  kimchi probe media http://mirror.example.com/isos/Fedora-17-x86_64-DVD.iso`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		distro, version, err := media.NewISOProber().ProbeMedia(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to probe media: %w", err)
		}

		fmt.Printf("Distro: %s\n", distro)
		fmt.Printf("Version: %s\n", version)
		return nil
	},
}

var probeImageCmd = &cobra.Command{
	Use:   "image <path>",
	Short: "Inspect a base disk image",
	Long: `Detect the format and virtual size of a local disk image.

Recognizes qcow2 images and raw images carrying a boot sector.

Example:
  kimchi probe image /var/lib/libvirt/images/fedora-base.qcow2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		info, err := media.NewImageProber().ImageInfo(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to probe image: %w", err)
		}
		if info.Format == "" {
			return fmt.Errorf("unrecognized image format: %s", args[0])
		}

		fmt.Printf("Format: %s\n", info.Format)
		fmt.Printf("Virtual size: %d GiB\n", info.VirtualSizeGiB)
		return nil
	},
}
