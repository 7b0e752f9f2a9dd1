package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ss23/kimchi/internal/config"
	"github.com/ss23/kimchi/internal/libvirt"
	"github.com/ss23/kimchi/internal/media"
	"github.com/ss23/kimchi/internal/output"
	"github.com/ss23/kimchi/internal/storage"
	"github.com/ss23/kimchi/internal/template"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kimchi",
	Short: "Kimchi - VM template compiler for libvirt",
	Long: `Kimchi compiles declarative VM templates into libvirt domain and
storage volume descriptors.

A template names a guest OS, install media and hardware parameters;
kimchi fills in the recommended settings for the guest, resolves the
storage topology against the libvirt backend and emits the XML
descriptors a VM instance needs.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

var (
	socketPath   string
	outputFormat string
	noHeaders    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "",
		"Path to the libvirt socket (default /var/run/libvirt/libvirt-sock)")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(volumesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(osinfoCmd)
	rootCmd.AddCommand(backendCmd)
}

// addOutputFlags registers the shared output flags on commands that print
// formatted resources.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, yaml, json)")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Omit headers in table output")
}

// buildTemplate loads a template file and resolves it against the backend
// behind the given gateway.
func buildTemplate(ctx context.Context, path string, gw *storage.Gateway, scan bool) (*template.Template, error) {
	res, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	tpl, err := template.New(ctx, res.Name, res.Spec, template.BuildOptions{
		Scan:      scan,
		Media:     media.NewISOProber(),
		Images:    media.NewImageProber(),
		Storage:   gw,
		Inventory: gw,
		Reach:     media.NewReachability(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template: %w", err)
	}

	return tpl, nil
}

var (
	compileVMName          string
	compileVMUUID          string
	compileScan            bool
	compileGraphicsType    string
	compileGraphicsListen  string
	compileStreamProtocols []string
	compileStreamDNS       bool
)

func init() {
	compileCmd.Flags().StringVar(&compileVMName, "vm-name", "", "Name of the VM instance (default: the template name)")
	compileCmd.Flags().StringVar(&compileVMUUID, "vm-uuid", "", "UUID of the VM instance (default: generated)")
	compileCmd.Flags().BoolVar(&compileScan, "scan", false, "Probe the install media to identify the guest OS")
	compileCmd.Flags().StringVar(&compileGraphicsType, "graphics-type", "", "Override the display type (vnc, spice)")
	compileCmd.Flags().StringVar(&compileGraphicsListen, "graphics-listen", "", "Override the display listen address")
	compileCmd.Flags().StringSliceVar(&compileStreamProtocols, "stream-protocol", nil,
		"URL scheme the management layer streams natively (repeatable)")
	compileCmd.Flags().BoolVar(&compileStreamDNS, "stream-dns", false, "Keep hostnames in remote media URLs")
}

var compileCmd = &cobra.Command{
	Use:   "compile <template.yaml>",
	Short: "Compile a template into a domain descriptor",
	Long: `Compile a VM template into a libvirt domain XML descriptor.

The template file defines the guest OS, install media, disks, networks
and display settings. Kimchi resolves the storage pool topology against
the libvirt backend, so a running libvirtd is required.

Example:
  kimchi compile fedora.yaml --vm-name f17-build-01 --scan`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		client, err := libvirt.Connect(socketPath, 5*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to libvirt: %w", err)
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", closeErr)
			}
		}()

		gw := storage.NewGateway(client.Libvirt())
		tpl, err := buildTemplate(ctx, args[0], gw, compileScan)
		if err != nil {
			return err
		}

		vmName := compileVMName
		if vmName == "" {
			vmName = tpl.Name
		}
		vmUUID := compileVMUUID
		if vmUUID == "" {
			vmUUID = uuid.New().String()
		}

		opts := template.CompileOptions{
			StreamProtocols: compileStreamProtocols,
			StreamDNS:       compileStreamDNS,
		}
		if compileGraphicsType != "" || compileGraphicsListen != "" {
			opts.Graphics = &template.Graphics{
				Type:   compileGraphicsType,
				Listen: compileGraphicsListen,
			}
		}

		xml, err := tpl.DomainXML(ctx, vmName, vmUUID, opts)
		if err != nil {
			return fmt.Errorf("failed to compile domain descriptor: %w", err)
		}

		fmt.Println(xml)
		return nil
	},
}

var (
	volumesVMUUID string
	volumesScan   bool
)

func init() {
	volumesCmd.Flags().StringVar(&volumesVMUUID, "vm-uuid", "", "UUID of the VM instance (default: generated)")
	volumesCmd.Flags().BoolVar(&volumesScan, "scan", false, "Probe the install media to identify the guest OS")
	addOutputFlags(volumesCmd)
}

var volumesCmd = &cobra.Command{
	Use:   "volumes <template.yaml>",
	Short: "Compile the storage volumes for a template",
	Long: `Compile the storage volume descriptors a VM instance built from the
template needs, in disk order.

Topologies that attach pre-existing volumes (scsi, iscsi) produce no
volumes to create. The table format omits the XML documents; use -o yaml
or -o json to retrieve them.

Example:
  kimchi volumes fedora.yaml -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.ValidateFormat(outputFormat); err != nil {
			return err
		}

		ctx := context.Background()

		client, err := libvirt.Connect(socketPath, 5*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to libvirt: %w", err)
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", closeErr)
			}
		}()

		gw := storage.NewGateway(client.Libvirt())
		tpl, err := buildTemplate(ctx, args[0], gw, volumesScan)
		if err != nil {
			return err
		}

		vmUUID := volumesVMUUID
		if vmUUID == "" {
			vmUUID = uuid.New().String()
		}

		vols, err := tpl.VolumeDescriptors(ctx, vmUUID)
		if err != nil {
			return fmt.Errorf("failed to compile volume descriptors: %w", err)
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatVolumes(vols)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}
