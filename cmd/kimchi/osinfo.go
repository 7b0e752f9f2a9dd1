package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ss23/kimchi/internal/osinfo"
	"github.com/ss23/kimchi/internal/output"
)

var osinfoArch string

func init() {
	osinfoCmd.Flags().StringVar(&osinfoArch, "arch", "", "Machine architecture (default: the host architecture)")
	addOutputFlags(osinfoCmd)
}

var osinfoCmd = &cobra.Command{
	Use:   "osinfo [distro [version]]",
	Short: "Show recommended settings for a guest OS",
	Long: `Show the recommended VM settings for a guest OS, as a template
resolution would apply them.

Unknown distros and omitted arguments fall back to the conservative
generic profile.

Example:
  kimchi osinfo ubuntu 14.04 --arch x86_64`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.ValidateFormat(outputFormat); err != nil {
			return err
		}

		distro, version := "unknown", "unknown"
		if len(args) > 0 {
			distro = args[0]
		}
		if len(args) > 1 {
			version = args[1]
		}

		arch := osinfoArch
		if arch == "" {
			arch = osinfo.HostArch()
		}

		entry := osinfo.LookupForArch(arch, distro, version)

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatOSDefaults(output.OSDefaults{
			Distro:   distro,
			Version:  version,
			Defaults: entry,
		})
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}
