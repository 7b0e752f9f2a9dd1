package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ss23/kimchi/internal/libvirt"
	"github.com/ss23/kimchi/internal/output"
	"github.com/ss23/kimchi/internal/storage"
)

func init() {
	addOutputFlags(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <template.yaml>",
	Short: "Check a template against the live environment",
	Long: `Check the template's references to networks, the storage pool and the
install media against the live environment.

Dangling references are reported as findings; the command only fails
when the environment itself cannot be inspected.

Example:
  kimchi check fedora.yaml`,
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
		tpl, err := buildTemplate(ctx, args[0], gw, false)
		if err != nil {
			return err
		}

		findings, err := tpl.CheckIntegrity(ctx)
		if err != nil {
			return fmt.Errorf("failed to check template: %w", err)
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatFindings(findings)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}
