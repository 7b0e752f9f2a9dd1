package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ss23/kimchi/internal/libvirt"
	"github.com/ss23/kimchi/internal/storage"
)

// Backend commands
var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Inspect the libvirt backend",
	Long: `Inspect the libvirt daemon kimchi compiles against.

Compilation resolves storage topology and integrity checks enumerate
live resources, so a reachable backend is a prerequisite for most
commands.`,
}

func init() {
	backendCmd.AddCommand(backendStatusCmd)
}

var backendStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the libvirt daemon and display version and inventory information.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking libvirt backend...")

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

		fmt.Println("✓ Connected to libvirt daemon")

		if err := client.Ping(); err != nil {
			return fmt.Errorf("connection check failed: %w", err)
		}

		version, err := client.Version()
		if err != nil {
			return fmt.Errorf("failed to get libvirt version: %w", err)
		}
		fmt.Printf("✓ Libvirt version: %s\n", version)

		hostname, err := client.Libvirt().ConnectGetHostname()
		if err != nil {
			return fmt.Errorf("failed to get hostname: %w", err)
		}
		fmt.Printf("✓ Hypervisor hostname: %s\n", hostname)

		gw := storage.NewGateway(client.Libvirt())

		networks, err := gw.NetworkNames(ctx)
		if err != nil {
			return fmt.Errorf("failed to list networks: %w", err)
		}
		fmt.Printf("✓ Networks: %s\n", joinOrNone(networks))

		pools, err := gw.StoragePoolNames(ctx)
		if err != nil {
			return fmt.Errorf("failed to list storage pools: %w", err)
		}
		fmt.Printf("✓ Storage pools: %s\n", joinOrNone(pools))

		fmt.Println("\nBackend check successful!")
		return nil
	},
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "<none>"
	}
	return strings.Join(names, ", ")
}
