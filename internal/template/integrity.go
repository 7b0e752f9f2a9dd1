package template

import (
	"context"
	"fmt"
)

// Findings lists the template references that no longer resolve against
// the live environment. Each field names the offending values.
type Findings struct {
	Networks     []string `json:"networks,omitempty" yaml:"networks,omitempty"`
	StoragePools []string `json:"storagepools,omitempty" yaml:"storagepools,omitempty"`
	CDROM        []string `json:"cdrom,omitempty" yaml:"cdrom,omitempty"`
}

// Empty reports whether every reference checked out.
func (f Findings) Empty() bool {
	return len(f.Networks) == 0 && len(f.StoragePools) == 0 && len(f.CDROM) == 0
}

// CheckIntegrity verifies the template's references to networks, the
// storage pool and the install media against the live environment.
// Dangling references are reported as findings, not errors; the error
// return is reserved for failures to inspect the environment itself.
func (t *Template) CheckIntegrity(ctx context.Context) (Findings, error) {
	var findings Findings

	if t.inventory == nil {
		return findings, fmt.Errorf("no inventory configured")
	}

	networks, err := t.inventory.NetworkNames(ctx)
	if err != nil {
		return findings, fmt.Errorf("failed to list networks: %w", err)
	}
	known := make(map[string]bool, len(networks))
	for _, name := range networks {
		known[name] = true
	}
	for _, name := range t.Networks {
		if !known[name] {
			findings.Networks = append(findings.Networks, name)
		}
	}

	pools, err := t.inventory.StoragePoolNames(ctx)
	if err != nil {
		return findings, fmt.Errorf("failed to list storage pools: %w", err)
	}
	pool := t.PoolName()
	if !containsString(pools, pool) {
		findings.StoragePools = append(findings.StoragePools, pool)
	}

	if t.CDROM != "" {
		if t.reach == nil {
			return findings, fmt.Errorf("no reachability checker configured")
		}
		if !t.reach.IsReachable(ctx, t.CDROM) {
			findings.CDROM = append(findings.CDROM, t.CDROM)
		}
	}

	return findings, nil
}
