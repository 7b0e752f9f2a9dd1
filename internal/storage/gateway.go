package storage

import (
	"context"
	"fmt"

	"github.com/digitalocean/go-libvirt"
	libvirtxml "libvirt.org/go/libvirtxml"
)

// LibvirtClient is the interface for the libvirt operations the gateway
// performs. This allows for dependency injection and testing.
type LibvirtClient interface {
	StoragePoolLookupByName(Name string) (libvirt.StoragePool, error)
	StoragePoolGetXMLDesc(Pool libvirt.StoragePool, Flags libvirt.StorageXMLFlags) (string, error)
	StorageVolLookupByName(Pool libvirt.StoragePool, Name string) (libvirt.StorageVol, error)
	StorageVolGetPath(Vol libvirt.StorageVol) (string, error)
	ConnectListAllStoragePools(NeedResults int32, Flags libvirt.ConnectListAllStoragePoolsFlags) ([]libvirt.StoragePool, uint32, error)
	ConnectListAllNetworks(NeedResults int32, Flags libvirt.ConnectListAllNetworksFlags) ([]libvirt.Network, uint32, error)
}

// Gateway resolves storage topology and inventory questions against a
// live libvirt connection.
type Gateway struct {
	client LibvirtClient
}

// NewGateway creates a storage gateway.
func NewGateway(client LibvirtClient) *Gateway {
	return &Gateway{
		client: client,
	}
}

// poolKindFor maps a libvirt pool type to the addressing vocabulary the
// template compiler dispatches on. Directory-like pools all address
// volumes as files under the pool's target path.
func poolKindFor(libvirtType string) string {
	switch libvirtType {
	case "logical", "scsi", "iscsi":
		return libvirtType
	case "iscsi-direct":
		return "iscsi"
	default:
		return "file"
	}
}

// poolXML looks up a pool and parses its XML description.
func (g *Gateway) poolXML(name string) (*libvirtxml.StoragePool, error) {
	pool, err := g.client.StoragePoolLookupByName(name)
	if err != nil {
		return nil, fmt.Errorf("pool not found: %w", err)
	}

	xmlDesc, err := g.client.StoragePoolGetXMLDesc(pool, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool XML: %w", err)
	}

	var poolDef libvirtxml.StoragePool
	if err := poolDef.Unmarshal(xmlDesc); err != nil {
		return nil, fmt.Errorf("failed to parse pool XML: %w", err)
	}

	return &poolDef, nil
}

// PoolKind classifies the named pool as "file", "logical", "scsi" or
// "iscsi".
func (g *Gateway) PoolKind(ctx context.Context, name string) (string, error) {
	poolDef, err := g.poolXML(name)
	if err != nil {
		return "", err
	}
	return poolKindFor(poolDef.Type), nil
}

// PoolPath returns the target path volumes of the named pool live under.
func (g *Gateway) PoolPath(ctx context.Context, name string) (string, error) {
	poolDef, err := g.poolXML(name)
	if err != nil {
		return "", err
	}
	if poolDef.Target == nil || poolDef.Target.Path == "" {
		return "", fmt.Errorf("pool %s has no target path", name)
	}
	return poolDef.Target.Path, nil
}

// VolumePath resolves a volume name within a pool to its backing device
// or file path.
func (g *Gateway) VolumePath(ctx context.Context, poolName, volumeName string) (string, error) {
	pool, err := g.client.StoragePoolLookupByName(poolName)
	if err != nil {
		return "", fmt.Errorf("pool not found: %w", err)
	}

	vol, err := g.client.StorageVolLookupByName(pool, volumeName)
	if err != nil {
		return "", fmt.Errorf("volume not found: %w", err)
	}

	path, err := g.client.StorageVolGetPath(vol)
	if err != nil {
		return "", fmt.Errorf("failed to get volume path: %w", err)
	}
	return path, nil
}

// NetworkNames returns the names of all defined networks, active or not.
func (g *Gateway) NetworkNames(ctx context.Context) ([]string, error) {
	nets, _, err := g.client.ConnectListAllNetworks(1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}

	names := make([]string, 0, len(nets))
	for _, net := range nets {
		names = append(names, net.Name)
	}
	return names, nil
}

// StoragePoolNames returns the names of all defined storage pools,
// active or not.
func (g *Gateway) StoragePoolNames(ctx context.Context) ([]string, error) {
	pools, _, err := g.client.ConnectListAllStoragePools(1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	names := make([]string, 0, len(pools))
	for _, pool := range pools {
		names = append(names, pool.Name)
	}
	return names, nil
}
