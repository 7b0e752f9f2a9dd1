package storage

import (
	"fmt"

	"github.com/digitalocean/go-libvirt"
)

// mockLibvirtClient is a mock implementation of LibvirtClient for testing.
type mockLibvirtClient struct {
	pools    map[string]*mockPool
	networks []string
}

type mockPool struct {
	name    string
	xmlDesc string
	volumes map[string]string // volume name -> path
}

func newMockLibvirtClient() *mockLibvirtClient {
	return &mockLibvirtClient{
		pools: make(map[string]*mockPool),
	}
}

// addPool registers a pool whose XML description reports the given
// libvirt type and target path.
func (m *mockLibvirtClient) addPool(name, libvirtType, path string) *mockPool {
	xmlDesc := fmt.Sprintf("<pool type=%q><name>%s</name>", libvirtType, name)
	if path != "" {
		xmlDesc += fmt.Sprintf("<target><path>%s</path></target>", path)
	}
	xmlDesc += "</pool>"

	pool := &mockPool{
		name:    name,
		xmlDesc: xmlDesc,
		volumes: make(map[string]string),
	}
	m.pools[name] = pool
	return pool
}

func (m *mockLibvirtClient) StoragePoolLookupByName(name string) (libvirt.StoragePool, error) {
	pool, ok := m.pools[name]
	if !ok {
		return libvirt.StoragePool{}, fmt.Errorf("storage pool not found: %s", name)
	}
	return libvirt.StoragePool{Name: pool.name}, nil
}

func (m *mockLibvirtClient) StoragePoolGetXMLDesc(pool libvirt.StoragePool, flags libvirt.StorageXMLFlags) (string, error) {
	p, ok := m.pools[pool.Name]
	if !ok {
		return "", fmt.Errorf("storage pool not found: %s", pool.Name)
	}
	return p.xmlDesc, nil
}

func (m *mockLibvirtClient) StorageVolLookupByName(pool libvirt.StoragePool, name string) (libvirt.StorageVol, error) {
	p, ok := m.pools[pool.Name]
	if !ok {
		return libvirt.StorageVol{}, fmt.Errorf("storage pool not found: %s", pool.Name)
	}
	if _, ok := p.volumes[name]; !ok {
		return libvirt.StorageVol{}, fmt.Errorf("storage volume not found: %s", name)
	}
	return libvirt.StorageVol{Pool: pool.Name, Name: name}, nil
}

func (m *mockLibvirtClient) StorageVolGetPath(vol libvirt.StorageVol) (string, error) {
	p, ok := m.pools[vol.Pool]
	if !ok {
		return "", fmt.Errorf("storage pool not found: %s", vol.Pool)
	}
	path, ok := p.volumes[vol.Name]
	if !ok {
		return "", fmt.Errorf("storage volume not found: %s", vol.Name)
	}
	return path, nil
}

func (m *mockLibvirtClient) ConnectListAllStoragePools(needResults int32, flags libvirt.ConnectListAllStoragePoolsFlags) ([]libvirt.StoragePool, uint32, error) {
	var result []libvirt.StoragePool
	for name := range m.pools {
		result = append(result, libvirt.StoragePool{Name: name})
	}
	return result, uint32(len(result)), nil
}

func (m *mockLibvirtClient) ConnectListAllNetworks(needResults int32, flags libvirt.ConnectListAllNetworksFlags) ([]libvirt.Network, uint32, error) {
	var result []libvirt.Network
	for _, name := range m.networks {
		result = append(result, libvirt.Network{Name: name})
	}
	return result, uint32(len(result)), nil
}
