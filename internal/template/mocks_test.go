package template

import (
	"context"
	"sync"

	"github.com/ss23/kimchi/internal/media"
)

// mockMediaProber is a mock implementation of the MediaProber interface
// for testing.
type mockMediaProber struct {
	mu sync.Mutex

	// Configurable behavior
	probeMediaFunc func(ctx context.Context, path string) (string, string, error)

	// Call tracking
	probeMediaCalls []string
}

// newMockMediaProber creates a new mock media prober with default behavior.
func newMockMediaProber() *mockMediaProber {
	return &mockMediaProber{
		// Default: media identifies as fedora 17
		probeMediaFunc: func(ctx context.Context, path string) (string, string, error) {
			return "fedora", "17", nil
		},
	}
}

func (m *mockMediaProber) ProbeMedia(ctx context.Context, path string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeMediaCalls = append(m.probeMediaCalls, path)
	return m.probeMediaFunc(ctx, path)
}

// mockImageProber is a mock implementation of the ImageProber interface
// for testing.
type mockImageProber struct {
	mu sync.Mutex

	// Configurable behavior
	probeImageFunc func(ctx context.Context, path string) (string, string, error)
	imageInfoFunc  func(ctx context.Context, path string) (media.ImageInfo, error)

	// Call tracking
	probeImageCalls []string
	imageInfoCalls  []string
}

// newMockImageProber creates a new mock image prober with default behavior.
func newMockImageProber() *mockImageProber {
	return &mockImageProber{
		// Default: OS on the image cannot be identified
		probeImageFunc: func(ctx context.Context, path string) (string, string, error) {
			return "unknown", "unknown", nil
		},
		// Default: 10 GiB qcow2 image
		imageInfoFunc: func(ctx context.Context, path string) (media.ImageInfo, error) {
			return media.ImageInfo{Format: "qcow2", VirtualSizeGiB: 10}, nil
		},
	}
}

func (m *mockImageProber) ProbeImage(ctx context.Context, path string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeImageCalls = append(m.probeImageCalls, path)
	return m.probeImageFunc(ctx, path)
}

func (m *mockImageProber) ImageInfo(ctx context.Context, path string) (media.ImageInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageInfoCalls = append(m.imageInfoCalls, path)
	return m.imageInfoFunc(ctx, path)
}

// mockStorageGateway is a mock implementation of the StorageGateway
// interface for testing.
type mockStorageGateway struct {
	mu sync.Mutex

	// Configurable behavior
	poolKindFunc   func(ctx context.Context, pool string) (string, error)
	poolPathFunc   func(ctx context.Context, pool string) (string, error)
	volumePathFunc func(ctx context.Context, pool, volume string) (string, error)

	// Call tracking
	poolKindCalls   []string
	poolPathCalls   []string
	volumePathCalls []string // format: "pool/volume"
}

// newMockStorageGateway creates a new mock storage gateway with default
// behavior.
func newMockStorageGateway() *mockStorageGateway {
	return &mockStorageGateway{
		// Default: plain directory pool
		poolKindFunc: func(ctx context.Context, pool string) (string, error) {
			return PoolKindFile, nil
		},
		poolPathFunc: func(ctx context.Context, pool string) (string, error) {
			return "/var/lib/libvirt/images", nil
		},
		volumePathFunc: func(ctx context.Context, pool, volume string) (string, error) {
			return "/dev/disk/by-id/" + volume, nil
		},
	}
}

func (m *mockStorageGateway) PoolKind(ctx context.Context, pool string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poolKindCalls = append(m.poolKindCalls, pool)
	return m.poolKindFunc(ctx, pool)
}

func (m *mockStorageGateway) PoolPath(ctx context.Context, pool string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poolPathCalls = append(m.poolPathCalls, pool)
	return m.poolPathFunc(ctx, pool)
}

func (m *mockStorageGateway) VolumePath(ctx context.Context, pool, volume string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumePathCalls = append(m.volumePathCalls, pool+"/"+volume)
	return m.volumePathFunc(ctx, pool, volume)
}

// mockInventory is a mock implementation of the Inventory interface for
// testing.
type mockInventory struct {
	mu sync.Mutex

	// Configurable behavior
	networkNamesFunc     func(ctx context.Context) ([]string, error)
	storagePoolNamesFunc func(ctx context.Context) ([]string, error)

	// Call tracking
	networkNamesCalls     int
	storagePoolNamesCalls int
}

// newMockInventory creates a new mock inventory with default behavior.
func newMockInventory() *mockInventory {
	return &mockInventory{
		// Default: only the stock resources exist
		networkNamesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"default"}, nil
		},
		storagePoolNamesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"default"}, nil
		},
	}
}

func (m *mockInventory) NetworkNames(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.networkNamesCalls++
	return m.networkNamesFunc(ctx)
}

func (m *mockInventory) StoragePoolNames(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storagePoolNamesCalls++
	return m.storagePoolNamesFunc(ctx)
}

// mockReachability is a mock implementation of the ReachabilityChecker
// interface for testing.
type mockReachability struct {
	mu sync.Mutex

	// Configurable behavior
	isReachableFunc func(ctx context.Context, pathOrURL string) bool

	// Call tracking
	isReachableCalls []string
}

// newMockReachability creates a new mock reachability checker with
// default behavior.
func newMockReachability() *mockReachability {
	return &mockReachability{
		// Default: everything is reachable
		isReachableFunc: func(ctx context.Context, pathOrURL string) bool {
			return true
		},
	}
}

func (m *mockReachability) IsReachable(ctx context.Context, pathOrURL string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isReachableCalls = append(m.isReachableCalls, pathOrURL)
	return m.isReachableFunc(ctx, pathOrURL)
}

// testBuildOptions returns build options wired to fresh default mocks.
func testBuildOptions() (BuildOptions, *mockStorageGateway) {
	gateway := newMockStorageGateway()
	return BuildOptions{
		Media:     newMockMediaProber(),
		Images:    newMockImageProber(),
		Storage:   gateway,
		Inventory: newMockInventory(),
		Reach:     newMockReachability(),
	}, gateway
}
