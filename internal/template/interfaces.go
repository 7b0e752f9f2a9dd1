package template

import (
	"context"

	"github.com/ss23/kimchi/internal/media"
	"github.com/ss23/kimchi/internal/osinfo"
)

// OSLookup supplies the recommended defaults for a guest OS on a machine
// architecture. The zero value of BuildOptions uses osinfo.LookupForArch.
type OSLookup func(arch, distro, version string) osinfo.Entry

// MediaProber identifies the guest OS advertised by removable install
// media. This wraps the media package to allow for testing.
//
// In production, this is satisfied by *media.ISOProber.
// In tests, this is satisfied by mock implementations.
type MediaProber interface {
	// ProbeMedia returns the distro and version of the install media at
	// path, which may be a local file or a remote URL. Malformed media
	// fails with an error describing what could not be read.
	ProbeMedia(ctx context.Context, path string) (distro, version string, err error)
}

// ImageProber inspects base disk images.
//
// In production, this is satisfied by *media.ImageProber.
type ImageProber interface {
	// ProbeImage returns the distro and version of the OS installed on
	// the image, or ("unknown", "unknown") when undeterminable.
	ProbeImage(ctx context.Context, path string) (distro, version string, err error)

	// ImageInfo returns the image's format and virtual size.
	ImageInfo(ctx context.Context, path string) (media.ImageInfo, error)
}

// StorageGateway answers backend questions about storage pools.
//
// In production, this is satisfied by *storage.Gateway.
type StorageGateway interface {
	// PoolKind classifies a pool as one of the PoolKind tokens: "file"
	// for directory-like pools, "logical", "scsi" or "iscsi".
	PoolKind(ctx context.Context, pool string) (string, error)

	// PoolPath returns the target path volumes of the pool live under.
	PoolPath(ctx context.Context, pool string) (string, error)

	// VolumePath resolves a volume name within a pool to a device or
	// file path.
	VolumePath(ctx context.Context, pool, volume string) (string, error)
}

// Inventory enumerates live backend resources for integrity checking.
//
// In production, this is satisfied by *storage.Gateway.
type Inventory interface {
	// NetworkNames returns the names of all defined networks.
	NetworkNames(ctx context.Context) ([]string, error)

	// StoragePoolNames returns the names of all defined storage pools.
	StoragePoolNames(ctx context.Context) ([]string, error)
}

// ReachabilityChecker reports whether a local path or remote URL points
// at something that currently exists.
//
// In production, this is satisfied by *media.Reachability.
type ReachabilityChecker interface {
	IsReachable(ctx context.Context, pathOrURL string) bool
}
