// Package storage answers the backend questions the template compiler
// asks about libvirt storage: how a pool addresses its volumes, where a
// pool keeps its files, and what a named volume resolves to on disk.
//
// # Gateway
//
// Gateway wraps a go-libvirt connection behind the small LibvirtClient
// interface so tests can substitute a fake. It satisfies both the
// template package's StorageGateway and Inventory interfaces.
//
// # Pool classification
//
// Libvirt knows many pool types (dir, fs, netfs, logical, scsi, iscsi,
// zfs, ...), but the compiler only cares which addressing model applies.
// PoolKind collapses the libvirt type into four tokens: "logical",
// "scsi", "iscsi", and "file" for everything that stores volumes as
// plain files under a target path.
//
// # Inventory
//
// NetworkNames and StoragePoolNames enumerate defined resources for
// template integrity checks. Both include inactive resources: a
// template referencing a stopped network is still consistent.
package storage
