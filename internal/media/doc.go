// Package media inspects install media and disk images.
//
// It provides the production implementations of the template package's
// prober interfaces:
//   - ISOProber reads the primary volume descriptor label of ISO9660
//     media, local or remote, and derives the guest OS from it
//   - ImageProber detects disk image formats from magic bytes and reads
//     the guest-visible size from the qcow2 header
//   - Reachability answers whether referenced media still exists
//
// Remote ISOs are read through HTTP range requests, so identifying a
// multi-gigabyte image costs a few sectors of transfer.
package media
