package template

import (
	"fmt"
	"strings"
)

// busDevPrefix maps a disk bus to the guest device name prefix for that
// bus. Buses outside this table cannot be expressed in a descriptor.
var busDevPrefix = map[string]string{
	"ide":    "hd",
	"virtio": "vd",
	"scsi":   "sd",
}

// maxDevicesPerBus caps how many devices one bus can carry: device names
// use a single trailing letter, so the 27th device has no name.
const maxDevicesPerBus = 26

// deviceName returns the guest device name for a bus and device-letter
// index: ("virtio", 1) becomes "vdb".
func deviceName(bus string, index int) (string, error) {
	prefix, ok := busDevPrefix[bus]
	if !ok {
		return "", invalidParameter(CodeBadDiskBus, bus)
	}
	if index < 0 || index >= maxDevicesPerBus {
		return "", invalidParameter(CodeDeviceIndexRange, fmt.Sprintf("%s index %d", bus, index))
	}
	return prefix + string(rune('a'+index)), nil
}

// volumeFileName returns the name of the pool volume backing one disk of
// a VM instance.
func volumeFileName(vmUUID string, index int) string {
	return fmt.Sprintf("%s-%d.img", vmUUID, index)
}

// PoolNameFromRef extracts the pool name from a reference of the form
// "/storagepools/<name>". A plain pool name passes through unchanged.
func PoolNameFromRef(ref string) string {
	s := strings.Trim(ref, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}
