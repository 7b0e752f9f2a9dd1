package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Magic bytes and signatures for disk image format detection
var (
	// qcow2Magic is the magic at the start of QCOW2 files: "QFI" + 0xfb.
	// Reference: https://www.qemu.org/docs/master/interop/qcow2.html
	qcow2Magic = []byte{0x51, 0x46, 0x49, 0xfb}

	// mbrSignature is the boot sector signature at offset 510. GPT disks
	// carry it too, in the protective MBR of the first sector.
	mbrSignature = []byte{0x55, 0xaa}
)

// qcow2HeaderLen covers the fixed qcow2 header fields up to and including
// the virtual size, a big-endian uint64 at offset 24.
const qcow2HeaderLen = 32

// ImageInfo describes a disk image.
type ImageInfo struct {
	// Format is the image format ("qcow2", "raw"), or "" when it could
	// not be determined.
	Format string

	// VirtualSizeGiB is the guest-visible capacity in GiB, rounded up.
	VirtualSizeGiB uint64
}

// ImageProber inspects local disk images by reading magic bytes. It never
// mounts or boots the image, so the installed OS is always reported as
// unknown.
type ImageProber struct{}

// NewImageProber creates an image prober.
func NewImageProber() *ImageProber {
	return &ImageProber{}
}

// ProbeImage validates that path is a recognizable disk image. The OS on
// the image is not inspected, so a valid image always identifies as
// ("unknown", "unknown").
func (p *ImageProber) ProbeImage(ctx context.Context, path string) (string, string, error) {
	format, _, err := detectImage(path)
	if err != nil {
		return "", "", err
	}
	if format == "" {
		return "", "", fmt.Errorf("unsupported or invalid image %q: not qcow2 and missing boot sector signature", path)
	}
	return "unknown", "unknown", nil
}

// ImageInfo returns the format and virtual size of the image at path.
// A readable file in no recognized format yields an empty Format and a
// nil error; only I/O failures are errors.
func (p *ImageProber) ImageInfo(ctx context.Context, path string) (ImageInfo, error) {
	format, sizeBytes, err := detectImage(path)
	if err != nil {
		return ImageInfo{}, err
	}
	return ImageInfo{Format: format, VirtualSizeGiB: ceilGiB(sizeBytes)}, nil
}

// detectImage detects the image format from magic bytes and reports the
// virtual size in bytes.
//
// Detection rules:
//   - QCOW2: magic "QFI\xfb" at offset 0, virtual size from the header
//   - RAW: MBR signature 0x55 0xaa at offset 510, virtual size from the
//     file size
//
// Requiring a boot sector for raw images keeps arbitrary data files from
// passing as base images. Files matching neither rule return an empty
// format with a nil error.
func detectImage(path string) (string, uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open image file: %w", err)
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, qcow2HeaderLen)
	if _, err := io.ReadFull(f, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// Too small to hold any image header.
			return "", 0, nil
		}
		return "", 0, fmt.Errorf("failed to read image header: %w", err)
	}

	if bytes.Equal(header[:4], qcow2Magic) {
		return "qcow2", binary.BigEndian.Uint64(header[24:32]), nil
	}

	// Not QCOW2, check for a bootable RAW image.
	if _, err := f.Seek(510, io.SeekStart); err != nil {
		return "", 0, fmt.Errorf("failed to seek to boot sector signature: %w", err)
	}
	sig := make([]byte, 2)
	if _, err := io.ReadFull(f, sig); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return "", 0, nil
		}
		return "", 0, fmt.Errorf("failed to read boot sector signature: %w", err)
	}
	if !bytes.Equal(sig, mbrSignature) {
		return "", 0, nil
	}

	fi, err := f.Stat()
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat image file: %w", err)
	}
	return "raw", uint64(fi.Size()), nil
}

// ceilGiB converts a byte count to GiB, rounding up.
func ceilGiB(bytes uint64) uint64 {
	return (bytes + (1 << 30) - 1) >> 30
}
