package template

import (
	"errors"
	"fmt"
)

// Kind classifies template failures.
type Kind string

const (
	// KindMissingParameter marks a required input that was not supplied.
	KindMissingParameter Kind = "MissingParameter"

	// KindInvalidParameter marks a supplied input that is malformed or
	// unusable.
	KindInvalidParameter Kind = "InvalidParameter"

	// KindMediaFormat marks install media or a base image whose format
	// could not be understood. It is a refinement of InvalidParameter:
	// IsInvalidParameter reports true for these errors too.
	KindMediaFormat Kind = "MediaFormat"
)

// Stable error codes. Callers match on these to present localized
// messages; the code for a given failure never changes across releases.
const (
	CodeNoInstallMedia   = "KCHTMPL0016E"
	CodeBadMediaPath     = "KCHTMPL0006E"
	CodeBadBaseFormat    = "KCHTMPL0024E"
	CodeBadDiskBus       = "KCHTMPL0030E"
	CodeDeviceIndexRange = "KCHTMPL0031E"
	CodeDuplicateDevice  = "KCHTMPL0032E"
	CodeBadGraphicsType  = "KCHTMPL0033E"
	CodeMissingDiskSize  = "KCHTMPL0034E"
	CodeMissingVolume    = "KCHTMPL0035E"
	CodeUnknownPort      = "KCHTMPL0036E"
	CodeBadMediaURL      = "KCHTMPL0037E"
	CodeBadISOMedia      = "KCHISO0001E"
	CodeBadBaseImage     = "KCHIMG0001E"
)

// messages maps each code to its user-facing text. The offending
// parameter is appended by Error.
var messages = map[string]string{
	CodeNoInstallMedia:   "template needs a cdrom or a disk with a base image to identify the guest OS",
	CodeBadMediaPath:     "invalid cdrom path, expected an absolute path or a http, https, ftp, ftps or tftp URL",
	CodeBadBaseFormat:    "unable to determine the format of the base image",
	CodeBadDiskBus:       "unsupported disk bus, expected ide, virtio or scsi",
	CodeDeviceIndexRange: "device index out of range, each bus supports at most 26 devices",
	CodeDuplicateDevice:  "two disks resolve to the same device name",
	CodeBadGraphicsType:  "unsupported graphics type, expected vnc or spice",
	CodeMissingDiskSize:  "disk needs a size or a base image to derive one from",
	CodeMissingVolume:    "disk needs a volume name for this storage topology",
	CodeUnknownPort:      "unable to determine the default port for the media protocol",
	CodeBadMediaURL:      "malformed media URL",
	CodeBadISOMedia:      "unable to read the ISO media",
	CodeBadBaseImage:     "unable to probe the base image",
}

// Error is a template failure with a stable code and the offending
// parameter value, so callers can build a precise message instead of
// showing a stack of wrapped strings.
type Error struct {
	Kind  Kind
	Code  string
	Param string
	cause error
}

func (e *Error) Error() string {
	msg, ok := messages[e.Code]
	if !ok {
		msg = "template error"
	}
	s := fmt.Sprintf("%s: %s", e.Code, msg)
	if e.Param != "" {
		s += fmt.Sprintf(": %q", e.Param)
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.cause
}

func missingParameter(code, param string) *Error {
	return &Error{Kind: KindMissingParameter, Code: code, Param: param}
}

func invalidParameter(code, param string) *Error {
	return &Error{Kind: KindInvalidParameter, Code: code, Param: param}
}

func mediaFormat(code, param string, cause error) *Error {
	return &Error{Kind: KindMediaFormat, Code: code, Param: param, cause: cause}
}

// IsMissingParameter reports whether err is a template error for an
// absent required input.
func IsMissingParameter(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindMissingParameter
}

// IsInvalidParameter reports whether err is a template error for an
// unusable input. Media format failures count as invalid parameters.
func IsInvalidParameter(err error) bool {
	var te *Error
	return errors.As(err, &te) && (te.Kind == KindInvalidParameter || te.Kind == KindMediaFormat)
}

// IsMediaFormat reports whether err is a template error for unreadable
// install media or a base image.
func IsMediaFormat(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindMediaFormat
}

// ErrorCode returns the stable code carried by err, or "" when err is
// not a template error.
func ErrorCode(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
