package sfv

import "sfvtool/internal/digest"

// Status is the result of checking one record against disk.
type Status string

const (
	StatusOK         Status = "ok"
	StatusMismatch   Status = "mismatch"
	StatusMissing    Status = "missing"
	StatusUnreadable Status = "unreadable"
)

// Outcome carries what Validate collapses into a bool.
type Outcome struct {
	Record Record
	Status Status

	// Computed is only meaningful for StatusOK and StatusMismatch.
	Computed uint32

	// Err is set for StatusMissing and StatusUnreadable.
	Err error
}

func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

// ComputedHex returns the recomputed checksum, or "" when the file could
// not be read.
func (o Outcome) ComputedHex() string {
	if o.Status != StatusOK && o.Status != StatusMismatch {
		return ""
	}
	return digest.Hex(o.Computed)
}
