package memscan

import "errors"

// Sentinel errors for the taxonomy in spec.md §7. Most are returned wrapped
// with context via fmt.Errorf("...: %w", ...) so errors.Is still matches the
// sentinel while the message carries context such as the pid and address;
// ErrUnsupportedPlatform is returned unwrapped.
var (
	// OpenError kinds.
	ErrProcessNotFound = errors.New("memscan: process not found")
	ErrAccessDenied    = errors.New("memscan: access denied")
	ErrOpenOther       = errors.New("memscan: failed to open process")

	// ReadError kinds.
	ErrShortRead  = errors.New("memscan: short read")
	ErrUnreadable = errors.New("memscan: address unreadable")

	// WriteError kinds.
	ErrShortWrite = errors.New("memscan: short write")
	ErrUnwritable = errors.New("memscan: address unwritable")

	// ScanError kinds.
	ErrWidthMismatch     = errors.New("memscan: width mismatch")
	ErrNotPopulated      = errors.New("memscan: scan has no candidates yet")
	ErrKindNotConfigured = errors.New("memscan: scan has no configured value kind")

	// ErrUnsupportedPlatform is returned by every Platform Memory Access
	// primitive on a host OS with no implementation (spec.md §9, Open
	// Question: this module targets windows and linux only).
	ErrUnsupportedPlatform = errors.New("memscan: unsupported platform")
)
