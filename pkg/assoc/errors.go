package assoc

import "errors"

var (
	// ErrOutOfRange is returned by lookups and erasures of keys or positions that are not present.
	ErrOutOfRange = errors.New("key out of range")
	// ErrCorrupt is returned by invariant checks when an engine's structure is inconsistent.
	ErrCorrupt = errors.New("container structure is corrupt")
)
