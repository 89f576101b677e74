package burst

import "errors"

var (
	// ErrBeatWidth is returned for a beat whose payload is not exactly one store beat wide.
	ErrBeatWidth = errors.New("beat width does not match store")

	// ErrBurstOverflow is returned for a beat that would grow a burst past L beats
	// without an end marker.
	ErrBurstOverflow = errors.New("burst exceeds segment capacity")

	// ErrStoreGeometry is returned when a supplied store has a different shape.
	ErrStoreGeometry = errors.New("store geometry mismatch")
)
