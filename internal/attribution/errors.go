package attribution

import "errors"

var (
	// ErrDataUnavailable is returned when a day has no earnings or reserve bucket,
	// or when the datasets for it could not be fetched.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrUnknownChain is returned for chains missing from the engine's chain table.
	ErrUnknownChain = errors.New("unknown chain")
)
