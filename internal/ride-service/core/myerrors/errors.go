package myerrors

import "errors"

var (
	ErrInvalidInput  = errors.New("pickup and destination are required")
	ErrOnlyRiders    = errors.New("only riders can send ride requests")
	ErrRideNotFound  = errors.New("ride not found")
	ErrInvalidStatus = errors.New("invalid ride status for update")
	ErrMissingDriver = errors.New("driver id and username are required for accepted status")

	// ErrStateConflict means the guarded update matched zero rows: the
	// ride is not in the expected state or belongs to another driver.
	// Concurrent and replayed updates land here; it is not a hard error.
	ErrStateConflict = errors.New("ride not in the expected state")
)
