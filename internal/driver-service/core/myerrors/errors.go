package myerrors

import "errors"

var (
	ErrOnlyDrivers    = errors.New("only drivers can perform this action")
	ErrDriverNotFound = errors.New("driver profile not found")

	// ErrDriverUnavailable: the locked driver row is unavailable or
	// already carries an active ride.
	ErrDriverUnavailable = errors.New("you are not available or already have an active ride")

	// ErrRideUnavailable: the pending cache row is gone or no longer
	// pending; the loser of a concurrent accept lands here.
	ErrRideUnavailable = errors.New("ride not found, already accepted, or not pending")

	ErrNotAssigned = errors.New("you are not assigned to this ride")
)
