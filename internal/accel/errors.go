package accel

import "errors"

// ErrCapabilityUnsupported is returned by a capability check that the
// runtime does not implement at all (as opposed to answering "no").
// Callers treat it as "not available".
var ErrCapabilityUnsupported = errors.New("accel: capability check not supported on this runtime")

// ErrNoDevice is returned when a device is requested from a runtime that has none.
var ErrNoDevice = errors.New("accel: no device available")
