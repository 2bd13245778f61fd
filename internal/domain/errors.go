package domain

import "errors"

// ErrNotFound is returned when a requested reference record does not exist.
// The segment resolver reports misses with a boolean instead; this sentinel is
// for lookups that callers surface, such as an unknown checkpoint.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. no stamps submitted, unknown stamp kind).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnknownTrail is returned when a trail program code is not recognised.
var ErrUnknownTrail = errors.New("unknown trail program")

// ErrMalformedStamp marks a stamp that cannot be ingested: no checkpoint
// version matches its stamp point at its time, or its timestamp is unusable.
// Malformed stamps are excluded from validation; they never abort a request.
var ErrMalformedStamp = errors.New("malformed stamp")

// ErrNoPathFound is returned by the best-path search when the trail start
// cannot be connected to the trail end. Callers report it as
// "trail not determinable" rather than as a server failure.
var ErrNoPathFound = errors.New("no path found")

// ErrAmbiguousTrailEndpoints is returned when more than one distinct start or
// end checkpoint is defined for a trail within the stamp date range.
var ErrAmbiguousTrailEndpoints = errors.New("ambiguous trail endpoints")

// ErrSnapshotUnavailable is returned when no reference snapshot has been
// loaded yet. Handlers should map this to HTTP 503.
var ErrSnapshotUnavailable = errors.New("reference snapshot unavailable")
