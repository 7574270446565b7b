package store

import "errors"

// Sentinel errors returned by the order store. Callers match them with
// errors.Is; wrapped chains keep the underlying cause for logging.
var (
	// ErrLocked means the target day is past its cutoff and read-only.
	ErrLocked = errors.New("order day is locked")

	// ErrInvalidArgument means the status/extras combination is malformed.
	ErrInvalidArgument = errors.New("invalid order arguments")

	// ErrStaffNotFound means the staff ID is not on the active roster.
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrStorage means the underlying database failed; not retried here.
	ErrStorage = errors.New("order storage unavailable")
)
