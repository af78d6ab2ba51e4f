package db

import "errors"

// Error kinds the store reports. Callers match with errors.Is; the
// wrapped text carries the operation context.
var (
	// ErrNotFound: the referenced record, criterion or group does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a delete blocked by existing references, or a duplicate
	// record key.
	ErrConflict = errors.New("conflict")
	// ErrValidation: invalid target type, negative max score or an
	// out-of-range total.
	ErrValidation = errors.New("validation failed")
	// ErrStaleTotals: a record's cached totals could not be brought back in
	// line with its details; the record stays marked dirty for the next
	// reconcile pass.
	ErrStaleTotals = errors.New("stale totals")
)
