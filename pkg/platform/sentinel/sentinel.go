package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the procedure gateways
// return these (optionally wrapped) so services can translate them into domain
// errors with the right HTTP semantics.
//
// These represent factual states about rows, not validation failures:
// - ErrNotFound: row does not exist, or is soft-deleted and therefore invisible
// - ErrConflict: unique constraint, foreign-key dependency, or procedure-raised error
// - ErrInvalidState: row in wrong state for the requested operation
// - ErrUnavailable: store temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
