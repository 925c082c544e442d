package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Outbound clients and the lock
// return these (optionally wrapped) so services can translate them into
// domain errors.
//
//   - ErrNotFound: the upstream resource does not exist
//   - ErrForbidden: the upstream refused access to the resource
//   - ErrConflict: the resource is held by someone else
//   - ErrUnavailable: the upstream is temporarily unavailable
//   - ErrBadData: the upstream returned a payload that could not be interpreted
var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrBadData     = errors.New("bad data")
)
