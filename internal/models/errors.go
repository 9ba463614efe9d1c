package models

import "errors"

// Error taxonomy shared by the store adapter, services and handlers.
var (
	// ErrValidation is returned for malformed or out-of-range input, before any store call.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced restaurant or review has no backing record.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable is returned for any network or store-side fault.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUpstreamUnavailable is returned when the weather provider answers non-OK.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrConsistencyFault is returned when one half of a paired write landed without the other.
	ErrConsistencyFault = errors.New("consistency fault")
)

// Stable machine-readable error kinds.
const (
	KindValidation          = "validation"
	KindNotFound            = "not_found"
	KindStoreUnavailable    = "store_unavailable"
	KindUpstreamUnavailable = "upstream_unavailable"
	KindConsistencyFault    = "consistency_fault"
	KindInternal            = "internal"
)

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrConsistencyFault):
		return KindConsistencyFault
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}
