package contract

import "errors"

// Error taxonomy. Producers wrap one of these with fmt.Errorf("%w: ...") so
// callers can dispatch with errors.Is; at the tool-server boundary every kind
// collapses to the message string of an error result.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream request failed")
	ErrIO         = errors.New("storage access failed")
)
