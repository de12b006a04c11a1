package core

import "errors"

// Sentinel errors for the failure taxonomy. Callers classify with errors.Is;
// handlers map each class to a status code and a generic client message,
// keeping upstream detail in the server log only.
var (
	// ErrValidation marks missing or malformed required input. Caller's
	// fault, never retried.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a lookup that matched no subject.
	ErrNotFound = errors.New("not found")

	// ErrUpstream marks a CRM that is unreachable or returned an
	// unexpected shape.
	ErrUpstream = errors.New("upstream error")

	// ErrConfiguration marks an operation attempted without the settings
	// it depends on.
	ErrConfiguration = errors.New("configuration error")

	// ErrPersist marks a storage write failure. It does not invalidate an
	// artifact already written to the file store.
	ErrPersist = errors.New("persist error")

	// ErrRender marks a template or PDF engine failure, fatal to the
	// request with no partial output.
	ErrRender = errors.New("render error")
)
