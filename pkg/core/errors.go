package core

import (
	"fmt"
)

type errorString string

func (e errorString) Error() string { return string(e) }

var (
	// ErrRegistrySealed is returned by Register once serving has begun.
	ErrRegistrySealed = errorString("core: registry is sealed")
	// ErrNotFound marks a request target with no registered handler.
	ErrNotFound = errorString("core: no handler for target")
)

// ScanError reports a controller that could not be built or introspected.
// The scan continues past it.
type ScanError struct {
	Namespace  string
	Controller string
	Err        error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s/%s: %v", e.Namespace, e.Controller, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// DuplicateRouteError reports a route key that was already taken.
// The first registration stays in place.
type DuplicateRouteError struct {
	Key      string
	Existing string
	Rejected string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("route %q already handled by %s; rejected %s", e.Key, e.Existing, e.Rejected)
}

// InvocationError wraps a handler failure, returned or panicked.
type InvocationError struct {
	Key     string
	Handler string
	Panic   bool
	Err     error
}

func (e *InvocationError) Error() string {
	if e.Panic {
		return fmt.Sprintf("handler %s for %q panicked: %v", e.Handler, e.Key, e.Err)
	}
	return fmt.Sprintf("handler %s for %q failed: %v", e.Handler, e.Key, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }
