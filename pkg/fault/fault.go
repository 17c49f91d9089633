// Package fault defines the error kinds shared by the interchange engine.
// Fatal kinds abort an export or import; non-fatal kinds are reported
// per item as diagnostics while the operation carries on.
package fault

import (
	"errors"
	"fmt"
)

// Kind is a coarse-grained classification of an engine failure.
type Kind string

const (
	KindInvalidValue        Kind = "invalid_value"
	KindMalformedDocument   Kind = "malformed_document"
	KindNoExtrusionFound    Kind = "no_extrusion_found"
	KindProfileRead         Kind = "profile_read_error"
	KindNoHostView          Kind = "no_host_view_available"
	KindParameterBinding    Kind = "parameter_binding_failure"
	KindDimensionResolution Kind = "dimension_resolution_failure"
	KindHost                Kind = "host_failure"
)

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrInvalidValue        = errors.New("invalid value")
	ErrMalformedDocument   = errors.New("malformed document")
	ErrNoExtrusionFound    = errors.New("no extrusion found")
	ErrProfileRead         = errors.New("profile read error")
	ErrNoHostView          = errors.New("no host view available")
	ErrParameterBinding    = errors.New("parameter binding failure")
	ErrDimensionResolution = errors.New("dimension resolution failure")
	ErrHost                = errors.New("host failure")
)

var sentinels = map[Kind]error{
	KindInvalidValue:        ErrInvalidValue,
	KindMalformedDocument:   ErrMalformedDocument,
	KindNoExtrusionFound:    ErrNoExtrusionFound,
	KindProfileRead:         ErrProfileRead,
	KindNoHostView:          ErrNoHostView,
	KindParameterBinding:    ErrParameterBinding,
	KindDimensionResolution: ErrDimensionResolution,
	KindHost:                ErrHost,
}

// Fatal reports whether a failure of this kind aborts the whole operation.
func (k Kind) Fatal() bool {
	switch k {
	case KindParameterBinding, KindDimensionResolution:
		return false
	default:
		return true
	}
}

// Sentinel returns the sentinel error for the kind, or nil if unknown.
func (k Kind) Sentinel() error {
	return sentinels[k]
}

// Error wraps an underlying error with the operation, the kind and the
// subject (parameter name, curve index, ...) it concerns.
type Error struct {
	Op      string
	Kind    Kind
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Subject != "" {
		base += fmt.Sprintf(" (%s)", e.Subject)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel of the error's kind, so that
// errors.Is(err, fault.ErrProfileRead) works on wrapped errors.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	s := e.Kind.Sentinel()
	return s != nil && s == target
}

// New builds an *Error.
func New(op string, kind Kind, subject string, err error) *Error {
	return &Error{Op: op, Kind: kind, Subject: subject, Err: err}
}

// Errorf builds an *Error whose cause is a formatted message.
func Errorf(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Diagnostic records a non-fatal, per-item skip together with its reason.
type Diagnostic struct {
	Kind    Kind
	Subject string
	Err     error
}

func (d Diagnostic) String() string {
	if d.Subject == "" {
		return fmt.Sprintf("%s: %v", d.Kind, d.Err)
	}
	return fmt.Sprintf("%s (%s): %v", d.Kind, d.Subject, d.Err)
}

// Diagnose converts err into a Diagnostic, keeping its kind when it has one.
func Diagnose(kind Kind, subject string, err error) Diagnostic {
	if k, ok := KindOf(err); ok {
		kind = k
	}
	return Diagnostic{Kind: kind, Subject: subject, Err: err}
}
