// Package domain contains the governance-zone entities and the failure
// taxonomy shared by the metadata client and the metadata server.
// Failures are infrastructure-agnostic: adapters encode them onto the wire
// and decode them back into the same variant.
package domain

import (
	"errors"
)

// FailureKind is the wire tag that selects a failure variant.
type FailureKind string

// Failure tags. Matching is case-sensitive.
const (
	KindInvalidParameter       FailureKind = "invalid-parameter"
	KindUnauthorized           FailureKind = "unauthorized"
	KindUnrecognizedIdentifier FailureKind = "unrecognized-identifier"
	KindDuplicateValue         FailureKind = "duplicate-value"
	KindPropertyServerFailure  FailureKind = "property-server-failure"
)

// Known reports whether k is one of the defined failure tags.
func (k FailureKind) Known() bool {
	switch k {
	case KindInvalidParameter, KindUnauthorized, KindUnrecognizedIdentifier,
		KindDuplicateValue, KindPropertyServerFailure:
		return true
	default:
		return false
	}
}

// Sentinel errors for use with errors.Is().
var (
	// ErrInvalidParameter indicates a request parameter was rejected.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnauthorized indicates the caller's identity was missing or refused.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnrecognizedIdentifier indicates an identifier did not resolve to an element.
	ErrUnrecognizedIdentifier = errors.New("unrecognized identifier")

	// ErrDuplicateValue indicates a value that must be unique already exists.
	ErrDuplicateValue = errors.New("duplicate value")

	// ErrPropertyServer indicates the metadata server or the path to it failed.
	ErrPropertyServer = errors.New("property server failure")
)

// FailureInfo holds the fields every failure variant carries.
type FailureInfo struct {
	// Code is the catalog entry the failure was built from. Failures decoded
	// from the wire leave it empty; the server does not transmit it.
	Code ErrorCode

	StatusCode   int
	Message      string
	SystemAction string
	UserAction   string

	// Operation is the name of the operation that raised the failure.
	Operation string
}

// Info returns the common failure fields.
func (i FailureInfo) Info() FailureInfo {
	return i
}

func (i FailureInfo) text(kind FailureKind) string {
	if i.Message != "" {
		return i.Message
	}

	if i.Operation != "" {
		return string(kind) + " in " + i.Operation
	}

	return string(kind)
}

// NewFailureInfo builds the common fields from a catalog entry.
func NewFailureInfo(code ErrorCode, operation string, args ...any) FailureInfo {
	d := Lookup(code)

	return FailureInfo{
		Code:         d.Code,
		StatusCode:   d.StatusCode,
		Message:      d.Format(args...),
		SystemAction: d.SystemAction,
		UserAction:   d.UserAction,
		Operation:    operation,
	}
}

// TypedFailure is the closed set of failures an operation can raise.
// The unexported method keeps the set sealed to this package.
type TypedFailure interface {
	error
	Kind() FailureKind
	Info() FailureInfo
	sealed()
}

// InvalidParameterError reports a rejected request parameter.
type InvalidParameterError struct {
	FailureInfo
	ParameterName string
}

// Error implements the error interface.
func (e *InvalidParameterError) Error() string { return e.text(KindInvalidParameter) }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }

// Kind returns the failure tag.
func (e *InvalidParameterError) Kind() FailureKind { return KindInvalidParameter }

func (e *InvalidParameterError) sealed() {}

// NewInvalidParameterError builds the failure from a catalog entry. The
// message arguments are the operation, the parameter name, then args.
func NewInvalidParameterError(code ErrorCode, operation, parameterName string, args ...any) *InvalidParameterError {
	return &InvalidParameterError{
		FailureInfo:   NewFailureInfo(code, operation, append([]any{operation, parameterName}, args...)...),
		ParameterName: parameterName,
	}
}

// UnauthorizedError reports a missing or refused caller identity.
type UnauthorizedError struct {
	FailureInfo
}

// Error implements the error interface.
func (e *UnauthorizedError) Error() string { return e.text(KindUnauthorized) }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// Kind returns the failure tag.
func (e *UnauthorizedError) Kind() FailureKind { return KindUnauthorized }

func (e *UnauthorizedError) sealed() {}

// NewUnauthorizedError builds the failure from a catalog entry. The message
// arguments are the operation, then args.
func NewUnauthorizedError(code ErrorCode, operation string, args ...any) *UnauthorizedError {
	return &UnauthorizedError{
		FailureInfo: NewFailureInfo(code, operation, append([]any{operation}, args...)...),
	}
}

// UnrecognizedIdentifierError reports an identifier that does not resolve.
type UnrecognizedIdentifierError struct {
	FailureInfo
	Identifier       string
	ExpectedTypeName string
}

// Error implements the error interface.
func (e *UnrecognizedIdentifierError) Error() string { return e.text(KindUnrecognizedIdentifier) }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnrecognizedIdentifierError) Unwrap() error { return ErrUnrecognizedIdentifier }

// Kind returns the failure tag.
func (e *UnrecognizedIdentifierError) Kind() FailureKind { return KindUnrecognizedIdentifier }

func (e *UnrecognizedIdentifierError) sealed() {}

// NewUnrecognizedIdentifierError builds the failure from a catalog entry. The
// message arguments are the operation, then args.
func NewUnrecognizedIdentifierError(
	code ErrorCode, operation, identifier, expectedTypeName string, args ...any,
) *UnrecognizedIdentifierError {
	return &UnrecognizedIdentifierError{
		FailureInfo:      NewFailureInfo(code, operation, append([]any{operation}, args...)...),
		Identifier:       identifier,
		ExpectedTypeName: expectedTypeName,
	}
}

// DuplicateValueError reports a value that must be unique but is not.
type DuplicateValueError struct {
	FailureInfo

	// Duplicates lists the conflicting elements in server order.
	Duplicates []ElementStub
}

// Error implements the error interface.
func (e *DuplicateValueError) Error() string { return e.text(KindDuplicateValue) }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *DuplicateValueError) Unwrap() error { return ErrDuplicateValue }

// Kind returns the failure tag.
func (e *DuplicateValueError) Kind() FailureKind { return KindDuplicateValue }

func (e *DuplicateValueError) sealed() {}

// NewDuplicateValueError builds the failure from a catalog entry. The
// message arguments are the operation, then args.
func NewDuplicateValueError(code ErrorCode, operation string, duplicates []ElementStub, args ...any) *DuplicateValueError {
	return &DuplicateValueError{
		FailureInfo: NewFailureInfo(code, operation, append([]any{operation}, args...)...),
		Duplicates:  duplicates,
	}
}

// PropertyServerError reports a failure of the metadata server or of the
// transport that reaches it.
type PropertyServerError struct {
	FailureInfo

	// CausedBy is the underlying failure, if any.
	CausedBy error
}

// Error implements the error interface.
func (e *PropertyServerError) Error() string { return e.text(KindPropertyServerFailure) }

// Unwrap returns the sentinel and a cause that is not itself a TypedFailure.
// A wrapped TypedFailure stays reachable through CausedBy only, so the
// error classifies as exactly one variant.
func (e *PropertyServerError) Unwrap() []error {
	if e.CausedBy == nil {
		return []error{ErrPropertyServer}
	}

	var typed TypedFailure
	if errors.As(e.CausedBy, &typed) {
		return []error{ErrPropertyServer}
	}

	return []error{ErrPropertyServer, e.CausedBy}
}

// Kind returns the failure tag.
func (e *PropertyServerError) Kind() FailureKind { return KindPropertyServerFailure }

func (e *PropertyServerError) sealed() {}

// NewPropertyServerError builds the failure from a catalog entry. The
// message arguments are the operation, then args.
func NewPropertyServerError(code ErrorCode, operation string, cause error, args ...any) *PropertyServerError {
	return &PropertyServerError{
		FailureInfo: NewFailureInfo(code, operation, append([]any{operation}, args...)...),
		CausedBy:    cause,
	}
}

// AsTypedFailure returns the first TypedFailure in err's chain.
func AsTypedFailure(err error) (TypedFailure, bool) {
	var f TypedFailure
	if errors.As(err, &f) {
		return f, true
	}

	return nil, false
}

// isKind reports whether the outermost TypedFailure in err's chain is of
// the given kind. Errors carrying no TypedFailure fall back to the sentinel.
func isKind(err error, kind FailureKind, sentinel error) bool {
	if f, ok := AsTypedFailure(err); ok {
		return f.Kind() == kind
	}

	return errors.Is(err, sentinel)
}

// IsInvalidParameter checks if an error is an invalid parameter failure.
func IsInvalidParameter(err error) bool {
	return isKind(err, KindInvalidParameter, ErrInvalidParameter)
}

// IsUnauthorized checks if an error is an unauthorized failure.
func IsUnauthorized(err error) bool {
	return isKind(err, KindUnauthorized, ErrUnauthorized)
}

// IsUnrecognizedIdentifier checks if an error is an unrecognized identifier failure.
func IsUnrecognizedIdentifier(err error) bool {
	return isKind(err, KindUnrecognizedIdentifier, ErrUnrecognizedIdentifier)
}

// IsDuplicateValue checks if an error is a duplicate value failure.
func IsDuplicateValue(err error) bool {
	return isKind(err, KindDuplicateValue, ErrDuplicateValue)
}

// IsPropertyServer checks if an error is a property server failure.
func IsPropertyServer(err error) bool {
	return isKind(err, KindPropertyServerFailure, ErrPropertyServer)
}
