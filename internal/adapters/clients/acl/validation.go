package acl

import (
	"strconv"
	"strings"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/config"
)

// ValidateIdentity checks that the calling user id is present.
// A missing identity is an authorization problem, not a bad parameter.
func ValidateIdentity(userID, operation string) error {
	if userID == "" {
		return domain.NewUnauthorizedError(domain.CodeNullUserID, operation)
	}

	return nil
}

// ValidateIdentifier checks that a unique identifier is present.
func ValidateIdentifier(value, parameterName, expectedTypeName, operation string) error {
	if value == "" {
		return domain.NewUnrecognizedIdentifierError(
			domain.CodeNullGUID, operation, "", expectedTypeName, parameterName)
	}

	return nil
}

// ValidateName checks that a name is present and not blank.
func ValidateName(value, parameterName, operation string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewInvalidParameterError(domain.CodeNullName, operation, parameterName)
	}

	return nil
}

// ValidateEnum checks that an enumerated value is set. The zero value of
// every enumeration in the domain means unset.
func ValidateEnum[E ~int](value E, parameterName, operation string) error {
	if value == 0 {
		return domain.NewInvalidParameterError(domain.CodeNullEnum, operation, parameterName)
	}

	return nil
}

// ValidateProperties checks that an update carries a properties object.
func ValidateProperties[P any](value *P, parameterName, operation string) error {
	if value == nil {
		return domain.NewInvalidParameterError(domain.CodeNullProperties, operation, parameterName)
	}

	return nil
}

// PagingPolicy bounds the page size a client will request.
type PagingPolicy struct {
	// DefaultPageSize applies to unlimited clients when the caller asks for 0.
	DefaultPageSize int

	// MaxPageSize is the ceiling. Zero means unlimited.
	MaxPageSize int
}

// Validate checks the paging window and returns the effective page size.
// A page size of 0 yields the ceiling, or DefaultPageSize when unlimited.
// Requests above the ceiling are clamped to it.
func (p PagingPolicy) Validate(startFrom, pageSize int, operation string) (int, error) {
	if startFrom < 0 {
		return 0, domain.NewInvalidParameterError(
			domain.CodeNegativeStartFrom, operation, "startFrom", strconv.Itoa(startFrom))
	}

	if pageSize < 0 {
		return 0, domain.NewInvalidParameterError(
			domain.CodeNegativePageSize, operation, "pageSize", strconv.Itoa(pageSize))
	}

	return p.Effective(pageSize), nil
}

// Effective returns the page size a client under this policy requests for a
// non-negative pageSize.
func (p PagingPolicy) Effective(pageSize int) int {
	if p.MaxPageSize > 0 {
		if pageSize <= 0 || pageSize > p.MaxPageSize {
			return p.MaxPageSize
		}

		return pageSize
	}

	if pageSize <= 0 {
		if p.DefaultPageSize > 0 {
			return p.DefaultPageSize
		}

		return config.DefaultPageSize
	}

	return pageSize
}

// ValidatePaging checks the paging window against a ceiling using the
// package default for unlimited clients.
func ValidatePaging(startFrom, pageSize, maxPageSize int, operation string) (int, error) {
	return PagingPolicy{MaxPageSize: maxPageSize}.Validate(startFrom, pageSize, operation)
}
