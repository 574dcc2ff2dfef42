package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidParameter,
		ErrUnauthorized,
		ErrUnrecognizedIdentifier,
		ErrDuplicateValue,
		ErrPropertyServer,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestFailureKind_Known(t *testing.T) {
	for _, k := range []FailureKind{
		KindInvalidParameter,
		KindUnauthorized,
		KindUnrecognizedIdentifier,
		KindDuplicateValue,
		KindPropertyServerFailure,
	} {
		assert.True(t, k.Known(), k)
	}

	assert.False(t, FailureKind("quota-exceeded").Known())
	assert.False(t, FailureKind("Invalid-Parameter").Known(), "tags are case-sensitive")
	assert.False(t, FailureKind("").Known())
}

func TestTypedFailures(t *testing.T) {
	tests := []struct {
		name       string
		failure    TypedFailure
		kind       FailureKind
		sentinel   error
		status     int
		message    string
		isFunction func(error) bool
	}{
		{
			name:       "invalid parameter",
			failure:    NewInvalidParameterError(CodeNullName, "fetchZonesByName", "name"),
			kind:       KindInvalidParameter,
			sentinel:   ErrInvalidParameter,
			status:     400,
			message:    "The name passed on the name parameter of the fetchZonesByName operation is empty",
			isFunction: IsInvalidParameter,
		},
		{
			name:       "unauthorized",
			failure:    NewUnauthorizedError(CodeNullUserID, "fetchZone"),
			kind:       KindUnauthorized,
			sentinel:   ErrUnauthorized,
			status:     401,
			message:    "The user identifier passed on the fetchZone operation is empty",
			isFunction: IsUnauthorized,
		},
		{
			name:       "unrecognized identifier",
			failure:    NewUnrecognizedIdentifierError(CodeUnknownZone, "fetchZone", "abc", ZoneTypeName, "abc"),
			kind:       KindUnrecognizedIdentifier,
			sentinel:   ErrUnrecognizedIdentifier,
			status:     404,
			message:    "The governance zone abc requested on the fetchZone operation does not exist",
			isFunction: IsUnrecognizedIdentifier,
		},
		{
			name:       "duplicate value",
			failure:    NewDuplicateValueError(CodeDuplicateZoneName, "createZone", nil, "zone.a"),
			kind:       KindDuplicateValue,
			sentinel:   ErrDuplicateValue,
			status:     409,
			message:    "The qualified name zone.a passed on the createZone operation is already used by another governance zone",
			isFunction: IsDuplicateValue,
		},
		{
			name:       "property server",
			failure:    NewPropertyServerError(CodeUnexpectedServerFailure, "deleteZone", nil, "disk full"),
			kind:       KindPropertyServerFailure,
			sentinel:   ErrPropertyServer,
			status:     500,
			message:    "The deleteZone operation failed on the server: disk full",
			isFunction: IsPropertyServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.failure.Kind())
			assert.Equal(t, tt.status, tt.failure.Info().StatusCode)
			assert.Equal(t, tt.message, tt.failure.Error())
			assert.NotEmpty(t, tt.failure.Info().SystemAction)
			assert.NotEmpty(t, tt.failure.Info().UserAction)
			require.ErrorIs(t, tt.failure, tt.sentinel)
			assert.True(t, tt.isFunction(tt.failure))

			wrapped := fmt.Errorf("outer: %w", tt.failure)
			assert.True(t, tt.isFunction(wrapped))

			f, ok := AsTypedFailure(wrapped)
			require.True(t, ok)
			assert.Same(t, tt.failure, f)
		})
	}
}

func TestInvalidParameterError_CarriesParameterName(t *testing.T) {
	err := NewInvalidParameterError(CodeNegativeStartFrom, "listZones", "startFrom", -1)

	var invalid *InvalidParameterError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "startFrom", invalid.ParameterName)
	assert.Equal(t, "listZones", invalid.Operation)
	assert.Equal(t, CodeNegativeStartFrom, invalid.Code)
	assert.Contains(t, invalid.Message, "-1")
}

func TestUnrecognizedIdentifierError_Fields(t *testing.T) {
	err := NewUnrecognizedIdentifierError(CodeNullGUID, "fetchZone", "", ZoneTypeName, "zoneGUID")

	assert.Empty(t, err.Identifier)
	assert.Equal(t, ZoneTypeName, err.ExpectedTypeName)
	assert.Contains(t, err.Error(), "zoneGUID parameter of the fetchZone operation")
}

func TestPropertyServerError_WrappedFailureIsOneVariant(t *testing.T) {
	cause := NewUnauthorizedError(CodeUserNotAuthorized, "fetchZone", "bob")
	err := NewPropertyServerError(CodeUnexpectedFailure, "fetchZone", cause, KindUnauthorized, cause.Error())

	require.ErrorIs(t, err, ErrPropertyServer)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.True(t, IsPropertyServer(err))
	assert.False(t, IsUnauthorized(err))

	var unauthorized *UnauthorizedError
	assert.False(t, errors.As(err, &unauthorized))
	assert.Same(t, cause, err.CausedBy)

	f, ok := AsTypedFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindPropertyServerFailure, f.Kind())

	noCause := NewPropertyServerError(CodeUnexpectedServerFailure, "fetchZone", nil, "boom")
	assert.Len(t, noCause.Unwrap(), 1)
}

func TestPropertyServerError_UnwrapsTransportCause(t *testing.T) {
	err := NewPropertyServerError(CodeClientSideRESTFailure, "fetchZone", context.DeadlineExceeded,
		"http://mds:9443/servers/cocoMDS1", "deadline exceeded")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, err.Unwrap(), 2)
}

func TestIsHelpers_ClassifyOutermostVariant(t *testing.T) {
	dup := NewDuplicateValueError(CodeDuplicateZoneName, "deleteZone", nil, "zone.finance")
	wrapped := NewPropertyServerError(CodeUnexpectedFailure, "deleteZone", dup, KindDuplicateValue, dup.Error())

	tests := []struct {
		name string
		err  error
		is   func(error) bool
		want bool
	}{
		{name: "bare duplicate", err: dup, is: IsDuplicateValue, want: true},
		{name: "annotated duplicate", err: fmt.Errorf("ensuring zone: %w", dup), is: IsDuplicateValue, want: true},
		{name: "wrapped duplicate", err: wrapped, is: IsDuplicateValue, want: false},
		{name: "wrapper", err: wrapped, is: IsPropertyServer, want: true},
		{name: "sentinel", err: ErrUnrecognizedIdentifier, is: IsUnrecognizedIdentifier, want: true},
		{name: "plain error", err: errors.New("boom"), is: IsInvalidParameter, want: false},
		{name: "nil", err: nil, is: IsUnauthorized, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.is(tt.err))
		})
	}
}

func TestFailureInfo_TextFallback(t *testing.T) {
	err := &UnauthorizedError{FailureInfo: FailureInfo{Operation: "fetchZone"}}
	assert.Equal(t, "unauthorized in fetchZone", err.Error())

	err = &UnauthorizedError{}
	assert.Equal(t, "unauthorized", err.Error())
}

func TestAsTypedFailure_PlainError(t *testing.T) {
	_, ok := AsTypedFailure(errors.New("plain"))
	assert.False(t, ok)

	_, ok = AsTypedFailure(nil)
	assert.False(t, ok)
}
