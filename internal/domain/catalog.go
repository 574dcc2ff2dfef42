package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// ErrorCode is the stable identifier of a catalog entry.
type ErrorCode string

// Client-side validation codes.
const (
	CodeNullUserID        ErrorCode = "null-user-id"
	CodeNullGUID          ErrorCode = "null-guid"
	CodeNullName          ErrorCode = "null-name"
	CodeNullEnum          ErrorCode = "null-enum"
	CodeNullProperties    ErrorCode = "null-properties"
	CodeNegativeStartFrom ErrorCode = "negative-start-from"
	CodeNegativePageSize  ErrorCode = "negative-page-size"
)

// Transport and protocol codes.
const (
	CodeClientSideRESTFailure  ErrorCode = "client-side-rest-api-failure"
	CodeUnexpectedResponse     ErrorCode = "unexpected-response"
	CodeUnrecognizedFailureTag ErrorCode = "unrecognized-failure-tag"
	CodeUnexpectedFailure      ErrorCode = "unexpected-failure"
)

// Client configuration codes.
const (
	CodeNullServerName        ErrorCode = "null-server-name"
	CodeServerURLNotSpecified ErrorCode = "server-url-not-specified"
	CodeServerURLMalformed    ErrorCode = "server-url-malformed"
	CodeInvalidClientConfig   ErrorCode = "invalid-client-config"
)

// Codes raised by the metadata server.
const (
	CodeUnknownZone             ErrorCode = "unknown-zone"
	CodeDuplicateZoneName       ErrorCode = "duplicate-zone-name"
	CodeUserNotAuthorized       ErrorCode = "user-not-authorized"
	CodeInvalidRequestBody      ErrorCode = "invalid-request-body"
	CodeUnexpectedServerFailure ErrorCode = "unexpected-server-failure"
)

// ErrorDescriptor is one immutable catalog entry.
type ErrorDescriptor struct {
	Code            ErrorCode
	StatusCode      int
	MessageTemplate string
	SystemAction    string
	UserAction      string
	Failure         FailureKind
}

var slotPattern = regexp.MustCompile(`\{(\d+)\}`)

// Format substitutes args into the positional slots of the message template.
// Slots without a matching argument are rendered literally.
func (d ErrorDescriptor) Format(args ...any) string {
	return slotPattern.ReplaceAllStringFunc(d.MessageTemplate, func(slot string) string {
		idx, err := strconv.Atoi(slot[1 : len(slot)-1])
		if err != nil || idx >= len(args) {
			return slot
		}

		return fmt.Sprint(args[idx])
	})
}

var catalog = map[ErrorCode]ErrorDescriptor{
	CodeNullUserID: {
		StatusCode:      401,
		MessageTemplate: "The user identifier passed on the {0} operation is empty",
		SystemAction:    "The system is unable to process a request without a user identifier.",
		UserAction:      "Supply a non-empty user identifier and retry the request.",
		Failure:         KindUnauthorized,
	},
	CodeNullGUID: {
		StatusCode:      400,
		MessageTemplate: "The unique identifier (guid) passed on the {1} parameter of the {0} operation is empty",
		SystemAction:    "The system is unable to locate an element without its unique identifier.",
		UserAction:      "Supply the guid of an existing element and retry the request.",
		Failure:         KindUnrecognizedIdentifier,
	},
	CodeNullName: {
		StatusCode:      400,
		MessageTemplate: "The name passed on the {1} parameter of the {0} operation is empty",
		SystemAction:    "The system is unable to process the request without a name.",
		UserAction:      "Supply a non-empty name and retry the request.",
		Failure:         KindInvalidParameter,
	},
	CodeNullEnum: {
		StatusCode:      400,
		MessageTemplate: "The enumerated value passed on the {1} parameter of the {0} operation is not set",
		SystemAction:    "The system is unable to process the request without a valid enumeration value.",
		UserAction:      "Choose one of the defined values and retry the request.",
		Failure:         KindInvalidParameter,
	},
	CodeNullProperties: {
		StatusCode:      400,
		MessageTemplate: "The properties passed on the {1} parameter of the {0} operation are missing",
		SystemAction:    "The system is unable to create or update an element without its properties.",
		UserAction:      "Supply the element properties and retry the request.",
		Failure:         KindInvalidParameter,
	},
	CodeNegativeStartFrom: {
		StatusCode:      400,
		MessageTemplate: "The starting point for the results {2}, passed on the {1} parameter of the {0} operation, is negative",
		SystemAction:    "The system is unable to page through results from a negative offset.",
		UserAction:      "Use a starting point of zero or greater.",
		Failure:         KindInvalidParameter,
	},
	CodeNegativePageSize: {
		StatusCode:      400,
		MessageTemplate: "The page size {2}, passed on the {1} parameter of the {0} operation, is negative",
		SystemAction:    "The system is unable to return a negative number of results.",
		UserAction:      "Use a page size of zero (server default) or greater.",
		Failure:         KindInvalidParameter,
	},
	CodeClientSideRESTFailure: {
		StatusCode:      500,
		MessageTemplate: "The {0} operation failed calling {1}: {2}",
		SystemAction:    "The client was unable to complete the call to the metadata server.",
		UserAction:      "Check that the metadata server is running and reachable at the configured URL.",
		Failure:         KindPropertyServerFailure,
	},
	CodeUnexpectedResponse: {
		StatusCode:      500,
		MessageTemplate: "The {0} operation received an unexpected response from {1}: {2}",
		SystemAction:    "The response from the metadata server could not be interpreted.",
		UserAction:      "Check that the configured URL points at a compatible metadata server.",
		Failure:         KindPropertyServerFailure,
	},
	CodeUnrecognizedFailureTag: {
		StatusCode:      500,
		MessageTemplate: "The {0} operation received failure {1} with status {2} that the client does not recognize: {3}",
		SystemAction:    "The metadata server reported a failure type this client version does not support.",
		UserAction:      "Check the server log for the original failure and upgrade the client if needed.",
		Failure:         KindPropertyServerFailure,
	},
	CodeUnexpectedFailure: {
		StatusCode:      500,
		MessageTemplate: "The {0} operation received failure {1} which it does not expect: {2}",
		SystemAction:    "The metadata server returned a failure outside the contract of the operation.",
		UserAction:      "Review the wrapped failure and report the mismatch to the server owners.",
		Failure:         KindPropertyServerFailure,
	},
	CodeNullServerName: {
		StatusCode:      400,
		MessageTemplate: "The server name passed to the {0} client is empty",
		SystemAction:    "The client cannot address a metadata server without its name.",
		UserAction:      "Configure metadata.server_name and restart.",
		Failure:         KindPropertyServerFailure,
	},
	CodeServerURLNotSpecified: {
		StatusCode:      400,
		MessageTemplate: "The platform URL for server {1} passed to the {0} client is empty",
		SystemAction:    "The client cannot reach a metadata server without its platform URL.",
		UserAction:      "Configure metadata.platform_url and restart.",
		Failure:         KindPropertyServerFailure,
	},
	CodeServerURLMalformed: {
		StatusCode:      400,
		MessageTemplate: "The platform URL {1} passed to the {0} client is not a valid absolute URL",
		SystemAction:    "The client cannot reach a metadata server at a malformed address.",
		UserAction:      "Correct metadata.platform_url and restart.",
		Failure:         KindPropertyServerFailure,
	},
	CodeInvalidClientConfig: {
		StatusCode:      400,
		MessageTemplate: "The {0} client configuration is invalid: {1}",
		SystemAction:    "The client could not be constructed.",
		UserAction:      "Correct the reported configuration values and restart.",
		Failure:         KindPropertyServerFailure,
	},
	CodeUnknownZone: {
		StatusCode:      404,
		MessageTemplate: "The governance zone {1} requested on the {0} operation does not exist",
		SystemAction:    "The server was unable to locate the requested governance zone.",
		UserAction:      "Check the guid and retry the request.",
		Failure:         KindUnrecognizedIdentifier,
	},
	CodeDuplicateZoneName: {
		StatusCode:      409,
		MessageTemplate: "The qualified name {1} passed on the {0} operation is already used by another governance zone",
		SystemAction:    "The server rejected the request because qualified names must be unique.",
		UserAction:      "Choose a different qualified name or update the existing zone.",
		Failure:         KindDuplicateValue,
	},
	CodeUserNotAuthorized: {
		StatusCode:      403,
		MessageTemplate: "User {1} is not authorized to issue the {0} operation",
		SystemAction:    "The server rejected the request for security reasons.",
		UserAction:      "Ask the server administrator to grant access to this user.",
		Failure:         KindUnauthorized,
	},
	CodeInvalidRequestBody: {
		StatusCode:      400,
		MessageTemplate: "The {1} parameter of the {0} operation is invalid: {2}",
		SystemAction:    "The server was unable to process the request body.",
		UserAction:      "Correct the request and retry.",
		Failure:         KindInvalidParameter,
	},
	CodeUnexpectedServerFailure: {
		StatusCode:      500,
		MessageTemplate: "The {0} operation failed on the server: {1}",
		SystemAction:    "The server encountered an unexpected condition.",
		UserAction:      "Check the server log for details.",
		Failure:         KindPropertyServerFailure,
	},
}

// Lookup returns the descriptor for code. Codes outside the catalog resolve
// to the unexpected-failure descriptor, so Lookup never misses.
func Lookup(code ErrorCode) ErrorDescriptor {
	d, ok := catalog[code]
	if !ok {
		code = CodeUnexpectedFailure
		d = catalog[code]
	}

	d.Code = code

	return d
}

// Descriptors returns every catalog entry ordered by code.
func Descriptors() []ErrorDescriptor {
	out := make([]ErrorDescriptor, 0, len(catalog))
	for code := range catalog {
		out = append(out, Lookup(code))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })

	return out
}
