package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoPayload is returned when a payload is requested from an envelope
// that was not parsed from a response body.
var ErrNoPayload = errors.New("envelope has no payload")

// ResponseEnvelope is the wire shape of every metadata server response.
// Server responses embed it so the payload fields sit next to it.
type ResponseEnvelope struct {
	RelatedHTTPCode       int               `json:"relatedHTTPCode"`
	ExceptionClassName    string            `json:"exceptionClassName,omitempty"`
	ExceptionErrorMessage string            `json:"exceptionErrorMessage,omitempty"`
	ExceptionSystemAction string            `json:"exceptionSystemAction,omitempty"`
	ExceptionUserAction   string            `json:"exceptionUserAction,omitempty"`
	ExceptionProperties   map[string]any    `json:"exceptionProperties,omitempty"`
	ExceptionCausedBy     *ResponseEnvelope `json:"exceptionCausedBy,omitempty"`

	// Operation names the call that produced the envelope. It is set by the
	// caller and never transmitted.
	Operation string `json:"-"`

	raw json.RawMessage
}

// Failed reports whether the envelope carries a failure tag.
func (e *ResponseEnvelope) Failed() bool {
	return e != nil && e.ExceptionClassName != ""
}

// Success returns the envelope header for a successful response.
func Success() ResponseEnvelope {
	return ResponseEnvelope{RelatedHTTPCode: http.StatusOK}
}

// Parse decodes a response body into an envelope bound to operation.
// The body is retained so payload fields can be decoded later.
func Parse(body []byte, operation string) (*ResponseEnvelope, error) {
	var env ResponseEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding response envelope: %w", err)
	}

	env.Operation = operation
	env.raw = append(json.RawMessage(nil), body...)

	return &env, nil
}

// DecodePayload decodes the operation-specific fields of a parsed envelope.
func DecodePayload[T any](env *ResponseEnvelope) (*T, error) {
	if env == nil || len(env.raw) == 0 {
		return nil, ErrNoPayload
	}

	var result T
	if err := json.Unmarshal(env.raw, &result); err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", env.Operation, err)
	}

	return &result, nil
}
