package envelope

import (
	"errors"
	"net/http"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// FromFailure encodes a failure into the envelope that carries it across
// the wire. Decode(FromFailure(f)) yields a failure equal to f in every
// structured field.
func FromFailure(f domain.TypedFailure) *ResponseEnvelope {
	if f == nil {
		return nil
	}

	info := f.Info()

	env := &ResponseEnvelope{
		RelatedHTTPCode:       info.StatusCode,
		ExceptionClassName:    string(f.Kind()),
		ExceptionErrorMessage: f.Error(),
		ExceptionSystemAction: info.SystemAction,
		ExceptionUserAction:   info.UserAction,
		Operation:             info.Operation,
	}

	if env.RelatedHTTPCode == 0 {
		env.RelatedHTTPCode = http.StatusInternalServerError
	}

	props := map[string]any{}
	if info.Code != "" {
		props[PropertyErrorCode] = string(info.Code)
	}

	switch v := f.(type) {
	case *domain.InvalidParameterError:
		props[PropertyParameterName] = v.ParameterName

	case *domain.UnrecognizedIdentifierError:
		props[PropertyIdentifier] = v.Identifier
		props[PropertyExpectedTypeName] = v.ExpectedTypeName

	case *domain.DuplicateValueError:
		if v.Duplicates == nil {
			break
		}

		duplicates := make([]any, 0, len(v.Duplicates))
		for _, d := range v.Duplicates {
			duplicates = append(duplicates, map[string]any{
				"guid":       d.GUID,
				"typeName":   d.TypeName,
				"uniqueName": d.UniqueName,
			})
		}

		props[PropertyDuplicates] = duplicates

	case *domain.PropertyServerError:
		env.ExceptionCausedBy = encodeCause(v.CausedBy, info.StatusCode)
	}

	if len(props) > 0 {
		env.ExceptionProperties = props
	}

	return env
}

// encodeCause encodes a failure cause. Causes outside the failure taxonomy
// travel as property server failures carrying their text.
func encodeCause(cause error, status int) *ResponseEnvelope {
	if cause == nil {
		return nil
	}

	var typed domain.TypedFailure
	if errors.As(cause, &typed) {
		return FromFailure(typed)
	}

	if status == 0 {
		status = http.StatusInternalServerError
	}

	return &ResponseEnvelope{
		RelatedHTTPCode:       status,
		ExceptionClassName:    string(domain.KindPropertyServerFailure),
		ExceptionErrorMessage: cause.Error(),
	}
}
