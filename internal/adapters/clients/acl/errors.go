package acl

import (
	"net/http"
	"slices"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// Narrow keeps f when its variant is one the operation declares and maps
// anything else into a PropertyServerError caused by f. PropertyServerError
// is always expected. A nil failure narrows to nil.
func Narrow(f domain.TypedFailure, expected ...domain.FailureKind) error {
	if f == nil {
		return nil
	}

	kind := f.Kind()
	if kind == domain.KindPropertyServerFailure || slices.Contains(expected, kind) {
		return f
	}

	info := f.Info()

	return domain.NewPropertyServerError(
		domain.CodeUnexpectedFailure, info.Operation, f, string(kind), f.Error())
}

// transportFailure wraps a fault that produced no usable response.
func transportFailure(operation, endpoint string, err error) *domain.PropertyServerError {
	return domain.NewPropertyServerError(
		domain.CodeClientSideRESTFailure, operation, err, endpoint, err.Error())
}

// unexpectedResponse wraps a response that is not a readable envelope, or an
// error status that carries no failure tag.
func unexpectedResponse(operation, endpoint string, status int, detail string) *domain.PropertyServerError {
	f := domain.NewPropertyServerError(domain.CodeUnexpectedResponse, operation, nil, endpoint, detail)
	if status >= http.StatusBadRequest {
		f.StatusCode = status
	}

	return f
}
