// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// Parameter names reported when a request cannot be bound at all.
const (
	ParamRequestBody = "requestBody"
	ParamQuery       = "query"
)

// fieldCodes picks the catalog entry for a rejected field. Fields not
// listed report CodeInvalidRequestBody.
var fieldCodes = map[string]domain.ErrorCode{
	"properties": domain.CodeNullProperties,
	"name":       domain.CodeNullName,
	"status":     domain.CodeNullEnum,
	"startFrom":  domain.CodeNegativeStartFrom,
	"pageSize":   domain.CodeNegativePageSize,
}

// valueInMessage marks the entries whose message template shows the value.
var valueInMessage = map[domain.ErrorCode]bool{
	domain.CodeNegativeStartFrom: true,
	domain.CodeNegativePageSize:  true,
}

// BindingFailure converts an error returned by BindAndValidate or
// BindQueryAndValidate into the failure the server answers with. Only the
// first rejected field is reported.
func BindingFailure(operation string, err error) *domain.InvalidParameterError {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]

		code, ok := fieldCodes[fe.Field()]
		if !ok {
			return domain.NewInvalidParameterError(domain.CodeInvalidRequestBody, operation,
				fe.Field(), validationMessage(fe))
		}

		if valueInMessage[code] {
			return domain.NewInvalidParameterError(code, operation, fe.Field(), fe.Value())
		}

		return domain.NewInvalidParameterError(code, operation, fe.Field())
	}

	param := ParamRequestBody
	if errors.Is(err, ErrQueryBinding) {
		param = ParamQuery
	}

	return domain.NewInvalidParameterError(domain.CodeInvalidRequestBody, operation, param, err.Error())
}
