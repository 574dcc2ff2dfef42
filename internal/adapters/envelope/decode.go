package envelope

import (
	"github.com/mitchellh/mapstructure"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// Property names carried in exceptionProperties.
const (
	PropertyErrorCode        = "errorCode"
	PropertyParameterName    = "parameterName"
	PropertyIdentifier       = "identifier"
	PropertyExpectedTypeName = "expectedTypeName"
	PropertyDuplicates       = "duplicates"
)

type commonProperties struct {
	ErrorCode string `mapstructure:"errorCode"`
}

type invalidParameterProperties struct {
	ParameterName string `mapstructure:"parameterName"`
}

type unrecognizedIdentifierProperties struct {
	Identifier       string `mapstructure:"identifier"`
	ExpectedTypeName string `mapstructure:"expectedTypeName"`
}

type duplicateValueProperties struct {
	Duplicates []elementStubProperties `mapstructure:"duplicates"`
}

type elementStubProperties struct {
	GUID       string `mapstructure:"guid"`
	TypeName   string `mapstructure:"typeName"`
	UniqueName string `mapstructure:"uniqueName"`
}

func decodeInvalidParameter(info domain.FailureInfo, env *ResponseEnvelope) domain.TypedFailure {
	var props invalidParameterProperties
	extractProperties(env.ExceptionProperties, &props)

	return &domain.InvalidParameterError{FailureInfo: info, ParameterName: props.ParameterName}
}

func decodeUnrecognizedIdentifier(info domain.FailureInfo, env *ResponseEnvelope) domain.TypedFailure {
	var props unrecognizedIdentifierProperties
	extractProperties(env.ExceptionProperties, &props)

	return &domain.UnrecognizedIdentifierError{
		FailureInfo:      info,
		Identifier:       props.Identifier,
		ExpectedTypeName: props.ExpectedTypeName,
	}
}

func decodeDuplicateValue(info domain.FailureInfo, env *ResponseEnvelope) domain.TypedFailure {
	var props duplicateValueProperties
	extractProperties(env.ExceptionProperties, &props)

	// A present but empty list stays empty; an absent one stays nil.
	var duplicates []domain.ElementStub
	if raw, ok := env.ExceptionProperties[PropertyDuplicates]; ok && raw != nil {
		duplicates = make([]domain.ElementStub, 0, len(props.Duplicates))
	}

	for _, d := range props.Duplicates {
		duplicates = append(duplicates, domain.ElementStub{
			GUID:       d.GUID,
			TypeName:   d.TypeName,
			UniqueName: d.UniqueName,
		})
	}

	return &domain.DuplicateValueError{FailureInfo: info, Duplicates: duplicates}
}

func decodePropertyServer(info domain.FailureInfo, env *ResponseEnvelope) domain.TypedFailure {
	failure := &domain.PropertyServerError{FailureInfo: info}

	if env.ExceptionCausedBy != nil {
		// The cause belongs to the same call.
		cause := *env.ExceptionCausedBy
		cause.Operation = env.Operation

		if decoded := Decode(&cause); decoded != nil {
			failure.CausedBy = decoded
		}
	}

	return failure
}

// Decode reconstructs the failure carried by env. It returns nil when the
// envelope has no failure tag. Decoding never fails: properties that are
// missing or of the wrong shape leave the variant's fields at their zero
// values, and an unknown tag yields a PropertyServerError.
func Decode(env *ResponseEnvelope) domain.TypedFailure {
	if !env.Failed() {
		return nil
	}

	info := commonInfo(env)

	switch domain.FailureKind(env.ExceptionClassName) {
	case domain.KindInvalidParameter:
		return decodeInvalidParameter(info, env)
	case domain.KindUnauthorized:
		return &domain.UnauthorizedError{FailureInfo: info}
	case domain.KindUnrecognizedIdentifier:
		return decodeUnrecognizedIdentifier(info, env)
	case domain.KindDuplicateValue:
		return decodeDuplicateValue(info, env)
	case domain.KindPropertyServerFailure:
		return decodePropertyServer(info, env)
	default:
		return domain.NewPropertyServerError(domain.CodeUnrecognizedFailureTag, env.Operation, nil,
			env.ExceptionClassName, env.RelatedHTTPCode, env.ExceptionErrorMessage)
	}
}

func commonInfo(env *ResponseEnvelope) domain.FailureInfo {
	var props commonProperties
	extractProperties(env.ExceptionProperties, &props)

	return domain.FailureInfo{
		Code:         domain.ErrorCode(props.ErrorCode),
		StatusCode:   env.RelatedHTTPCode,
		Message:      env.ExceptionErrorMessage,
		SystemAction: env.ExceptionSystemAction,
		UserAction:   env.ExceptionUserAction,
		Operation:    env.Operation,
	}
}

// extractProperties copies the named properties into target. Values of the
// wrong type are converted where possible and otherwise left at zero.
func extractProperties(props map[string]any, target any) {
	if len(props) == 0 {
		return
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return
	}

	// Partial results are kept; fields that failed to convert stay zero.
	_ = decoder.Decode(props)
}
