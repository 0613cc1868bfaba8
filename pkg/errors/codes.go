package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeInvalidConfig      ErrorCode = "COMMON_017"
	ErrCodeStorageError       ErrorCode = "COMMON_018"
)

// Aliases used throughout the code base.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
)

// Generation Module Error Codes
const (
	ErrCodeGenerationFailed        ErrorCode = "GEN_001"
	ErrCodeGenerationOutputInvalid ErrorCode = "GEN_002"
	ErrCodeFormulaUninterpretable  ErrorCode = "GEN_003"
	ErrCodeGenerationInFlight      ErrorCode = "GEN_004"
)

// Correction Module Error Codes
const (
	ErrCodeCorrectionFailed        ErrorCode = "COR_001"
	ErrCodeCorrectionOutputInvalid ErrorCode = "COR_002"
)

// Download Module Error Codes
const (
	ErrCodeDownloadFailed      ErrorCode = "DL_001"
	ErrCodeNoDiagramToDownload ErrorCode = "DL_002"
	ErrCodeDownloadTooLarge    ErrorCode = "DL_003"
)

// Rendering Module Error Codes
const (
	ErrCodeRenderEngineUnavailable ErrorCode = "RND_001"
	ErrCodeRenderFailed            ErrorCode = "RND_002"
)

// Session Module Error Codes
const (
	ErrCodeSessionNotFound    ErrorCode = "SES_001"
	ErrCodeSuggestionNotFound ErrorCode = "SES_002"
)

// AI Provider Error Codes
const (
	ErrCodeAIModelNotAvailable ErrorCode = "AI_001"
	ErrCodeAIInferenceFailed   ErrorCode = "AI_002"
	ErrCodeAIOutputMalformed   ErrorCode = "AI_003"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeInvalidConfig:      http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,

	ErrCodeGenerationFailed:        http.StatusBadGateway,
	ErrCodeGenerationOutputInvalid: http.StatusBadGateway,
	ErrCodeFormulaUninterpretable:  http.StatusUnprocessableEntity,
	ErrCodeGenerationInFlight:      http.StatusConflict,

	ErrCodeCorrectionFailed:        http.StatusBadGateway,
	ErrCodeCorrectionOutputInvalid: http.StatusBadGateway,

	ErrCodeDownloadFailed:      http.StatusBadGateway,
	ErrCodeNoDiagramToDownload: http.StatusConflict,
	ErrCodeDownloadTooLarge:    http.StatusRequestEntityTooLarge,

	ErrCodeRenderEngineUnavailable: http.StatusServiceUnavailable,
	ErrCodeRenderFailed:            http.StatusInternalServerError,

	ErrCodeSessionNotFound:    http.StatusNotFound,
	ErrCodeSuggestionNotFound: http.StatusNotFound,

	ErrCodeAIModelNotAvailable: http.StatusServiceUnavailable,
	ErrCodeAIInferenceFailed:   http.StatusBadGateway,
	ErrCodeAIOutputMalformed:   http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeInvalidConfig:      "invalid configuration",
	ErrCodeStorageError:       "object storage error",

	ErrCodeGenerationFailed:        "Failed to generate diagram.",
	ErrCodeGenerationOutputInvalid: "AI output failed schema validation",
	ErrCodeFormulaUninterpretable:  "Invalid chemical formula",
	ErrCodeGenerationInFlight:      "a generation is already in progress",

	ErrCodeCorrectionFailed:        "Failed to suggest formula corrections.",
	ErrCodeCorrectionOutputInvalid: "correction output could not be decoded",

	ErrCodeDownloadFailed:      "Failed to download the diagram.",
	ErrCodeNoDiagramToDownload: "No valid diagram to download",
	ErrCodeDownloadTooLarge:    "diagram exceeds the download size limit",

	ErrCodeRenderEngineUnavailable: "3D engine failed to load",
	ErrCodeRenderFailed:            "3D rendering failed",

	ErrCodeSessionNotFound:    "session not found",
	ErrCodeSuggestionNotFound: "suggestion not found",

	ErrCodeAIModelNotAvailable: "AI model not available",
	ErrCodeAIInferenceFailed:   "AI inference failed",
	ErrCodeAIOutputMalformed:   "AI output malformed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
