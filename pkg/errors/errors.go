// Package errors provides the unified error type and factory functions for
// ChemDraw AI.  Every layer (services, controller, viewer, HTTP handlers, CLI)
// uses AppError as the single carrier for structured error information so that
// API responses, log lines and metric labels stay consistent.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and the factory).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the structured error type used throughout ChemDraw AI.
// It supports errors.Is / errors.As / errors.Unwrap through Unwrap.
//
// Usage:
//
//	return errors.New(errors.ErrCodeFormulaUninterpretable, "Invalid chemical formula")
//	return errors.Wrap(err, errors.ErrCodeDownloadFailed, "HTTP error! status: 404")
type AppError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is the human-readable description shown to users.
	Message string

	// Detail carries supplementary debugging context.
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Stack is the call stack captured at creation.  Not part of Error().
	Stack string
}

// Error implements the error interface.
// Format: "[<code>] <message>: <detail>", detail omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf is New with a format string.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil.  When code is CodeUnknown and err is
// already an *AppError, the original code is preserved.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain.
// If no *AppError is present, CodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// Message returns the user-facing text of err: the Message of the first
// *AppError in the chain, or err.Error() for foreign errors.  A nil error or an
// empty message yields "".
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

// IsNotFound reports whether err carries one of the not-found codes.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound) ||
		IsCode(err, ErrCodeSessionNotFound) ||
		IsCode(err, ErrCodeSuggestionNotFound)
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	return IsCode(err, ErrCodeValidation) || IsCode(err, CodeInvalidParam)
}

// IsConflict reports whether err is a state conflict.
func IsConflict(err error) bool {
	return IsCode(err, CodeConflict) ||
		IsCode(err, ErrCodeGenerationInFlight) ||
		IsCode(err, ErrCodeNoDiagramToDownload)
}

// IsGenerationError reports whether err belongs to the generation module.
func IsGenerationError(err error) bool {
	return moduleOf(err) == "GEN"
}

// IsCorrectionError reports whether err belongs to the correction module.
func IsCorrectionError(err error) bool {
	return moduleOf(err) == "COR"
}

// IsDownloadError reports whether err belongs to the download module.
func IsDownloadError(err error) bool {
	return moduleOf(err) == "DL"
}

// IsRenderError reports whether err belongs to the rendering module.
func IsRenderError(err error) bool {
	return moduleOf(err) == "RND"
}

func moduleOf(err error) string {
	var ae *AppError
	if !errors.As(err, &ae) {
		return ""
	}
	return ModuleForCode(ae.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Kind factories
// ─────────────────────────────────────────────────────────────────────────────

// GenerationError constructs a generation failure carrying message.
func GenerationError(message string) *AppError {
	return &AppError{Code: ErrCodeGenerationFailed, Message: message, Stack: captureStack(1)}
}

// CorrectionError constructs a correction failure carrying message.
func CorrectionError(message string) *AppError {
	return &AppError{Code: ErrCodeCorrectionFailed, Message: message, Stack: captureStack(1)}
}

// DownloadError constructs a download failure carrying message.
func DownloadError(message string) *AppError {
	return &AppError{Code: ErrCodeDownloadFailed, Message: message, Stack: captureStack(1)}
}

// RenderError constructs a rendering failure carrying message.
func RenderError(message string) *AppError {
	return &AppError{Code: ErrCodeRenderEngineUnavailable, Message: message, Stack: captureStack(1)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Convenience factories
// ─────────────────────────────────────────────────────────────────────────────

// NotFound constructs a CodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Stack: captureStack(1)}
}

// InvalidParam constructs a CodeInvalidParam AppError.
func InvalidParam(message string) *AppError {
	return &AppError{Code: CodeInvalidParam, Message: message, Stack: captureStack(1)}
}

// InvalidState constructs a CodeConflict AppError, used for state violations.
func InvalidState(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Stack: captureStack(1)}
}

// Internal constructs a CodeInternal AppError.
func Internal(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Stack: captureStack(1)}
}

// RateLimit constructs a CodeRateLimit AppError.
func RateLimit(message string) *AppError {
	return &AppError{Code: CodeRateLimit, Message: message, Stack: captureStack(1)}
}

//Personal.AI order the ending
