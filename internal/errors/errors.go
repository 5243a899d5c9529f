package errors

import (
	stderrors "errors"
	"fmt"

	"gobioact/domain/core"
)

// AppError represents a structured application error. Stage and Precondition
// name where the pipeline stopped and which requirement was not met.
type AppError struct {
	Code         string
	Stage        string
	Precondition string
	Message      string
	Cause        error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Stage != "" {
		msg = fmt.Sprintf("[%s] %s", e.Stage, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:         appErr.Code,
			Stage:        appErr.Stage,
			Precondition: appErr.Precondition,
			Message:      message,
			Cause:        err,
		}
	}
	return &AppError{
		Code:    CodeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// AtStage attributes err to a pipeline stage and violated precondition
func AtStage(stage, precondition string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:         CodeFor(err),
		Stage:        stage,
		Precondition: precondition,
		Message:      precondition,
		Cause:        err,
	}
}

// CodeFor derives an error code from the domain sentinel in err's chain
func CodeFor(err error) string {
	var appErr *AppError
	switch {
	case stderrors.As(err, &appErr):
		return appErr.Code
	case core.IsConfigError(err):
		return CodeConfigInvalid
	case core.IsInsufficientData(err):
		return CodeInsufficientData
	case stderrors.Is(err, core.ErrStructureParse):
		return CodeStructureParse
	case core.IsRecordError(err):
		return CodeInvalidInput
	case stderrors.Is(err, core.ErrNotFound):
		return CodeNotFound
	}
	return CodeInternalError
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// GetStage returns the stage the error is attributed to, if any
func GetStage(err error) string {
	var appErr *AppError
	for stderrors.As(err, &appErr) {
		if appErr.Stage != "" {
			return appErr.Stage
		}
		err = appErr.Cause
	}
	return ""
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeStructureParse   = "STRUCTURE_PARSE"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return &AppError{Code: CodeConfigInvalid, Message: message, Cause: core.ErrInvalidConfig}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource), Cause: core.ErrNotFound}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}
