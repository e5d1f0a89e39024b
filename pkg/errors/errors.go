package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Environment errors
	ErrInvalidEnvironment ErrorCode = "INVALID_ENVIRONMENT"

	// Task graph errors
	ErrUnknownTask    ErrorCode = "UNKNOWN_TASK"
	ErrDuplicateTask  ErrorCode = "DUPLICATE_TASK"
	ErrCyclicTask     ErrorCode = "CYCLIC_TASK"
	ErrMissingVariant ErrorCode = "MISSING_VARIANT"

	// Execution errors
	ErrExternalTool   ErrorCode = "EXTERNAL_TOOL_FAILURE"
	ErrBuiltinFailure ErrorCode = "BUILTIN_FAILURE"
)

// Detail keys shared by the packages that attach context to errors
const (
	DetailTask        = "task"
	DetailEnvironment = "environment"
	DetailStep        = "step"
	DetailCycle       = "cycle"
	DetailExitCode    = "exit_code"
	DetailStdout      = "stdout"
	DetailStderr      = "stderr"
	DetailCommand     = "command"
	DetailIndex       = "index"
	DetailTotal       = "total"
)

// GantryError is the error type every gantry package returns. Code is
// stable across releases; Details carries the context (task, environment,
// step) a user needs to diagnose a failure without re-running.
type GantryError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *GantryError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
}

func (e *GantryError) Unwrap() error {
	return e.Wrapped
}

// Is matches any GantryError with the same code, so errors.Is walks a chain
// looking for a code rather than an instance
func (e *GantryError) Is(target error) bool {
	t, ok := target.(*GantryError)
	return ok && t.Code == e.Code
}

// WithDetail attaches one piece of context and returns e for chaining
func (e *GantryError) WithDetail(key string, value interface{}) *GantryError {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

func build(code ErrorCode, message string, wrapped error) *GantryError {
	return &GantryError{Code: code, Message: message, Details: map[string]interface{}{}, Wrapped: wrapped}
}

// New returns an error with code and message
func New(code ErrorCode, message string) *GantryError {
	return build(code, message, nil)
}

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *GantryError {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap annotates err with a code and message. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *GantryError {
	if err == nil {
		return nil
	}
	return build(code, message, err)
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *GantryError {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

// outermost finds the first GantryError in err's chain
func outermost(err error) *GantryError {
	var ge *GantryError
	if errors.As(err, &ge) {
		return ge
	}
	return nil
}

// IsErrorCode reports whether the outermost GantryError in err's chain has
// code. Use errors.Is with New(code, "") to search the whole chain.
func IsErrorCode(err error, code ErrorCode) bool {
	ge := outermost(err)
	return ge != nil && ge.Code == code
}

// GetErrorCode returns the outermost code, or ErrUnknown
func GetErrorCode(err error) ErrorCode {
	if ge := outermost(err); ge != nil {
		return ge.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the outermost details, or nil
func GetErrorDetails(err error) map[string]interface{} {
	if ge := outermost(err); ge != nil {
		return ge.Details
	}
	return nil
}
