package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrInvalidServiceTier = errors.New("invalid service tier")
	ErrInvalidCrewSize    = errors.New("invalid crew size")
	ErrNegativeDistance   = errors.New("negative distance")
)

// Validation error codes.
const (
	CodeRequired          = "REQUIRED"
	CodeMutuallyExclusive = "MUTUALLY_EXCLUSIVE"
	CodeOutOfRange        = "OUT_OF_RANGE"
	CodeUnknownValue      = "UNKNOWN_VALUE"
	CodeInvalidValue      = "INVALID_VALUE"
	CodeCalculationError  = "CALCULATION_ERROR"
)

// ValidationError is a field-level input problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// CalculationError is raised by a calculation step when its inputs cannot be
// computed on. Kind is one of the Err* sentinels.
type CalculationError struct {
	Kind    error
	Message string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CalculationError) Unwrap() error {
	return e.Kind
}

func calcErrorf(kind error, format string, args ...any) error {
	return &CalculationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Result is the discriminated outcome every orchestrator returns.
type Result[T any] struct {
	Success  bool              `json:"success"`
	Data     *T                `json:"data,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

func succeed[T any](data T, warnings []string) Result[T] {
	return Result[T]{Success: true, Data: &data, Warnings: warnings}
}

func invalid[T any](errs []ValidationError, warnings []string) Result[T] {
	return Result[T]{Success: false, Errors: errs, Warnings: warnings}
}

func failed[T any](err error, warnings []string) Result[T] {
	return Result[T]{
		Success: false,
		Errors: []ValidationError{{
			Field:   "calculation",
			Message: err.Error(),
			Code:    CodeCalculationError,
		}},
		Warnings: warnings,
	}
}
