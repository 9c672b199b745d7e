package ecc

import (
	"fmt"
)

// ErrorCategory represents the category of an ECC error
type ErrorCategory string

const (
	ErrorCategoryValidation    ErrorCategory = "validation"
	ErrorCategoryArithmetic    ErrorCategory = "arithmetic"
	ErrorCategoryKeyGeneration ErrorCategory = "key_generation"
	ErrorCategoryDerivation    ErrorCategory = "derivation"
	ErrorCategoryRandomness    ErrorCategory = "randomness"
	ErrorCategoryInternal      ErrorCategory = "internal"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	ErrorSeverityLow      ErrorSeverity = "low"      // Non-critical, operation can continue
	ErrorSeverityMedium   ErrorSeverity = "medium"   // Important, may affect functionality
	ErrorSeverityHigh     ErrorSeverity = "high"     // Critical, operation should stop
	ErrorSeverityCritical ErrorSeverity = "critical" // System-level failure
)

// ECCError represents a structured error in the ECC library
type ECCError struct {
	Category    ErrorCategory          `json:"category"`
	Severity    ErrorSeverity          `json:"severity"`
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Cause       error                  `json:"-"` // Original error, not serialized
	Context     map[string]interface{} `json:"context,omitempty"`
	Recoverable bool                   `json:"recoverable"`
}

// Error implements the error interface
func (e *ECCError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ECCError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an ECCError with the same code, so that
// errors.Is keeps matching sentinels after WithCause/WithContext copies.
func (e *ECCError) Is(target error) bool {
	t, ok := target.(*ECCError)
	return ok && t.Code == e.Code
}

// WithContext adds context information to the error
func (e *ECCError) WithContext(key string, value interface{}) *ECCError {
	newError := e.clone()
	newError.Context[key] = value
	return newError
}

// WithCause sets the underlying cause of the error
func (e *ECCError) WithCause(cause error) *ECCError {
	newError := e.clone()
	newError.Cause = cause
	return newError
}

// WithDetails sets a detail string on a copy of the error
func (e *ECCError) WithDetails(format string, args ...interface{}) *ECCError {
	newError := e.clone()
	newError.Details = fmt.Sprintf(format, args...)
	return newError
}

// clone copies the error so sentinel values are never mutated
func (e *ECCError) clone() *ECCError {
	newError := &ECCError{
		Category:    e.Category,
		Severity:    e.Severity,
		Code:        e.Code,
		Message:     e.Message,
		Details:     e.Details,
		Cause:       e.Cause,
		Recoverable: e.Recoverable,
		Context:     make(map[string]interface{}),
	}
	for k, v := range e.Context {
		newError.Context[k] = v
	}
	return newError
}

// IsRecoverable returns whether the error is recoverable
func (e *ECCError) IsRecoverable() bool {
	return e.Recoverable
}

// NewECCError creates a new ECC error
func NewECCError(category ErrorCategory, severity ErrorSeverity, code, message string) *ECCError {
	return &ECCError{
		Category:    category,
		Severity:    severity,
		Code:        code,
		Message:     message,
		Context:     make(map[string]interface{}),
		Recoverable: severity != ErrorSeverityCritical,
	}
}

// Validation Errors
var (
	ErrInvalidPoint = NewECCError(
		ErrorCategoryValidation, ErrorSeverityHigh, "INVALID_POINT",
		"point is not on the curve or is out of field range")

	ErrInvalidPointLength = NewECCError(
		ErrorCategoryValidation, ErrorSeverityMedium, "INVALID_POINT_LENGTH",
		"point encoding has the wrong length")

	ErrInvalidScalar = NewECCError(
		ErrorCategoryValidation, ErrorSeverityHigh, "INVALID_SCALAR",
		"scalar is out of range for the curve order")

	ErrInvalidScalarLength = NewECCError(
		ErrorCategoryValidation, ErrorSeverityMedium, "INVALID_SCALAR_LENGTH",
		"scalar encoding has the wrong length")

	ErrScalarZero = NewECCError(
		ErrorCategoryValidation, ErrorSeverityMedium, "SCALAR_ZERO",
		"scalar is zero")

	ErrCurveMismatch = NewECCError(
		ErrorCategoryValidation, ErrorSeverityHigh, "CURVE_MISMATCH",
		"operands belong to different curves")

	ErrInvalidCurveType = NewECCError(
		ErrorCategoryValidation, ErrorSeverityHigh, "INVALID_CURVE_TYPE",
		"curve type is unknown or unsupported")
)

// Arithmetic Errors
var (
	ErrUnsupportedOperation = NewECCError(
		ErrorCategoryArithmetic, ErrorSeverityMedium, "UNSUPPORTED_OPERATION",
		"operation is not defined for this curve family")

	ErrDegenerateResult = NewECCError(
		ErrorCategoryDerivation, ErrorSeverityHigh, "DEGENERATE_RESULT",
		"shared secret computation produced the identity element")
)

// Key Generation Errors
var (
	ErrRandomnessSource = NewECCError(
		ErrorCategoryRandomness, ErrorSeverityCritical, "RANDOMNESS_SOURCE_FAILED",
		"random source is missing or failed to produce bytes")

	ErrKeyGenerationFailed = NewECCError(
		ErrorCategoryKeyGeneration, ErrorSeverityHigh, "KEY_GENERATION_FAILED",
		"key pair generation failed")
)

// Internal Errors
var (
	ErrInternalInvariant = NewECCError(
		ErrorCategoryInternal, ErrorSeverityCritical, "INTERNAL_INVARIANT",
		"internal arithmetic invariant violated")
)

// Error helper functions

// WrapError wraps an existing error with ECC error context
func WrapError(err error, category ErrorCategory, severity ErrorSeverity, code, message string) *ECCError {
	return NewECCError(category, severity, code, message).WithCause(err)
}

// IsErrorCategory checks if an error belongs to a specific category
func IsErrorCategory(err error, category ErrorCategory) bool {
	if eccErr, ok := err.(*ECCError); ok {
		return eccErr.Category == category
	}
	return false
}

// IsErrorSeverity checks if an error has a specific severity
func IsErrorSeverity(err error, severity ErrorSeverity) bool {
	if eccErr, ok := err.(*ECCError); ok {
		return eccErr.Severity == severity
	}
	return false
}

// IsRecoverableError checks if an error is recoverable
func IsRecoverableError(err error) bool {
	if eccErr, ok := err.(*ECCError); ok {
		return eccErr.IsRecoverable()
	}
	return true // Non-ECC errors are assumed recoverable
}

// GetErrorContext extracts context from an ECC error
func GetErrorContext(err error) map[string]interface{} {
	if eccErr, ok := err.(*ECCError); ok {
		return eccErr.Context
	}
	return nil
}
