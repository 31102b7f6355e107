// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidMSISDN indicates the phone number does not match any accepted format.
	ErrInvalidMSISDN = errors.New("invalid msisdn format")

	// ErrInvalidOperator indicates the number parsed but its operator prefix or length is invalid.
	ErrInvalidOperator = errors.New("invalid operator or number length")

	// ErrNotTelkomsel indicates a valid number that belongs to another carrier.
	ErrNotTelkomsel = errors.New("msisdn is not a telkomsel number")

	// ErrInvalidTimeRange indicates a time window that fails validation.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrUnknownIntent indicates an intent the query builder cannot map to SQL.
	ErrUnknownIntent = errors.New("unknown intent")

	// ErrSessionExpired indicates the referenced session aged past its TTL.
	ErrSessionExpired = errors.New("session expired")

	// ErrCacheExpired indicates cached data has exceeded TTL.
	ErrCacheExpired = errors.New("cache expired")

	// ErrCalculation indicates narrative math failed (e.g. a percentage
	// over a zero total). Gets its own user-facing message, distinct from
	// generic failures.
	ErrCalculation = errors.New("calculation error")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrContextCanceled indicates context was canceled.
	ErrContextCanceled = errors.New("context canceled")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// QueryExecError represents complaint-warehouse query failures with context.
type QueryExecError struct {
	SQL string
	Err error
}

func (e *QueryExecError) Error() string {
	return fmt.Sprintf("query execution error: %v", e.Err)
}

func (e *QueryExecError) Unwrap() error {
	return e.Err
}

// NewQueryExecError creates a new query execution error.
func NewQueryExecError(sql string, err error) *QueryExecError {
	return &QueryExecError{
		SQL: sql,
		Err: err,
	}
}

// UpstreamError represents failures from the SmartCare upstream API.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream error (endpoint=%s, status=%d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream error (endpoint=%s): %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates a new upstream API error.
func NewUpstreamError(endpoint string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Err:        err,
	}
}
