// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInterval indicates a malformed date or date interval
	TypeInterval Type = "INTERVAL_ERROR"

	// TypeBill indicates an inconsistent bill or shared bill
	TypeBill Type = "BILL_ERROR"

	// TypeEstimation indicates the shared cost could not be estimated
	TypeEstimation Type = "ESTIMATION_ERROR"

	// TypeSplit indicates an invalid responsibility split
	TypeSplit Type = "SPLIT_ERROR"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing indicates a parsing error
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeStorage indicates a bill history store error
	TypeStorage Type = "STORAGE_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Code identifies a specific failure within a Type
type Code string

const (
	CodeNegativeLengthInterval Code = "NEGATIVE_LENGTH_INTERVAL"
	CodeInvalidDate            Code = "INVALID_DATE"
	CodeMismatchedCurrencies   Code = "MISMATCHED_CURRENCIES"
	CodeExceedsAmountDue       Code = "EXCEEDS_AMOUNT_DUE"
	CodeNegative               Code = "NEGATIVE"
	CodeInvalidModelData       Code = "INVALID_MODEL_DATA"
	CodeModelFitsDataPoorly    Code = "MODEL_FITS_DATA_POORLY"
	CodeModelPredictsPoorly    Code = "MODEL_PREDICTS_POORLY"
	CodeInvalidSplit           Code = "INVALID_SPLIT"
	CodeEmptyGroup             Code = "EMPTY_GROUP"
)

// Sentinels for errors.Is comparisons. Matching is by Type and Code, so an
// error carrying extra context still matches its sentinel.
var (
	ErrNegativeLengthInterval = New(TypeInterval, CodeNegativeLengthInterval, "the end of an interval cannot be before the start")
	ErrInvalidDate            = New(TypeInterval, CodeInvalidDate, "error parsing date")
	ErrMismatchedCurrencies   = New(TypeBill, CodeMismatchedCurrencies, "amounts must share one currency")
	ErrExceedsAmountDue       = New(TypeBill, CodeExceedsAmountDue, "amount exceeds the amount due")
	ErrNegative               = New(TypeBill, CodeNegative, "amount cannot be negative")
	ErrInvalidModelData       = New(TypeEstimation, CodeInvalidModelData, "something is wrong with the bill history")
	ErrModelFitsDataPoorly    = New(TypeEstimation, CodeModelFitsDataPoorly, "a good estimator could not be created from the bill history")
	ErrModelPredictsPoorly    = New(TypeEstimation, CodeModelPredictsPoorly, "the model predicts the current bill poorly")
	ErrInvalidSplit           = New(TypeSplit, CodeInvalidSplit, "responsibility ratios must sum to 0 or 1")
	ErrEmptyGroup             = New(TypeInput, CodeEmptyGroup, "a roommate group needs at least one member")
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Code    Code                   `json:"code,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Type and Code.
// A target without a Code matches any error of its Type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == "" {
		return e.Type == t.Type
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, code Code, message string) *Error {
	return &Error{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// derive copies a sentinel so callers can attach a detail message and
// context without mutating the shared value.
func derive(sentinel *Error, detail string) *Error {
	msg := sentinel.Message
	if detail != "" {
		msg = msg + ": " + detail
	}
	return &Error{Type: sentinel.Type, Code: sentinel.Code, Message: msg}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// Is is a convenience re-export of the standard library errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a convenience re-export of the standard library errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// NegativeLengthInterval reports an interval whose end precedes its start
func NegativeLengthInterval(start, end string) *Error {
	return derive(ErrNegativeLengthInterval, fmt.Sprintf("%s > %s", start, end)).
		WithContext("start", start).
		WithContext("end", end)
}

// InvalidDate reports an unparsable date string
func InvalidDate(value string, cause error) *Error {
	e := derive(ErrInvalidDate, fmt.Sprintf("%q", value))
	e.Cause = cause
	return e.WithContext("value", value)
}

// MismatchedCurrencies reports two amounts in different currencies
func MismatchedCurrencies(want, got string) *Error {
	return derive(ErrMismatchedCurrencies, fmt.Sprintf("%s and %s", want, got)).
		WithContext("want", want).
		WithContext("got", got)
}

// ExceedsAmountDue reports a fixed or shared amount larger than the bill
func ExceedsAmountDue(what, amount, due string) *Error {
	return derive(ErrExceedsAmountDue, fmt.Sprintf("%s %s > %s", what, amount, due)).
		WithContext(what, amount).
		WithContext("amount_due", due)
}

// Negative reports a negative amount
func Negative(what, amount string) *Error {
	return derive(ErrNegative, fmt.Sprintf("%s %s", what, amount)).
		WithContext(what, amount)
}

// InvalidModelData reports degenerate regression input
func InvalidModelData(reason string) *Error {
	return derive(ErrInvalidModelData, reason)
}

// ModelFitsDataPoorly reports an R² below the acceptance threshold
func ModelFitsDataPoorly(rsquared float64) *Error {
	return derive(ErrModelFitsDataPoorly, fmt.Sprintf("rsquared == %g", rsquared)).
		WithContext("rsquared", rsquared)
}

// ModelPredictsPoorly reports a MAPE above the acceptance threshold
func ModelPredictsPoorly(mape float64) *Error {
	return derive(ErrModelPredictsPoorly, fmt.Sprintf("mean absolute percentage error of %g", mape)).
		WithContext("mape", mape)
}

// InvalidSplit reports a responsibility split that cannot be normalized
func InvalidSplit(reason string) *Error {
	return derive(ErrInvalidSplit, reason)
}

// Input creates an input error
func Input(message string) *Error {
	return &Error{Type: TypeInput, Message: message}
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Config creates a configuration error
func Config(message string) *Error {
	return &Error{Type: TypeConfig, Message: message}
}

// Storage creates a storage error
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
