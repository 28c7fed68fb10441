package session

import (
	"errors"
	"fmt"
)

// Error is returned by every Session operation that the operator must be told
// about. Message is operator-facing (pt-BR).
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the offending form field for validation and duplicate
	// errors.
	Field string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeValidation indicates a draft or form failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeNothingToSave indicates a save was attempted on an empty batch.
	ErrCodeNothingToSave ErrorCode = "NOTHING_TO_SAVE"

	// ErrCodeSaveInProgress indicates a save was triggered while another was
	// still running.
	ErrCodeSaveInProgress ErrorCode = "SAVE_IN_PROGRESS"

	// ErrCodeBuyerRequired indicates the save policy requires a buyer.
	ErrCodeBuyerRequired ErrorCode = "BUYER_REQUIRED"

	// ErrCodeDuplicate indicates a uniqueness violation reported by the store.
	ErrCodeDuplicate ErrorCode = "DUPLICATE"

	// ErrCodeIO indicates the store or the draft store failed.
	ErrCodeIO ErrorCode = "IO"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsNothingToSave reports whether err is an empty-batch save error.
func IsNothingToSave(err error) bool { return hasCode(err, ErrCodeNothingToSave) }

// IsSaveInProgress reports whether err is a re-entrant save error.
func IsSaveInProgress(err error) bool { return hasCode(err, ErrCodeSaveInProgress) }

// IsBuyerRequired reports whether err is a missing-buyer save error.
func IsBuyerRequired(err error) bool { return hasCode(err, ErrCodeBuyerRequired) }

// IsDuplicate reports whether err is a duplicate registration error.
func IsDuplicate(err error) bool { return hasCode(err, ErrCodeDuplicate) }

// IsIO reports whether err is a store failure.
func IsIO(err error) bool { return hasCode(err, ErrCodeIO) }

func validationError(field, message string) *Error {
	return &Error{Code: ErrCodeValidation, Message: message, Field: field}
}

func ioError(message string, err error) *Error {
	return &Error{Code: ErrCodeIO, Message: message, Err: err}
}
