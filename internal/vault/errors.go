package vault

import (
	"errors"
	"fmt"
)

// Kind classifies an instruction failure.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindCapacity      Kind = "capacity"
	KindResource      Kind = "resource"
	KindState         Kind = "state"
	KindNotFound      Kind = "not_found"
	KindArithmetic    Kind = "arithmetic"
	KindInternal      Kind = "internal"
)

// errorCodeOffset keeps program error numbers clear of host error numbers.
const errorCodeOffset = 6000

// Error is a program error. Two errors match under errors.Is when their codes match.
type Error struct {
	Code    string
	Number  uint32
	Kind    Kind
	Message string
	cause   error
}

func newError(number uint32, code string, kind Kind, message string) *Error {
	return &Error{Code: code, Number: errorCodeOffset + number, Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	out := *e
	out.cause = cause
	return &out
}

var (
	ErrInvalidDepositAmount  = newError(0, "InvalidDepositAmount", KindValidation, "deposit amount must be greater than zero")
	ErrInvalidWithdrawAmount = newError(1, "InvalidWithdrawAmount", KindValidation, "withdrawal amount must be greater than zero")
	ErrInsufficientBalance   = newError(2, "InsufficientBalance", KindResource, "insufficient treasury balance for withdrawal")
	ErrArithmeticOverflow    = newError(3, "ArithmeticOverflow", KindArithmetic, "arithmetic overflow")
	ErrUnauthorized          = newError(4, "Unauthorized", KindAuthorization, "only the vault admin can perform this action")
	ErrInvalidAmount         = newError(5, "InvalidAmount", KindValidation, "amount must be greater than zero")
	ErrInvalidRate           = newError(6, "InvalidRate", KindValidation, "exchange rate numerator and denominator must be greater than zero")
	ErrExceedsMaxSupply      = newError(7, "ExceedsMaxSupply", KindCapacity, "purchase would exceed the maximum token supply")
	ErrExceedsAllowedPayout  = newError(8, "ExceedsAllowedPayout", KindCapacity, "payout exceeds the child's remaining entitlement")
	ErrAlreadyExecuted       = newError(9, "AlreadyExecuted", KindState, "payout has already been executed")
	ErrRecipientMismatch     = newError(10, "RecipientMismatch", KindAuthorization, "recipient must be the child's authority")
	ErrAccountAlreadyExists  = newError(11, "AccountAlreadyExists", KindState, "account already exists")
	ErrAccountNotFound       = newError(12, "AccountNotFound", KindNotFound, "account does not exist")
	ErrAccountDidNotDecode   = newError(13, "AccountDidNotDeserialize", KindInternal, "account data could not be decoded")
	ErrInvalidSeeds          = newError(14, "ConstraintSeeds", KindAuthorization, "account is not at its derived identity")
	ErrInsufficientFunds     = newError(15, "InsufficientFunds", KindResource, "caller cannot fund the transfer")
	ErrAccountOwnedByOther   = newError(16, "AccountOwnedByWrongProgram", KindAuthorization, "account is not owned by the expected program")
)

// KindOf classifies err; errors that are not program errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the program error code of err, or "" for foreign errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
