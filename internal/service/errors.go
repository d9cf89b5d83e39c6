package service

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication never says which of number or PIN was wrong.
	ErrAuthentication = errors.New("wrong card number or PIN")

	ErrSameAccount   = errors.New("you can't transfer money to the same account")
	ErrInvalidNumber = errors.New("probably you made a mistake in the card number")
	ErrInvalidAmount = errors.New("amount must not be negative")

	ErrNoSuchReceiver    = errors.New("such a card does not exist")
	ErrInsufficientFunds = errors.New("not enough money")

	ErrSessionClosed = errors.New("account is closed")
)

// StorageError wraps a persistence failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is a rejected input rather than a failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrSameAccount) ||
		errors.Is(err, ErrInvalidNumber) ||
		errors.Is(err, ErrInvalidAmount)
}

// IsStorage reports whether err came from the store.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
