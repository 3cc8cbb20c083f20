package service

import "errors"

var (
	// ErrInsufficientFunds is returned when a withdrawal exceeds the
	// user's current balance. State is left untouched.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned for non-positive operation amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrUserNotFound is returned when an operation references a user
	// that does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when a create races a concurrent
	// create for the same external ID and loses on the unique constraint.
	ErrUserAlreadyExists = errors.New("user already exists")
)
