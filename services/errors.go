package services

import "errors"

var (
	// ErrDuplicateBudget is returned when a budget already exists for the
	// same (user, category, month).
	ErrDuplicateBudget = errors.New("budget already exists for this category and month")

	// ErrNotFound is returned when a record does not exist or does not
	// belong to the requesting user.
	ErrNotFound = errors.New("record not found")
)
