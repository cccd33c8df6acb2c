package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Entry errors
	ErrEntryNotFound = errors.New("entry not found")

	// ErrOpeningDateTooLate is surfaced verbatim in failed Results; the
	// wording is part of the public contract.
	ErrOpeningDateTooLate = errors.New("Opening balance date must be before the oldest entry date")
)
