// Package repository defines the in-memory registries for seats and
// companies together with the sentinel errors shared by the layers above.
// Handlers translate these values into HTTP status codes: ErrNotFound to
// 404, ErrValidation to 400 and the duplicate family to 409.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is the parent of every lookup failure.
var ErrNotFound = errors.New("not found")

// ErrSeatNotFound is returned when a seat id is not in the catalog.
var ErrSeatNotFound = fmt.Errorf("seat %w", ErrNotFound)

// ErrCompanyNotFound is returned when a company id is unknown.
var ErrCompanyNotFound = fmt.Errorf("company %w", ErrNotFound)

// ErrDuplicateName is returned when another company already uses the same
// name, compared case-insensitively.
var ErrDuplicateName = errors.New("a company with that name already exists")

// ErrDuplicateColor is returned when another company already uses the
// colour.
var ErrDuplicateColor = errors.New("a company with that color already exists")

// ErrValidation signals a missing or malformed required field.
var ErrValidation = errors.New("validation failed")
