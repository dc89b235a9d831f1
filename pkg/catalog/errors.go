package catalog

import (
	"errors"
	"fmt"
)

// Common errors returned by the catalog.
var (
	// ErrNotFound is returned when a product or category does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidProduct is returned when a product fails validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidCategory is returned when a category fails validation.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = errors.New("category already exists")
)

// StoreError is a failure of the entity store. It is never caused by client
// input and maps to a server error at the boundary.
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeError wraps err as a StoreError unless it already is one.
func storeError(op string, err error) error {
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
