package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound covers lookups of transactions, portfolios and stocks by id.
// Retired (soft-deleted) rows report the same way as absent ones.
var ErrNotFound = errors.New("record not found")

// InvalidInputError rejects a request before anything is written.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ReferenceNotFoundError means a transaction names a portfolio or stock that
// does not exist.
type ReferenceNotFoundError struct {
	Entity string
	ID     uint
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

// InsufficientQuantityError rejects a mutation that would leave a
// (portfolio, stock) pair with more units sold than bought. Current and
// Requested are reported to the caller.
type InsufficientQuantityError struct {
	Current   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity: current %s, requested %s", e.Current, e.Requested)
}

// DuplicateEntityError means a unique identifier (stock symbol, user email)
// is already taken.
type DuplicateEntityError struct {
	Entity     string
	Identifier string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("%s with identifier '%s' already exists", e.Entity, e.Identifier)
}
