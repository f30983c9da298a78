package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the catalog, order and billing packages.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateName   = errors.New("duplicate name")
	// ErrStorage wraps unexpected failures of the underlying store.
	ErrStorage = errors.New("storage fault")
)

// InsufficientStockError reports a request that would drive stock negative.
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// ProductVanishedError reports a product that disappeared between the time a
// buffer referenced it and the time the reference was resolved again.
type ProductVanishedError struct {
	ProductID uint
}

func (e *ProductVanishedError) Error() string {
	return fmt.Sprintf("product %d no longer exists", e.ProductID)
}

func storageFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
