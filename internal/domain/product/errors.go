package product

import (
	"fmt"

	"github.com/go-faster/errors"

	"github.com/xenking/store-inventory/internal/domain/validate"
)

var (
	// ErrCapability is returned when a value does not satisfy the capability
	// contract required at that point: a nil or unknown promotion assigned to
	// a product, or a nil product added to a store.
	ErrCapability = errors.New("value does not satisfy the required capability")
	// ErrInsufficientStock is returned when a purchase exceeds the current stock.
	ErrInsufficientStock = errors.New("the requested quantity is higher than the current stock")
	// ErrExceedsMaximum is returned when a purchase exceeds a limited
	// product's per-order maximum.
	ErrExceedsMaximum = errors.New("the requested quantity is higher than maximum per order")
)

// StockError indicates a purchase that the product cannot fulfil. It wraps
// either ErrInsufficientStock or ErrExceedsMaximum and also matches
// validate.ErrInvalid.
type StockError struct {
	Product   string
	Requested int
	Available int
	Maximum   int
	Err       error
}

func (e *StockError) Error() string {
	if errors.Is(e.Err, ErrExceedsMaximum) {
		return fmt.Sprintf("%s: %v (requested %d, maximum %d)", e.Product, e.Err, e.Requested, e.Maximum)
	}
	return fmt.Sprintf("%s: %v (requested %d, available %d)", e.Product, e.Err, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return e.Err
}

// Is reports whether target is validate.ErrInvalid.
func (e *StockError) Is(target error) bool {
	return target == validate.ErrInvalid
}
