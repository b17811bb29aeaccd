package product

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xenking/store-inventory/internal/domain/validate"
)

// NonStocked is an item with unlimited availability, such as a service or a
// software license. Its quantity is pinned to zero and it never runs out.
type NonStocked struct {
	Product
}

// NewNonStocked creates an active non-stocked item.
func NewNonStocked(name string, price decimal.Decimal, opts ...Option) (*NonStocked, error) {
	p, err := newProduct(name, price, 0, opts...)
	if err != nil {
		return nil, err
	}
	p.active = true
	return &NonStocked{Product: p}, nil
}

// SetQuantity ignores its argument and keeps the quantity at zero.
func (n *NonStocked) SetQuantity(int) error {
	n.quantity = 0
	return nil
}

func (n *NonStocked) TracksStock() bool {
	return false
}

// Check only validates the quantity format; there is no stock to exhaust.
func (n *NonStocked) Check(quantity int) error {
	return validate.NonNegativeInt("quantity", quantity)
}

func (n *NonStocked) Buy(quantity int) (decimal.Decimal, error) {
	if err := n.Check(quantity); err != nil {
		return decimal.Zero, err
	}
	return n.charge(quantity)
}

// Limited is a stocked item with a cap on how many units a single order line
// may buy.
type Limited struct {
	Product
	maximum int
}

// NewLimited creates a limited item. The maximum must be positive.
func NewLimited(name string, price decimal.Decimal, quantity, maximum int, opts ...Option) (*Limited, error) {
	if err := validate.PositiveInt("maximum", maximum); err != nil {
		return nil, err
	}
	p, err := newProduct(name, price, quantity, opts...)
	if err != nil {
		return nil, err
	}
	return &Limited{Product: p, maximum: maximum}, nil
}

func (l *Limited) Maximum() int {
	return l.maximum
}

// SetMaximum replaces the per-order maximum.
func (l *Limited) SetMaximum(maximum int) error {
	if err := validate.PositiveInt("maximum", maximum); err != nil {
		return err
	}
	l.maximum = maximum
	return nil
}

// Check runs the stock check first, then the per-order maximum.
func (l *Limited) Check(quantity int) error {
	if err := l.Product.Check(quantity); err != nil {
		return err
	}
	if quantity > l.maximum {
		return &StockError{
			Product:   l.name,
			Requested: quantity,
			Available: l.quantity,
			Maximum:   l.maximum,
			Err:       ErrExceedsMaximum,
		}
	}
	return nil
}

func (l *Limited) Buy(quantity int) (decimal.Decimal, error) {
	if err := l.Check(quantity); err != nil {
		return decimal.Zero, err
	}
	return l.take(quantity)
}

func (l *Limited) String() string {
	return l.display(l.quantity, fmt.Sprintf("Maximum: %d", l.maximum))
}
