package product

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/store-inventory/internal/domain/promotion"
	"github.com/xenking/store-inventory/internal/domain/validate"
)

// Item is the capability contract shared by every product variant. Stores
// and orders work with Items only.
type Item interface {
	Name() string
	Price() decimal.Decimal
	Quantity() int
	SetQuantity(quantity int) error
	IsActive() bool
	Activate()
	Deactivate()

	// TracksStock reports whether the quantity reflects real stock.
	// Non-stocked items always report zero and are never sold out.
	TracksStock() bool
	// Check validates a purchase of quantity units without mutating anything.
	Check(quantity int) error
	// Buy validates the purchase, removes quantity units from stock and
	// returns the charged price.
	Buy(quantity int) (decimal.Decimal, error)

	Promotion() *promotion.Promotion
	SetPromotion(p *promotion.Promotion) error
	RemovePromotion()

	// String returns the display summary of the item.
	String() string
}

var (
	_ Item = (*Product)(nil)
	_ Item = (*NonStocked)(nil)
	_ Item = (*Limited)(nil)
)

// Option configures a Product at construction.
type Option func(*Product)

// Inactive creates the product deactivated.
func Inactive() Option {
	return func(p *Product) {
		p.active = false
	}
}

// WithPromotion attaches a promotion at construction. Invalid promotions
// are ignored; use SetPromotion to get an error instead.
func WithPromotion(promo *promotion.Promotion) Option {
	return func(p *Product) {
		if promo.Valid() {
			p.promotion = promo
		}
	}
}

// Product is a stocked store item.
type Product struct {
	name      string
	price     decimal.Decimal
	quantity  int
	active    bool
	promotion *promotion.Promotion
}

// New creates an active product. A product created with zero quantity is
// always inactive.
func New(name string, price decimal.Decimal, quantity int, opts ...Option) (*Product, error) {
	p, err := newProduct(name, price, quantity, opts...)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func newProduct(name string, price decimal.Decimal, quantity int, opts ...Option) (Product, error) {
	if err := validate.Name(name); err != nil {
		return Product{}, err
	}
	if err := validate.Price(price); err != nil {
		return Product{}, err
	}
	if err := validate.NonNegativeInt("quantity", quantity); err != nil {
		return Product{}, err
	}

	p := Product{
		name:     name,
		price:    price,
		quantity: quantity,
		active:   true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.quantity == 0 {
		p.active = false
	}
	return p, nil
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Price() decimal.Decimal {
	return p.price
}

func (p *Product) Quantity() int {
	return p.quantity
}

// SetQuantity replaces the stock. Reaching zero deactivates the product;
// raising it from zero does not reactivate it.
func (p *Product) SetQuantity(quantity int) error {
	if err := validate.NonNegativeInt("quantity", quantity); err != nil {
		return err
	}
	p.setQuantity(quantity)
	return nil
}

func (p *Product) setQuantity(quantity int) {
	p.quantity = quantity
	if p.quantity == 0 {
		p.active = false
	}
}

func (p *Product) IsActive() bool {
	return p.active
}

func (p *Product) Activate() {
	p.active = true
}

func (p *Product) Deactivate() {
	p.active = false
}

func (p *Product) TracksStock() bool {
	return true
}

// Check rejects negative quantities and quantities above the current stock.
func (p *Product) Check(quantity int) error {
	if err := validate.NonNegativeInt("quantity", quantity); err != nil {
		return err
	}
	if quantity > p.quantity {
		return &StockError{
			Product:   p.name,
			Requested: quantity,
			Available: p.quantity,
			Err:       ErrInsufficientStock,
		}
	}
	return nil
}

func (p *Product) Buy(quantity int) (decimal.Decimal, error) {
	if err := p.Check(quantity); err != nil {
		return decimal.Zero, err
	}
	return p.take(quantity)
}

// take prices a checked purchase and only then removes it from stock.
func (p *Product) take(quantity int) (decimal.Decimal, error) {
	total, err := p.charge(quantity)
	if err != nil {
		return decimal.Zero, err
	}
	p.setQuantity(p.quantity - quantity)
	return total, nil
}

// charge returns the price of quantity units, through the promotion when
// one is attached. Buying nothing costs nothing.
func (p *Product) charge(quantity int) (decimal.Decimal, error) {
	if quantity == 0 {
		return decimal.Zero, nil
	}
	if p.promotion != nil {
		total, err := p.promotion.Apply(p.price, quantity)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "apply %s", p.promotion.Name())
		}
		return total, nil
	}
	return p.price.Mul(decimal.NewFromInt(int64(quantity))), nil
}

func (p *Product) Promotion() *promotion.Promotion {
	return p.promotion
}

// SetPromotion attaches promo, replacing any previous one. A nil or unknown
// promotion is rejected with ErrCapability and leaves the product unchanged.
func (p *Product) SetPromotion(promo *promotion.Promotion) error {
	if !promo.Valid() {
		return errors.Wrap(ErrCapability, "set promotion")
	}
	p.promotion = promo
	return nil
}

func (p *Product) RemovePromotion() {
	p.promotion = nil
}

func (p *Product) String() string {
	return p.display(p.quantity)
}

func (p *Product) display(quantity int, extra ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, Price: $%s, Quantity: %d", p.name, p.price.String(), quantity)
	for _, e := range extra {
		b.WriteString(", ")
		b.WriteString(e)
	}
	if p.promotion != nil {
		fmt.Fprintf(&b, ", Promotion: %s", p.promotion.Name())
	}
	return b.String()
}
