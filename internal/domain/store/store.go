// Package store implements the in-memory store that holds products and
// processes multi-line orders against them.
//
// A Store is designed for single-actor access: callers embedding it in a
// concurrent host must serialize every mutating call (AddProduct,
// RemoveProduct, Order and the products' own mutators) per Store.
package store

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/store-inventory/internal/domain/product"
)

// UnknownLines selects how Order treats lines for products the store does
// not hold.
type UnknownLines string

const (
	// SkipUnknown silently skips such lines without charging them.
	SkipUnknown UnknownLines = "skip"
	// RejectUnknown fails the order at the first such line.
	RejectUnknown UnknownLines = "reject"
)

// ParseUnknownLines validates a configured unknown line policy. An empty
// string selects SkipUnknown.
func ParseUnknownLines(s string) (UnknownLines, error) {
	switch m := UnknownLines(s); m {
	case SkipUnknown, RejectUnknown:
		return m, nil
	case "":
		return SkipUnknown, nil
	default:
		return "", errors.Errorf("unsupported unknown lines policy %q", s)
	}
}

// ErrNotHeld is returned by Order in RejectUnknown mode for a line whose
// product is not held by the store.
var ErrNotHeld = errors.New("product not held by store")

// LineError reports the order line that failed. When returned by Order,
// lines before Index have already been applied.
type LineError struct {
	Index   int
	Product string
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("order line %d (%s): %v", e.Index+1, e.Product, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for non-fatal conditions.
func WithLogger(lg *zap.Logger) Option {
	return func(s *Store) {
		if lg != nil {
			s.lg = lg
		}
	}
}

// WithUnknownLines sets the policy for order lines referencing products the
// store does not hold. The default is SkipUnknown.
func WithUnknownLines(mode UnknownLines) Option {
	return func(s *Store) {
		s.unknown = mode
	}
}

// WithKeepNonStocked keeps non-stocked products listed after Order buys
// them. By default every product whose quantity is zero after a buy is
// removed, non-stocked ones included.
func WithKeepNonStocked() Option {
	return func(s *Store) {
		s.keepNonStocked = true
	}
}

// Store holds an ordered collection of products.
type Store struct {
	products       []product.Item
	unknown        UnknownLines
	keepNonStocked bool
	lg             *zap.Logger
}

// New creates a store from the given products, activating each of them.
// A nil or empty slice yields an empty store; nil entries are skipped.
func New(items []product.Item, opts ...Option) *Store {
	s := &Store{
		products: make([]product.Item, 0, len(items)),
		unknown:  SkipUnknown,
		lg:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, item := range items {
		if item == nil {
			s.lg.Debug("Skipping nil product")
			continue
		}
		item.Activate()
		s.products = append(s.products, item)
	}
	return s
}

// AddProduct appends item to the store.
func (s *Store) AddProduct(item product.Item) error {
	if item == nil {
		return errors.Wrap(product.ErrCapability, "add product")
	}
	s.products = append(s.products, item)
	return nil
}

// RemoveProduct removes the first occurrence of item. It reports false when
// the store does not hold item; that outcome is not an error.
func (s *Store) RemoveProduct(item product.Item) bool {
	i := s.index(item)
	if i < 0 {
		name := "<nil>"
		if item != nil {
			name = item.Name()
		}
		s.lg.Debug("Product not found in inventory", zap.String("product", name))
		return false
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return true
}

// UnknownLines returns the policy for order lines referencing products the
// store does not hold.
func (s *Store) UnknownLines() UnknownLines {
	return s.unknown
}

// Holds reports whether the store holds item.
func (s *Store) Holds(item product.Item) bool {
	return s.index(item) >= 0
}

func (s *Store) index(item product.Item) int {
	if item == nil {
		return -1
	}
	for i, p := range s.products {
		if p == item {
			return i
		}
	}
	return -1
}

// TotalQuantity returns the stock held across every product, active or not.
func (s *Store) TotalQuantity() int {
	total := 0
	for _, p := range s.products {
		total += p.Quantity()
	}
	return total
}

// Products returns the active products in insertion order.
func (s *Store) Products() []product.Item {
	active := make([]product.Item, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// All returns every held product in insertion order.
func (s *Store) All() []product.Item {
	all := make([]product.Item, len(s.products))
	copy(all, s.products)
	return all
}

// Order buys every line in sequence and returns the accumulated price.
//
// Each line is validated and applied on its own, so duplicate lines for one
// product accumulate. A product whose quantity is zero after its line is
// removed from the store (non-stocked ones too, unless WithKeepNonStocked),
// and later lines for it are treated as unknown.
// The first failing line aborts the order with a *LineError; lines applied
// before it are not rolled back.
func (s *Store) Order(lines []Line) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, line := range lines {
		if !s.Holds(line.Product) {
			if s.unknown == RejectUnknown {
				return total, &LineError{Index: i, Product: lineName(line), Err: ErrNotHeld}
			}
			s.lg.Debug("Skipping order line for product not held",
				zap.Int("line", i+1),
				zap.String("product", lineName(line)),
			)
			continue
		}

		price, err := line.Product.Buy(line.Quantity)
		if err != nil {
			return total, &LineError{Index: i, Product: line.Product.Name(), Err: err}
		}
		total = total.Add(price)

		if s.soldOut(line.Product) {
			s.RemoveProduct(line.Product)
		}
	}
	return total, nil
}

// soldOut reports whether item must leave the store after a buy.
func (s *Store) soldOut(item product.Item) bool {
	if item.Quantity() != 0 {
		return false
	}
	return item.TracksStock() || !s.keepNonStocked
}

func lineName(line Line) string {
	if line.Product == nil {
		return "<nil>"
	}
	return line.Product.Name()
}
