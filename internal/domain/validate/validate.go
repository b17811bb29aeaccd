// Package validate holds the input validation error shared by the domain
// packages and the checks used by their constructors and mutators.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalid matches every *Error via errors.Is.
var ErrInvalid = errors.New("invalid input")

// Error reports malformed or out-of-range input to a constructor or mutator.
type Error struct {
	Field  string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Name checks that a product name is not empty.
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return &Error{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// Price checks that a price is not negative.
func Price(price decimal.Decimal) error {
	if price.IsNegative() {
		return &Error{Field: "price", Value: price.String(), Reason: "must be greater or equal to zero"}
	}
	return nil
}

// NonNegativeInt checks that n >= 0.
func NonNegativeInt(field string, n int) error {
	if n < 0 {
		return &Error{Field: field, Value: strconv.Itoa(n), Reason: "must be greater or equal to zero"}
	}
	return nil
}

// PositiveInt checks that n > 0.
func PositiveInt(field string, n int) error {
	if n <= 0 {
		return &Error{Field: field, Value: strconv.Itoa(n), Reason: "must be greater than zero"}
	}
	return nil
}

// Percent checks that n is within [0, 100].
func Percent(n int) error {
	if n < 0 || n > 100 {
		return &Error{Field: "percent", Value: strconv.Itoa(n), Reason: "must be a number between 0 and 100"}
	}
	return nil
}

// ParseQuantity parses a non-negative integer quantity from user input.
func ParseQuantity(s string) (int, error) {
	return parseInt("quantity", s, NonNegativeInt)
}

// ParseMaximum parses a positive per-order maximum from user input.
func ParseMaximum(s string) (int, error) {
	return parseInt("maximum", s, PositiveInt)
}

// ParsePercent parses a discount percent from user input.
func ParsePercent(s string) (int, error) {
	return parseInt("percent", s, func(_ string, n int) error { return Percent(n) })
}

// ParsePrice parses a non-negative price from user input.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &Error{Field: "price", Reason: "must be a number"}
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &Error{Field: "price", Value: s, Reason: "must be a number"}
	}
	if err := Price(p); err != nil {
		return decimal.Zero, err
	}
	return p, nil
}

func parseInt(field, s string, check func(string, int) error) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &Error{Field: field, Value: s, Reason: "must be a whole number"}
	}
	if err := check(field, n); err != nil {
		return 0, err
	}
	return n, nil
}
