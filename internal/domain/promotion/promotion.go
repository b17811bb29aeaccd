package promotion

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/store-inventory/internal/domain/validate"
)

// Type enumerates the supported promotion pricing strategies.
type Type string

const (
	// TypeSecondHalfPrice charges every second unit at half price.
	TypeSecondHalfPrice Type = "second_half_price"
	// TypeThirdOneFree gives every third unit away for free.
	TypeThirdOneFree Type = "third_one_free"
	// TypePercentDiscount takes a fixed percent off every unit.
	TypePercentDiscount Type = "percent_discount"
)

// ErrUnsupportedType is returned for a Type outside the known set.
var ErrUnsupportedType = errors.New("unsupported promotion type")

var (
	hundred    = decimal.NewFromInt(100)
	oneAndHalf = decimal.New(15, -1)
	two        = decimal.NewFromInt(2)
)

// Promotion is a pricing strategy attachable to a product. It holds no state
// beyond its configuration and may be shared by any number of products.
type Promotion struct {
	Type    Type
	Percent int
}

// SecondHalfPrice returns the "every second unit at half price" promotion.
func SecondHalfPrice() *Promotion {
	return &Promotion{Type: TypeSecondHalfPrice}
}

// ThirdOneFree returns the "buy two, get the third free" promotion.
func ThirdOneFree() *Promotion {
	return &Promotion{Type: TypeThirdOneFree}
}

// PercentDiscount returns a promotion taking percent off every unit.
// The percent must be within [0, 100].
func PercentDiscount(percent int) (*Promotion, error) {
	if err := validate.Percent(percent); err != nil {
		return nil, err
	}
	return &Promotion{Type: TypePercentDiscount, Percent: percent}, nil
}

// New builds a promotion of the given type. Percent is only used by
// TypePercentDiscount.
func New(t Type, percent int) (*Promotion, error) {
	switch t {
	case TypeSecondHalfPrice:
		return SecondHalfPrice(), nil
	case TypeThirdOneFree:
		return ThirdOneFree(), nil
	case TypePercentDiscount:
		return PercentDiscount(percent)
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "%q", t)
	}
}

// Valid reports whether the promotion is one of the known strategies with a
// usable configuration.
func (p *Promotion) Valid() bool {
	if p == nil {
		return false
	}
	switch p.Type {
	case TypeSecondHalfPrice, TypeThirdOneFree:
		return true
	case TypePercentDiscount:
		return validate.Percent(p.Percent) == nil
	default:
		return false
	}
}

// Name returns the display label of the promotion.
func (p *Promotion) Name() string {
	switch p.Type {
	case TypeSecondHalfPrice:
		return "Second Half price!"
	case TypeThirdOneFree:
		return "Third One Free!"
	case TypePercentDiscount:
		return fmt.Sprintf("%d%% off!", p.Percent)
	default:
		return string(p.Type)
	}
}

// Apply returns the total price of quantity units at unitPrice with the
// promotion applied. No rounding is performed.
func (p *Promotion) Apply(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if err := validate.PositiveInt("quantity", quantity); err != nil {
		return decimal.Zero, err
	}

	q := int64(quantity)
	switch p.Type {
	case TypeSecondHalfPrice:
		return applySecondHalfPrice(unitPrice, q), nil
	case TypeThirdOneFree:
		return applyThirdOneFree(unitPrice, q), nil
	case TypePercentDiscount:
		return applyPercent(unitPrice, q, p.Percent), nil
	default:
		return decimal.Zero, errors.Wrapf(ErrUnsupportedType, "%q", p.Type)
	}
}

// applySecondHalfPrice charges (pairs*1.5 + remainder) units.
func applySecondHalfPrice(unitPrice decimal.Decimal, q int64) decimal.Decimal {
	pairs := decimal.NewFromInt(q / 2)
	remainder := decimal.NewFromInt(q % 2)
	return pairs.Mul(oneAndHalf).Add(remainder).Mul(unitPrice)
}

// applyThirdOneFree charges (groups*2 + remainder) units.
func applyThirdOneFree(unitPrice decimal.Decimal, q int64) decimal.Decimal {
	groups := decimal.NewFromInt(q / 3)
	remainder := decimal.NewFromInt(q % 3)
	return groups.Mul(two).Add(remainder).Mul(unitPrice)
}

func applyPercent(unitPrice decimal.Decimal, q int64, percent int) decimal.Decimal {
	keep := hundred.Sub(decimal.NewFromInt(int64(percent)))
	return decimal.NewFromInt(q).Mul(unitPrice).Mul(keep).Div(hundred)
}
