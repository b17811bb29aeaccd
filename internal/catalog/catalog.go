// Package catalog decodes seed catalogs: the initial products a store is
// built from, with their variant and optional promotion.
//
// A catalog is a JSON array of entries:
//
//	[{"name": "Shipping", "price": "10", "quantity": 250, "kind": "limited",
//	  "maximum": 1, "promotion": {"type": "percent_discount", "percent": 30}}]
package catalog

import (
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/store-inventory/internal/domain/product"
	"github.com/xenking/store-inventory/internal/domain/promotion"
	"github.com/xenking/store-inventory/internal/domain/validate"
)

// Kind selects the product variant of an entry.
type Kind string

const (
	// KindStocked is a regular product with tracked stock.
	KindStocked Kind = "stocked"
	// KindNonStocked is a product with unlimited availability.
	KindNonStocked Kind = "non_stocked"
	// KindLimited is a stocked product with a per-order maximum.
	KindLimited Kind = "limited"
)

// ErrUnknownKind is returned for an entry with an unsupported kind.
var ErrUnknownKind = errors.New("unknown product kind")

// Entry is a single catalog record.
type Entry struct {
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Kind      Kind
	Maximum   int
	Inactive  bool
	Promotion *PromotionConfig
}

// PromotionConfig describes the promotion attached to an entry.
type PromotionConfig struct {
	Type    promotion.Type
	Percent int
}

// EntryError reports the catalog entry that failed to decode or build.
type EntryError struct {
	Source string
	Index  int
	Err    error
}

func (e *EntryError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("%s: entry %d: %v", e.Source, e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Decode reads a catalog from r.
func Decode(r io.Reader) ([]Entry, error) {
	var entries []Entry
	d := jx.Decode(r, 4096)
	if err := d.Arr(func(d *jx.Decoder) error {
		e, err := decodeEntry(d)
		if err != nil {
			return &EntryError{Index: len(entries), Err: err}
		}
		entries = append(entries, e)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	return entries, nil
}

func decodeEntry(d *jx.Decoder) (Entry, error) {
	e := Entry{Kind: KindStocked}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			e.Name, err = d.Str()
		case "price":
			e.Price, err = decodePrice(d)
		case "quantity":
			e.Quantity, err = d.Int()
		case "kind":
			var kind string
			kind, err = d.Str()
			e.Kind = Kind(kind)
		case "maximum":
			e.Maximum, err = d.Int()
		case "inactive":
			e.Inactive, err = d.Bool()
		case "promotion":
			if d.Next() == jx.Null {
				return d.Null()
			}
			var promo PromotionConfig
			promo, err = decodePromotion(d)
			e.Promotion = &promo
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	return e, err
}

// decodePrice accepts both JSON numbers and numeric strings.
func decodePrice(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		return validate.ParsePrice(s)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return validate.ParsePrice(n.String())
	default:
		return decimal.Zero, &validate.Error{Field: "price", Reason: "must be a number"}
	}
}

func decodePromotion(d *jx.Decoder) (PromotionConfig, error) {
	var promo PromotionConfig
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "type":
			t, err := d.Str()
			if err != nil {
				return err
			}
			promo.Type = promotion.Type(t)
			return nil
		case "percent":
			n, err := d.Int()
			if err != nil {
				return err
			}
			promo.Percent = n
			return nil
		default:
			return d.Skip()
		}
	})
	return promo, err
}

// Build creates the product described by the entry.
func (e Entry) Build() (product.Item, error) {
	var opts []product.Option
	if e.Inactive {
		opts = append(opts, product.Inactive())
	}
	if e.Promotion != nil {
		promo, err := promotion.New(e.Promotion.Type, e.Promotion.Percent)
		if err != nil {
			return nil, errors.Wrap(err, "promotion")
		}
		opts = append(opts, product.WithPromotion(promo))
	}

	var (
		item product.Item
		err  error
	)
	switch e.Kind {
	case KindStocked, "":
		item, err = product.New(e.Name, e.Price, e.Quantity, opts...)
	case KindNonStocked:
		item, err = product.NewNonStocked(e.Name, e.Price, opts...)
	case KindLimited:
		item, err = product.NewLimited(e.Name, e.Price, e.Quantity, e.Maximum, opts...)
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", string(e.Kind))
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Build creates the products of every entry, in order.
func Build(source string, entries []Entry) ([]product.Item, error) {
	items := make([]product.Item, 0, len(entries))
	for i, e := range entries {
		item, err := e.Build()
		if err != nil {
			return nil, &EntryError{Source: source, Index: i, Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}
