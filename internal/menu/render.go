package menu

import (
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/store-inventory/internal/checkout"
	"github.com/xenking/store-inventory/internal/domain/product"
)

// Format selects how listings and receipts are printed.
type Format string

const (
	// FormatText prints human readable lines.
	FormatText Format = "text"
	// FormatJSON prints one JSON document per answer.
	FormatJSON Format = "json"
)

// ParseFormat validates a configured output format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", errors.Errorf("unsupported output format %q", s)
	}
}

type renderer interface {
	Products(w io.Writer, items []product.Item) error
	TotalQuantity(w io.Writer, n int) error
	Receipt(w io.Writer, r *checkout.Receipt) error
}

func newRenderer(f Format) renderer {
	if f == FormatJSON {
		return jsonRenderer{}
	}
	return textRenderer{}
}

type textRenderer struct{}

func (textRenderer) Products(w io.Writer, items []product.Item) error {
	if _, err := fmt.Fprintln(w, "------"); err != nil {
		return err
	}
	for i, item := range items {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, item); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "------")
	return err
}

func (textRenderer) TotalQuantity(w io.Writer, n int) error {
	_, err := fmt.Fprintf(w, "Total of %d items in store\n", n)
	return err
}

func (textRenderer) Receipt(w io.Writer, r *checkout.Receipt) error {
	_, err := fmt.Fprintf(w, "********\nOrder made! Total payment $%s\n", r.Total.String())
	return err
}

type jsonRenderer struct{}

func (jsonRenderer) Products(w io.Writer, items []product.Item) error {
	var e jx.Encoder
	e.ArrStart()
	for i, item := range items {
		e.ObjStart()
		e.FieldStart("number")
		e.Int(i + 1)
		encodeItem(&e, item)
		e.ObjEnd()
	}
	e.ArrEnd()
	return writeLine(w, &e)
}

func (jsonRenderer) TotalQuantity(w io.Writer, n int) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("total_quantity")
	e.Int(n)
	e.ObjEnd()
	return writeLine(w, &e)
}

func (jsonRenderer) Receipt(w io.Writer, r *checkout.Receipt) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(r.ID)
	e.FieldStart("total")
	e.Str(r.Total.String())
	e.FieldStart("skipped")
	e.Int(r.Skipped)
	e.FieldStart("lines")
	e.ArrStart()
	for _, l := range r.Lines {
		e.ObjStart()
		e.FieldStart("name")
		e.Str(l.Product.Name())
		e.FieldStart("quantity")
		e.Int(l.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
	return writeLine(w, &e)
}

func encodeItem(e *jx.Encoder, item product.Item) {
	e.FieldStart("name")
	e.Str(item.Name())
	e.FieldStart("price")
	e.Str(item.Price().String())
	e.FieldStart("quantity")
	e.Int(item.Quantity())
	if l, ok := item.(*product.Limited); ok {
		e.FieldStart("maximum")
		e.Int(l.Maximum())
	}
	if !item.TracksStock() {
		e.FieldStart("unlimited")
		e.Bool(true)
	}
	if p := item.Promotion(); p != nil {
		e.FieldStart("promotion")
		e.Str(p.Name())
	}
}

func writeLine(w io.Writer, e *jx.Encoder) error {
	_, err := w.Write(append(e.Bytes(), '\n'))
	return err
}
