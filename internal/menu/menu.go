// Package menu implements the interactive text menu of the store front.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/store-inventory/internal/checkout"
	"github.com/xenking/store-inventory/internal/domain/store"
	"github.com/xenking/store-inventory/internal/domain/validate"
)

const banner = `
   Store Menu
   ----------
1. List all products in store
2. Show total amount in store
3. Make an order
4. Quit
`

// Menu reads choices from an input stream and answers on an output stream.
type Menu struct {
	store    *store.Store
	checkout *checkout.Service
	render   renderer

	in  *bufio.Scanner
	out io.Writer
}

// New creates a Menu over the given store and checkout service.
func New(s *store.Store, svc *checkout.Service, in io.Reader, out io.Writer, format Format) *Menu {
	return &Menu{
		store:    s,
		checkout: svc,
		render:   newRenderer(format),
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run shows the menu until the user quits, the input ends or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.print(banner)
		line, ok := m.prompt("Please choose a number: ")
		if !ok {
			return m.in.Err()
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			m.print("Error with your choice! Try again!\n")
			continue
		}

		switch choice {
		case 1:
			err = m.listProducts()
		case 2:
			err = m.render.TotalQuantity(m.out, m.store.TotalQuantity())
		case 3:
			err = m.makeOrder(ctx)
		case 4:
			m.print("Bye!\n")
			return nil
		default:
			m.print("Error with your choice! Try again!\n")
		}
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}
}

func (m *Menu) listProducts() error {
	return m.render.Products(m.out, m.store.Products())
}

// makeOrder collects (product number, amount) pairs until an empty answer
// and places them as a single order.
func (m *Menu) makeOrder(ctx context.Context) error {
	products := m.store.Products()
	if err := m.render.Products(m.out, products); err != nil {
		return err
	}
	m.print("When you want to finish order, enter empty text.\n")

	var lines []store.Line
	for {
		answer, ok := m.prompt("Which product number do you want? ")
		if !ok || strings.TrimSpace(answer) == "" {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil || n < 1 || n > len(products) {
			m.print("Error adding product!\n\n")
			continue
		}

		answer, ok = m.prompt("What amount do you want? ")
		if !ok {
			break
		}
		quantity, err := validate.ParseQuantity(answer)
		if err != nil || quantity == 0 {
			m.print("Error while making order, invalid quantity provided!\n\n")
			continue
		}

		lines = append(lines, store.Line{Product: products[n-1], Quantity: quantity})
		m.print("Product added to list!\n\n")
	}

	if len(lines) == 0 {
		return nil
	}

	r, err := m.checkout.PlaceOrder(ctx, lines)
	if err != nil {
		zctx.From(ctx).Debug("Order rejected", zap.Error(err))
		m.print(fmt.Sprintf("Error while making order! %v\n", err))
		return nil
	}
	if r.Total.IsZero() {
		return nil
	}
	return m.render.Receipt(m.out, r)
}

func (m *Menu) prompt(question string) (string, bool) {
	m.print(question)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) print(s string) {
	_, _ = io.WriteString(m.out, s)
}
