// Package checkout places customer orders against a store.
//
// Unlike store.Order, which applies lines one by one and stops at the first
// failure, Service checks every line before touching any stock, so a
// rejected order leaves the store unchanged.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/store-inventory/internal/domain/product"
	"github.com/xenking/store-inventory/internal/domain/store"
)

const instrumentationName = "github.com/xenking/store-inventory/internal/checkout"

// ErrEmptyOrder is returned for an order without lines.
var ErrEmptyOrder = errors.New("order has no lines")

// InvalidQuantityError indicates a line with a non-positive quantity.
type InvalidQuantityError struct {
	Product  string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s, got %d", e.Product, e.Quantity)
}

// Receipt is the outcome of a placed order. Lines holds the merged lines
// that were bought.
type Receipt struct {
	ID        string
	Lines     []store.Line
	Total     decimal.Decimal
	Skipped   int
	CreatedAt time.Time
}

// Units returns the number of units bought.
func (r *Receipt) Units() int {
	n := 0
	for _, l := range r.Lines {
		n += l.Quantity
	}
	return n
}

// Service encapsulates order placement.
type Service struct {
	store  *store.Store
	tracer trace.Tracer
	now    func() time.Time

	orders   metric.Int64Counter
	failures metric.Int64Counter
	units    metric.Int64Counter
	totals   metric.Float64Histogram
}

// NewService creates a Service placing orders against s.
func NewService(s *store.Store, tp trace.TracerProvider, mp metric.MeterProvider) (*Service, error) {
	meter := mp.Meter(instrumentationName)

	orders, err := meter.Int64Counter("store.orders",
		metric.WithDescription("Orders placed"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders counter")
	}
	failures, err := meter.Int64Counter("store.order.failures",
		metric.WithDescription("Orders rejected"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failures counter")
	}
	units, err := meter.Int64Counter("store.order.units",
		metric.WithDescription("Units sold"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "units counter")
	}
	totals, err := meter.Float64Histogram("store.order.total",
		metric.WithDescription("Charged order totals"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "totals histogram")
	}

	return &Service{
		store:    s,
		tracer:   tp.Tracer(instrumentationName),
		now:      time.Now,
		orders:   orders,
		failures: failures,
		units:    units,
		totals:   totals,
	}, nil
}

// PlaceOrder merges lines for the same product, checks every line against
// the current stock, and only then buys them. Lines for products the store
// does not hold are counted in Receipt.Skipped, or reject the order when the
// store rejects unknown lines. A *store.LineError carries the index of the
// first caller line for the failing product.
func (s *Service) PlaceOrder(ctx context.Context, lines []store.Line) (_ *Receipt, rerr error) {
	ctx, span := s.tracer.Start(ctx, "checkout.PlaceOrder",
		trace.WithAttributes(attribute.Int("order.lines", len(lines))),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
			s.failures.Add(ctx, 1)
		}
		span.End()
	}()

	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	origin := firstLineIndexes(lines)
	lines = store.CompactLines(lines)
	reject := s.store.UnknownLines() == store.RejectUnknown

	skipped := 0
	bought := make([]store.Line, 0, len(lines))
	for i, line := range lines {
		if line.Product != nil && line.Quantity <= 0 {
			return nil, &InvalidQuantityError{Product: line.Product.Name(), Quantity: line.Quantity}
		}
		if !s.store.Holds(line.Product) {
			if reject {
				return nil, &store.LineError{Index: origin[i], Product: lineName(line), Err: store.ErrNotHeld}
			}
			skipped++
			continue
		}
		if err := line.Product.Check(line.Quantity); err != nil {
			return nil, &store.LineError{Index: origin[i], Product: line.Product.Name(), Err: err}
		}
		bought = append(bought, line)
	}

	total, err := s.store.Order(lines)
	if err != nil {
		var lErr *store.LineError
		if errors.As(err, &lErr) {
			lErr.Index = origin[lErr.Index]
		}
		return nil, errors.Wrap(err, "order")
	}

	r := &Receipt{
		ID:        uuid.New().String(),
		Lines:     bought,
		Total:     total,
		Skipped:   skipped,
		CreatedAt: s.now(),
	}

	s.orders.Add(ctx, 1)
	s.units.Add(ctx, int64(r.Units()))
	s.totals.Record(ctx, total.InexactFloat64())
	span.SetAttributes(
		attribute.String("order.id", r.ID),
		attribute.String("order.total", total.String()),
	)

	zctx.From(ctx).Info("Order placed",
		zap.String("id", r.ID),
		zap.Int("lines", len(lines)),
		zap.Int("skipped", skipped),
		zap.String("total", total.String()),
	)

	return r, nil
}

// firstLineIndexes maps every merged line, in store.CompactLines order, to
// the index of the first caller line for its product.
func firstLineIndexes(lines []store.Line) []int {
	seen := make(map[product.Item]struct{}, len(lines))
	origin := make([]int, 0, len(lines))
	for i, l := range lines {
		if _, ok := seen[l.Product]; ok {
			continue
		}
		seen[l.Product] = struct{}{}
		origin = append(origin, i)
	}
	return origin
}

func lineName(line store.Line) string {
	if line.Product == nil {
		return "<nil>"
	}
	return line.Product.Name()
}
