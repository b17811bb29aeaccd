package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xenking/store-inventory/internal/domain/product"
	"github.com/xenking/store-inventory/internal/domain/promotion"
	"github.com/xenking/store-inventory/internal/domain/store"
)

// --- Helpers ---

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type fixture struct {
	bose     *product.Product
	mac      *product.Product
	license  *product.NonStocked
	shipping *product.Limited
	store    *store.Store
}

func newFixture(t *testing.T, opts ...store.Option) *fixture {
	t.Helper()

	bose, err := product.New("Bose QuietComfort Earbuds", d("250"), 500)
	require.NoError(t, err)
	mac, err := product.New("MacBook Air M2", d("1450"), 100)
	require.NoError(t, err)
	license, err := product.NewNonStocked("Windows License", d("125"))
	require.NoError(t, err)
	shipping, err := product.NewLimited("Shipping", d("10"), 250, 1)
	require.NoError(t, err)

	return &fixture{
		bose:     bose,
		mac:      mac,
		license:  license,
		shipping: shipping,
		store:    store.New([]product.Item{bose, mac, license, shipping}, opts...),
	}
}

func newService(t *testing.T, s *store.Store) *Service {
	t.Helper()
	svc, err := NewService(s, tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	require.NoError(t, err)
	return svc
}

// --- Tests ---

func TestPlaceOrder_EmptyOrder(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f.store)

	_, err := svc.PlaceOrder(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f.store)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }

	r, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.bose, Quantity: 5},
		{Product: f.mac, Quantity: 30},
		{Product: f.bose, Quantity: 10},
	})
	require.NoError(t, err)

	assert.True(t, d("47750").Equal(r.Total))
	_, err = uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, created, r.CreatedAt)
	assert.Equal(t, 0, r.Skipped)
	assert.Equal(t, 45, r.Units())
	require.Len(t, r.Lines, 2)
	assert.Equal(t, 15, r.Lines[0].Quantity)

	assert.Equal(t, 485, f.bose.Quantity())
	assert.Equal(t, 70, f.mac.Quantity())
}

func TestPlaceOrder_WithPromotions(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.license.SetPromotion(promotion.SecondHalfPrice()))
	discount, err := promotion.PercentDiscount(30)
	require.NoError(t, err)
	require.NoError(t, f.shipping.SetPromotion(discount))
	svc := newService(t, f.store)

	r, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.license, Quantity: 3},
		{Product: f.shipping, Quantity: 1},
	})
	require.NoError(t, err)
	// (1.5 + 1) * 125 + 10 * 0.7
	assert.True(t, d("319.5").Equal(r.Total))
}

func TestPlaceOrder_RejectedOrderLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f.store)

	_, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.bose, Quantity: 5},
		{Product: f.mac, Quantity: 101},
	})
	require.ErrorIs(t, err, product.ErrInsufficientStock)
	var lErr *store.LineError
	require.ErrorAs(t, err, &lErr)
	assert.Equal(t, "MacBook Air M2", lErr.Product)

	assert.Equal(t, 500, f.bose.Quantity())
	assert.Equal(t, 100, f.mac.Quantity())
}

func TestPlaceOrder_MergedLinesCheckedAgainstMaximum(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f.store)

	_, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.shipping, Quantity: 1},
		{Product: f.shipping, Quantity: 1},
	})
	require.ErrorIs(t, err, product.ErrExceedsMaximum)
	assert.Equal(t, 250, f.shipping.Quantity())
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f.store)

	_, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.bose, Quantity: 0},
	})
	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "Bose QuietComfort Earbuds", iqErr.Product)
}

func TestPlaceOrder_UnlistedProductSkipped(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f.store)
	pixel, err := product.New("Google Pixel 7", d("500"), 250)
	require.NoError(t, err)

	r, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: pixel, Quantity: 3},
	})
	require.NoError(t, err)
	assert.True(t, r.Total.IsZero())
	assert.Equal(t, 1, r.Skipped)
	assert.Empty(t, r.Lines)
	assert.Equal(t, 250, pixel.Quantity())
	assert.Equal(t, 850, f.store.TotalQuantity())
}

func TestPlaceOrder_RejectUnknown(t *testing.T) {
	f := newFixture(t, store.WithUnknownLines(store.RejectUnknown))
	svc := newService(t, f.store)
	pixel, err := product.New("Google Pixel 7", d("500"), 250)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.bose, Quantity: 5},
		{Product: pixel, Quantity: 3},
	})
	require.ErrorIs(t, err, store.ErrNotHeld)
	var lErr *store.LineError
	require.ErrorAs(t, err, &lErr)
	assert.Equal(t, 1, lErr.Index)
	assert.Equal(t, "Google Pixel 7", lErr.Product)

	assert.Equal(t, 500, f.bose.Quantity())
	assert.Equal(t, 250, pixel.Quantity())
}

func TestPlaceOrder_RejectUnknownNilProduct(t *testing.T) {
	f := newFixture(t, store.WithUnknownLines(store.RejectUnknown))
	svc := newService(t, f.store)

	_, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.mac, Quantity: 1},
		{Product: nil, Quantity: 1},
	})
	require.ErrorIs(t, err, store.ErrNotHeld)
	assert.Equal(t, 100, f.mac.Quantity())
}

func TestPlaceOrder_ErrorIndexPointsAtCallerLine(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f.store)

	_, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.bose, Quantity: 1},
		{Product: f.shipping, Quantity: 1},
		{Product: f.bose, Quantity: 1},
		{Product: f.mac, Quantity: 101},
	})
	require.ErrorIs(t, err, product.ErrInsufficientStock)
	var lErr *store.LineError
	require.ErrorAs(t, err, &lErr)
	assert.Equal(t, 3, lErr.Index)
	assert.Equal(t, "MacBook Air M2", lErr.Product)
}

func TestPlaceOrder_NonStockedRemovedAfterOrder(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f.store)

	r, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.license, Quantity: 1},
		{Product: f.license, Quantity: 1},
	})
	require.NoError(t, err)
	// Merged into one line of 2 units.
	assert.True(t, d("250").Equal(r.Total))
	assert.False(t, f.store.Holds(f.license))
}

func TestPlaceOrder_SoldOut(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f.store)

	r, err := svc.PlaceOrder(context.Background(), []store.Line{
		{Product: f.mac, Quantity: 100},
	})
	require.NoError(t, err)
	assert.True(t, d("145000").Equal(r.Total))
	assert.False(t, f.store.Holds(f.mac))
}

func TestPlaceOrder_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := zctx.Base(context.Background(), zap.New(core))

	f := newFixture(t)
	svc := newService(t, f.store)

	r, err := svc.PlaceOrder(ctx, []store.Line{{Product: f.bose, Quantity: 1}})
	require.NoError(t, err)

	entries := logs.FilterMessage("Order placed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, r.ID, entries[0].ContextMap()["id"])
	assert.Equal(t, "250", entries[0].ContextMap()["total"])
}

func TestPlaceOrder_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	ctx := context.Background()

	f := newFixture(t)
	svc, err := NewService(f.store, tracenoop.NewTracerProvider(), mp)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, []store.Line{{Product: f.bose, Quantity: 3}})
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, []store.Line{{Product: f.bose, Quantity: 1000}})
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), sums["store.orders"])
	assert.Equal(t, int64(1), sums["store.order.failures"])
	assert.Equal(t, int64(3), sums["store.order.units"])
}
