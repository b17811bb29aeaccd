package app

import (
	"context"
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/store-inventory/internal/catalog"
	"github.com/xenking/store-inventory/internal/checkout"
	"github.com/xenking/store-inventory/internal/domain/product"
	"github.com/xenking/store-inventory/internal/domain/store"
	"github.com/xenking/store-inventory/internal/menu"
)

// Run creates all dependencies and runs the interactive menu on the process
// standard streams. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	return run(ctx, lg, m.TracerProvider(), m.MeterProvider(), cfg, os.Stdin, os.Stdout)
}

func run(
	ctx context.Context,
	lg *zap.Logger,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	cfg *Config,
	in io.Reader,
	out io.Writer,
) error {
	format, err := cfg.Format()
	if err != nil {
		return errors.Wrap(err, "output")
	}
	policy, err := cfg.UnknownLinePolicy()
	if err != nil {
		return errors.Wrap(err, "unknown lines")
	}

	items, err := loadCatalog(ctx, cfg.CatalogFiles)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog loaded",
		zap.Int("products", len(items)),
		zap.Strings("files", cfg.CatalogFiles),
	)

	opts := []store.Option{
		store.WithLogger(lg.Named("store")),
		store.WithUnknownLines(policy),
	}
	if cfg.KeepNonStocked {
		opts = append(opts, store.WithKeepNonStocked())
	}
	st := store.New(items, opts...)
	svc, err := checkout.NewService(st, tp, mp)
	if err != nil {
		return errors.Wrap(err, "create checkout service")
	}

	ctx = zctx.Base(ctx, lg)
	if err := menu.New(st, svc, in, out, format).Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return errors.Wrap(err, "menu")
	}
	lg.Info("Menu closed", zap.Int("remaining", st.TotalQuantity()))
	return nil
}

func loadCatalog(ctx context.Context, files []string) ([]product.Item, error) {
	if len(files) == 0 {
		return catalog.Default()
	}
	return catalog.Load(ctx, files...)
}
