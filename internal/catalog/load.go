package catalog

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/store-inventory/db"
	"github.com/xenking/store-inventory/internal/domain/product"
)

// Default returns the products of the embedded seed catalog.
func Default() ([]product.Item, error) {
	entries, err := Decode(bytes.NewReader(db.Catalog))
	if err != nil {
		return nil, errors.Wrap(err, "embedded catalog")
	}
	return Build("embedded", entries)
}

// Load reads the catalog files concurrently and returns their products
// concatenated in argument order. Files ending in .gz are decompressed.
func Load(ctx context.Context, paths ...string) ([]product.Item, error) {
	results := make([][]product.Item, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			items, err := loadFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []product.Item
	for _, r := range results {
		items = append(items, r...)
	}
	return items, nil
}

// ReadFile decodes the entries of a single catalog file.
func ReadFile(ctx context.Context, path string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if filepath.Ext(path) == ".gz" {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	entries, err := Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return entries, nil
}

func loadFile(ctx context.Context, path string) ([]product.Item, error) {
	entries, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return Build(path, entries)
}
