package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"slices"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/store-inventory/internal/catalog"
)

const (
	bloomCapacity = 100_000
	bloomFPR      = 0.001
	maxFiles      = bits.UintSize
)

// fileResult holds what a single catalog file contributed.
type fileResult struct {
	path      string
	entries   []catalog.Entry
	names     *bloom.BloomFilter
	invalid   []error
	stock     int
	unlimited int
}

// report is the outcome of linting a set of catalog files.
type report struct {
	Products   int
	Stock      int
	Unlimited  int
	Invalid    []error
	Duplicates map[string][]string
}

func main() {
	var strict bool

	flag.BoolVar(&strict, "strict", false, "fail when a product name appears in more than one file")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] catalog.json [catalog.json.gz ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, flag.Args(), strict); err != nil {
		slog.Error("catalog lint failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog lint completed successfully")
}

func run(ctx context.Context, files []string, strict bool) error {
	r, err := lint(ctx, files)
	if err != nil {
		return err
	}

	for _, err := range r.Invalid {
		slog.Error("invalid entry", slog.String("error", err.Error()))
	}
	names := make([]string, 0, len(r.Duplicates))
	for name := range r.Duplicates {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		slog.Warn("product listed in several files",
			slog.String("name", name),
			slog.Any("files", r.Duplicates[name]),
		)
	}

	slog.Info("catalog summary",
		slog.Int("files", len(files)),
		slog.Int("products", r.Products),
		slog.Int("stock", r.Stock),
		slog.Int("unlimited", r.Unlimited),
		slog.Int("invalid", len(r.Invalid)),
		slog.Int("duplicates", len(r.Duplicates)),
	)

	if len(r.Invalid) > 0 {
		return errors.Errorf("%d invalid entries", len(r.Invalid))
	}
	if strict && len(r.Duplicates) > 0 {
		return errors.Errorf("%d products listed in several files", len(r.Duplicates))
	}
	return nil
}

// lint reads every file concurrently, validates its entries and finds
// product names shared between files.
func lint(ctx context.Context, files []string) (*report, error) {
	if len(files) > maxFiles {
		return nil, errors.Errorf("too many files: %d (max %d)", len(files), maxFiles)
	}

	// Pass 1: decode, validate and build one name filter per file.
	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			res, err := scanFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "scan files")
	}

	r := &report{Duplicates: map[string][]string{}}
	for _, res := range results {
		r.Products += len(res.entries) - len(res.invalid)
		r.Stock += res.stock
		r.Unlimited += res.unlimited
		r.Invalid = append(r.Invalid, res.invalid...)
	}

	// Pass 2: test every name against the other files' filters and confirm
	// the candidates exactly.
	masks := make(map[string]uint)
	for i, res := range results {
		fileBit := uint(1) << uint(i)
		for _, e := range res.entries {
			for j, other := range results {
				if j == i || !other.names.TestString(e.Name) {
					continue
				}
				if other.has(e.Name) {
					masks[e.Name] |= fileBit
				}
			}
		}
	}
	for name, mask := range masks {
		if bits.OnesCount(mask) < 2 {
			continue
		}
		for i, res := range results {
			if mask&(uint(1)<<uint(i)) != 0 {
				r.Duplicates[name] = append(r.Duplicates[name], res.path)
			}
		}
	}

	return r, nil
}

func scanFile(ctx context.Context, path string) (fileResult, error) {
	entries, err := catalog.ReadFile(ctx, path)
	if err != nil {
		return fileResult{}, err
	}

	res := fileResult{
		path:    path,
		entries: entries,
		names:   bloom.NewWithEstimates(bloomCapacity, bloomFPR),
	}
	for i, e := range entries {
		res.names.AddString(e.Name)

		item, err := e.Build()
		if err != nil {
			res.invalid = append(res.invalid, &catalog.EntryError{Source: path, Index: i, Err: err})
			continue
		}
		if item.TracksStock() {
			res.stock += item.Quantity()
		} else {
			res.unlimited++
		}
	}

	slog.Info("file scanned",
		slog.String("path", path),
		slog.Int("entries", len(entries)),
		slog.Int("invalid", len(res.invalid)),
	)
	return res, nil
}

func (r fileResult) has(name string) bool {
	return slices.ContainsFunc(r.entries, func(e catalog.Entry) bool {
		return e.Name == name
	})
}
