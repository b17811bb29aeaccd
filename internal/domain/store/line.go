package store

import "github.com/xenking/store-inventory/internal/domain/product"

// Line is one purchase request within an order.
type Line struct {
	Product  product.Item
	Quantity int
}

// Pair is a keyed quantity, the raw shape of an order line before its key is
// resolved to a product.
type Pair[K comparable] struct {
	Key      K
	Quantity int
}

// Compact merges pairs sharing a key, summing their quantities. The result
// keeps the order in which each key was first seen.
func Compact[K comparable](pairs []Pair[K]) []Pair[K] {
	out := make([]Pair[K], 0, len(pairs))
	seen := make(map[K]int, len(pairs))
	for _, p := range pairs {
		if i, ok := seen[p.Key]; ok {
			out[i].Quantity += p.Quantity
			continue
		}
		seen[p.Key] = len(out)
		out = append(out, p)
	}
	return out
}

// CompactLines merges lines for the same product.
func CompactLines(lines []Line) []Line {
	pairs := make([]Pair[product.Item], len(lines))
	for i, l := range lines {
		pairs[i] = Pair[product.Item]{Key: l.Product, Quantity: l.Quantity}
	}

	compact := Compact(pairs)
	out := make([]Line, len(compact))
	for i, p := range compact {
		out[i] = Line{Product: p.Key, Quantity: p.Quantity}
	}
	return out
}
