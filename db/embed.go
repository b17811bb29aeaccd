// Package db provides the embedded seed data of the store.
package db

import _ "embed"

// Catalog contains the default seed catalog in JSON form, used when no
// catalog files are configured.
//
//go:embed seed/catalog.json
var Catalog []byte
