package model

import "github.com/shopspring/decimal"

// CatalogItem is one article of the PPE catalog, keyed by reference.
// The catalog is a read-only external feed; items are never mutated by
// the ordering core, only replaced wholesale on re-import.
type CatalogItem struct {
	Reference string
	Name      string
	Category  string
	Price     decimal.Decimal
	Unit      string
}
