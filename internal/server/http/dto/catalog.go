package dto

import "github.com/shopspring/decimal"

// CatalogItemResponse describes one catalog entry.
type CatalogItemResponse struct {
	Reference string          `json:"reference"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
}
