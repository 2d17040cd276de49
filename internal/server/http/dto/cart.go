package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest describes a cart addition.
type AddCartItemRequest struct {
	Reference string `json:"reference"`
	Quantity  int    `json:"quantity"`
}

// CartLineResponse describes one aggregated cart position.
type CartLineResponse struct {
	Reference string          `json:"reference"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse describes the cart with its budget headroom.
type CartResponse struct {
	Lines     []CartLineResponse `json:"lines"`
	Total     decimal.Decimal    `json:"total"`
	Ceiling   decimal.Decimal    `json:"ceiling"`
	Remaining decimal.Decimal    `json:"remaining"`
}

// BudgetExceededResponse explains a budget rejection.
type BudgetExceededResponse struct {
	Error     string          `json:"error"`
	Ceiling   decimal.Decimal `json:"ceiling"`
	Current   decimal.Decimal `json:"current"`
	Attempted decimal.Decimal `json:"attempted"`
	Resulting decimal.Decimal `json:"resulting"`
	Overage   decimal.Decimal `json:"overage"`
}
