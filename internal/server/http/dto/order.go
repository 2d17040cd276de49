package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLinePayload is one snapshot position, used both in responses
// and in amendment requests.
type OrderLinePayload struct {
	Reference string          `json:"reference"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderResponse describes an order with its audit fields.
type OrderResponse struct {
	ID         int64              `json:"id"`
	Status     string             `json:"status"`
	Team       string             `json:"team,omitempty"`
	Lines      []OrderLinePayload `json:"lines"`
	Total      decimal.Decimal    `json:"total"`
	HandledBy  string             `json:"handled_by,omitempty"`
	HandledAt  *time.Time         `json:"handled_at,omitempty"`
	Comment    string             `json:"comment,omitempty"`
	PromisedAt *time.Time         `json:"promised_at,omitempty"`
	Priority   string             `json:"priority,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// ProcessOrderRequest carries the processing annotation.
type ProcessOrderRequest struct {
	Comment    string     `json:"comment"`
	PromisedAt *time.Time `json:"promised_at"`
}

// AmendOrderRequest replaces the order snapshot.
type AmendOrderRequest struct {
	Lines         []OrderLinePayload `json:"lines"`
	Justification string             `json:"justification"`
}

// ReassignOrderRequest transfers order ownership.
type ReassignOrderRequest struct {
	NewOwnerID int64 `json:"new_owner_id"`
}

// OrderCommentResponse describes one audit trail entry.
type OrderCommentResponse struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
