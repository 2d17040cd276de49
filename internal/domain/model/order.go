package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the fulfillment lifecycle stage of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusProcessed  OrderStatus = "PROCESSED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusApproved   OrderStatus = "APPROVED"
	OrderStatusRejected   OrderStatus = "REJECTED"
)

// transitions is the closed set of allowed status moves. Anything not
// listed here is an invalid transition, no exceptions.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusApproved, OrderStatusRejected},
	OrderStatusInProgress: {OrderStatusProcessed},
	OrderStatusProcessed:  {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusApproved:   {},
	OrderStatusRejected:   {},
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// OrderLine is one position of an order snapshot. Lines are copied by
// value at submission time; later catalog changes never alter them.
type OrderLine struct {
	Reference string          `json:"reference"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LinesTotal sums subtotals of an order snapshot.
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// SnapshotLines converts an aggregated cart view into order lines.
func SnapshotLines(lines []CartLine) []OrderLine {
	out := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLine{
			Reference: l.Reference,
			Name:      l.Name,
			Unit:      l.Unit,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	return out
}

// Order is a committed purchase request. Total is fixed at submission;
// only status and audit fields mutate afterwards, and the snapshot is
// replaced only through an explicit, justified amendment.
type Order struct {
	ID         int64
	UserID     int64
	Team       string
	Lines      []OrderLine
	Total      decimal.Decimal
	Status     OrderStatus
	HandledBy  string
	HandledAt  *time.Time
	Comment    string
	PromisedAt *time.Time
	Priority   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderComment is an audit trail entry attached to an order.
type OrderComment struct {
	ID        int64
	OrderID   int64
	Author    string
	Body      string
	CreatedAt time.Time
}
