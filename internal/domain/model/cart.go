package model

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/safetrack/ppeorder/internal/domain/errors"
)

// CartLine is one position of a cart: a value copy of the catalog item
// fields needed for pricing plus a positive quantity.
type CartLine struct {
	Reference string          `json:"reference"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds one user's uncommitted selection and guards the budget
// ceiling: no mutation that would push the total above the ceiling is
// ever applied.
type Cart struct {
	ceiling decimal.Decimal
	lines   []CartLine
}

// NewCart creates an empty cart bound to the given budget ceiling.
func NewCart(ceiling decimal.Decimal) *Cart {
	return &Cart{ceiling: ceiling}
}

// RestoreCart rebuilds a cart from previously persisted lines.
func RestoreCart(ceiling decimal.Decimal, lines []CartLine) *Cart {
	c := NewCart(ceiling)
	c.lines = append(c.lines, lines...)
	return c
}

// Ceiling returns the budget ceiling the cart enforces.
func (c *Cart) Ceiling() decimal.Decimal {
	return c.ceiling
}

// Lines returns a copy of the raw cart lines.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Total sums line subtotals. Pure, no side effects.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Add puts quantity units of the item into the cart. The prospective
// total is checked against the ceiling before anything is mutated; on
// rejection the cart is left untouched and the returned BudgetError
// carries the full arithmetic of the refusal.
func (c *Cart) Add(item CatalogItem, quantity int) error {
	if quantity <= 0 {
		return domainErrors.ErrInvalidQuantity
	}

	addition := item.Price.Mul(decimal.NewFromInt(int64(quantity)))
	current := c.Total()
	resulting := current.Add(addition)
	if resulting.GreaterThan(c.ceiling) {
		return &domainErrors.BudgetError{
			Ceiling:   c.ceiling,
			Current:   current,
			Attempted: addition,
			Resulting: resulting,
		}
	}

	for i := range c.lines {
		if c.lines[i].Reference == item.Reference {
			c.lines[i].Quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, CartLine{
		Reference: item.Reference,
		Name:      item.Name,
		Unit:      item.Unit,
		Price:     item.Price,
		Quantity:  quantity,
	})
	return nil
}

// RemoveOne takes a single unit of the referenced item out of the cart
// and reports whether anything was removed. Unknown references are a
// no-op.
func (c *Cart) RemoveOne(reference string) bool {
	for i := range c.lines {
		if c.lines[i].Reference != reference {
			continue
		}
		c.lines[i].Quantity--
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return true
	}
	return false
}

// RemoveAll drops every unit of the referenced item and reports whether
// anything was removed.
func (c *Cart) RemoveAll(reference string) bool {
	for i := range c.lines {
		if c.lines[i].Reference == reference {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.lines = nil
}

// GroupByItem returns the canonical aggregated view of the cart: one
// line per reference with summed quantity, first-appearance order
// preserved. Used for display and for order snapshots.
func (c *Cart) GroupByItem() []CartLine {
	var grouped []CartLine
	index := make(map[string]int)
	for _, l := range c.lines {
		if i, ok := index[l.Reference]; ok {
			grouped[i].Quantity += l.Quantity
			continue
		}
		index[l.Reference] = len(grouped)
		grouped = append(grouped, l)
	}
	return grouped
}
