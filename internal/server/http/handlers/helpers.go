package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/safetrack/ppeorder/internal/domain/errors"
	"github.com/safetrack/ppeorder/internal/domain/model"
	"github.com/safetrack/ppeorder/internal/server/http/dto"
	"github.com/safetrack/ppeorder/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// orderIDParam parses the :id route parameter.
func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// respondDomainError maps domain errors to HTTP statuses. Budget
// rejections get a structured body; everything else is status only.
func respondDomainError(c *gin.Context, err error) {
	var budgetErr *domainErrors.BudgetError
	if errors.As(err, &budgetErr) {
		c.JSON(http.StatusUnprocessableEntity, dto.BudgetExceededResponse{
			Error:     "budget ceiling exceeded",
			Ceiling:   budgetErr.Ceiling,
			Current:   budgetErr.Current,
			Attempted: budgetErr.Attempted,
			Resulting: budgetErr.Resulting,
			Overage:   budgetErr.Overage(),
		})
		return
	}

	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrForbidden):
		c.Status(http.StatusForbidden)
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrJustificationRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.Status(http.StatusConflict)
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func toCartResponse(cart *model.Cart) dto.CartResponse {
	grouped := cart.GroupByItem()
	lines := make([]dto.CartLineResponse, 0, len(grouped))
	for _, l := range grouped {
		lines = append(lines, dto.CartLineResponse{
			Reference: l.Reference,
			Name:      l.Name,
			Unit:      l.Unit,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		})
	}
	total := cart.Total()
	return dto.CartResponse{
		Lines:     lines,
		Total:     total,
		Ceiling:   cart.Ceiling(),
		Remaining: cart.Ceiling().Sub(total),
	}
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	lines := make([]dto.OrderLinePayload, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, dto.OrderLinePayload{
			Reference: l.Reference,
			Name:      l.Name,
			Unit:      l.Unit,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	return dto.OrderResponse{
		ID:         order.ID,
		Status:     string(order.Status),
		Team:       order.Team,
		Lines:      lines,
		Total:      order.Total,
		HandledBy:  order.HandledBy,
		HandledAt:  order.HandledAt,
		Comment:    order.Comment,
		PromisedAt: order.PromisedAt,
		Priority:   order.Priority,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}
