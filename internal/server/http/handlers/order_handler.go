package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safetrack/ppeorder/internal/domain/model"
	"github.com/safetrack/ppeorder/internal/server/http/dto"
)

// OrderHandler manages order submission and the fulfillment pipeline.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Submit handles POST /api/orders: converts the current cart into a
// PENDING order.
func (h *OrderHandler) Submit(c *gin.Context) {
	order, err := h.facade.SubmitOrder(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// ListAll handles GET /api/staff/orders (staff overview).
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.facade.AllOrders(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), id, CurrentUserID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Comments handles GET /api/orders/:id/comments.
func (h *OrderHandler) Comments(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	comments, err := h.facade.OrderComments(c.Request.Context(), id, CurrentUserID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response := make([]dto.OrderCommentResponse, 0, len(comments))
	for _, cm := range comments {
		response = append(response, dto.OrderCommentResponse{
			Author:    cm.Author,
			Body:      cm.Body,
			CreatedAt: cm.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Claim handles POST /api/orders/:id/claim.
func (h *OrderHandler) Claim(c *gin.Context) {
	h.simpleTransition(c, h.facade.TakeOrderInCharge)
}

// Deliver handles POST /api/orders/:id/deliver.
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.simpleTransition(c, h.facade.DeliverOrder)
}

// Approve handles POST /api/orders/:id/approve.
func (h *OrderHandler) Approve(c *gin.Context) {
	h.simpleTransition(c, h.facade.ApproveOrder)
}

// Reject handles POST /api/orders/:id/reject.
func (h *OrderHandler) Reject(c *gin.Context) {
	h.simpleTransition(c, h.facade.RejectOrder)
}

// Process handles POST /api/orders/:id/process.
func (h *OrderHandler) Process(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.ProcessOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.ProcessOrder(c.Request.Context(), id, CurrentUserID(c), req.Comment, req.PromisedAt)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Amend handles POST /api/orders/:id/amend.
func (h *OrderHandler) Amend(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.AmendOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	lines := make([]model.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, model.OrderLine{
			Reference: l.Reference,
			Name:      l.Name,
			Unit:      l.Unit,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}

	order, err := h.facade.AmendOrder(c.Request.Context(), id, CurrentUserID(c), lines, req.Justification)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	if err := h.facade.DeleteOrder(c.Request.Context(), id, CurrentUserID(c)); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reassign handles POST /api/orders/:id/reassign.
func (h *OrderHandler) Reassign(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.ReassignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NewOwnerID <= 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.ReassignOrder(c.Request.Context(), id, req.NewOwnerID, CurrentUserID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *OrderHandler) simpleTransition(c *gin.Context, op func(ctx context.Context, id, actorID int64) error) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	if err := op(c.Request.Context(), id, CurrentUserID(c)); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderResponse(&orders[i]))
	}
	return response
}
