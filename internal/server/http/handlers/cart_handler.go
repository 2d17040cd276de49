package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safetrack/ppeorder/internal/server/http/dto"
)

// CartHandler manages the per-user cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	cart, err := h.facade.AddToCart(c.Request.Context(), CurrentUserID(c), req.Reference, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// RemoveItem handles DELETE /api/cart/items/:reference. With ?all=true
// every unit of the reference is dropped, otherwise a single unit.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := CurrentUserID(c)
	reference := c.Param("reference")

	if c.Query("all") == "true" {
		updated, err := h.facade.RemoveAllFromCart(c.Request.Context(), userID, reference)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(updated))
		return
	}

	updated, err := h.facade.RemoveOneFromCart(c.Request.Context(), userID, reference)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(updated))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.facade.ClearCart(c.Request.Context(), CurrentUserID(c)); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}
