package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safetrack/ppeorder/internal/domain/model"
	"github.com/safetrack/ppeorder/internal/server/http/dto"
)

// CatalogHandler serves the read-only catalog endpoints.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// List handles GET /api/catalog.
func (h *CatalogHandler) List(c *gin.Context) {
	items, err := h.facade.CatalogItems(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.CatalogItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toCatalogItemResponse(item))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/catalog/:reference.
func (h *CatalogHandler) Get(c *gin.Context) {
	item, err := h.facade.CatalogItem(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCatalogItemResponse(*item))
}

func toCatalogItemResponse(item model.CatalogItem) dto.CatalogItemResponse {
	return dto.CatalogItemResponse{
		Reference: item.Reference,
		Name:      item.Name,
		Category:  item.Category,
		Price:     item.Price,
		Unit:      item.Unit,
	}
}
