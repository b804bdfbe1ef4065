package inventory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petchef/internal/api/handlers"
	recipeService "petchef/internal/core/recipe"
	"petchef/internal/pkg/common"
)

// CreateItemRequest 新增庫存請求
type CreateItemRequest struct {
	ID          string           `json:"id"`
	HouseholdID string           `json:"householdId"`
	Name        string           `json:"name" binding:"required"`
	Quantity    *float64         `json:"quantity" binding:"required,gte=0"`
	Unit        string           `json:"unit" binding:"required"`
	ExpiresOn   string           `json:"expiresOn" binding:"required,datetime=2006-01-02"`
	Tags        []common.ItemTag `json:"tags" binding:"omitempty,dive,oneof=human pet shared"`
	Barcode     string           `json:"barcode"`
}

func (r CreateItemRequest) toItem() common.InventoryItem {
	return common.InventoryItem{
		ID:          r.ID,
		HouseholdID: r.HouseholdID,
		Name:        r.Name,
		Quantity:    *r.Quantity,
		Unit:        r.Unit,
		ExpiresOn:   r.ExpiresOn,
		Tags:        r.Tags,
		Barcode:     r.Barcode,
	}
}

// Handler 庫存處理程序
type Handler struct {
	service *recipeService.InventoryService
}

// NewHandler 創建庫存處理程序
func NewHandler(service *recipeService.InventoryService) *Handler {
	return &Handler{service: service}
}

// List GET /v1/inventory
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Create POST /v1/inventory
func (h *Handler) Create(c *gin.Context) {
	var req CreateItemRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	id, err := h.service.Create(c.Request.Context(), req.toItem())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handlers.OKResponse{OK: true, ID: id})
}

// Update PUT /v1/inventory/:id
func (h *Handler) Update(c *gin.Context) {
	var patch recipeService.InventoryPatch
	if !handlers.BindJSON(c, &patch) {
		return
	}

	if _, err := h.service.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.OKResponse{OK: true})
}

// Delete DELETE /v1/inventory/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.OKResponse{OK: true})
}
