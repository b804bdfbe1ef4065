package pet

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petchef/internal/api/handlers"
	recipeService "petchef/internal/core/recipe"
	"petchef/internal/pkg/common"
)

// CreatePetRequest 新增寵物請求
type CreatePetRequest struct {
	ID            string               `json:"id"`
	HouseholdID   string               `json:"householdId"`
	Name          string               `json:"name" binding:"required"`
	Species       common.Species       `json:"species" binding:"required,oneof=dog cat other"`
	Breed         string               `json:"breed"`
	Birthdate     string               `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	WeightKg      float64              `json:"weightKg" binding:"required,gt=0"`
	Allergies     []string             `json:"allergies"`
	ActivityLevel common.ActivityLevel `json:"activityLevel" binding:"required,oneof=low normal high"`
}

// Handler 寵物處理程序
type Handler struct {
	service *recipeService.PetService
}

// NewHandler 創建寵物處理程序
func NewHandler(service *recipeService.PetService) *Handler {
	return &Handler{service: service}
}

// List GET /v1/pets
func (h *Handler) List(c *gin.Context) {
	pets, err := h.service.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pets": pets})
}

// Create POST /v1/pets
func (h *Handler) Create(c *gin.Context) {
	var req CreatePetRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	id, err := h.service.Create(c.Request.Context(), common.PetProfile{
		ID:            req.ID,
		HouseholdID:   req.HouseholdID,
		Name:          req.Name,
		Species:       req.Species,
		Breed:         req.Breed,
		Birthdate:     req.Birthdate,
		WeightKg:      req.WeightKg,
		Allergies:     req.Allergies,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handlers.OKResponse{OK: true, ID: id})
}

// Calories GET /v1/pets/:id/calories
func (h *Handler) Calories(c *gin.Context) {
	res, err := h.service.Calories(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
