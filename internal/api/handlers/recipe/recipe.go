package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petchef/internal/api/handlers"
	recipeService "petchef/internal/core/recipe"
	"petchef/internal/pkg/common"
)

// IngredientRequest 食譜食材
type IngredientRequest struct {
	Name     string  `json:"name" binding:"required"`
	Qty      float64 `json:"qty" binding:"gt=0"`
	Unit     string  `json:"unit" binding:"required"`
	Optional bool    `json:"optional"`
}

// PetSafetyRequest 寵物安全資訊
type PetSafetyRequest struct {
	SafeFor []common.Species `json:"safeFor" binding:"omitempty,dive,oneof=dog cat other"`
	Avoid   []string         `json:"avoid"`
}

// CreateRecipeRequest 新增食譜請求
type CreateRecipeRequest struct {
	ID           string               `json:"id"`
	Title        string               `json:"title" binding:"required"`
	Variant      common.RecipeVariant `json:"variant" binding:"required,oneof=human pet"`
	BaseRecipeID string               `json:"baseRecipeId"`
	Ingredients  []IngredientRequest  `json:"ingredients" binding:"required,dive"`
	Steps        []string             `json:"steps" binding:"required"`
	DietTags     []string             `json:"dietTags"`
	PetSafety    *PetSafetyRequest    `json:"petSafety"`
}

func (r CreateRecipeRequest) toRecipe() common.Recipe {
	recipe := common.Recipe{
		ID:           r.ID,
		Title:        r.Title,
		Variant:      r.Variant,
		BaseRecipeID: r.BaseRecipeID,
		Ingredients:  make([]common.RecipeIngredient, 0, len(r.Ingredients)),
		Steps:        r.Steps,
		DietTags:     r.DietTags,
	}
	for _, ing := range r.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, common.RecipeIngredient{
			Name:     ing.Name,
			Qty:      ing.Qty,
			Unit:     ing.Unit,
			Optional: ing.Optional,
		})
	}
	if r.PetSafety != nil {
		recipe.PetSafety = &common.PetSafety{SafeFor: r.PetSafety.SafeFor, Avoid: r.PetSafety.Avoid}
	}
	return recipe
}

// Handler 食譜處理程序
type Handler struct {
	recipeService *recipeService.RecipeService
	duoService    *recipeService.DuoService
}

// NewHandler 創建食譜處理程序
func NewHandler(recipeSvc *recipeService.RecipeService, duoSvc *recipeService.DuoService) *Handler {
	return &Handler{
		recipeService: recipeSvc,
		duoService:    duoSvc,
	}
}

// List GET /v1/recipes
func (h *Handler) List(c *gin.Context) {
	recipes, err := h.recipeService.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// Create POST /v1/recipes
func (h *Handler) Create(c *gin.Context) {
	var req CreateRecipeRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	id, err := h.recipeService.Create(c.Request.Context(), req.toRecipe())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handlers.OKResponse{OK: true, ID: id})
}

// Suggest GET /v1/recipes/suggest?variant=&petId=
func (h *Handler) Suggest(c *gin.Context) {
	variant := common.RecipeVariant(c.DefaultQuery("variant", string(common.VariantHuman)))

	res, err := h.recipeService.Suggest(c.Request.Context(), variant, c.Query("petId"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SuggestDuo GET /v1/duo/suggest?petId=
func (h *Handler) SuggestDuo(c *gin.Context) {
	res, err := h.duoService.Suggest(c.Request.Context(), c.Query("petId"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
