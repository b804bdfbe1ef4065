package recipe

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"petchef/internal/core/rules"
	"petchef/internal/infrastructure/events"
	"petchef/internal/pkg/common"
)

// DefaultSuggestLimit 推薦回傳的預設數量
const DefaultSuggestLimit = 5

// RecipeService 食譜服務
type RecipeService struct {
	*Service
	suggestLimit int
}

// NewRecipeService 創建食譜服務
func NewRecipeService(base *Service, suggestLimit int) *RecipeService {
	if suggestLimit <= 0 {
		suggestLimit = DefaultSuggestLimit
	}
	return &RecipeService{Service: base, suggestLimit: suggestLimit}
}

// List 列出所有食譜
func (s *RecipeService) List(ctx context.Context) ([]common.Recipe, error) {
	return s.store.ListRecipes(ctx)
}

// Get 取得單一食譜
func (s *RecipeService) Get(ctx context.Context, id string) (common.Recipe, error) {
	return s.store.GetRecipe(ctx, id)
}

// Create 新增食譜，id 為空時自動產生
func (s *RecipeService) Create(ctx context.Context, recipe common.Recipe) (string, error) {
	if !recipe.Variant.Valid() {
		return "", common.NewValidationError(fmt.Sprintf("invalid variant %q", recipe.Variant))
	}
	if recipe.ID == "" {
		recipe.ID = common.GenerateUUID()
	}

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return "", err
	}

	common.LogInfo("Recipe created",
		zap.String("id", recipe.ID),
		zap.String("variant", string(recipe.Variant)),
	)
	s.publish(ctx, events.RecipeCreated, recipe.ID, recipe)
	return recipe.ID, nil
}

// Suggest 依目前庫存推薦食譜
// petID 非空時先移除含該寵物過敏原的寵物食譜
func (s *RecipeService) Suggest(ctx context.Context, variant common.RecipeVariant, petID string) (*SuggestResult, error) {
	if variant == "" {
		variant = common.VariantHuman
	}
	if !variant.Valid() {
		return nil, common.NewValidationError(fmt.Sprintf("invalid variant %q", variant))
	}

	allergies, err := s.allergiesFor(ctx, petID)
	if err != nil {
		return nil, err
	}

	recipes, inventory, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	recipes = rules.ExcludeAllergens(recipes, allergies)

	matches := rules.RankAt(recipes, inventory, variant, s.now())
	if len(matches) > s.suggestLimit {
		matches = matches[:s.suggestLimit]
	}

	return &SuggestResult{Variant: variant, Suggestions: matches}, nil
}
