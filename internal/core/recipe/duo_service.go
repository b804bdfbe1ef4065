package recipe

import (
	"context"

	"petchef/internal/core/rules"
)

// DuoService 人寵共煮推薦服務
type DuoService struct {
	*Service
}

// NewDuoService 創建 duo 服務
func NewDuoService(base *Service) *DuoService {
	return &DuoService{Service: base}
}

// Suggest 對同一份快照評分兩種 variant 並配對
// petID 非空時寵物版本會先排除過敏原
func (s *DuoService) Suggest(ctx context.Context, petID string) (*DuoResult, error) {
	allergies, err := s.allergiesFor(ctx, petID)
	if err != nil {
		return nil, err
	}

	recipes, inventory, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	recipes = rules.ExcludeAllergens(recipes, allergies)

	return &DuoResult{Pairs: rules.SuggestDuosAt(recipes, inventory, s.now())}, nil
}
