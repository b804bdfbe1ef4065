package recipe

import (
	"context"

	"go.uber.org/zap"

	"petchef/internal/core/rules"
	"petchef/internal/infrastructure/events"
	"petchef/internal/pkg/common"
)

// PetService 寵物資料服務
type PetService struct {
	*Service
}

// NewPetService 創建寵物服務
func NewPetService(base *Service) *PetService {
	return &PetService{Service: base}
}

// List 列出寵物
func (s *PetService) List(ctx context.Context) ([]common.PetProfile, error) {
	return s.store.ListPets(ctx)
}

// Get 取得單一寵物
func (s *PetService) Get(ctx context.Context, id string) (common.PetProfile, error) {
	return s.store.GetPet(ctx, id)
}

// Create 新增寵物，id 為空時自動產生
func (s *PetService) Create(ctx context.Context, pet common.PetProfile) (string, error) {
	if pet.WeightKg <= 0 {
		return "", common.NewValidationError("weightKg must be positive")
	}
	if pet.ID == "" {
		pet.ID = common.GenerateUUID()
	}

	if err := s.store.CreatePet(ctx, pet); err != nil {
		return "", err
	}

	common.LogInfo("Pet created", zap.String("id", pet.ID), zap.String("species", string(pet.Species)))
	s.publish(ctx, events.PetCreated, pet.ID, pet)
	return pet.ID, nil
}

// Calories 估算寵物每餐熱量
func (s *PetService) Calories(ctx context.Context, id string) (*CaloriesResult, error) {
	pet, err := s.store.GetPet(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CaloriesResult{PetID: pet.ID, KcalPerMeal: rules.EstimateCaloriesPerMeal(pet)}, nil
}
