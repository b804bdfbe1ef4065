package recipe

import (
	"context"

	"go.uber.org/zap"

	"petchef/internal/infrastructure/events"
	"petchef/internal/pkg/common"
)

// InventoryService 冰箱庫存服務
type InventoryService struct {
	*Service
}

// NewInventoryService 創建庫存服務
func NewInventoryService(base *Service) *InventoryService {
	return &InventoryService{Service: base}
}

// List 列出庫存
func (s *InventoryService) List(ctx context.Context) ([]common.InventoryItem, error) {
	return s.store.ListInventory(ctx)
}

// Create 新增庫存，id 為空時自動產生
func (s *InventoryService) Create(ctx context.Context, item common.InventoryItem) (string, error) {
	if item.ID == "" {
		item.ID = common.GenerateUUID()
	}
	if item.Quantity < 0 {
		return "", common.NewValidationError("quantity must not be negative")
	}

	if err := s.store.CreateInventoryItem(ctx, item); err != nil {
		return "", err
	}

	common.LogInfo("Inventory item created", zap.String("id", item.ID), zap.String("name", item.Name))
	s.publish(ctx, events.InventoryCreated, item.ID, item)
	return item.ID, nil
}

// Update 以 patch 更新既有庫存
func (s *InventoryService) Update(ctx context.Context, id string, patch InventoryPatch) (common.InventoryItem, error) {
	current, err := s.store.GetInventoryItem(ctx, id)
	if err != nil {
		return common.InventoryItem{}, err
	}

	updated := patch.Apply(current)
	updated.ID = id
	if updated.Quantity < 0 {
		return common.InventoryItem{}, common.NewValidationError("quantity must not be negative")
	}

	if err := s.store.UpdateInventoryItem(ctx, updated); err != nil {
		return common.InventoryItem{}, err
	}

	s.publish(ctx, events.InventoryUpdated, id, updated)
	return updated, nil
}

// Delete 刪除庫存
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteInventoryItem(ctx, id); err != nil {
		return err
	}

	common.LogInfo("Inventory item deleted", zap.String("id", id))
	s.publish(ctx, events.InventoryDeleted, id, nil)
	return nil
}
