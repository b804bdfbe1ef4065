package store

import (
	"context"
	"sync"

	"petchef/internal/pkg/common"
)

// 編譯期檢查介面實作
var _ Store = (*MemoryStore)(nil)

// MemoryStore 記憶體儲存，可併發存取
// 讀寫時都會複製紀錄，呼叫端不會與儲存層共用切片
type MemoryStore struct {
	mu        sync.RWMutex
	inventory []common.InventoryItem
	recipes   []common.Recipe
	pets      []common.PetProfile
}

// NewMemoryStore 建立空的記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ListInventory 依建立順序回傳庫存
func (s *MemoryStore) ListInventory(ctx context.Context) ([]common.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.InventoryItem, len(s.inventory))
	for i, item := range s.inventory {
		out[i] = item.Clone()
	}
	return out, nil
}

// GetInventoryItem 依 id 取得庫存
func (s *MemoryStore) GetInventoryItem(ctx context.Context, id string) (common.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.inventoryIndex(id)
	if idx < 0 {
		return common.InventoryItem{}, notFound("inventory item", id)
	}
	return s.inventory[idx].Clone(), nil
}

// CreateInventoryItem 新增庫存，id 重複時回傳 ErrConflict
func (s *MemoryStore) CreateInventoryItem(ctx context.Context, item common.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inventoryIndex(item.ID) >= 0 {
		return conflict("inventory item", item.ID)
	}
	s.inventory = append(s.inventory, item.Clone())
	return nil
}

// UpdateInventoryItem 更新庫存，保留原本的排序位置
func (s *MemoryStore) UpdateInventoryItem(ctx context.Context, item common.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.inventoryIndex(item.ID)
	if idx < 0 {
		return notFound("inventory item", item.ID)
	}
	s.inventory[idx] = item.Clone()
	return nil
}

// DeleteInventoryItem 刪除庫存
func (s *MemoryStore) DeleteInventoryItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.inventoryIndex(id)
	if idx < 0 {
		return notFound("inventory item", id)
	}
	s.inventory = append(s.inventory[:idx], s.inventory[idx+1:]...)
	return nil
}

// ListRecipes 依建立順序回傳食譜
func (s *MemoryStore) ListRecipes(ctx context.Context) ([]common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Recipe, len(s.recipes))
	for i, r := range s.recipes {
		out[i] = r.Clone()
	}
	return out, nil
}

// GetRecipe 依 id 取得食譜
func (s *MemoryStore) GetRecipe(ctx context.Context, id string) (common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.recipes {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return common.Recipe{}, notFound("recipe", id)
}

// CreateRecipe 新增食譜，id 重複時回傳 ErrConflict
func (s *MemoryStore) CreateRecipe(ctx context.Context, recipe common.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.recipes {
		if r.ID == recipe.ID {
			return conflict("recipe", recipe.ID)
		}
	}
	s.recipes = append(s.recipes, recipe.Clone())
	return nil
}

// ListPets 依建立順序回傳寵物
func (s *MemoryStore) ListPets(ctx context.Context) ([]common.PetProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.PetProfile, len(s.pets))
	for i, p := range s.pets {
		out[i] = p.Clone()
	}
	return out, nil
}

// GetPet 依 id 取得寵物
func (s *MemoryStore) GetPet(ctx context.Context, id string) (common.PetProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pets {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return common.PetProfile{}, notFound("pet", id)
}

// CreatePet 新增寵物，id 重複時回傳 ErrConflict
func (s *MemoryStore) CreatePet(ctx context.Context, pet common.PetProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pets {
		if p.ID == pet.ID {
			return conflict("pet", pet.ID)
		}
	}
	s.pets = append(s.pets, pet.Clone())
	return nil
}

// Ping 永遠成功
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close 不需釋放資源
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) inventoryIndex(id string) int {
	for i, item := range s.inventory {
		if item.ID == id {
			return i
		}
	}
	return -1
}
