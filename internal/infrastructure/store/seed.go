package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"petchef/internal/pkg/common"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedItem 範例庫存，ExpiresInDays 優先於 ExpiresOn
type SeedItem struct {
	common.InventoryItem `yaml:",inline"`
	ExpiresInDays        *int `yaml:"expiresInDays,omitempty"`
}

// Seed 範例資料
type Seed struct {
	Inventory []SeedItem          `yaml:"inventory"`
	Pets      []common.PetProfile `yaml:"pets"`
	Recipes   []common.Recipe     `yaml:"recipes"`
}

// LoadSeed 讀取範例資料，path 為空時使用內建檔案
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		data = b
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// Items 以 now 計算到期日後回傳庫存
func (s *Seed) Items(now time.Time) []common.InventoryItem {
	items := make([]common.InventoryItem, 0, len(s.Inventory))
	for _, si := range s.Inventory {
		item := si.InventoryItem.Clone()
		if si.ExpiresInDays != nil {
			item.ExpiresOn = now.AddDate(0, 0, *si.ExpiresInDays).Format(common.DateLayout)
		}
		items = append(items, item)
	}
	return items
}

// SeedIfEmpty 只在對應資料為空時寫入範例資料
func SeedIfEmpty(ctx context.Context, st Store, seed *Seed, now time.Time) error {
	inventory, err := st.ListInventory(ctx)
	if err != nil {
		return err
	}
	if len(inventory) == 0 {
		for _, item := range seed.Items(now) {
			if err := st.CreateInventoryItem(ctx, item); err != nil {
				return fmt.Errorf("failed to seed inventory: %w", err)
			}
		}
	}

	pets, err := st.ListPets(ctx)
	if err != nil {
		return err
	}
	if len(pets) == 0 {
		for _, pet := range seed.Pets {
			if err := st.CreatePet(ctx, pet); err != nil {
				return fmt.Errorf("failed to seed pets: %w", err)
			}
		}
	}

	recipes, err := st.ListRecipes(ctx)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		for _, recipe := range seed.Recipes {
			if err := st.CreateRecipe(ctx, recipe); err != nil {
				return fmt.Errorf("failed to seed recipes: %w", err)
			}
		}
	}

	common.LogInfo("Store seeded",
		zap.Int("inventory", len(seed.Inventory)),
		zap.Int("pets", len(seed.Pets)),
		zap.Int("recipes", len(seed.Recipes)),
	)
	return nil
}
