package recipe

import (
	"petchef/internal/core/rules"
	"petchef/internal/pkg/common"
)

// SuggestResult 食譜推薦結果
type SuggestResult struct {
	Variant     common.RecipeVariant `json:"variant"`
	Suggestions []rules.RecipeMatch  `json:"suggestions"`
}

// DuoResult duo 推薦結果
type DuoResult struct {
	Pairs []rules.DuoSuggestion `json:"pairs"`
}

// CaloriesResult 每餐熱量估算
type CaloriesResult struct {
	PetID       string `json:"petId"`
	KcalPerMeal int    `json:"kcalPerMeal"`
}

// InventoryPatch 庫存部分更新，nil 欄位保持原值
type InventoryPatch struct {
	HouseholdID *string           `json:"householdId"`
	Name        *string           `json:"name" binding:"omitempty,min=1"`
	Quantity    *float64          `json:"quantity" binding:"omitempty,gte=0"`
	Unit        *string           `json:"unit"`
	ExpiresOn   *string           `json:"expiresOn" binding:"omitempty,datetime=2006-01-02"`
	Tags        *[]common.ItemTag `json:"tags" binding:"omitempty,dive,oneof=human pet shared"`
	Barcode     *string           `json:"barcode"`
}

// Apply 套用到既有項目
func (p InventoryPatch) Apply(item common.InventoryItem) common.InventoryItem {
	out := item.Clone()
	if p.HouseholdID != nil {
		out.HouseholdID = *p.HouseholdID
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Quantity != nil {
		out.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		out.Unit = *p.Unit
	}
	if p.ExpiresOn != nil {
		out.ExpiresOn = *p.ExpiresOn
	}
	if p.Tags != nil {
		out.Tags = append([]common.ItemTag(nil), (*p.Tags)...)
	}
	if p.Barcode != nil {
		out.Barcode = *p.Barcode
	}
	return out
}
