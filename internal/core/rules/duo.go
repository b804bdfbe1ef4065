package rules

import (
	"sort"
	"time"

	"petchef/internal/pkg/common"
)

// MaxDuoSuggestions duo 建議數量上限
const MaxDuoSuggestions = 5

// DuoSuggestion 同一道菜的人類版與寵物版組合
type DuoSuggestion struct {
	BaseRecipeID string      `json:"baseRecipeId"`
	Score        float64     `json:"score"`
	Human        RecipeMatch `json:"human"`
	Pet          RecipeMatch `json:"pet"`
}

// SuggestDuos 以目前時間為基準產生 duo 建議
func SuggestDuos(recipes []common.Recipe, inventory []common.InventoryItem) []DuoSuggestion {
	return SuggestDuosAt(recipes, inventory, time.Now())
}

// SuggestDuosAt 對同一份食譜與庫存快照分別評分兩種 variant 後配對
func SuggestDuosAt(recipes []common.Recipe, inventory []common.InventoryItem, now time.Time) []DuoSuggestion {
	human := RankAt(recipes, inventory, common.VariantHuman, now)
	pet := RankAt(recipes, inventory, common.VariantPet, now)
	return PairMatches(human, pet)
}

// PairMatches 以 BaseRecipeID 配對已評分的人類與寵物食譜
// 沒有對應寵物版本的人類食譜直接略過；同一 BaseRecipeID 有多份寵物食譜時以最後一份為準
func PairMatches(human, pet []RecipeMatch) []DuoSuggestion {
	petByBase := make(map[string]RecipeMatch, len(pet))
	for _, p := range pet {
		if base := p.Recipe.BaseRecipeID; base != "" {
			petByBase[base] = p
		}
	}

	pairs := make([]DuoSuggestion, 0, len(human))
	for _, h := range human {
		base := h.Recipe.BaseRecipeID
		if base == "" {
			continue
		}
		p, ok := petByBase[base]
		if !ok {
			continue
		}
		pairs = append(pairs, DuoSuggestion{
			BaseRecipeID: base,
			Score:        h.Score + p.Score,
			Human:        h,
			Pet:          p,
		})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})
	if len(pairs) > MaxDuoSuggestions {
		pairs = pairs[:MaxDuoSuggestions]
	}
	return pairs
}
