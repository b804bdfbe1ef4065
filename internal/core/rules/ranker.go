package rules

import (
	"sort"
	"strings"
	"time"

	"petchef/internal/pkg/common"
)

// 評分規則
const (
	availableBonus         = 2.0
	missingPenalty         = 2.0
	optionalMissingPenalty = 0.5
	nearExpiryBonus        = 2.0
	nearExpiryDays         = 2
	unsafePetPenalty       = 5.0
)

// MissingIngredient 庫存不足的食材
type MissingIngredient struct {
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
}

// RecipeMatch 單一食譜對某份庫存快照的評分結果
type RecipeMatch struct {
	Recipe  common.Recipe       `json:"recipe"`
	Score   float64             `json:"score"`
	Missing []MissingIngredient `json:"missing"`
}

// Rank 以目前時間為基準評分並排序
func Rank(recipes []common.Recipe, inventory []common.InventoryItem, variant common.RecipeVariant) []RecipeMatch {
	return RankAt(recipes, inventory, variant, time.Now())
}

// RankAt 依庫存為指定 variant 的食譜評分，按分數由高到低穩定排序
func RankAt(recipes []common.Recipe, inventory []common.InventoryItem, variant common.RecipeVariant, now time.Time) []RecipeMatch {
	byName := indexInventory(inventory)
	today := civilDate(now)

	matches := make([]RecipeMatch, 0, len(recipes))
	for _, r := range recipes {
		if r.Variant != variant {
			continue
		}
		matches = append(matches, scoreRecipe(r, byName, today, now.Location()))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// indexInventory 以小寫名稱建立索引，同名項目以最後一筆為準
func indexInventory(inventory []common.InventoryItem) map[string]common.InventoryItem {
	byName := make(map[string]common.InventoryItem, len(inventory))
	for _, item := range inventory {
		byName[strings.ToLower(item.Name)] = item
	}
	return byName
}

func scoreRecipe(recipe common.Recipe, byName map[string]common.InventoryItem, today time.Time, loc *time.Location) RecipeMatch {
	score := 0.0
	missing := make([]MissingIngredient, 0)

	for _, ing := range recipe.Ingredients {
		inv, ok := byName[strings.ToLower(ing.Name)]
		if !ok || inv.Quantity < ing.Qty {
			missing = append(missing, MissingIngredient{Name: ing.Name, Qty: ing.Qty, Unit: ing.Unit})
			if ing.Optional {
				score -= optionalMissingPenalty
			} else {
				score -= missingPenalty
			}
			continue
		}

		score += availableBonus
		if days, ok := daysUntil(inv.ExpiresOn, today, loc); ok && days <= nearExpiryDays {
			score += nearExpiryBonus
		}
	}

	// 只扣一次，不依毒物數量累加
	if recipe.Variant == common.VariantPet && hasUnsafeIngredient(recipe) {
		score -= unsafePetPenalty
	}

	return RecipeMatch{Recipe: recipe, Score: score, Missing: missing}
}

// daysUntil 計算 expiresOn 與今天相差的日曆天數，已過期為負值
// 無法解析的日期回傳 ok=false
func daysUntil(expiresOn string, today time.Time, loc *time.Location) (int, bool) {
	expires, ok := parseExpiry(expiresOn, loc)
	if !ok {
		return 0, false
	}
	return int(civilDate(expires).Sub(today).Hours() / 24), true
}

// parseExpiry 接受 YYYY-MM-DD 或 RFC3339 時間
func parseExpiry(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(common.DateLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// civilDate 取日期部分並放到 UTC 午夜，避免日光節約時間影響天數
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
