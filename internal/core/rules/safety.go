// Package rules 食譜評分與配對引擎
//
// 所有函式皆為純計算，不做 I/O、不記錄日誌，也不驗證輸入；
// 輸入資料的檢查由 API 邊界負責。
package rules

import (
	"strings"

	"petchef/internal/pkg/common"
)

// petToxins 對寵物有毒的食材關鍵字
var petToxins = []string{
	"onion",
	"garlic",
	"chocolate",
	"grapes",
	"raisins",
	"xylitol",
	"alcohol",
}

// IsUnsafeForPets 判斷食材名稱是否含有寵物毒物關鍵字
// 採子字串比對，"onion powder" 之類的複合名稱也會被標記
func IsUnsafeForPets(ingredientName string) bool {
	key := strings.ToLower(strings.TrimSpace(ingredientName))
	if key == "" {
		return false
	}
	for _, toxin := range petToxins {
		if strings.Contains(key, toxin) {
			return true
		}
	}
	return false
}

// hasUnsafeIngredient 食譜中是否有任一食材被判定為不安全
func hasUnsafeIngredient(recipe common.Recipe) bool {
	for _, ing := range recipe.Ingredients {
		if IsUnsafeForPets(ing.Name) {
			return true
		}
	}
	return false
}

// ExcludeAllergens 移除含有過敏原的寵物食譜，人類食譜原樣保留
func ExcludeAllergens(recipes []common.Recipe, allergies []string) []common.Recipe {
	terms := make([]string, 0, len(allergies))
	for _, a := range allergies {
		if t := strings.ToLower(strings.TrimSpace(a)); t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return recipes
	}

	out := make([]common.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.Variant == common.VariantPet && containsAllergen(r, terms) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func containsAllergen(recipe common.Recipe, terms []string) bool {
	for _, ing := range recipe.Ingredients {
		name := strings.ToLower(ing.Name)
		for _, t := range terms {
			if strings.Contains(name, t) {
				return true
			}
		}
	}
	return false
}
