package rules

import (
	"math"

	"petchef/internal/pkg/common"
)

// 每日餐數
const mealsPerDay = 2

// EstimateCaloriesPerMeal 估算寵物每餐建議熱量 (kcal)
// RER = 70 * 體重^0.75，MER = RER * 活動係數，再平均分配到每日兩餐。
// 呼叫端須保證 WeightKg > 0。
func EstimateCaloriesPerMeal(pet common.PetProfile) int {
	rer := 70 * math.Pow(pet.WeightKg, 0.75)
	mer := rer * merFactor(pet.Species, pet.ActivityLevel)
	return int(math.Round(mer / mealsPerDay))
}

// merFactor 依物種與活動量取得 MER 係數，未知活動量視為 normal
func merFactor(species common.Species, activity common.ActivityLevel) float64 {
	if species == common.SpeciesDog {
		switch activity {
		case common.ActivityLow:
			return 1.2
		case common.ActivityHigh:
			return 1.8
		default:
			return 1.5
		}
	}

	switch activity {
	case common.ActivityLow:
		return 1.0
	case common.ActivityHigh:
		return 1.4
	default:
		return 1.2
	}
}
