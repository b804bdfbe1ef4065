package common

// ItemTag 庫存項目歸屬標籤
type ItemTag string

const (
	TagHuman  ItemTag = "human"
	TagPet    ItemTag = "pet"
	TagShared ItemTag = "shared"
)

// RecipeVariant 食譜對象（人或寵物）
type RecipeVariant string

const (
	VariantHuman RecipeVariant = "human"
	VariantPet   RecipeVariant = "pet"
)

// Valid 檢查 variant 是否為已知值
func (v RecipeVariant) Valid() bool {
	return v == VariantHuman || v == VariantPet
}

// Species 寵物物種
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

// ActivityLevel 寵物活動量
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityNormal ActivityLevel = "normal"
	ActivityHigh   ActivityLevel = "high"
)

// DateLayout expiresOn 使用的日期格式
const DateLayout = "2006-01-02"

// InventoryItem 冰箱庫存項目
type InventoryItem struct {
	ID          string    `json:"id" yaml:"id"`
	HouseholdID string    `json:"householdId,omitempty" yaml:"householdId,omitempty"`
	Name        string    `json:"name" yaml:"name"`         // 比對時不分大小寫
	Quantity    float64   `json:"quantity" yaml:"quantity"` // 不做單位換算
	Unit        string    `json:"unit" yaml:"unit"`
	ExpiresOn   string    `json:"expiresOn" yaml:"expiresOn"` // YYYY-MM-DD
	Tags        []ItemTag `json:"tags,omitempty" yaml:"tags,omitempty"`
	Barcode     string    `json:"barcode,omitempty" yaml:"barcode,omitempty"`
}

// RecipeIngredient 食譜所需食材
type RecipeIngredient struct {
	Name     string  `json:"name" yaml:"name"`
	Qty      float64 `json:"qty" yaml:"qty"`
	Unit     string  `json:"unit" yaml:"unit"`
	Optional bool    `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// PetSafety 食譜的寵物安全資訊
type PetSafety struct {
	SafeFor []Species `json:"safeFor,omitempty" yaml:"safeFor,omitempty"`
	Avoid   []string  `json:"avoid,omitempty" yaml:"avoid,omitempty"`
}

// Recipe 食譜
// 兩份 variant 不同但 BaseRecipeID 相同的食譜構成一組 duo
type Recipe struct {
	ID           string             `json:"id" yaml:"id"`
	Title        string             `json:"title" yaml:"title"`
	Variant      RecipeVariant      `json:"variant" yaml:"variant"`
	BaseRecipeID string             `json:"baseRecipeId,omitempty" yaml:"baseRecipeId,omitempty"`
	Ingredients  []RecipeIngredient `json:"ingredients" yaml:"ingredients"`
	Steps        []string           `json:"steps" yaml:"steps"`
	DietTags     []string           `json:"dietTags,omitempty" yaml:"dietTags,omitempty"`
	PetSafety    *PetSafety         `json:"petSafety,omitempty" yaml:"petSafety,omitempty"`
}

// PetProfile 寵物資料
type PetProfile struct {
	ID            string        `json:"id" yaml:"id"`
	HouseholdID   string        `json:"householdId,omitempty" yaml:"householdId,omitempty"`
	Name          string        `json:"name" yaml:"name"`
	Species       Species       `json:"species" yaml:"species"`
	Breed         string        `json:"breed,omitempty" yaml:"breed,omitempty"`
	Birthdate     string        `json:"birthdate,omitempty" yaml:"birthdate,omitempty"`
	WeightKg      float64       `json:"weightKg" yaml:"weightKg"`
	Allergies     []string      `json:"allergies,omitempty" yaml:"allergies,omitempty"`
	ActivityLevel ActivityLevel `json:"activityLevel" yaml:"activityLevel"`
}

// Clone 回傳不共用切片的複本
// Ingredients 與 Steps 一律非 nil，JSON 輸出為 [] 而不是 null
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append(make([]RecipeIngredient, 0, len(r.Ingredients)), r.Ingredients...)
	out.Steps = append(make([]string, 0, len(r.Steps)), r.Steps...)
	out.DietTags = cloneSlice(r.DietTags)
	if r.PetSafety != nil {
		ps := PetSafety{
			SafeFor: cloneSlice(r.PetSafety.SafeFor),
			Avoid:   cloneSlice(r.PetSafety.Avoid),
		}
		out.PetSafety = &ps
	}
	return out
}

// Clone 回傳不共用切片的複本
func (i InventoryItem) Clone() InventoryItem {
	out := i
	out.Tags = cloneSlice(i.Tags)
	return out
}

// Clone 回傳不共用切片的複本
func (p PetProfile) Clone() PetProfile {
	out := p
	out.Allergies = cloneSlice(p.Allergies)
	return out
}

// cloneSlice 複製切片，保留 nil 與空切片的差別
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
