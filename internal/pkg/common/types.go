package common

// Profile 使用者飲食偏好檔案（由呼叫端隨請求提供，核心不自行查詢）
type Profile struct {
	Diets     []string `json:"diets"`
	Allergens []string `json:"allergens"`
	MaxTime   *int     `json:"max_time"`
	Location  string   `json:"location"`
}

// RecipeCard 給使用者展示的食譜卡片
type RecipeCard struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Image        string   `json:"image"`
	Calories     int      `json:"calories"`
	TimeMinutes  int      `json:"time_minutes"` // 0 表示未知
	DietLabels   []string `json:"diet_labels"`
	HealthLabels []string `json:"health_labels"`
	Ingredients  []string `json:"ingredients"`
	Source       string   `json:"source"`
	URL          string   `json:"url"`
}

// PlannedMeal 餐食計畫中的單一餐
type PlannedMeal struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Calories    int    `json:"calories"`
	TimeMinutes int    `json:"time_minutes"`
	URL         string `json:"url"`
}

// DayPlan 單日餐食計畫
type DayPlan struct {
	Day   int           `json:"day"`
	Meals []PlannedMeal `json:"meals"`
}

// AllergenWarning 單一過敏原的警告內容
type AllergenWarning struct {
	Allergen      string   `json:"allergen"`
	Warning       string   `json:"warning"`
	Substitutions []string `json:"substitutions"`
}

// SubstitutionOption 替代方案條目
type SubstitutionOption struct {
	Ingredient   string   `json:"ingredient"`
	Alternatives []string `json:"alternatives"`
	Notes        string   `json:"notes,omitempty"`
}

// SubstitutionMatch 單一食材查詢到的所有替代方案
type SubstitutionMatch struct {
	Ingredient string               `json:"ingredient"`
	Options    []SubstitutionOption `json:"substitutions"`
}

// Restaurant 餐廳資訊（餐廳搜尋尚未接入，目前僅佔位）
type Restaurant struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Area   string  `json:"area"`
	Link   string  `json:"link"`
}
