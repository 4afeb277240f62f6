package search

import "context"

// Recipe Edamam 回傳的食譜原始資料，核心僅讀取不修改
type Recipe struct {
	URI             string   `json:"uri"`
	Label           string   `json:"label"`
	Image           string   `json:"image"`
	Source          string   `json:"source"`
	URL             string   `json:"url"`
	Calories        float64  `json:"calories"`
	TotalTime       float64  `json:"totalTime"`
	DietLabels      []string `json:"dietLabels"`
	HealthLabels    []string `json:"healthLabels"`
	IngredientLines []string `json:"ingredientLines"`
}

// Hit 單筆搜尋命中
type Hit struct {
	Recipe Recipe `json:"recipe"`
}

// Result 搜尋結果
type Result struct {
	Hits []Hit `json:"hits"`
}

// Searcher 食譜搜尋介面
type Searcher interface {
	Search(ctx context.Context, query string, dietFilters []string) (*Result, error)
}
