// Package lexicon 提供驅動對話核心的靜態詞表：
// 飲食標籤同義詞、餐別關鍵字、時間關鍵字、過敏原信號詞與替代食材表。
// 所有表在啟動時建立一次，之後唯讀，可供多個請求併發使用。
package lexicon

import "strings"

// DietaryTag 同義詞到標準健康標籤的對應
type DietaryTag struct {
	Synonym   string
	Canonical string
}

// MealType 餐別與其關鍵字，順序即匹配優先序
type MealType struct {
	Name     string
	Keywords []string
}

// TimeKeyword 時間關鍵字對應的分鐘數
type TimeKeyword struct {
	Keyword string
	Minutes int
}

// Allergen 過敏原與其信號詞，順序即輸出順序
type Allergen struct {
	Name    string
	Signals []string
}

// Substitution 替代食材條目
type Substitution struct {
	Ingredient   string
	Alternatives []string
	Notes        string
}

// AllergenSubstitutions 某過敏原下登錄的所有替代條目
type AllergenSubstitutions struct {
	Allergen string
	Entries  []Substitution
}

// Lexicon 對話核心的靜態詞表集合
type Lexicon struct {
	DietaryTags     []DietaryTag
	MealTypes       []MealType
	TimeKeywords    []TimeKeyword
	Allergens       []Allergen
	Substitutions   []AllergenSubstitutions
	FoodKeywords    []string
	QuestionWords   []string
	StopWords       []string
	LocationPhrases []string
}

// Default 建立預設詞表
func Default() *Lexicon {
	return &Lexicon{
		DietaryTags: []DietaryTag{
			{"vegan", "vegan"},
			{"vegetarian", "vegetarian"},
			{"pescatarian", "pescatarian"},
			{"gluten-free", "gluten-free"},
			{"gluten free", "gluten-free"},
			{"dairy-free", "dairy-free"},
			{"dairy free", "dairy-free"},
			{"lactose free", "dairy-free"},
			{"egg-free", "egg-free"},
			{"egg free", "egg-free"},
			{"nut-free", "tree-nut-free"},
			{"nut free", "tree-nut-free"},
			{"keto", "keto-friendly"},
			{"ketogenic", "keto-friendly"},
			{"paleo", "paleo"},
			{"low-carb", "low-carb"},
			{"low carb", "low-carb"},
			{"low-sugar", "low-sugar"},
			{"low sugar", "low-sugar"},
			{"kosher", "kosher"},
		},
		MealTypes: []MealType{
			{"breakfast", []string{"breakfast", "brunch", "morning"}},
			{"lunch", []string{"lunch", "midday", "noon"}},
			{"dinner", []string{"dinner", "supper", "tonight", "evening"}},
			{"snack", []string{"snack", "appetizer", "bite"}},
		},
		TimeKeywords: []TimeKeyword{
			{"quick", 30},
			{"fast", 30},
			{"speedy", 20},
			{"instant", 15},
		},
		Allergens: []Allergen{
			{"dairy", []string{"milk", "cheese", "butter", "cream", "yogurt", "whey", "casein", "lactose"}},
			{"eggs", []string{"egg", "mayonnaise", "meringue", "albumin"}},
			{"gluten", []string{"gluten", "wheat", "flour", "bread", "pasta", "barley", "rye"}},
			{"peanuts", []string{"peanut", "groundnut"}},
			{"tree nuts", []string{"almond", "walnut", "cashew", "pecan", "hazelnut", "pistachio"}},
			{"soy", []string{"soy", "tofu", "edamame", "tempeh"}},
			{"shellfish", []string{"shrimp", "crab", "lobster", "prawn", "scallop"}},
			{"fish", []string{"salmon", "tuna", "anchovy", "cod", "fish"}},
			{"sesame", []string{"sesame", "tahini"}},
		},
		Substitutions: []AllergenSubstitutions{
			{"dairy", []Substitution{
				{"milk", []string{"almond milk", "oat milk", "soy milk", "coconut milk"}, "swap 1:1 in most recipes"},
				{"butter", []string{"coconut oil", "olive oil", "vegan margarine"}, "reduce slightly when baking"},
				{"cheese", []string{"nutritional yeast", "cashew cheese"}, ""},
				{"yogurt", []string{"coconut yogurt", "soy yogurt"}, ""},
				{"cream", []string{"coconut cream", "cashew cream"}, "chill before whipping"},
			}},
			{"eggs", []Substitution{
				{"egg", []string{"flaxseed meal", "chia seeds", "applesauce", "mashed banana"}, "1 tbsp flax + 3 tbsp water per egg"},
				{"mayonnaise", []string{"hummus", "mashed avocado"}, ""},
			}},
			{"gluten", []Substitution{
				{"flour", []string{"almond flour", "rice flour", "oat flour"}, "blends work best for baking"},
				{"bread", []string{"corn tortillas", "lettuce wraps", "rice cakes"}, ""},
				{"pasta", []string{"rice noodles", "zucchini noodles"}, ""},
			}},
			{"peanuts", []Substitution{
				{"peanut butter", []string{"sunflower seed butter", "tahini"}, ""},
			}},
			{"soy", []Substitution{
				{"soy sauce", []string{"coconut aminos"}, "slightly sweeter, use a little more"},
				{"tofu", []string{"chickpeas", "mushrooms"}, ""},
			}},
			{"fish", []Substitution{
				{"fish sauce", []string{"coconut aminos", "mushroom broth"}, ""},
			}},
		},
		FoodKeywords: []string{
			"recipe", "food", "meal", "cook", "eat", "dish", "dinner", "lunch",
			"breakfast", "snack", "ingredient", "hungry", "restaurant",
		},
		QuestionWords: []string{
			"what", "how", "why", "when", "where", "who", "which",
			"can", "do", "does", "is", "are",
		},
		StopWords: []string{
			"recipe", "food", "meal", "dish", "cook", "make", "eat",
			"dinner", "lunch", "breakfast", "snack", "healthy", "quick", "easy", "brunch",
		},
		LocationPhrases: []string{
			"near me", "nearby", "local", "here", "my area", "around me", "close by",
		},
	}
}

// SignalsFor 取得某過敏原的信號詞，找不到時回傳 nil
func (l *Lexicon) SignalsFor(allergen string) []string {
	name := strings.ToLower(allergen)
	for _, a := range l.Allergens {
		if a.Name == name {
			return a.Signals
		}
	}
	return nil
}

// SubstitutionsFor 取得某過敏原下登錄的替代條目，找不到時回傳 nil
func (l *Lexicon) SubstitutionsFor(allergen string) []Substitution {
	name := strings.ToLower(allergen)
	for _, s := range l.Substitutions {
		if s.Allergen == name {
			return s.Entries
		}
	}
	return nil
}

// HasFoodKeyword 檢查小寫文本是否包含任一食物關鍵字
func (l *Lexicon) HasFoodKeyword(lower string) bool {
	for _, kw := range l.FoodKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// StartsWithQuestionWord 檢查小寫文本是否以問句詞開頭
func (l *Lexicon) StartsWithQuestionWord(lower string) bool {
	fields := strings.Fields(lower)
	if len(fields) == 0 {
		return false
	}
	first := strings.Trim(fields[0], "?!.,")
	for _, qw := range l.QuestionWords {
		if first == qw {
			return true
		}
	}
	return false
}
