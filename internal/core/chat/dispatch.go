package chat

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"bitewise-assistant/internal/core/chat/lexicon"
	"bitewise-assistant/internal/core/search"
	"bitewise-assistant/internal/pkg/common"
)

// ResultType 動作結果的封閉標籤集合
type ResultType string

const (
	ResultRecipeList       ResultType = "recipe_list"
	ResultNoResults        ResultType = "no_results"
	ResultRestaurantList   ResultType = "restaurant_list"
	ResultAllergenWarning  ResultType = "allergen_warning"
	ResultExplanation      ResultType = "explanation"
	ResultMealPlan         ResultType = "meal_plan"
	ResultSubstitutionList ResultType = "substitution_list"
	ResultSubstitutionHelp ResultType = "substitution_help"
	ResultNoSubstitutions  ResultType = "no_substitutions"
	ResultConversation     ResultType = "conversation"
	ResultError            ResultType = "error"
)

// ActionResult 單次動作的結果，Type 決定哪些欄位有意義
type ActionResult struct {
	Type          ResultType                 `json:"type"`
	Message       string                     `json:"message,omitempty"`
	Recipes       []common.RecipeCard        `json:"recipes,omitempty"`
	TotalFound    int                        `json:"total_found,omitempty"`
	Suggestions   []string                   `json:"suggestions,omitempty"`
	Restaurants   []common.Restaurant        `json:"restaurants,omitempty"`
	Warnings      []common.AllergenWarning   `json:"warnings,omitempty"`
	Plan          []common.DayPlan           `json:"plan,omitempty"`
	Substitutions []common.SubstitutionMatch `json:"substitutions,omitempty"`
}

// Dispatcher 依意圖執行領域動作，搜尋類動作透過 Searcher 呼叫外部供應商
type Dispatcher struct {
	lex      *lexicon.Lexicon
	searcher search.Searcher
	pick     func(n int) int
}

// NewDispatcher 創建動作分派器
// pick 為 nil 時使用 math/rand，測試可注入固定值
func NewDispatcher(lex *lexicon.Lexicon, searcher search.Searcher, pick func(n int) int) *Dispatcher {
	if pick == nil {
		pick = rand.Intn
	}
	return &Dispatcher{
		lex:      lex,
		searcher: searcher,
		pick:     pick,
	}
}

// Dispatch 執行意圖對應的動作，永不 panic，供應商錯誤一律轉為 error 變體
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent, entities Entities, profile common.Profile) ActionResult {
	switch intent {
	case IntentSearchRecipes:
		return d.searchRecipes(ctx, entities, profile)
	case IntentSearchRestaurants:
		return d.searchRestaurants()
	case IntentExplainAllergens:
		return d.explainAllergens(entities, profile)
	case IntentPlanMeals:
		return d.planMeals(ctx, entities, profile)
	case IntentSubstitute:
		return d.substitute(entities, profile)
	case IntentGeneralConversation:
		return ActionResult{
			Type:    ResultConversation,
			Message: smallTalkReply(strings.ToLower(entities.Raw), d.pick),
		}
	default:
		return ActionResult{
			Type:    ResultError,
			Message: "I didn't understand that. Could you try rephrasing your request?",
		}
	}
}

// searchRecipes 依查詢條件搜尋食譜，最多回傳前三筆
func (d *Dispatcher) searchRecipes(ctx context.Context, entities Entities, profile common.Profile) ActionResult {
	query := entities.FoodTopic
	if query == "" {
		query = "healthy"
	}
	if entities.MealType != "" {
		query += " " + entities.MealType
	}

	dietFilters := dedupe(append(append([]string{}, entities.DietaryTags...), profile.Diets...))

	result, err := d.searcher.Search(ctx, query, dietFilters)
	if err != nil {
		common.LogError("食譜搜尋失敗",
			zap.String("query", query),
			zap.Error(err))
		return ActionResult{
			Type:    ResultError,
			Message: "Sorry, I couldn't search for recipes right now. Please try again later.",
		}
	}

	if len(result.Hits) == 0 {
		return ActionResult{
			Type:    ResultNoResults,
			Message: "No recipes found for your search. Try adjusting your criteria.",
			Suggestions: []string{
				"Try removing some dietary restrictions",
				"Search for a different food type",
				"Ask for meal planning help",
			},
		}
	}

	hits := result.Hits
	if len(hits) > 3 {
		hits = hits[:3]
	}

	recipes := make([]common.RecipeCard, 0, len(hits))
	for _, hit := range hits {
		recipes = append(recipes, common.RecipeCard{
			ID:           hit.Recipe.URI,
			Name:         hit.Recipe.Label,
			Image:        hit.Recipe.Image,
			Calories:     int(math.Round(hit.Recipe.Calories)),
			TimeMinutes:  int(hit.Recipe.TotalTime),
			DietLabels:   hit.Recipe.DietLabels,
			HealthLabels: hit.Recipe.HealthLabels,
			Ingredients:  hit.Recipe.IngredientLines,
			Source:       hit.Recipe.Source,
			URL:          hit.Recipe.URL,
		})
	}

	// 有時間上限時過濾超時的食譜，時間未知者一律保留
	if entities.TimeLimitMinutes != nil {
		filtered := make([]common.RecipeCard, 0, len(recipes))
		for _, r := range recipes {
			if r.TimeMinutes == 0 || r.TimeMinutes <= *entities.TimeLimitMinutes {
				filtered = append(filtered, r)
			}
		}
		recipes = filtered
	}

	plural := "s"
	if len(recipes) == 1 {
		plural = ""
	}

	return ActionResult{
		Type:       ResultRecipeList,
		Recipes:    recipes,
		TotalFound: len(result.Hits),
		Message:    fmt.Sprintf("Found %d recipe%s for you!", len(recipes), plural),
	}
}

// searchRestaurants 餐廳搜尋尚未接入，固定回傳空清單
func (d *Dispatcher) searchRestaurants() ActionResult {
	return ActionResult{
		Type:        ResultRestaurantList,
		Message:     "Restaurant search is coming soon! For now, try searching for recipes instead.",
		Restaurants: []common.Restaurant{},
	}
}

// explainAllergens 針對每個過敏原產生警告與安全替代品
// 訊息中的過敏原與個人檔案中的合併處理
func (d *Dispatcher) explainAllergens(entities Entities, profile common.Profile) ActionResult {
	allergens := dedupe(append(append([]string{}, entities.Allergens...), profile.Allergens...))
	if len(allergens) == 0 {
		return ActionResult{
			Type:    ResultExplanation,
			Message: "I can help explain why certain recipes might be unsafe. What specific recipe or ingredient are you concerned about?",
		}
	}

	warnings := make([]common.AllergenWarning, 0, len(allergens))
	for _, allergen := range allergens {
		signals := d.lex.SignalsFor(allergen)
		if len(signals) > 3 {
			signals = signals[:3]
		}

		subs := d.lex.SubstitutionsFor(allergen)
		if len(subs) > 2 {
			subs = subs[:2]
		}
		subNames := make([]string, 0, len(subs))
		for _, sub := range subs {
			subNames = append(subNames, sub.Ingredient)
		}

		warnings = append(warnings, common.AllergenWarning{
			Allergen:      allergen,
			Warning:       fmt.Sprintf("This recipe may contain %s-containing ingredients like: %s", allergen, strings.Join(signals, ", ")),
			Substitutions: subNames,
		})
	}

	return ActionResult{
		Type:     ResultAllergenWarning,
		Warnings: warnings,
		Message:  "Here are the potential allergens I found in your request:",
	}
}

// planMeals 逐日逐餐查詢食譜組成計畫
// 單一餐的查詢失敗只略過該格，不中斷整個計畫
func (d *Dispatcher) planMeals(ctx context.Context, entities Entities, profile common.Profile) ActionResult {
	duration := 1
	if entities.DurationDays != nil && *entities.DurationDays > 0 {
		duration = *entities.DurationDays
	}

	mealTypes := []string{"breakfast", "lunch", "dinner"}
	if entities.MealType != "" {
		mealTypes = []string{entities.MealType}
	}

	dietFilters := dedupe(append(append([]string{}, entities.DietaryTags...), profile.Diets...))

	plan := make([]common.DayPlan, 0, duration)
	for day := 1; day <= duration; day++ {
		dayPlan := common.DayPlan{Day: day, Meals: []common.PlannedMeal{}}

		for _, mealType := range mealTypes {
			result, err := d.searcher.Search(ctx, mealType+" healthy", dietFilters)
			if err != nil {
				common.LogWarn("餐食計畫單格查詢失敗",
					zap.Int("day", day),
					zap.String("meal_type", mealType),
					zap.Error(err))
				continue
			}
			if len(result.Hits) == 0 {
				continue
			}

			recipe := result.Hits[0].Recipe
			dayPlan.Meals = append(dayPlan.Meals, common.PlannedMeal{
				Type:        mealType,
				Name:        recipe.Label,
				Calories:    int(math.Round(recipe.Calories)),
				TimeMinutes: int(recipe.TotalTime),
				URL:         recipe.URL,
			})
		}

		plan = append(plan, dayPlan)
	}

	return ActionResult{
		Type:    ResultMealPlan,
		Plan:    plan,
		Message: fmt.Sprintf("Here's your %d-day meal plan!", duration),
	}
}

// substitute 為每個食材查詢替代方案，排除含使用者過敏原信號的選項
// 過敏原取訊息與個人檔案的聯集
func (d *Dispatcher) substitute(entities Entities, profile common.Profile) ActionResult {
	if len(entities.Ingredients) == 0 {
		return ActionResult{
			Type:    ResultSubstitutionHelp,
			Message: `What ingredient would you like to substitute? For example: "substitute for milk" or "replace butter"`,
		}
	}

	allergens := dedupe(append(append([]string{}, entities.Allergens...), profile.Allergens...))

	var results []common.SubstitutionMatch
	for _, ingredient := range entities.Ingredients {
		options := d.findSubstitutions(ingredient, allergens)
		if len(options) > 0 {
			results = append(results, common.SubstitutionMatch{
				Ingredient: ingredient,
				Options:    options,
			})
		}
	}

	if len(results) == 0 {
		return ActionResult{
			Type: ResultNoSubstitutions,
			Message: fmt.Sprintf("I couldn't find substitutions for %s. Try asking about common ingredients like milk, butter, eggs, or flour.",
				strings.Join(entities.Ingredients, ", ")),
		}
	}

	return ActionResult{
		Type:          ResultSubstitutionList,
		Substitutions: results,
		Message:       "Here are some substitution options for you:",
	}
}

// findSubstitutions 以不分大小寫的子字串比對找出替代條目
func (d *Dispatcher) findSubstitutions(ingredient string, userAllergens []string) []common.SubstitutionOption {
	var options []common.SubstitutionOption
	lowerIngredient := strings.ToLower(ingredient)

	for _, group := range d.lex.Substitutions {
		for _, entry := range group.Entries {
			if !strings.Contains(strings.ToLower(entry.Ingredient), lowerIngredient) {
				continue
			}

			safe := d.safeAlternatives(entry.Alternatives, userAllergens)
			if len(safe) == 0 {
				continue
			}
			if len(safe) > 3 {
				safe = safe[:3]
			}

			options = append(options, common.SubstitutionOption{
				Ingredient:   entry.Ingredient,
				Alternatives: safe,
				Notes:        entry.Notes,
			})
		}
	}

	return options
}

// safeAlternatives 過濾掉含任一使用者過敏原信號字的替代品
func (d *Dispatcher) safeAlternatives(alternatives, userAllergens []string) []string {
	var safe []string
	for _, alt := range alternatives {
		lowerAlt := strings.ToLower(alt)
		unsafe := false
		for _, allergen := range userAllergens {
			for _, signal := range d.lex.SignalsFor(allergen) {
				if strings.Contains(lowerAlt, strings.ToLower(signal)) {
					unsafe = true
					break
				}
			}
			if unsafe {
				break
			}
		}
		if !unsafe {
			safe = append(safe, alt)
		}
	}
	return safe
}
