package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitewise-assistant/internal/core/chat/lexicon"
	"bitewise-assistant/internal/core/search"
	"bitewise-assistant/internal/pkg/common"
)

// fakeSearcher 以注入的函式決定每次查詢的結果
type fakeSearcher struct {
	fn      func(query string, dietFilters []string) (*search.Result, error)
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, dietFilters []string) (*search.Result, error) {
	f.queries = append(f.queries, query)
	return f.fn(query, dietFilters)
}

func hitsOf(recipes ...search.Recipe) *search.Result {
	hits := make([]search.Hit, 0, len(recipes))
	for _, r := range recipes {
		hits = append(hits, search.Hit{Recipe: r})
	}
	return &search.Result{Hits: hits}
}

func newDispatcher(fn func(query string, dietFilters []string) (*search.Result, error)) (*Dispatcher, *fakeSearcher) {
	searcher := &fakeSearcher{fn: fn}
	d := NewDispatcher(lexicon.Default(), searcher, func(n int) int { return 0 })
	return d, searcher
}

func TestDispatchSearchRecipesNoResults(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	got := d.Dispatch(context.Background(), IntentSearchRecipes, Entities{}, common.Profile{})

	assert.Equal(t, ResultNoResults, got.Type)
	assert.NotEmpty(t, got.Suggestions)
}

func TestDispatchSearchRecipesTimeFilter(t *testing.T) {
	d, searcher := newDispatcher(func(string, []string) (*search.Result, error) {
		return hitsOf(
			search.Recipe{URI: "a", Label: "Fast Salad", TotalTime: 20, Calories: 310.4},
			search.Recipe{URI: "b", Label: "Slow Stew", TotalTime: 45, Calories: 620.7},
			search.Recipe{URI: "c", Label: "Mystery Bowl", TotalTime: 0, Calories: 400},
			search.Recipe{URI: "d", Label: "Fourth Dish", TotalTime: 10, Calories: 200},
		), nil
	})

	limit := 30
	entities := Entities{FoodTopic: "salad", MealType: "dinner", TimeLimitMinutes: &limit}
	got := d.Dispatch(context.Background(), IntentSearchRecipes, entities, common.Profile{})

	require.Equal(t, ResultRecipeList, got.Type)
	// 先取前三筆再套時間過濾，時間未知者一律保留
	require.Len(t, got.Recipes, 2)
	assert.Equal(t, "Fast Salad", got.Recipes[0].Name)
	assert.Equal(t, "Mystery Bowl", got.Recipes[1].Name)
	assert.Equal(t, 4, got.TotalFound)
	assert.Equal(t, "Found 2 recipes for you!", got.Message)

	// 卡路里四捨五入
	assert.Equal(t, 310, got.Recipes[0].Calories)

	// 查詢字串由主題與餐別組成
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "salad dinner", searcher.queries[0])
}

func TestDispatchSearchRecipesProviderError(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return nil, errors.New("rate limited")
	})

	got := d.Dispatch(context.Background(), IntentSearchRecipes, Entities{}, common.Profile{})

	assert.Equal(t, ResultError, got.Type)
	assert.NotEmpty(t, got.Message)
}

func TestDispatchSearchRecipesDefaultQuery(t *testing.T) {
	d, searcher := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	d.Dispatch(context.Background(), IntentSearchRecipes, Entities{}, common.Profile{})

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "healthy", searcher.queries[0])
}

func TestDispatchSearchRestaurantsStub(t *testing.T) {
	d, searcher := newDispatcher(func(string, []string) (*search.Result, error) {
		t.Fatal("restaurant stub must not call the searcher")
		return nil, nil
	})

	got := d.Dispatch(context.Background(), IntentSearchRestaurants, Entities{}, common.Profile{})

	assert.Equal(t, ResultRestaurantList, got.Type)
	assert.Empty(t, got.Restaurants)
	assert.Empty(t, searcher.queries)
}

func TestDispatchExplainAllergens(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	// 沒有過敏原時回傳追問
	got := d.Dispatch(context.Background(), IntentExplainAllergens, Entities{}, common.Profile{})
	assert.Equal(t, ResultExplanation, got.Type)

	got = d.Dispatch(context.Background(), IntentExplainAllergens, Entities{Allergens: []string{"dairy"}}, common.Profile{})
	require.Equal(t, ResultAllergenWarning, got.Type)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "dairy", got.Warnings[0].Allergen)
	assert.Contains(t, got.Warnings[0].Warning, "milk")
	// 替代品名取替代表的前兩個條目
	assert.Equal(t, []string{"milk", "butter"}, got.Warnings[0].Substitutions)
}

func TestDispatchPlanMeals(t *testing.T) {
	d, searcher := newDispatcher(func(query string, _ []string) (*search.Result, error) {
		return hitsOf(search.Recipe{Label: query, Calories: 500, TotalTime: 25}), nil
	})

	duration := 2
	got := d.Dispatch(context.Background(), IntentPlanMeals, Entities{DurationDays: &duration}, common.Profile{})

	require.Equal(t, ResultMealPlan, got.Type)
	require.Len(t, got.Plan, 2)
	for i, day := range got.Plan {
		assert.Equal(t, i+1, day.Day)
		require.Len(t, day.Meals, 3)
		assert.Equal(t, "breakfast", day.Meals[0].Type)
		assert.Equal(t, "lunch", day.Meals[1].Type)
		assert.Equal(t, "dinner", day.Meals[2].Type)
	}
	assert.Equal(t, "Here's your 2-day meal plan!", got.Message)

	// 日優先、餐別次之的查詢順序
	assert.Equal(t, []string{
		"breakfast healthy", "lunch healthy", "dinner healthy",
		"breakfast healthy", "lunch healthy", "dinner healthy",
	}, searcher.queries)
}

// 單格查詢失敗只略過該格，其餘照常
func TestDispatchPlanMealsSkipsFailedSlot(t *testing.T) {
	d, _ := newDispatcher(func(query string, _ []string) (*search.Result, error) {
		if strings.HasPrefix(query, "lunch") {
			return nil, errors.New("provider down")
		}
		return hitsOf(search.Recipe{Label: query}), nil
	})

	got := d.Dispatch(context.Background(), IntentPlanMeals, Entities{}, common.Profile{})

	require.Equal(t, ResultMealPlan, got.Type)
	require.Len(t, got.Plan, 1)
	require.Len(t, got.Plan[0].Meals, 2)
	assert.Equal(t, "breakfast", got.Plan[0].Meals[0].Type)
	assert.Equal(t, "dinner", got.Plan[0].Meals[1].Type)
}

func TestDispatchPlanMealsSingleMealType(t *testing.T) {
	d, searcher := newDispatcher(func(query string, _ []string) (*search.Result, error) {
		return hitsOf(search.Recipe{Label: query}), nil
	})

	got := d.Dispatch(context.Background(), IntentPlanMeals, Entities{MealType: "dinner"}, common.Profile{})

	require.Equal(t, ResultMealPlan, got.Type)
	require.Len(t, got.Plan, 1)
	require.Len(t, got.Plan[0].Meals, 1)
	assert.Equal(t, []string{"dinner healthy"}, searcher.queries)
}

func TestDispatchSubstitute(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	got := d.Dispatch(context.Background(), IntentSubstitute, Entities{Ingredients: []string{"milk"}}, common.Profile{})

	require.Equal(t, ResultSubstitutionList, got.Type)
	require.Len(t, got.Substitutions, 1)
	assert.Equal(t, "milk", got.Substitutions[0].Ingredient)
	require.NotEmpty(t, got.Substitutions[0].Options)
	// 替代品數量上限為三
	assert.LessOrEqual(t, len(got.Substitutions[0].Options[0].Alternatives), 3)
}

// 含使用者過敏原信號字的替代品一律排除
func TestDispatchSubstituteFiltersAllergens(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	lex := lexicon.Default()
	dairySignals := lex.SignalsFor("dairy")

	got := d.Dispatch(context.Background(), IntentSubstitute,
		Entities{Ingredients: []string{"milk"}, Allergens: []string{"dairy"}}, common.Profile{})

	// 所有 milk 替代品都含 milk 信號字，過濾後一個不剩
	assert.Equal(t, ResultNoSubstitutions, got.Type)
	assert.Contains(t, got.Message, "milk")

	got = d.Dispatch(context.Background(), IntentSubstitute,
		Entities{Ingredients: []string{"flour"}, Allergens: []string{"dairy"}}, common.Profile{})

	require.Equal(t, ResultSubstitutionList, got.Type)
	for _, match := range got.Substitutions {
		for _, option := range match.Options {
			for _, alt := range option.Alternatives {
				for _, signal := range dairySignals {
					assert.NotContains(t, strings.ToLower(alt), signal)
				}
			}
		}
	}
}

// 個人檔案中的過敏原與訊息中的過敏原同等生效
func TestDispatchSubstituteFiltersProfileAllergens(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	// 訊息本身未提及過敏原，僅個人檔案帶有 dairy
	got := d.Dispatch(context.Background(), IntentSubstitute,
		Entities{Ingredients: []string{"milk"}}, common.Profile{Allergens: []string{"dairy"}})

	assert.Equal(t, ResultNoSubstitutions, got.Type)

	lex := lexicon.Default()
	dairySignals := lex.SignalsFor("dairy")

	got = d.Dispatch(context.Background(), IntentSubstitute,
		Entities{Ingredients: []string{"flour"}}, common.Profile{Allergens: []string{"dairy"}})

	require.Equal(t, ResultSubstitutionList, got.Type)
	for _, match := range got.Substitutions {
		for _, option := range match.Options {
			for _, alt := range option.Alternatives {
				for _, signal := range dairySignals {
					assert.NotContains(t, strings.ToLower(alt), signal)
				}
			}
		}
	}
}

func TestDispatchExplainAllergensFromProfile(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	got := d.Dispatch(context.Background(), IntentExplainAllergens,
		Entities{}, common.Profile{Allergens: []string{"dairy"}})

	require.Equal(t, ResultAllergenWarning, got.Type)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "dairy", got.Warnings[0].Allergen)

	// 訊息與檔案重複時只警告一次
	got = d.Dispatch(context.Background(), IntentExplainAllergens,
		Entities{Allergens: []string{"dairy"}}, common.Profile{Allergens: []string{"dairy", "gluten"}})

	require.Equal(t, ResultAllergenWarning, got.Type)
	require.Len(t, got.Warnings, 2)
	assert.Equal(t, "dairy", got.Warnings[0].Allergen)
	assert.Equal(t, "gluten", got.Warnings[1].Allergen)
}

// 天數為零或負值時退回單日計畫
func TestDispatchPlanMealsNonPositiveDuration(t *testing.T) {
	d, _ := newDispatcher(func(query string, _ []string) (*search.Result, error) {
		return hitsOf(search.Recipe{Label: query}), nil
	})

	zero := 0
	got := d.Dispatch(context.Background(), IntentPlanMeals, Entities{DurationDays: &zero}, common.Profile{})

	require.Equal(t, ResultMealPlan, got.Type)
	require.Len(t, got.Plan, 1)
	assert.Equal(t, "Here's your 1-day meal plan!", got.Message)
}

func TestDispatchSubstituteWithoutIngredient(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	got := d.Dispatch(context.Background(), IntentSubstitute, Entities{}, common.Profile{})

	assert.Equal(t, ResultSubstitutionHelp, got.Type)
}

func TestDispatchGeneralConversation(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	got := d.Dispatch(context.Background(), IntentGeneralConversation, Entities{Raw: "hello there"}, common.Profile{})

	require.Equal(t, ResultConversation, got.Type)
	// 回覆必須屬於問候池
	assert.Contains(t, greetingReplies, got.Message)
}

func TestDispatchUnknownIntent(t *testing.T) {
	d, _ := newDispatcher(func(string, []string) (*search.Result, error) {
		return &search.Result{}, nil
	})

	got := d.Dispatch(context.Background(), IntentUnknown, Entities{}, common.Profile{})

	assert.Equal(t, ResultError, got.Type)
	assert.NotEmpty(t, got.Message)
}
