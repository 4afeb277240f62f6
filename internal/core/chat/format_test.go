package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bitewise-assistant/internal/pkg/common"
)

func TestFormatRecipeList(t *testing.T) {
	result := ActionResult{
		Type:    ResultRecipeList,
		Message: "Found 2 recipes for you!",
		Recipes: []common.RecipeCard{
			{
				Name:        "Fast Salad",
				TimeMinutes: 20,
				Calories:    310,
				DietLabels:  []string{"Balanced"},
				Ingredients: []string{"lettuce", "tomato", "olive oil", "salt", "pepper", "lemon"},
			},
			{
				Name:        "Mystery Bowl",
				TimeMinutes: 0,
				Calories:    400,
				Ingredients: []string{"rice"},
			},
		},
	}

	got := Format(result)

	assert.Contains(t, got, "Found 2 recipes for you!")
	assert.Contains(t, got, "1. **Fast Salad**")
	assert.Contains(t, got, "🕒 20 min | 🔥 310 cal")
	assert.Contains(t, got, "🏷️ Balanced")
	// 食材預覽最多五項
	assert.Contains(t, got, "🧂 Ingredients: lettuce, tomato, olive oil, salt, pepper...")
	// 時間未知顯示 N/A
	assert.Contains(t, got, "2. **Mystery Bowl**")
	assert.Contains(t, got, "🕒 N/A min | 🔥 400 cal")
}

func TestFormatRestaurantListStub(t *testing.T) {
	got := Format(ActionResult{
		Type:        ResultRestaurantList,
		Message:     "Restaurant search is coming soon! For now, try searching for recipes instead.",
		Restaurants: []common.Restaurant{},
	})

	assert.Contains(t, got, "coming soon")
}

func TestFormatAllergenWarning(t *testing.T) {
	got := Format(ActionResult{
		Type:    ResultAllergenWarning,
		Message: "Here are the potential allergens I found in your request:",
		Warnings: []common.AllergenWarning{
			{
				Allergen:      "dairy",
				Warning:       "This recipe may contain dairy-containing ingredients like: milk, cheese, butter",
				Substitutions: []string{"milk", "butter"},
			},
		},
	})

	assert.Contains(t, got, "⚠️ **DAIRY WARNING**")
	assert.Contains(t, got, "💡 **Safe alternatives:** milk, butter")
	assert.Contains(t, got, "*Ask me about specific substitutions for any ingredient!*")
}

func TestFormatMealPlan(t *testing.T) {
	got := Format(ActionResult{
		Type:    ResultMealPlan,
		Message: "Here's your 1-day meal plan!",
		Plan: []common.DayPlan{
			{
				Day: 1,
				Meals: []common.PlannedMeal{
					{Type: "breakfast", Name: "Oatmeal", Calories: 300, TimeMinutes: 10, URL: "http://example.com/oatmeal"},
				},
			},
		},
	})

	assert.Contains(t, got, "**Day 1**")
	assert.Contains(t, got, "🍽️ **Breakfast:** Oatmeal")
	assert.Contains(t, got, "🔗 [View Recipe](http://example.com/oatmeal)")
	assert.Contains(t, got, "*Need a shopping list? Just ask!*")
}

func TestFormatSubstitutionList(t *testing.T) {
	got := Format(ActionResult{
		Type:    ResultSubstitutionList,
		Message: "Here are some substitution options for you:",
		Substitutions: []common.SubstitutionMatch{
			{
				Ingredient: "milk",
				Options: []common.SubstitutionOption{
					{Ingredient: "milk", Alternatives: []string{"almond milk", "oat milk"}, Notes: "swap 1:1 in most recipes"},
				},
			},
		},
	})

	assert.Contains(t, got, "**Milk Substitutions:**")
	assert.Contains(t, got, "• **milk** → almond milk, oat milk")
	assert.Contains(t, got, "*swap 1:1 in most recipes*")
}

func TestFormatNoResults(t *testing.T) {
	got := Format(ActionResult{
		Type:        ResultNoResults,
		Message:     "No recipes found for your search. Try adjusting your criteria.",
		Suggestions: []string{"Try removing some dietary restrictions", "Search for a different food type"},
	})

	assert.Contains(t, got, "**Try these suggestions:**")
	assert.Contains(t, got, "1. Try removing some dietary restrictions")
	assert.Contains(t, got, "2. Search for a different food type")
}

func TestFormatErrorPassthrough(t *testing.T) {
	got := Format(ActionResult{Type: ResultError, Message: "Sorry, something went wrong."})
	assert.Equal(t, "Sorry, something went wrong.", got)
}

func TestFormatFallback(t *testing.T) {
	got := Format(ActionResult{Type: ResultConversation, Message: "Hello!"})
	assert.Equal(t, "Hello!", got)

	got = Format(ActionResult{Type: ResultType("bogus")})
	assert.Equal(t, "I'm not sure how to help with that. Could you try rephrasing?", got)
}
