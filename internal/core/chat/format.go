package chat

import (
	"fmt"
	"strings"
)

// Format 把動作結果渲染成單一顯示字串，依結果型別分流
func Format(result ActionResult) string {
	switch result.Type {
	case ResultRecipeList:
		return formatRecipeList(result)
	case ResultRestaurantList:
		return formatRestaurantList(result)
	case ResultAllergenWarning:
		return formatAllergenWarning(result)
	case ResultMealPlan:
		return formatMealPlan(result)
	case ResultSubstitutionList:
		return formatSubstitutionList(result)
	case ResultNoResults:
		return formatNoResults(result)
	case ResultError:
		return result.Message
	default:
		if result.Message != "" {
			return result.Message
		}
		return "I'm not sure how to help with that. Could you try rephrasing?"
	}
}

// timeLabel 時間未知時顯示 N/A
func timeLabel(minutes int) string {
	if minutes == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", minutes)
}

func formatRecipeList(result ActionResult) string {
	var sb strings.Builder
	sb.WriteString(result.Message + "\n\n")

	for i, recipe := range result.Recipes {
		sb.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, recipe.Name))
		sb.WriteString(fmt.Sprintf("   🕒 %s min | 🔥 %d cal\n", timeLabel(recipe.TimeMinutes), recipe.Calories))

		if len(recipe.DietLabels) > 0 {
			sb.WriteString(fmt.Sprintf("   🏷️ %s\n", strings.Join(recipe.DietLabels, ", ")))
		}

		preview := recipe.Ingredients
		if len(preview) > 5 {
			preview = preview[:5]
		}
		sb.WriteString(fmt.Sprintf("   🧂 Ingredients: %s...\n\n", strings.Join(preview, ", ")))
	}

	return sb.String()
}

func formatRestaurantList(result ActionResult) string {
	var sb strings.Builder
	sb.WriteString(result.Message + "\n\n")

	if len(result.Restaurants) == 0 {
		sb.WriteString("Restaurant search is coming soon! In the meantime, try searching for recipes instead.")
		return sb.String()
	}

	for i, restaurant := range result.Restaurants {
		sb.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, restaurant.Name))
		sb.WriteString(fmt.Sprintf("   ⭐ %.1f | 📍 %s\n", restaurant.Rating, restaurant.Area))
		sb.WriteString(fmt.Sprintf("   🔗 [View Details](%s)\n\n", restaurant.Link))
	}

	return sb.String()
}

func formatAllergenWarning(result ActionResult) string {
	var sb strings.Builder
	sb.WriteString(result.Message + "\n\n")

	for _, warning := range result.Warnings {
		sb.WriteString(fmt.Sprintf("⚠️ **%s WARNING**\n", strings.ToUpper(warning.Allergen)))
		sb.WriteString(warning.Warning + "\n")

		if len(warning.Substitutions) > 0 {
			sb.WriteString(fmt.Sprintf("💡 **Safe alternatives:** %s\n\n", strings.Join(warning.Substitutions, ", ")))
		}
	}

	sb.WriteString("*Ask me about specific substitutions for any ingredient!*")

	return sb.String()
}

func formatMealPlan(result ActionResult) string {
	var sb strings.Builder
	sb.WriteString(result.Message + "\n\n")

	for _, day := range result.Plan {
		sb.WriteString(fmt.Sprintf("**Day %d**\n", day.Day))

		for _, meal := range day.Meals {
			sb.WriteString(fmt.Sprintf("🍽️ **%s:** %s\n", capitalize(meal.Type), meal.Name))
			sb.WriteString(fmt.Sprintf("   🕒 %s min | 🔥 %d cal\n", timeLabel(meal.TimeMinutes), meal.Calories))
			sb.WriteString(fmt.Sprintf("   🔗 [View Recipe](%s)\n\n", meal.URL))
		}

		sb.WriteString("---\n\n")
	}

	sb.WriteString("*Need a shopping list? Just ask!*")

	return sb.String()
}

func formatSubstitutionList(result ActionResult) string {
	var sb strings.Builder
	sb.WriteString(result.Message + "\n\n")

	for _, item := range result.Substitutions {
		sb.WriteString(fmt.Sprintf("**%s Substitutions:**\n", capitalize(item.Ingredient)))

		for _, option := range item.Options {
			sb.WriteString(fmt.Sprintf("• **%s** → %s\n", option.Ingredient, strings.Join(option.Alternatives, ", ")))
			if option.Notes != "" {
				sb.WriteString(fmt.Sprintf("  *%s*\n", option.Notes))
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func formatNoResults(result ActionResult) string {
	var sb strings.Builder
	sb.WriteString(result.Message + "\n\n")

	if len(result.Suggestions) > 0 {
		sb.WriteString("**Try these suggestions:**\n")
		for i, suggestion := range result.Suggestions {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return sb.String()
}

// capitalize 首字母大寫
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
