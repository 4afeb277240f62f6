package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bitewise-assistant/internal/core/chat/lexicon"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(lexicon.Default())

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"show me recipe", "Show me vegan recipes", IntentSearchRecipes},
		{"find recipe", "find a recipe for pasta", IntentSearchRecipes},
		{"dinner idea", "any dinner ideas?", IntentSearchRecipes},
		{"restaurant", "vegan restaurants in town", IntentSearchRestaurants},
		{"near me", "something to eat near me", IntentSearchRestaurants},
		{"why cant eat", "why can't I eat this dish?", IntentExplainAllergens},
		{"why cannot eat", "Why cannot I eat this dish", IntentExplainAllergens},
		{"why can not eat", "why can not I eat peanuts", IntentExplainAllergens},
		{"allergen", "does this contain allergens?", IntentExplainAllergens},
		{"plan meals", "Plan my meals for 2 days", IntentPlanMeals},
		{"meal prep", "help with meal prep", IntentPlanMeals},
		{"replace with", "replace butter with something", IntentSubstitute},
		{"greeting", "hello there", IntentGeneralConversation},
		{"thanks", "ok thanks a lot", IntentGeneralConversation},
		{"goodbye", "goodbye!", IntentGeneralConversation},
		{"who are you", "who are you exactly", IntentGeneralConversation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

// 組順序決定優先序：同時命中替代與過敏原模式時，過敏原組先測到
func TestClassifyGroupOrder(t *testing.T) {
	c := NewClassifier(lexicon.Default())

	assert.Equal(t, IntentExplainAllergens, c.Classify("substitute for milk"))
	assert.Equal(t, IntentExplainAllergens, c.Classify("use oil instead of butter"))
}

func TestClassifyFallback(t *testing.T) {
	c := NewClassifier(lexicon.Default())

	// 不含食物關鍵字的輸入退為閒聊
	assert.Equal(t, IntentGeneralConversation, c.Classify("when does the sun rise"))
	assert.Equal(t, IntentGeneralConversation, c.Classify("tell a story about dogs"))

	// 含食物關鍵字但無模式命中時默認為食譜搜尋
	assert.Equal(t, IntentSearchRecipes, c.Classify("vegan food please"))
	assert.Equal(t, IntentSearchRecipes, c.Classify("I am hungry"))
}

// 任意輸入都必須得到封閉枚舉中的值
func TestClassifyAlwaysReturnsValue(t *testing.T) {
	c := NewClassifier(lexicon.Default())

	valid := map[Intent]bool{
		IntentSearchRecipes:       true,
		IntentSearchRestaurants:   true,
		IntentExplainAllergens:    true,
		IntentPlanMeals:           true,
		IntentSubstitute:          true,
		IntentGeneralConversation: true,
	}

	inputs := []string{"", "   ", "!!!", "asdf qwer", "123456", "好吃的食譜"}
	for _, input := range inputs {
		assert.True(t, valid[c.Classify(input)], "input %q", input)
	}
}
