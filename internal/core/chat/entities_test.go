package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitewise-assistant/internal/core/chat/lexicon"
	"bitewise-assistant/internal/pkg/common"
)

func newExtractor() *Extractor {
	return NewExtractor(lexicon.Default())
}

func TestExtractBasicQuery(t *testing.T) {
	e := newExtractor()

	got := e.Extract("Show me vegan dinner under 30 min", common.Profile{})

	assert.Contains(t, got.DietaryTags, "vegan")
	assert.Equal(t, "dinner", got.MealType)
	require.NotNil(t, got.TimeLimitMinutes)
	assert.Equal(t, 30, *got.TimeLimitMinutes)
}

func TestExtractIngredients(t *testing.T) {
	e := newExtractor()

	got := e.Extract("substitute for milk", common.Profile{})
	assert.Equal(t, []string{"milk"}, got.Ingredients)

	got = e.Extract("what can I use instead of butter", common.Profile{})
	assert.Equal(t, []string{"butter"}, got.Ingredients)

	// 同一訊息可命中多個模板
	got = e.Extract("substitute for milk or replace eggs", common.Profile{})
	assert.Equal(t, []string{"milk", "eggs"}, got.Ingredients)
}

func TestExtractDietaryTags(t *testing.T) {
	e := newExtractor()

	got := e.Extract("gluten free keto recipes", common.Profile{Diets: []string{"vegan", "keto-friendly"}})

	// 文字命中在前，檔案標籤在後，重複者去除
	assert.Equal(t, []string{"gluten-free", "keto-friendly", "vegan"}, got.DietaryTags)
}

func TestExtractTimeLimit(t *testing.T) {
	e := newExtractor()

	tests := []struct {
		text string
		want int
	}{
		{"ready in 20 minutes", 20},
		{"takes 2 hours", 120},
		{"under 45 please", 45},
		{"less than 15", 15},
		{"a quick meal", 30},
		{"something speedy", 20},
	}

	for _, tt := range tests {
		got := e.Extract(tt.text, common.Profile{})
		require.NotNil(t, got.TimeLimitMinutes, "text %q", tt.text)
		assert.Equal(t, tt.want, *got.TimeLimitMinutes, "text %q", tt.text)
	}

	got := e.Extract("no time mentioned", common.Profile{})
	assert.Nil(t, got.TimeLimitMinutes)
}

func TestExtractDuration(t *testing.T) {
	e := newExtractor()

	tests := []struct {
		text string
		want int
	}{
		{"plan for 2 days", 2},
		{"plan for 1 week", 7},
		{"plan for 1 month", 30},
	}

	for _, tt := range tests {
		got := e.Extract(tt.text, common.Profile{})
		require.NotNil(t, got.DurationDays, "text %q", tt.text)
		assert.Equal(t, tt.want, *got.DurationDays, "text %q", tt.text)
	}

	got := e.Extract("plan my meals", common.Profile{})
	assert.Nil(t, got.DurationDays)
}

func TestExtractLocation(t *testing.T) {
	e := newExtractor()

	got := e.Extract("restaurants near me", common.Profile{})
	assert.Equal(t, "current_location", got.Location)

	got = e.Extract("restaurants near me", common.Profile{Location: "Taipei"})
	assert.Equal(t, "Taipei", got.Location)

	got = e.Extract("any good restaurants", common.Profile{Location: "Taipei"})
	assert.Empty(t, got.Location)
}

func TestExtractAllergens(t *testing.T) {
	e := newExtractor()

	got := e.Extract("is there milk or wheat in this", common.Profile{Allergens: []string{"peanuts", "dairy"}})

	// 信號詞命中在前，檔案過敏原補在後
	assert.Equal(t, []string{"dairy", "gluten", "peanuts"}, got.Allergens)
}

func TestExtractFoodTopic(t *testing.T) {
	e := newExtractor()

	got := e.Extract("quick healthy pasta dinner", common.Profile{})
	assert.Equal(t, "pasta", got.FoodTopic)

	got = e.Extract("quick healthy dinner", common.Profile{})
	assert.Empty(t, got.FoodTopic)
}

func TestExtractKeepsRawText(t *testing.T) {
	e := newExtractor()

	got := e.Extract("Hello THERE", common.Profile{})
	assert.Equal(t, "Hello THERE", got.Raw)
}
