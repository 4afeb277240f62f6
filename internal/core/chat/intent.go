// Package chat 實作對話核心的四階段流水線：
// 意圖判斷 → 實體擷取 → 動作執行 → 回覆格式化。
// 全程同步、無跨輪狀態，規則與詞表驅動，不依賴任何模型。
package chat

import (
	"regexp"
	"strings"

	"bitewise-assistant/internal/core/chat/lexicon"
)

// Intent 單一訊息被判定的對話目標
type Intent string

const (
	IntentSearchRecipes       Intent = "search_recipes"
	IntentSearchRestaurants   Intent = "search_restaurants"
	IntentExplainAllergens    Intent = "explain_allergens"
	IntentPlanMeals           Intent = "plan_meals"
	IntentSubstitute          Intent = "substitute"
	IntentGeneralConversation Intent = "general_conversation"
	IntentUnknown             Intent = "unknown"
)

// intentGroup 一組意圖的匹配模式，組內依序測試
type intentGroup struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// 意圖模式組，組順序決定優先序，先命中者勝出
var intentGroups = []intentGroup{
	{IntentSearchRecipes, compileAll(
		`show me.*recipe`,
		`find.*recipe`,
		`search.*recipe`,
		`recipe.*for`,
		`what.*cook`,
		`dinner.*idea`,
		`breakfast.*idea`,
		`lunch.*idea`,
		`meal.*idea`,
		`cook.*tonight`,
		`make.*for`,
	)},
	{IntentSearchRestaurants, compileAll(
		`restaurant`,
		`where.*eat`,
		`near me`,
		`nearby`,
		`local.*food`,
		`dining`,
		`place.*eat`,
		`food.*near`,
	)},
	{IntentExplainAllergens, compileAll(
		`why.*can.*t.*eat`,
		`why.*unsafe`,
		`explain.*recipe`,
		`what.*wrong.*with`,
		`allergen`,
		`allergy`,
		`safe.*to.*eat`,
		`substitute`,
		`replacement`,
		`instead.*of`,
	)},
	{IntentPlanMeals, compileAll(
		`plan.*meal`,
		`meal.*plan`,
		`plan.*for.*day`,
		`weekly.*meal`,
		`menu.*plan`,
		`meal.*prep`,
		`shopping.*list`,
		`grocery.*list`,
	)},
	{IntentSubstitute, compileAll(
		`substitute.*for`,
		`replace.*with`,
		`instead.*of`,
		`alternative.*to`,
		`what.*use.*instead`,
		`sub.*for`,
	)},
	{IntentGeneralConversation, compileAll(
		`^(hi|hello|hey)\b`,
		`\bthank`,
		`\bbye\b`,
		`goodbye`,
		`who are you`,
		`what are you`,
		`how do you work`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Classifier 規則式意圖判斷器
type Classifier struct {
	lex *lexicon.Lexicon
}

// NewClassifier 創建意圖判斷器
func NewClassifier(lex *lexicon.Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

// Classify 判斷單一訊息的意圖，保證回傳封閉枚舉中的值，永不失敗
func (c *Classifier) Classify(text string) Intent {
	lower := strings.ToLower(text)

	// 依組順序測試各意圖模式，先命中者勝出
	for _, group := range intentGroups {
		for _, pattern := range group.patterns {
			if pattern.MatchString(lower) {
				return group.intent
			}
		}
	}

	return c.fallback(lower)
}

// fallback 無模式命中時的兩層後備規則
func (c *Classifier) fallback(lower string) Intent {
	hasFood := c.lex.HasFoodKeyword(lower)

	// 問句開頭且與食物無關的輸入視為閒聊
	if !hasFood && c.lex.StartsWithQuestionWord(lower) {
		return IntentGeneralConversation
	}
	// 完全不含食物關鍵字的輸入同樣視為閒聊
	if !hasFood {
		return IntentGeneralConversation
	}

	// 其餘默認為食譜搜尋
	return IntentSearchRecipes
}
