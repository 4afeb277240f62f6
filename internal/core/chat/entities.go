package chat

import (
	"regexp"
	"strconv"
	"strings"

	"bitewise-assistant/internal/core/chat/lexicon"
	"bitewise-assistant/internal/pkg/common"
)

// Entities 從單一訊息擷取出的結構化參數。
// 指標欄位 nil、字串欄位空值均表示「未出現」，與「找到但為空」不混用。
type Entities struct {
	DietaryTags      []string `json:"dietary_tags"`
	FoodTopic        string   `json:"food_topic"`
	TimeLimitMinutes *int     `json:"time_limit_minutes"`
	MealType         string   `json:"meal_type,omitempty"`
	DurationDays     *int     `json:"duration_days"`
	Location         string   `json:"location,omitempty"`
	Allergens        []string `json:"allergens"`
	Ingredients      []string `json:"ingredients"`

	// 原始輸入，閒聊分類需要未清洗的文本
	Raw string `json:"-"`
}

// numericPattern 帶乘數的數字模式
type numericPattern struct {
	re         *regexp.Regexp
	multiplier int
}

var (
	// 時間上限模式，依序測試，先命中者勝出
	timePatterns = []numericPattern{
		{regexp.MustCompile(`(\d+)\s*min`), 1},
		{regexp.MustCompile(`(\d+)\s*minute`), 1},
		{regexp.MustCompile(`(\d+)\s*hour`), 60},
		{regexp.MustCompile(`(\d+)\s*h`), 60},
		{regexp.MustCompile(`under\s*(\d+)`), 1},
		{regexp.MustCompile(`less\s*than\s*(\d+)`), 1},
	}

	// 計畫天數模式
	durationPatterns = []numericPattern{
		{regexp.MustCompile(`(\d+)\s*day`), 1},
		{regexp.MustCompile(`(\d+)\s*week`), 7},
		{regexp.MustCompile(`(\d+)\s*month`), 30},
	}

	// 替代請求中的食材擷取模式
	ingredientPatterns = []*regexp.Regexp{
		regexp.MustCompile(`substitute\s+for\s+(\w+)`),
		regexp.MustCompile(`replace\s+(\w+)`),
		regexp.MustCompile(`instead\s+of\s+(\w+)`),
		regexp.MustCompile(`alternative\s+to\s+(\w+)`),
	}
)

// Extractor 規則式實體擷取器
type Extractor struct {
	lex           *lexicon.Lexicon
	stopWordRegex *regexp.Regexp
}

// NewExtractor 創建實體擷取器
func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	// 將停用詞預編譯成單一整詞匹配模式
	escaped := make([]string, 0, len(lex.StopWords))
	for _, w := range lex.StopWords {
		escaped = append(escaped, regexp.QuoteMeta(w))
	}
	stopWordRegex := regexp.MustCompile(`\b(` + strings.Join(escaped, "|") + `)\b`)

	return &Extractor{
		lex:           lex,
		stopWordRegex: stopWordRegex,
	}
}

// Extract 從訊息中擷取所有實體，各欄位互相獨立，永不失敗
func (e *Extractor) Extract(text string, profile common.Profile) Entities {
	lower := strings.ToLower(text)

	return Entities{
		DietaryTags:      e.extractDietaryTags(lower, profile.Diets),
		FoodTopic:        e.extractFoodTopic(lower),
		TimeLimitMinutes: e.extractTimeLimit(lower),
		MealType:         e.extractMealType(lower),
		DurationDays:     e.extractDuration(lower),
		Location:         e.extractLocation(lower, profile.Location),
		Allergens:        e.extractAllergens(lower, profile.Allergens),
		Ingredients:      e.extractIngredients(lower),
		Raw:              text,
	}
}

// extractDietaryTags 掃描文本中的飲食標籤同義詞並與個人檔案合併
func (e *Extractor) extractDietaryTags(lower string, userDiets []string) []string {
	var tags []string
	for _, dt := range e.lex.DietaryTags {
		if strings.Contains(lower, dt.Synonym) {
			tags = append(tags, dt.Canonical)
		}
	}
	return dedupe(append(tags, userDiets...))
}

// extractFoodTopic 去除常見填充詞後留下的主題殘餘，可能為空字串
func (e *Extractor) extractFoodTopic(lower string) string {
	topic := e.stopWordRegex.ReplaceAllString(lower, "")
	return strings.Join(strings.Fields(topic), " ")
}

// extractTimeLimit 先試數字模式再試關鍵字桶
func (e *Extractor) extractTimeLimit(lower string) *int {
	for _, tp := range timePatterns {
		if m := tp.re.FindStringSubmatch(lower); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			v := n * tp.multiplier
			return &v
		}
	}

	// 數字模式都沒中時退回關鍵字桶
	for _, kw := range e.lex.TimeKeywords {
		if strings.Contains(lower, kw.Keyword) && kw.Minutes > 0 {
			v := kw.Minutes
			return &v
		}
	}

	return nil
}

// extractMealType 依詞表順序找第一個命中的餐別
func (e *Extractor) extractMealType(lower string) string {
	for _, mt := range e.lex.MealTypes {
		for _, kw := range mt.Keywords {
			if strings.Contains(lower, kw) {
				return mt.Name
			}
		}
	}
	return ""
}

// extractDuration 擷取計畫天數
func (e *Extractor) extractDuration(lower string) *int {
	for _, dp := range durationPatterns {
		if m := dp.re.FindStringSubmatch(lower); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			v := n * dp.multiplier
			return &v
		}
	}
	return nil
}

// extractLocation 命中位置片語時回傳檔案中的位置，否則回傳 current_location 佔位值
func (e *Extractor) extractLocation(lower, userLocation string) string {
	for _, phrase := range e.lex.LocationPhrases {
		if strings.Contains(lower, phrase) {
			if userLocation != "" {
				return userLocation
			}
			return "current_location"
		}
	}
	return ""
}

// extractAllergens 依信號詞掃描過敏原並與個人檔案合併
func (e *Extractor) extractAllergens(lower string, userAllergens []string) []string {
	var allergens []string
	for _, a := range e.lex.Allergens {
		for _, signal := range a.Signals {
			if strings.Contains(lower, signal) {
				allergens = append(allergens, a.Name)
				break
			}
		}
	}
	return dedupe(append(allergens, userAllergens...))
}

// extractIngredients 從替代語式中擷取食材名稱，單一訊息可能命中多個模板
func (e *Extractor) extractIngredients(lower string) []string {
	var ingredients []string
	for _, pattern := range ingredientPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			ingredients = append(ingredients, strings.ToLower(m[1]))
		}
	}
	return dedupe(ingredients)
}

// dedupe 去重並保留首次出現順序
func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
