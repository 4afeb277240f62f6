package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bitewise-assistant/internal/core/chat/lexicon"
	"bitewise-assistant/internal/core/search"
	"bitewise-assistant/internal/pkg/common"
)

// Reply 單次訊息處理的完整結果
type Reply struct {
	Intent    Intent   `json:"intent"`
	Entities  Entities `json:"entities"`
	Response  string   `json:"response"`
	Timestamp string   `json:"timestamp"`
}

// Pipeline 對話處理管線：分類、擷取、分派、格式化四階段
// 無跨呼叫狀態，可供多請求併發使用
type Pipeline struct {
	classifier *Classifier
	extractor  *Extractor
	dispatcher *Dispatcher
}

// NewPipeline 創建對話處理管線
func NewPipeline(lex *lexicon.Lexicon, searcher search.Searcher, pick func(n int) int) *Pipeline {
	return &Pipeline{
		classifier: NewClassifier(lex),
		extractor:  NewExtractor(lex),
		dispatcher: NewDispatcher(lex, searcher, pick),
	}
}

// Process 處理單一使用者訊息，回傳意圖、實體與格式化後的回覆
// 空白訊息由呼叫端先行擋下
func (p *Pipeline) Process(ctx context.Context, userID, text string, profile common.Profile) Reply {
	start := time.Now()

	intent := p.classifier.Classify(text)
	entities := p.extractor.Extract(text, profile)
	actionResult := p.dispatcher.Dispatch(ctx, intent, entities, profile)
	response := Format(actionResult)

	common.LogInfo("訊息處理完成",
		zap.String("user_id", userID),
		zap.String("intent", string(intent)),
		zap.String("result_type", string(actionResult.Type)),
		zap.Duration("duration", time.Since(start)))

	return Reply{
		Intent:    intent,
		Entities:  entities,
		Response:  response,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
