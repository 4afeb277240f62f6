package search

import (
	"context"
	"fmt"
	"strings"

	"bitewise-assistant/internal/core/cache"
	"bitewise-assistant/internal/infrastructure/config"
	"bitewise-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 帶緩存的食譜搜尋服務
// 同一組查詢與過濾條件在 TTL 內只會打一次外部 API
type Service struct {
	config       *config.Config
	client       Searcher
	cacheManager *cache.Manager
}

// NewService 創建食譜搜尋服務
func NewService(cfg *config.Config, client Searcher, cacheManager *cache.Manager) *Service {
	return &Service{
		config:       cfg,
		client:       client,
		cacheManager: cacheManager,
	}
}

// Search 搜尋食譜，優先使用緩存
func (s *Service) Search(ctx context.Context, query string, dietFilters []string) (*Result, error) {
	key := s.cacheKey(query, dietFilters)

	// 檢查緩存
	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, key); err == nil && val != "" {
			var cached Result
			if err := common.ParseJSON(val, &cached); err == nil {
				return &cached, nil
			}
			// 緩存內容損壞時照常走外部查詢
			common.LogWarn("緩存內容解析失敗，改走外部查詢",
				zap.String("查詢", query),
			)
		}
	}

	result, err := s.client.Search(ctx, query, dietFilters)
	if err != nil {
		return nil, err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		if data, err := common.ToJSON(result); err == nil {
			_ = s.cacheManager.Set(ctx, key, data)
		}
	}

	return result, nil
}

// cacheKey 生成緩存鍵
func (s *Service) cacheKey(query string, dietFilters []string) string {
	return fmt.Sprintf("search:%s|%s", query, strings.Join(dietFilters, ","))
}
