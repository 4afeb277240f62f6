package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bitewise-assistant/internal/infrastructure/config"
	"bitewise-assistant/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client Edamam 食譜搜尋客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建 Edamam 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Edamam.BaseURL).
		SetTimeout(cfg.Edamam.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Search 依關鍵字與飲食過濾條件搜尋食譜
func (c *Client) Search(ctx context.Context, query string, dietFilters []string) (*Result, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("type", "public")
	params.Set("q", query)
	params.Set("app_id", c.config.Edamam.AppID)
	params.Set("app_key", c.config.Edamam.AppKey)
	// health 參數可重複，每個過濾條件各帶一個
	for _, f := range dietFilters {
		params.Add("health", f)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get("/api/recipes/v2")

	common.LogSearchCall(query, time.Since(start), err, "")

	if err != nil {
		return nil, fmt.Errorf("failed to send request to Edamam: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("Edamam API returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("query", query),
		)
		return nil, fmt.Errorf("Edamam API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result Result
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse Edamam response: %w", err)
	}

	common.LogInfo("食譜搜尋完成",
		zap.String("查詢", query),
		zap.Int("命中數", len(result.Hits)),
		zap.Strings("過濾條件", dietFilters),
	)

	return &result, nil
}
