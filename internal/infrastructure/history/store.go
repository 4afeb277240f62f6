// Package history 以 Redis 保存每位使用者最近的對話紀錄。
// 未啟用 Redis 時所有操作降級為 no-op，不影響訊息處理主流程。
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"bitewise-assistant/internal/infrastructure/config"
	"bitewise-assistant/internal/pkg/common"
)

// Message 單筆對話紀錄
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Intent    string `json:"intent,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Store 對話歷史儲存
type Store struct {
	client *redis.Client
	config *config.RedisConfig
}

// NewStore 創建對話歷史儲存
func NewStore(cfg *config.RedisConfig) (*Store, error) {
	if !cfg.Enabled {
		return &Store{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{
		client: client,
		config: cfg,
	}, nil
}

// Enabled 儲存是否可用
func (s *Store) Enabled() bool {
	return s.config.Enabled && s.client != nil
}

// Append 追加對話紀錄並裁切到上限，每位使用者獨立一個清單
func (s *Store) Append(ctx context.Context, userID string, messages ...Message) error {
	if !s.Enabled() {
		return nil
	}

	key := s.key(userID)
	for _, msg := range messages {
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		if err := s.client.LPush(ctx, key, data).Err(); err != nil {
			return fmt.Errorf("failed to push message: %w", err)
		}
	}

	if err := s.client.LTrim(ctx, key, 0, int64(s.config.HistoryMax-1)).Err(); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set history TTL: %w", err)
	}

	return nil
}

// Recent 取回最近的對話紀錄，新到舊排序
func (s *Store) Recent(ctx context.Context, userID string, limit int64) ([]Message, error) {
	if !s.Enabled() {
		return nil, common.ErrHistoryUnavailable
	}

	if limit <= 0 || limit > int64(s.config.HistoryMax) {
		limit = int64(s.config.HistoryMax)
	}

	raw, err := s.client.LRange(ctx, s.key(userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			// 歷史紀錄損壞時跳過該筆
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// Close 關閉連線
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// key 每位使用者的歷史清單鍵
func (s *Store) key(userID string) string {
	return fmt.Sprintf("chat:history:%s", userID)
}
