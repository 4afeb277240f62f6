package chat

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	chatcore "bitewise-assistant/internal/core/chat"
	"bitewise-assistant/internal/infrastructure/history"
	"bitewise-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageRequest 對話訊息請求
type MessageRequest struct {
	UserID  string         `json:"user_id"`           // 未提供時以 anonymous 處理
	Text    string         `json:"text"`              // 使用者輸入的原始訊息
	Profile common.Profile `json:"profile,omitempty"` // 呼叫端隨請求附帶的偏好檔案
}

// HistoryResponse 對話歷史響應
type HistoryResponse struct {
	UserID   string            `json:"user_id"`
	Messages []history.Message `json:"messages"`
}

// Handler 對話處理器
type Handler struct {
	pipeline *chatcore.Pipeline
	store    *history.Store
}

// NewHandler 創建對話處理器
func NewHandler(pipeline *chatcore.Pipeline, store *history.Store) *Handler {
	return &Handler{
		pipeline: pipeline,
		store:    store,
	}
}

// HandleMessage 處理單一對話訊息
func (h *Handler) HandleMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("對話請求解析失敗",
			zap.Error(err),
			zap.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	// 空白訊息在進入核心前擋下
	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Missing required field: text",
			"code":     common.ErrEmptyMessage.Code,
			"response": "I need a message to help you with. What would you like to know?",
		})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	reply := h.pipeline.Process(c.Request.Context(), userID, text, req.Profile)

	// 歷史寫入失敗只記錄，不影響回覆
	if err := h.store.Append(c.Request.Context(), userID,
		history.Message{
			Role:      "user",
			Text:      text,
			Timestamp: reply.Timestamp,
		},
		history.Message{
			Role:      "assistant",
			Text:      reply.Response,
			Intent:    string(reply.Intent),
			Timestamp: reply.Timestamp,
		},
	); err != nil {
		common.LogWarn("對話歷史寫入失敗",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, reply)
}

// HandleHistory 取回使用者最近的對話紀錄
func (h *Handler) HandleHistory(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required parameter: user_id",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	messages, err := h.store.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		var customErr *common.CustomError
		if errors.As(err, &customErr) {
			c.JSON(customErr.Status, gin.H{
				"error": customErr.Message,
				"code":  customErr.Code,
			})
			return
		}
		common.LogError("對話歷史讀取失敗",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read chat history",
			"code":  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		UserID:   userID,
		Messages: messages,
	})
}
