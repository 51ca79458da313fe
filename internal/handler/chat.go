package handler

import (
	"context"
	"net/http"
	"time"

	"commercia-client/internal/conversation"
	"commercia-client/internal/model"
	"commercia-client/internal/render"
	"commercia-client/internal/service"
	"commercia-client/internal/utils"
	"commercia-client/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HealthChecker 上游助手服务的健康探测
type HealthChecker interface {
	Health(ctx context.Context) error
}

type ChatHandler struct {
	chatService       *service.ChatService
	upstream          HealthChecker
	heartbeatInterval time.Duration
}

func NewChatHandler(chatService *service.ChatService, upstream HealthChecker) *ChatHandler {
	return &ChatHandler{
		chatService:       chatService,
		upstream:          upstream,
		heartbeatInterval: 30 * time.Second,
	}
}

// GetState 返回当前会话的视图投影
func (h *ChatHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, render.Project(h.chatService.Snapshot()))
}

// SendMessage 提交用户输入。被拒绝的提交不改变状态，只通过状态码告知视图
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := h.chatService.Send(req.Message)
	switch outcome {
	case conversation.OutcomeAccepted:
		c.JSON(http.StatusAccepted, gin.H{"outcome": outcome})
	case conversation.OutcomeEmpty:
		// 空输入被静默忽略，不视为请求错误
		c.JSON(http.StatusOK, gin.H{"outcome": outcome})
	case conversation.OutcomePending:
		c.JSON(http.StatusConflict, gin.H{"outcome": outcome})
	default:
		c.JSON(http.StatusGone, gin.H{"outcome": outcome})
	}
}

// StreamState 以 SSE 推送状态变化：先发送当前状态，之后每次变化一个 state 事件
func (h *ChatHandler) StreamState(c *gin.Context) {
	updates, cancel := h.chatService.Subscribe()
	defer cancel()

	sseWriter := utils.NewSSEWriter(c.Writer)
	if err := sseWriter.WriteJSON("state", render.Project(h.chatService.Snapshot())); err != nil {
		logger.Warnf("Failed to write initial state: %v", err)
		return
	}

	// 心跳，防止连接因空闲被代理断开
	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				sseWriter.Close()
				return
			}
			if err := sseWriter.WriteJSON("state", render.Project(snap)); err != nil {
				logger.Warnf("Failed to write SSE: %v", err)
				return
			}

		case <-heartbeat.C:
			if err := sseWriter.WriteJSON("heartbeat", gin.H{"timestamp": time.Now().Unix()}); err != nil {
				logger.Warnf("心跳发送失败: %v", err)
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Health 本地服务状态以及上游可达性
func (h *ChatHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	upstream := "ok"
	if err := h.upstream.Health(ctx); err != nil {
		logger.Warnf("assistant health check failed: %v", err)
		upstream = "unreachable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"assistant": upstream,
		"pending":   h.chatService.Store().Pending(),
		"timestamp": time.Now().Unix(),
	})
}
