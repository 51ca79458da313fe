// Package assistant 是远端意图分类助手服务的 HTTP 客户端
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"commercia-client/internal/config"
	"commercia-client/internal/model"
	"commercia-client/internal/utils"
	"commercia-client/pkg/logger"

	"github.com/sirupsen/logrus"
)

// maxReplyBytes 单个响应体的上限
const maxReplyBytes = 4 << 20

type Client struct {
	httpClient *http.Client
	chatURL    string
	healthURL  string
}

func NewClient(cfg config.AssistantConfig) *Client {
	return &Client{
		httpClient: utils.NewHTTPClient(cfg.Timeout),
		chatURL:    cfg.ChatURL(),
		healthURL:  cfg.HealthURL(),
	}
}

// wireReply 用指针区分 response 字段缺失与空字符串
type wireReply struct {
	Response *string          `json:"response"`
	Intent   string           `json:"intent"`
	Data     *model.ReplyData `json:"data"`
}

// Send 发送一次聊天请求。网络错误、非 2xx 状态、响应体无法解析都返回错误
func (c *Client) Send(ctx context.Context, req model.ChatRequest) (model.AssistantReply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return model.AssistantReply{}, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return model.AssistantReply{}, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	logger.WithFields(logrus.Fields{
		"url":       c.chatURL,
		"user_id":   req.UserID,
		"query_len": len(req.Query),
	}).Info("sending chat request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.AssistantReply{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.AssistantReply{}, fmt.Errorf("%w: status %d: %s", ErrBadStatus, resp.StatusCode, string(snippet))
	}

	var wire wireReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&wire); err != nil {
		return model.AssistantReply{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if wire.Response == nil {
		return model.AssistantReply{}, fmt.Errorf("%w: missing response field", ErrMalformedReply)
	}

	return model.AssistantReply{
		Response: *wire.Response,
		Intent:   wire.Intent,
		Data:     wire.Data,
	}, nil
}

// Health 探测助手服务的健康检查端点
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrBadStatus, resp.StatusCode)
	}
	return nil
}
