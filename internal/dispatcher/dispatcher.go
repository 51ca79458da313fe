// Package dispatcher 将助手服务的原始响应规范化为助手消息的内容
package dispatcher

import (
	"commercia-client/internal/model"
)

// MaxDisplayProducts 商品列表最多展示的条目数
const MaxDisplayProducts = 4

// Body 规范化后的助手消息内容
type Body struct {
	Text    string
	Intent  model.Intent
	Payload *model.RenderPayload
}

// Normalize 纯函数：不修改 reply，相同输入得到结构相同的输出
func Normalize(reply model.AssistantReply) Body {
	return Body{
		Text:    reply.Response,
		Intent:  model.ParseIntent(reply.Intent),
		Payload: buildPayload(reply.Data),
	}
}

func buildPayload(data *model.ReplyData) *model.RenderPayload {
	if data == nil {
		return nil
	}

	payload := &model.RenderPayload{
		Products:        truncate(data.Products),
		Order:           data.Order.Clone(),
		Recommendations: truncate(data.Recommendations),
	}
	if payload.Empty() {
		return nil
	}
	return payload
}

func truncate(products []model.Product) []model.Product {
	if len(products) == 0 {
		return nil
	}
	n := len(products)
	if n > MaxDisplayProducts {
		n = MaxDisplayProducts
	}
	out := make([]model.Product, n)
	copy(out, products[:n])
	return out
}
