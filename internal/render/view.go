// Package render 将会话状态投影为视图模型，不含任何副作用
package render

import (
	"fmt"

	"commercia-client/internal/conversation"
	"commercia-client/internal/model"
)

const (
	AssistantName = "AssistentIA"
	UserName      = "Você"
	TypingText    = "AssistentIA está digitando..."
	OrderTitle    = "Informações do Pedido"
)

// QuickActions 只有问候消息时提供的示例输入
var QuickActions = []string{
	"Quero um notebook para programar, até R$ 3.000",
	"Como faço para trocar um produto?",
	"Cadê meu pedido #12345?",
	"O que vocês recomendam para quem gosta de tecnologia?",
}

type ProductCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

type OrderView struct {
	Title             string   `json:"title"`
	OrderID           string   `json:"order_id"`
	Status            string   `json:"status"`
	PurchaseDate      string   `json:"purchase_date"`
	EstimatedDelivery string   `json:"estimated_delivery"`
	Items             []string `json:"items,omitempty"`
}

type BlockView struct {
	Kind     model.BlockKind `json:"kind"`
	Products []ProductCard   `json:"products,omitempty"`
	Order    *OrderView      `json:"order,omitempty"`
}

type MessageView struct {
	ID     int64        `json:"id"`
	Role   model.Role   `json:"role"`
	Author string       `json:"author"`
	Text   string       `json:"text"`
	Intent string       `json:"intent,omitempty"`
	Badge  *IntentStyle `json:"badge,omitempty"`
	Blocks []BlockView  `json:"blocks,omitempty"`
	Time   string       `json:"time"`
}

type ConversationView struct {
	SessionID    string        `json:"session_id"`
	Messages     []MessageView `json:"messages"`
	Pending      bool          `json:"pending"`
	Typing       string        `json:"typing,omitempty"`
	QuickActions []string      `json:"quick_actions,omitempty"`
}

// Project 纯投影：相同快照得到相同视图
func Project(snap conversation.Snapshot) ConversationView {
	view := ConversationView{
		SessionID: snap.SessionID,
		Messages:  make([]MessageView, 0, len(snap.Messages)),
		Pending:   snap.Pending,
	}
	for _, msg := range snap.Messages {
		view.Messages = append(view.Messages, projectMessage(msg))
	}
	if snap.Pending {
		view.Typing = TypingText
	}
	if len(snap.Messages) == 1 {
		view.QuickActions = append([]string(nil), QuickActions...)
	}
	return view
}

func projectMessage(msg model.Message) MessageView {
	mv := MessageView{
		ID:     msg.ID,
		Role:   msg.Role,
		Author: AssistantName,
		Text:   msg.Text,
		Time:   msg.CreatedAt.Format("15:04:05"),
	}
	if msg.Role == model.RoleUser {
		mv.Author = UserName
		return mv
	}

	if msg.Intent != nil {
		style := StyleFor(*msg.Intent)
		mv.Intent = msg.Intent.Label
		mv.Badge = &style
	}
	for _, block := range msg.Payload.Blocks() {
		mv.Blocks = append(mv.Blocks, projectBlock(block))
	}
	return mv
}

func projectBlock(block model.Block) BlockView {
	bv := BlockView{Kind: block.Kind}
	if block.Order != nil {
		bv.Order = projectOrder(block.Order)
		return bv
	}
	for _, p := range block.Products {
		bv.Products = append(bv.Products, ProductCard{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       FormatPrice(p.Price),
			Description: p.Description,
		})
	}
	return bv
}

func projectOrder(order *model.OrderSnapshot) *OrderView {
	ov := &OrderView{
		Title:             OrderTitle,
		OrderID:           "#" + order.OrderID,
		Status:            order.Status,
		PurchaseDate:      order.PurchaseDate,
		EstimatedDelivery: order.EstimatedDelivery,
	}
	for _, item := range order.Items {
		ov.Items = append(ov.Items, item.Name)
	}
	return ov
}

// FormatPrice 两位小数，负数按 0 展示
func FormatPrice(price float64) string {
	if price < 0 {
		price = 0
	}
	return fmt.Sprintf("R$ %.2f", price)
}
