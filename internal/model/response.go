package model

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Product 服务端商品目录中的一项，字段名沿用服务端
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"nome"`
	Category    string  `json:"categoria"`
	Price       float64 `json:"preco"`
	Description string  `json:"descricao"`
}

type OrderItem struct {
	Name string `json:"nome"`
}

// OrderSnapshot 订单快照，仅用于展示
type OrderSnapshot struct {
	OrderID           string      `json:"pedido_id"`
	Status            string      `json:"status"`
	PurchaseDate      string      `json:"data_compra"`
	EstimatedDelivery string      `json:"previsao_entrega"`
	Items             []OrderItem `json:"produtos,omitempty"`
}

// ReplyData 助手回复中的结构化数据，各字段相互独立
type ReplyData struct {
	Products        []Product      `json:"products,omitempty"`
	Order           *OrderSnapshot `json:"order,omitempty"`
	Recommendations []Product      `json:"recommendations,omitempty"`
}

// AssistantReply 已通过校验的助手服务响应
type AssistantReply struct {
	Response string     `json:"response"`
	Intent   string     `json:"intent,omitempty"`
	Data     *ReplyData `json:"data,omitempty"`
}

type Message struct {
	ID        int64          `json:"id"`
	Role      Role           `json:"role"`
	Text      string         `json:"text"`
	Intent    *Intent        `json:"intent,omitempty"`
	Payload   *RenderPayload `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (o *OrderSnapshot) Clone() *OrderSnapshot {
	if o == nil {
		return nil
	}
	c := *o
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	return &c
}

// Clone 返回不与原消息共享意图和附带数据的拷贝
func (m Message) Clone() Message {
	c := m
	if m.Intent != nil {
		intent := *m.Intent
		c.Intent = &intent
	}
	c.Payload = m.Payload.Clone()
	return c
}
