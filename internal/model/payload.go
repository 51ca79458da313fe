package model

type PayloadKind string

const (
	PayloadNone        PayloadKind = "none"
	PayloadProductList PayloadKind = "product_list"
	PayloadOrderInfo   PayloadKind = "order_info"
)

// RenderPayload 消息附带的结构化数据。
// 三个槽位相互独立，同时存在时按 Products、Order、Recommendations 的顺序各自渲染一个区块
type RenderPayload struct {
	Products        []Product      `json:"products,omitempty"`
	Order           *OrderSnapshot `json:"order,omitempty"`
	Recommendations []Product      `json:"recommendations,omitempty"`
}

// BlockKind 单个渲染区块的来源字段
type BlockKind string

const (
	BlockProducts        BlockKind = "products"
	BlockOrder           BlockKind = "order"
	BlockRecommendations BlockKind = "recommendations"
)

// Block 一个渲染区块：商品列表或订单信息
type Block struct {
	Kind     BlockKind
	Products []Product
	Order    *OrderSnapshot
}

func (b Block) PayloadKind() PayloadKind {
	if b.Kind == BlockOrder {
		return PayloadOrderInfo
	}
	return PayloadProductList
}

func (p *RenderPayload) Empty() bool {
	return p == nil || (len(p.Products) == 0 && p.Order == nil && len(p.Recommendations) == 0)
}

// Blocks 按固定顺序返回所有存在的区块
func (p *RenderPayload) Blocks() []Block {
	if p.Empty() {
		return nil
	}

	blocks := make([]Block, 0, 3)
	if len(p.Products) > 0 {
		blocks = append(blocks, Block{Kind: BlockProducts, Products: p.Products})
	}
	if p.Order != nil {
		blocks = append(blocks, Block{Kind: BlockOrder, Order: p.Order})
	}
	if len(p.Recommendations) > 0 {
		blocks = append(blocks, Block{Kind: BlockRecommendations, Products: p.Recommendations})
	}
	return blocks
}

// Kind 返回首个区块对应的变体，没有区块时为 PayloadNone
func (p *RenderPayload) Kind() PayloadKind {
	blocks := p.Blocks()
	if len(blocks) == 0 {
		return PayloadNone
	}
	return blocks[0].PayloadKind()
}

// Clone 深拷贝，返回值与原值不共享任何切片或指针
func (p *RenderPayload) Clone() *RenderPayload {
	if p == nil {
		return nil
	}
	return &RenderPayload{
		Products:        cloneProducts(p.Products),
		Order:           p.Order.Clone(),
		Recommendations: cloneProducts(p.Recommendations),
	}
}

func cloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	copy(out, products)
	return out
}
