package render

import "commercia-client/internal/model"

// IntentStyle 意图徽章的展示方式
type IntentStyle struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var generalStyle = IntentStyle{Label: "Conversa Geral", Icon: "💬", Color: "#1F2937"}

var intentStyles = map[model.IntentKind]IntentStyle{
	model.IntentKindProductSearch:  {Label: "Busca de Produtos", Icon: "🛒", Color: "#1E40AF"},
	model.IntentKindOrderLookup:    {Label: "Consulta de Pedido", Icon: "📦", Color: "#166534"},
	model.IntentKindPolicies:       {Label: "Políticas da Loja", Icon: "❓", Color: "#854D0E"},
	model.IntentKindRecommendation: {Label: "Recomendações", Icon: "⭐", Color: "#6B21A8"},
}

// StyleFor 未识别的意图与本地错误都使用通用样式
func StyleFor(intent model.Intent) IntentStyle {
	if style, ok := intentStyles[intent.Kind]; ok {
		return style
	}
	return generalStyle
}
