package model

import (
	"encoding/json"
	"strings"
)

// IntentKind 意图分类，已知集合之外的标签归为 IntentKindOther
type IntentKind int

const (
	IntentKindOther IntentKind = iota
	IntentKindProductSearch
	IntentKindOrderLookup
	IntentKindPolicies
	IntentKindRecommendation
	IntentKindGeneralChat
	IntentKindError
)

// Intent 助手回复的意图标签。Label 保留服务端原始字符串
type Intent struct {
	Kind  IntentKind
	Label string
}

var (
	IntentProductSearch  = Intent{Kind: IntentKindProductSearch, Label: "busca_produto"}
	IntentOrderLookup    = Intent{Kind: IntentKindOrderLookup, Label: "consulta_pedido"}
	IntentPolicies       = Intent{Kind: IntentKindPolicies, Label: "politicas"}
	IntentRecommendation = Intent{Kind: IntentKindRecommendation, Label: "recomendacao"}
	IntentGeneralChat    = Intent{Kind: IntentKindGeneralChat, Label: "conversa_geral"}

	// IntentError 只用于本地网络失败路径，服务端返回的 "error" 不会被解析成它
	IntentError = Intent{Kind: IntentKindError, Label: "error"}
)

var serverIntents = map[string]Intent{
	IntentProductSearch.Label:  IntentProductSearch,
	IntentOrderLookup.Label:    IntentOrderLookup,
	IntentPolicies.Label:       IntentPolicies,
	IntentRecommendation.Label: IntentRecommendation,
	IntentGeneralChat.Label:    IntentGeneralChat,
}

// ParseIntent 解析服务端返回的意图标签，空标签视为普通对话
func ParseIntent(label string) Intent {
	key := strings.TrimSpace(label)
	if key == "" {
		return IntentGeneralChat
	}
	if intent, ok := serverIntents[key]; ok {
		return intent
	}
	// 未知标签原样保留
	return Intent{Kind: IntentKindOther, Label: label}
}

func (i Intent) Known() bool {
	return i.Kind != IntentKindOther
}

func (i Intent) String() string {
	return i.Label
}

func (i Intent) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Label)
}

func (i *Intent) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	if label == IntentError.Label {
		*i = IntentError
		return nil
	}
	*i = ParseIntent(label)
	return nil
}
