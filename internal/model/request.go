package model

// ChatRequest 发往助手服务的请求体
type ChatRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

// SendMessageRequest web 视图提交用户输入
type SendMessageRequest struct {
	Message string `json:"message"`
}
