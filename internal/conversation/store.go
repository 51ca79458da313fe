// Package conversation 维护会话消息日志以及唯一的在途请求标志。
//
// 状态机只有两个状态：Idle（无在途请求）和 Awaiting（请求已发出、尚未结算）。
// 所有状态变更都在 Store 内部串行执行，消息只追加不修改。
package conversation

import (
	"strings"
	"sync"
	"time"

	"commercia-client/internal/dispatcher"
	"commercia-client/internal/model"
	"commercia-client/pkg/logger"

	"github.com/google/uuid"
)

const (
	GreetingText = "Olá! Eu sou a CommercIA, sua assistente virtual para e-commerce. Como posso ajudá-lo hoje?"
	FailureText  = "Desculpe, ocorreu um erro ao processar sua mensagem. Verifique se o servidor está rodando e tente novamente."
)

type State int

const (
	StateIdle State = iota
	StateAwaiting
)

func (s State) String() string {
	if s == StateAwaiting {
		return "awaiting"
	}
	return "idle"
}

// Outcome 提交结果，同时用作指标标签
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeEmpty    Outcome = "empty"
	OutcomePending  Outcome = "pending"
	OutcomeClosed   Outcome = "closed"
)

func (o Outcome) Accepted() bool {
	return o == OutcomeAccepted
}

// Session 会话级配置，在构造时传入 Store
type Session struct {
	ID     string
	UserID string
}

func NewSession(userID string) Session {
	return Session{
		ID:     uuid.New().String(),
		UserID: userID,
	}
}

// Result 一次请求的结算结果，Reply 与 Err 恰好一个有效
type Result struct {
	Reply *model.AssistantReply
	Err   error
}

// Snapshot 会话状态的只读拷贝
type Snapshot struct {
	SessionID string          `json:"session_id"`
	Messages  []model.Message `json:"messages"`
	Pending   bool            `json:"pending"`
}

type Store struct {
	mu       sync.Mutex
	session  Session
	messages []model.Message
	pending  bool
	closed   bool
	lastID   int64
	now      func() time.Time
}

type Option func(*Store)

// WithClock 替换时间来源，测试用
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore 创建会话，日志中只有一条问候消息
func NewStore(session Session, opts ...Option) *Store {
	s := &Store{
		session:  session,
		messages: make([]model.Message, 0, 16),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	greeting := model.IntentGeneralChat
	s.appendLocked(model.RoleAssistant, GreetingText, &greeting, nil)
	return s
}

func (s *Store) Session() Session {
	return s.session
}

// Submit Idle 状态下接受非空输入：追加用户消息并进入 Awaiting。
// 不满足前置条件时不改变任何状态
func (s *Store) Submit(text string) (model.ChatRequest, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(text)
	switch {
	case s.closed:
		return model.ChatRequest{}, OutcomeClosed
	case trimmed == "":
		return model.ChatRequest{}, OutcomeEmpty
	case s.pending:
		return model.ChatRequest{}, OutcomePending
	}

	s.appendLocked(model.RoleUser, trimmed, nil, nil)
	s.pending = true

	return model.ChatRequest{
		Query:  trimmed,
		UserID: s.session.UserID,
	}, OutcomeAccepted
}

// ResolveSuccess 追加规范化后的助手消息并回到 Idle
func (s *Store) ResolveSuccess(reply model.AssistantReply) bool {
	body := dispatcher.Normalize(reply)
	return s.settle(func() {
		intent := body.Intent
		s.appendLocked(model.RoleAssistant, body.Text, &intent, body.Payload)
	})
}

// ResolveFailure 追加固定的失败提示并回到 Idle，错误详情只写日志
func (s *Store) ResolveFailure(err error) bool {
	return s.settle(func() {
		logger.WithFields(map[string]interface{}{
			"session_id": s.session.ID,
			"error":      err,
		}).Warn("assistant request failed")

		intent := model.IntentError
		s.appendLocked(model.RoleAssistant, FailureText, &intent, nil)
	})
}

// Settle 按结果分派到 ResolveSuccess 或 ResolveFailure
func (s *Store) Settle(res Result) bool {
	switch {
	case res.Err != nil:
		return s.ResolveFailure(res.Err)
	case res.Reply != nil:
		return s.ResolveSuccess(*res.Reply)
	default:
		return s.ResolveFailure(ErrEmptyResult)
	}
}

// settle 只在 Awaiting 状态下执行追加；已关闭的 Store 直接忽略
func (s *Store) settle(appendReply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		logger.Debugf("settlement dropped for session %s: %v", s.session.ID, ErrClosed)
		return false
	}
	if !s.pending {
		logger.Debugf("settlement dropped for session %s: %v", s.session.ID, ErrNotAwaiting)
		return false
	}

	appendReply()
	s.pending = false
	return true
}

func (s *Store) appendLocked(role model.Role, text string, intent *model.Intent, payload *model.RenderPayload) {
	s.lastID++
	s.messages = append(s.messages, model.Message{
		ID:        s.lastID,
		Role:      role,
		Text:      text,
		Intent:    intent,
		Payload:   payload,
		CreatedAt: s.now(),
	})
}

func (s *Store) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Store) State() State {
	if s.Pending() {
		return StateAwaiting
	}
	return StateIdle
}

// Messages 返回消息日志的拷贝
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyMessagesLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SessionID: s.session.ID,
		Messages:  s.copyMessagesLocked(),
		Pending:   s.pending,
	}
}

func (s *Store) copyMessagesLocked() []model.Message {
	out := make([]model.Message, len(s.messages))
	for i, msg := range s.messages {
		out[i] = msg.Clone()
	}
	return out
}

// Close 释放会话；之后到达的结算被忽略，不视为错误
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
