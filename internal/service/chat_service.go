package service

import (
	"context"
	"sync"
	"time"

	"commercia-client/internal/conversation"
	"commercia-client/internal/metrics"
	"commercia-client/internal/model"
	"commercia-client/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sender 助手服务的传输层
type Sender interface {
	Send(ctx context.Context, req model.ChatRequest) (model.AssistantReply, error)
}

// ChatService 连接会话状态与助手服务。
// 每次被接受的提交对应一个异步任务，任务只结算一次
type ChatService struct {
	store   *conversation.Store
	sender  Sender
	metrics *metrics.Collector

	mu          sync.Mutex
	subscribers map[string]chan conversation.Snapshot
	closed      bool

	tasks sync.WaitGroup
}

func NewChatService(store *conversation.Store, sender Sender, collector *metrics.Collector) *ChatService {
	return &ChatService{
		store:       store,
		sender:      sender,
		metrics:     collector,
		subscribers: make(map[string]chan conversation.Snapshot),
	}
}

func (s *ChatService) Store() *conversation.Store {
	return s.store
}

func (s *ChatService) Snapshot() conversation.Snapshot {
	return s.store.Snapshot()
}

// Submit 只做状态迁移，不发起网络请求。被拒绝的提交不产生任何状态变化
func (s *ChatService) Submit(text string) (model.ChatRequest, conversation.Outcome) {
	req, outcome := s.store.Submit(text)
	s.metrics.ObserveSubmission(string(outcome))

	if !outcome.Accepted() {
		logger.Debugf("submission ignored: %s", outcome)
		return req, outcome
	}

	s.notify()
	return req, outcome
}

// Dispatch 同步调用助手服务，返回待结算的结果
func (s *ChatService) Dispatch(ctx context.Context, req model.ChatRequest) conversation.Result {
	start := time.Now()
	reply, err := s.sender.Send(ctx, req)
	s.metrics.ObserveLatency(time.Since(start))

	if err != nil {
		return conversation.Result{Err: err}
	}
	return conversation.Result{Reply: &reply}
}

// Settle 结算在途请求。Store 已关闭时静默丢弃
func (s *ChatService) Settle(res conversation.Result) bool {
	if !s.store.Settle(res) {
		return false
	}

	if res.Err != nil || res.Reply == nil {
		s.metrics.ObserveReply("failure", model.IntentError)
	} else {
		s.metrics.ObserveReply("success", model.ParseIntent(res.Reply.Intent))
	}

	s.notify()
	return true
}

// Send 提交并在后台完成请求，供 web 视图使用
func (s *ChatService) Send(text string) conversation.Outcome {
	req, outcome := s.Submit(text)
	if !outcome.Accepted() {
		return outcome
	}

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()

		// 请求一旦发出就运行到结束，超时由传输层负责
		res := s.Dispatch(context.Background(), req)
		if !s.Settle(res) {
			logger.WithFields(logrus.Fields{
				"session_id": s.store.Session().ID,
			}).Debug("reply arrived after conversation was closed")
		}
	}()

	return outcome
}

// Wait 等待所有后台任务结束
func (s *ChatService) Wait() {
	s.tasks.Wait()
}

// Subscribe 订阅状态变化，返回的 channel 只保留最新快照
func (s *ChatService) Subscribe() (<-chan conversation.Snapshot, func()) {
	id := uuid.New().String()
	ch := make(chan conversation.Snapshot, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// notify 持有写锁取快照，保证订阅者不会收到比已投递快照更旧的状态
func (s *ChatService) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.store.Snapshot()

	for _, ch := range s.subscribers {
		// 丢弃未读取的旧快照，只保留最新状态
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close 关闭会话并断开所有订阅者。在途请求仍会完成，但结果被丢弃
func (s *ChatService) Close() {
	s.store.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
