package conversation

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"commercia-client/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var n int
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func newTestStore() *Store {
	return NewStore(Session{ID: "test-session", UserID: "web_user"}, WithClock(fixedClock()))
}

func sixProducts() []model.Product {
	products := make([]model.Product, 6)
	for i := range products {
		products[i] = model.Product{ID: fmt.Sprintf("PROD%03d", i+1), Name: fmt.Sprintf("Notebook %d", i+1), Price: 2500}
	}
	return products
}

func TestNewStoreSeedsGreeting(t *testing.T) {
	s := newTestStore()

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleAssistant, msgs[0].Role)
	assert.Equal(t, GreetingText, msgs[0].Text)
	require.NotNil(t, msgs[0].Intent)
	assert.Equal(t, model.IntentGeneralChat, *msgs[0].Intent)
	assert.Nil(t, msgs[0].Payload)
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.Pending())
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantOutcome Outcome
		wantQuery   string
	}{
		{name: "plain text", input: "Olá", wantOutcome: OutcomeAccepted, wantQuery: "Olá"},
		{name: "trims whitespace", input: "  Quero um notebook até R$ 3.000 \n", wantOutcome: OutcomeAccepted, wantQuery: "Quero um notebook até R$ 3.000"},
		{name: "empty", input: "", wantOutcome: OutcomeEmpty},
		{name: "whitespace only", input: " \t\n ", wantOutcome: OutcomeEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			before := s.Messages()

			req, outcome := s.Submit(tt.input)
			assert.Equal(t, tt.wantOutcome, outcome)

			if !outcome.Accepted() {
				assert.Equal(t, model.ChatRequest{}, req)
				assert.Equal(t, before, s.Messages())
				assert.False(t, s.Pending())
				return
			}

			assert.Equal(t, model.ChatRequest{Query: tt.wantQuery, UserID: "web_user"}, req)
			msgs := s.Messages()
			require.Len(t, msgs, len(before)+1)
			last := msgs[len(msgs)-1]
			assert.Equal(t, model.RoleUser, last.Role)
			assert.Equal(t, tt.wantQuery, last.Text)
			assert.Nil(t, last.Intent)
			assert.Nil(t, last.Payload)
			assert.Equal(t, StateAwaiting, s.State())
		})
	}
}

func TestSubmitWhileAwaitingIsIgnored(t *testing.T) {
	s := newTestStore()
	_, outcome := s.Submit("primeira pergunta")
	require.Equal(t, OutcomeAccepted, outcome)
	before := s.Snapshot()

	for _, text := range []string{"segunda", "terceira", "", "  quarta  "} {
		req, outcome := s.Submit(text)
		assert.False(t, outcome.Accepted())
		assert.Equal(t, model.ChatRequest{}, req)
	}

	assert.Equal(t, before, s.Snapshot())
	assert.True(t, s.Pending())
}

func TestResolveSuccess(t *testing.T) {
	s := newTestStore()
	_, outcome := s.Submit("Quero um notebook até R$ 3.000")
	require.True(t, outcome.Accepted())
	require.True(t, s.Pending())

	ok := s.ResolveSuccess(model.AssistantReply{
		Response: "Aqui estão algumas opções",
		Intent:   "busca_produto",
		Data:     &model.ReplyData{Products: sixProducts()},
	})
	require.True(t, ok)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	reply := msgs[2]
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "Aqui estão algumas opções", reply.Text)
	require.NotNil(t, reply.Intent)
	assert.Equal(t, model.IntentProductSearch, *reply.Intent)
	require.NotNil(t, reply.Payload)
	assert.Equal(t, model.PayloadProductList, reply.Payload.Kind())
	assert.Len(t, reply.Payload.Products, 4)
	assert.Equal(t, "PROD001", reply.Payload.Products[0].ID)
	assert.Equal(t, "PROD004", reply.Payload.Products[3].ID)
	assert.False(t, s.Pending())
}

func TestResolveSuccessDefaultsIntent(t *testing.T) {
	s := newTestStore()
	s.Submit("oi")

	require.True(t, s.ResolveSuccess(model.AssistantReply{Response: "Olá!"}))

	msgs := s.Messages()
	require.NotNil(t, msgs[2].Intent)
	assert.Equal(t, model.IntentGeneralChat, *msgs[2].Intent)
	assert.Nil(t, msgs[2].Payload)
}

func TestResolveFailure(t *testing.T) {
	s := newTestStore()
	s.Submit("Cadê meu pedido #12345?")

	ok := s.ResolveFailure(errors.New("dial tcp 127.0.0.1:5000: connect: connection refused"))
	require.True(t, ok)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	reply := msgs[2]
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, FailureText, reply.Text)
	assert.NotContains(t, reply.Text, "connection refused")
	require.NotNil(t, reply.Intent)
	assert.Equal(t, model.IntentError, *reply.Intent)
	assert.Nil(t, reply.Payload)
	assert.False(t, s.Pending())
}

func TestSettle(t *testing.T) {
	t.Run("reply", func(t *testing.T) {
		s := newTestStore()
		s.Submit("oi")
		require.True(t, s.Settle(Result{Reply: &model.AssistantReply{Response: "Olá"}}))
		assert.Equal(t, "Olá", s.Messages()[2].Text)
	})

	t.Run("error wins over reply", func(t *testing.T) {
		s := newTestStore()
		s.Submit("oi")
		require.True(t, s.Settle(Result{Reply: &model.AssistantReply{Response: "Olá"}, Err: errors.New("boom")}))
		assert.Equal(t, FailureText, s.Messages()[2].Text)
	})

	t.Run("empty result is a failure", func(t *testing.T) {
		s := newTestStore()
		s.Submit("oi")
		require.True(t, s.Settle(Result{}))
		assert.Equal(t, model.IntentError, *s.Messages()[2].Intent)
	})
}

func TestSettleWithoutPendingRequestIsIgnored(t *testing.T) {
	s := newTestStore()

	assert.False(t, s.ResolveSuccess(model.AssistantReply{Response: "stray"}))
	assert.False(t, s.ResolveFailure(errors.New("stray")))
	assert.Equal(t, 1, s.Len())

	s.Submit("oi")
	require.True(t, s.ResolveSuccess(model.AssistantReply{Response: "Olá"}))
	assert.False(t, s.ResolveSuccess(model.AssistantReply{Response: "duplicate"}))
	assert.Equal(t, 3, s.Len())
}

func TestStoreReturnsToIdleAfterEverySettlement(t *testing.T) {
	s := newTestStore()

	for i := 0; i < 3; i++ {
		_, outcome := s.Submit(fmt.Sprintf("pergunta %d", i))
		require.True(t, outcome.Accepted())
		if i%2 == 0 {
			require.True(t, s.ResolveSuccess(model.AssistantReply{Response: "ok"}))
		} else {
			require.True(t, s.ResolveFailure(errors.New("timeout")))
		}
		assert.Equal(t, StateIdle, s.State())
	}
	assert.Equal(t, 7, s.Len())
}

func TestMessageOrdering(t *testing.T) {
	s := newTestStore()
	s.Submit("a")
	s.ResolveSuccess(model.AssistantReply{Response: "b"})
	s.Submit("c")
	s.ResolveFailure(errors.New("x"))

	msgs := s.Messages()
	require.Len(t, msgs, 5)
	wantRoles := []model.Role{model.RoleAssistant, model.RoleUser, model.RoleAssistant, model.RoleUser, model.RoleAssistant}
	for i, msg := range msgs {
		assert.Equal(t, wantRoles[i], msg.Role)
		if i > 0 {
			assert.Greater(t, msg.ID, msgs[i-1].ID)
			assert.True(t, msg.CreatedAt.After(msgs[i-1].CreatedAt))
		}
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := newTestStore()
	msgs := s.Messages()
	msgs[0].Text = "changed"
	msgs[0].Intent.Label = "changed"

	assert.Equal(t, GreetingText, s.Messages()[0].Text)
	assert.Equal(t, model.IntentGeneralChat, *s.Messages()[0].Intent)

	s.Submit("Quero um notebook")
	require.True(t, s.ResolveSuccess(model.AssistantReply{
		Response: "Encontrei este",
		Intent:   "busca_produto",
		Data: &model.ReplyData{
			Products: []model.Product{{ID: "PROD001", Name: "Notebook Dell"}},
			Order: &model.OrderSnapshot{
				OrderID: "12345",
				Items:   []model.OrderItem{{Name: "Mouse"}},
			},
		},
	}))

	snap := s.Snapshot()
	snap.Messages[2].Payload.Products[0].Name = "alterado"
	snap.Messages[2].Payload.Order.Items[0].Name = "alterado"
	snap.Messages[2].Intent.Label = "alterado"

	stored := s.Messages()[2]
	assert.Equal(t, "Notebook Dell", stored.Payload.Products[0].Name)
	assert.Equal(t, "Mouse", stored.Payload.Order.Items[0].Name)
	assert.Equal(t, model.IntentProductSearch, *stored.Intent)
}

func TestClose(t *testing.T) {
	s := newTestStore()
	s.Submit("Cadê meu pedido #12345?")
	s.Close()

	assert.True(t, s.Closed())
	assert.NotPanics(t, func() {
		assert.False(t, s.ResolveSuccess(model.AssistantReply{Response: "late"}))
		assert.False(t, s.Settle(Result{Err: errors.New("late")}))
	})
	assert.Equal(t, 2, s.Len())

	_, outcome := s.Submit("mais uma")
	assert.Equal(t, OutcomeClosed, outcome)
}

func TestConcurrentSubmitAcceptsExactlyOne(t *testing.T) {
	s := newTestStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, outcome := s.Submit(fmt.Sprintf("msg %d", i)); outcome.Accepted() {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 2, s.Len())
}

func TestNewSession(t *testing.T) {
	a := NewSession("web_user")
	b := NewSession("web_user")

	assert.Equal(t, "web_user", a.UserID)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
