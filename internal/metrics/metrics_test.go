package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"commercia-client/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := New()

	c.ObserveSubmission("accepted")
	c.ObserveSubmission("accepted")
	c.ObserveSubmission("pending")
	c.ObserveReply("success", model.IntentProductSearch)
	c.ObserveReply("failure", model.IntentError)
	c.ObserveLatency(300 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.submissions.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.submissions.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.replies.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.intents.WithLabelValues("busca_produto")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.intents.WithLabelValues("error")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `commercia_submissions_total{outcome="accepted"} 2`)
	assert.Contains(t, rec.Body.String(), "commercia_assistant_request_seconds_count 1")
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveSubmission("accepted")
		c.ObserveReply("success", model.IntentPolicies)
		c.ObserveLatency(time.Second)
	})
}

func TestUnknownIntentsShareOneSeries(t *testing.T) {
	c := New()

	for _, label := range []string{"novo_intent", "error", " foo ", "outro"} {
		c.ObserveReply("success", model.ParseIntent(label))
	}
	c.ObserveReply("success", model.IntentRecommendation)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.intents.WithLabelValues(OtherIntentLabel)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.intents.WithLabelValues("recomendacao")))

	series, err := testutil.GatherAndCount(c.Registry(), "commercia_reply_intents_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}
