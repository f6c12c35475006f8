package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordOperation("club", "ApproveClub", OutcomeSuccess, 20*time.Millisecond)
	m.RecordOperation("club", "ApproveClub", OutcomeSuccess, 10*time.Millisecond)
	m.RecordOperation("club", "ApproveClub", OutcomeRejected, time.Millisecond)
	m.RecordNotification("inbox", OutcomeDelivered)
	m.RecordNotification("queue", OutcomeDropped)
	m.RecordHTTPRequest("approveClub", http.StatusOK)
	m.RecordJobRun("purge_read_notifications", errors.New("db down"))
	m.SetQueueDepth(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("club", "ApproveClub", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("club", "ApproveClub", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("queue", OutcomeDropped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("approveClub", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("purge_read_notifications", OutcomeFailure)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.queueDepth))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOperation("club", "CreateClub", OutcomeSuccess, time.Second)
		m.RecordNotification("inbox", OutcomeFailure)
		m.RecordHTTPRequest("x", 500)
		m.RecordJobRun("x", nil)
		m.SetQueueDepth(1)
	})
	assert.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordNotification("email", OutcomeDelivered)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `clubs_notifications_total{outcome="delivered",sink="email"} 1`)
}
