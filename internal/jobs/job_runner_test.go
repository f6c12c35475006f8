package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/notify"
)

type MockJoinRequestRepo struct {
	mock.Mock
}

func (m *MockJoinRequestRepo) Create(ctx context.Context, req *domain.JoinRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockJoinRequestRepo) GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *MockJoinRequestRepo) GetPending(ctx context.Context, clubID, userID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, clubID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *MockJoinRequestRepo) UpdateStatus(ctx context.Context, id int32, status domain.JoinRequestStatus, approvedAt *time.Time) error {
	return m.Called(ctx, id, status, approvedAt).Error(0)
}

func (m *MockJoinRequestRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockJoinRequestRepo) ListByClub(ctx context.Context, clubID int32, status *domain.JoinRequestStatus) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, clubID, status)
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}

func (m *MockJoinRequestRepo) ListStale(ctx context.Context, olderThan time.Time) ([]domain.StaleJoinRequests, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StaleJoinRequests), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockNotificationRepo) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type sent struct {
	userID int32
	title  string
	body   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (n *recordingNotifier) Notify(_ context.Context, userID int32, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sent{userID: userID, title: title, body: body})
}

func (n *recordingNotifier) NotifyAudience(ctx context.Context, audience notify.Audience, title, body string) {
	ids, _ := audience(ctx)
	for _, id := range ids {
		n.Notify(ctx, id, title, body)
	}
}

var fixedNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func newRunner(t *testing.T) (*JobRunner, *MockJoinRequestRepo, *MockNotificationRepo, *recordingNotifier, *metrics.Metrics) {
	t.Helper()
	requests := new(MockJoinRequestRepo)
	notes := new(MockNotificationRepo)
	notifier := &recordingNotifier{}
	m := metrics.New()
	jr := NewJobRunner(requests, notes, notifier, m, Settings{
		PendingReminderAge: 72 * time.Hour,
		InboxRetention:     90 * 24 * time.Hour,
		RemindSchedule:     "0 0 8 * * *",
		PurgeSchedule:      "0 30 3 * * *",
	})
	jr.now = func() time.Time { return fixedNow }
	return jr, requests, notes, notifier, m
}

func TestRemindPendingJoinRequests(t *testing.T) {
	t.Run("one notice per president", func(t *testing.T) {
		jr, requests, _, notifier, m := newRunner(t)
		requests.On("ListStale", mock.Anything, fixedNow.Add(-72*time.Hour)).Return([]domain.StaleJoinRequests{
			{ClubID: 1, ClubName: "Chess", PresidentID: 10, Count: 3},
			{ClubID: 2, ClubName: "Robotics", PresidentID: 11, Count: 1},
		}, nil)

		require.NoError(t, jr.RemindPendingJoinRequests())

		require.Len(t, notifier.sent, 2)
		assert.Equal(t, int32(10), notifier.sent[0].userID)
		assert.Contains(t, notifier.sent[0].body, "3 join requests are")
		assert.Contains(t, notifier.sent[0].body, `"Chess"`)
		assert.Equal(t, int32(11), notifier.sent[1].userID)
		assert.Contains(t, notifier.sent[1].body, "1 join request is")
		assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRuns().WithLabelValues(JobRemindPendingJoinRequests, metrics.OutcomeSuccess)))
		requests.AssertExpectations(t)
	})

	t.Run("store failure is reported", func(t *testing.T) {
		jr, requests, _, notifier, m := newRunner(t)
		requests.On("ListStale", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		err := jr.RemindPendingJoinRequests()
		require.Error(t, err)
		assert.Empty(t, notifier.sent)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRuns().WithLabelValues(JobRemindPendingJoinRequests, metrics.OutcomeFailure)))
	})
}

func TestPurgeReadNotifications(t *testing.T) {
	jr, _, notes, _, _ := newRunner(t)
	notes.On("DeleteReadBefore", mock.Anything, fixedNow.Add(-90*24*time.Hour)).Return(int64(42), nil)

	require.NoError(t, jr.PurgeReadNotifications())
	notes.AssertExpectations(t)
}

func TestRunWithRecovery_Panic(t *testing.T) {
	jr, _, _, _, m := newRunner(t)

	err := jr.runWithRecovery("exploding", func(ctx context.Context) error {
		panic("boom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRuns().WithLabelValues("exploding", metrics.OutcomeFailure)))
}

func TestRun(t *testing.T) {
	jr, requests, notes, _, _ := newRunner(t)
	requests.On("ListStale", mock.Anything, mock.Anything).Return([]domain.StaleJoinRequests{}, nil)
	notes.On("DeleteReadBefore", mock.Anything, mock.Anything).Return(int64(0), nil)

	require.NoError(t, jr.Run(JobPurgeReadNotifications))
	require.NoError(t, jr.RunAll())
	assert.EqualError(t, jr.Run("compact-ledger"), `unknown job "compact-ledger"`)

	requests.AssertNumberOfCalls(t, "ListStale", 1)
	notes.AssertNumberOfCalls(t, "DeleteReadBefore", 2)
}
