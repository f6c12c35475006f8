// Package notify delivers best-effort notifications off the request path.
//
// A Dispatcher owns a bounded queue and a fixed pool of workers. Enqueueing never blocks:
// when the queue is full the notification is dropped and counted. Each recipient is handed
// to every configured Sink with retries; delivery failures are logged and never reported
// back to the code that triggered the notification.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
)

// Message is one notification for one recipient.
type Message struct {
	ID     string
	UserID int32
	Title  string
	Body   string
}

// Sink is a delivery channel such as the in-app inbox, email or push.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
}

// Audience resolves recipients on a worker, after the triggering transition has returned.
type Audience func(ctx context.Context) ([]int32, error)

// Users is a fixed audience.
func Users(ids ...int32) Audience {
	return func(context.Context) ([]int32, error) {
		return ids, nil
	}
}

// Except filters userID out of audience.
func Except(audience Audience, userID int32) Audience {
	return func(ctx context.Context) ([]int32, error) {
		ids, err := audience(ctx)
		if err != nil {
			return nil, err
		}
		out := ids[:0:0]
		for _, id := range ids {
			if id != userID {
				out = append(out, id)
			}
		}
		return out, nil
	}
}

type Config struct {
	Workers       int
	QueueSize     int
	MaxRetries    int
	RetryBackoff  time.Duration
	JobTimeout    time.Duration
	RatePerSecond float64
	Burst         int
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 500 * time.Millisecond
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 30 * time.Second
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	return c
}

type job struct {
	id       string
	ctx      context.Context
	audience Audience
	title    string
	body     string
}

type Dispatcher struct {
	cfg     Config
	sinks   []Sink
	metrics *metrics.Metrics
	limiter *rate.Limiter

	jobs   chan job
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	start  sync.Once
}

func NewDispatcher(cfg Config, m *metrics.Metrics, sinks ...Sink) *Dispatcher {
	cfg = cfg.withDefaults()
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Dispatcher{
		cfg:     cfg,
		sinks:   sinks,
		metrics: m,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		jobs:    make(chan job, cfg.QueueSize),
	}
}

// Start launches the workers. Workers stop when ctx is cancelled or after Stop drains the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	d.start.Do(func() {
		logger.Info("Starting notification dispatcher", "workers", d.cfg.Workers, "queueSize", d.cfg.QueueSize, "sinks", len(d.sinks))
		for i := 0; i < d.cfg.Workers; i++ {
			d.wg.Add(1)
			go d.worker(ctx, i)
		}
	})
}

// Stop refuses new notifications and waits for queued ones to be processed.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	d.wg.Wait()
	logger.Info("Notification dispatcher stopped")
}

func (d *Dispatcher) Notify(ctx context.Context, userID int32, title, body string) {
	d.NotifyAudience(ctx, Users(userID), title, body)
}

// NotifyAudience enqueues without blocking. The job keeps ctx's values but not its deadline or cancellation.
func (d *Dispatcher) NotifyAudience(ctx context.Context, audience Audience, title, body string) {
	j := job{
		id:       uuid.NewString(),
		ctx:      context.WithoutCancel(ctx),
		audience: audience,
		title:    title,
		body:     body,
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		logger.WarnContext(ctx, "Notification dropped, dispatcher stopped", "jobID", j.id, "title", title)
		d.metrics.RecordNotification("queue", metrics.OutcomeDropped)
		return
	}
	select {
	case d.jobs <- j:
		d.metrics.SetQueueDepth(len(d.jobs))
	default:
		logger.WarnContext(ctx, "Notification dropped, queue full", "jobID", j.id, "title", title)
		d.metrics.RecordNotification("queue", metrics.OutcomeDropped)
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	logger.Debug("Notification worker started", "worker", id)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Notification worker stopping", "worker", id, "reason", ctx.Err())
			return
		case j, ok := <-d.jobs:
			if !ok {
				logger.Debug("Notification worker stopping", "worker", id, "reason", "queue closed")
				return
			}
			d.metrics.SetQueueDepth(len(d.jobs))
			d.process(j)
		}
	}
}

func (d *Dispatcher) process(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.cfg.JobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Notification job panicked", "jobID", j.id, "panic", fmt.Sprint(r))
			d.metrics.RecordNotification("job", metrics.OutcomeFailure)
		}
	}()

	recipients, err := j.audience(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to resolve notification audience", "jobID", j.id, "title", j.title, "error", err)
		d.metrics.RecordNotification("audience", metrics.OutcomeFailure)
		return
	}

	for _, userID := range recipients {
		msg := Message{ID: j.id, UserID: userID, Title: j.title, Body: j.body}
		for _, sink := range d.sinks {
			d.deliver(ctx, sink, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sink Sink, msg Message) {
	var err error
	for attempt := 0; ; attempt++ {
		if err = d.limiter.Wait(ctx); err != nil {
			break
		}
		if err = sink.Deliver(ctx, msg); err == nil {
			d.metrics.RecordNotification(sink.Name(), metrics.OutcomeDelivered)
			return
		}
		logger.WarnContext(ctx, "Notification delivery failed", "sink", sink.Name(), "jobID", msg.ID,
			"userID", msg.UserID, "attempt", attempt+1, "error", err)

		if attempt >= d.cfg.MaxRetries {
			break
		}
		if !sleep(ctx, time.Duration(attempt+1)*d.cfg.RetryBackoff) {
			err = ctx.Err()
			break
		}
	}

	logger.ErrorContext(ctx, "Notification delivery abandoned", "sink", sink.Name(), "jobID", msg.ID,
		"userID", msg.UserID, "error", err)
	d.metrics.RecordNotification(sink.Name(), metrics.OutcomeFailure)
}

// sleep waits for d or until ctx is done, reporting whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
