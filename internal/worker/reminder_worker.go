// Package worker runs the background reminder poller: on a fixed interval
// it loads active tasks with a due timestamp, fires a countdown reminder
// for each minute remaining inside the reminder window, and a single
// overdue notification once the due time has passed.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"planner/internal/logger"
	"planner/internal/model"
	"planner/internal/notify"
)

// TaskSource is the slice of the task repository the poller needs.
type TaskSource interface {
	GetActiveDueBy(ctx context.Context, deadline time.Time) ([]model.Task, error)
	Ping(ctx context.Context) error
}

type Status struct {
	Running        bool       `json:"running"`
	CheckInterval  string     `json:"check_interval"`
	ReminderWindow string     `json:"reminder_window"`
	Failures       int        `json:"check_failures"`
	MaxFailures    int        `json:"max_check_failures"`
	LastCheck      *time.Time `json:"last_check"`
	SentToday      int        `json:"notifications_sent_today"`
}

type ReminderWorker struct {
	tasks    TaskSource
	notifier notify.Notifier

	interval    time.Duration
	window      time.Duration
	maxFailures int

	// injectable clock for tests
	now func() time.Time

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	failures  int
	lastCheck *time.Time
	lastReset time.Time
	sent      map[string]struct{}
}

func NewReminderWorker(tasks TaskSource, notifier notify.Notifier, interval, window time.Duration, maxFailures int) *ReminderWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	if maxFailures <= 0 {
		maxFailures = 5
	}
	return &ReminderWorker{
		tasks:       tasks,
		notifier:    notifier,
		interval:    interval,
		window:      window,
		maxFailures: maxFailures,
		now:         time.Now,
		sent:        make(map[string]struct{}),
		lastReset:   time.Now(),
	}
}

// Start launches the polling goroutine. Starting a running worker is a no-op.
func (w *ReminderWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true
	w.failures = 0

	go w.run(ctx)
	logger.Info("reminder worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("window", w.window))
}

// Stop cancels the polling goroutine and waits for it to exit.
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	cancel()
	<-done
	logger.Info("reminder worker stopped")
}

// Restart stops and relaunches the worker, clearing the failure counter.
func (w *ReminderWorker) Restart() {
	w.Stop()
	w.Start()
}

func (w *ReminderWorker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *ReminderWorker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{
		Running:        w.running,
		CheckInterval:  w.interval.String(),
		ReminderWindow: w.window.String(),
		Failures:       w.failures,
		MaxFailures:    w.maxFailures,
		LastCheck:      w.lastCheck,
		SentToday:      len(w.sent),
	}
}

// CheckNow runs a single poll immediately, outside the ticker.
func (w *ReminderWorker) CheckNow(ctx context.Context) error {
	return w.check(ctx)
}

func (w *ReminderWorker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.check(ctx); err != nil {
				logger.Error("reminder check failed", err)
			}
			w.mu.Lock()
			if w.failures >= w.maxFailures {
				w.running = false
				failures := w.failures
				cancel := w.cancel
				w.mu.Unlock()
				// Release the derived context; Stop() will not run after a
				// failure stop, so nobody else cancels it.
				cancel()
				logger.Warn("too many consecutive failures, stopping reminder worker",
					zap.Int("failures", failures))
				return
			}
			w.mu.Unlock()
		}
	}
}

// check performs one poll: daily reset of the sent-key set, a connection
// ping, then reminder/overdue evaluation for every active dated task.
func (w *ReminderWorker) check(ctx context.Context) error {
	now := w.now()

	w.mu.Lock()
	if now.Sub(w.lastReset) >= 24*time.Hour {
		w.sent = make(map[string]struct{})
		w.lastReset = now
	}
	at := now
	w.lastCheck = &at
	w.mu.Unlock()

	if err := w.tasks.Ping(ctx); err != nil {
		w.recordFailure()
		return fmt.Errorf("database ping: %w", err)
	}

	tasks, err := w.tasks.GetActiveDueBy(ctx, now.AddDate(0, 0, 1))
	if err != nil {
		w.recordFailure()
		return fmt.Errorf("load due tasks: %w", err)
	}

	var notifyErr error
	for _, task := range tasks {
		// Reminders need a concrete clock time; date-only tasks only
		// surface through the overdue path once the day has passed.
		if task.DueTime == nil && !task.IsOverdue(now) {
			continue
		}
		due, ok := task.DueAt()
		if !ok {
			continue
		}

		minutesUntil := int(due.Sub(now).Minutes())
		switch {
		case minutesUntil >= 1 && due.Sub(now) <= w.window:
			if err := w.sendReminder(ctx, task, due, minutesUntil); err != nil {
				notifyErr = err
			}
		case due.Before(now):
			if err := w.sendOverdue(ctx, task, due); err != nil {
				notifyErr = err
			}
		}
	}

	if notifyErr != nil {
		w.recordFailure()
		return fmt.Errorf("deliver notifications: %w", notifyErr)
	}

	w.mu.Lock()
	w.failures = 0
	w.mu.Unlock()
	return nil
}

// sendReminder fires once per (task, minutes-remaining) pair so a task
// inside the window produces a countdown, not a repeat every tick.
func (w *ReminderWorker) sendReminder(ctx context.Context, task model.Task, due time.Time, minutesUntil int) error {
	key := fmt.Sprintf("reminder_%d_%s_%dmin", task.ID, due.Format("20060102_1504"), minutesUntil)
	if w.alreadySent(key) {
		return nil
	}

	err := w.notifier.Notify(ctx, notify.Notification{
		Kind:    notify.KindReminder,
		TaskID:  task.ID,
		UserID:  task.UserID.String(),
		Title:   "Task Reminder",
		Message: fmt.Sprintf("%q is due in %d minutes", task.Title, minutesUntil),
		DueAt:   due,
	})
	if err != nil {
		return err
	}
	w.markSent(key)
	return nil
}

func (w *ReminderWorker) sendOverdue(ctx context.Context, task model.Task, due time.Time) error {
	key := fmt.Sprintf("overdue_%d_%s", task.ID, due.Format("20060102_1504"))
	if w.alreadySent(key) {
		return nil
	}

	err := w.notifier.Notify(ctx, notify.Notification{
		Kind:    notify.KindOverdue,
		TaskID:  task.ID,
		UserID:  task.UserID.String(),
		Title:   "Task Overdue",
		Message: fmt.Sprintf("%q was due at %s", task.Title, due.Format("Jan 2 15:04")),
		DueAt:   due,
	})
	if err != nil {
		return err
	}
	w.markSent(key)
	return nil
}

func (w *ReminderWorker) alreadySent(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.sent[key]
	return ok
}

func (w *ReminderWorker) markSent(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sent[key] = struct{}{}
}

func (w *ReminderWorker) recordFailure() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures++
}
