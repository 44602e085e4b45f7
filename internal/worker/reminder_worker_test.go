package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"planner/internal/model"
	"planner/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeTaskSource struct {
	tasks   []model.Task
	listErr error
	pingErr error
}

func (f *fakeTaskSource) GetActiveDueBy(context.Context, time.Time) ([]model.Task, error) {
	return f.tasks, f.listErr
}

func (f *fakeTaskSource) Ping(context.Context) error {
	return f.pingErr
}

type recordingNotifier struct {
	sent []notify.Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, n)
	return nil
}

func datePtr(tm time.Time) *time.Time { return &tm }
func strPtr(s string) *string         { return &s }

func newTestWorker(source *fakeTaskSource, sink *recordingNotifier, now time.Time) *ReminderWorker {
	w := NewReminderWorker(source, sink, 30*time.Second, 15*time.Minute, 5)
	w.now = func() time.Time { return now }
	w.lastReset = now
	return w
}

func TestReminderWorker_SendsReminderInsideWindow(t *testing.T) {
	// Arrange - task due in 10 minutes
	now := time.Date(2026, time.March, 10, 11, 50, 0, 0, time.Local)
	task := model.Task{
		ID:      1,
		UserID:  uuid.New(),
		Title:   "Standup",
		Status:  model.TaskStatusPending,
		DueDate: datePtr(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)),
		DueTime: strPtr("12:00"),
	}
	sink := &recordingNotifier{}
	w := newTestWorker(&fakeTaskSource{tasks: []model.Task{task}}, sink, now)

	// Act
	err := w.CheckNow(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Len(t, sink.sent, 1)
	assert.Equal(t, notify.KindReminder, sink.sent[0].Kind)
	assert.Contains(t, sink.sent[0].Message, "10 minutes")

	// A second poll at the same minute must not repeat the notification
	err = w.CheckNow(context.Background())
	assert.NoError(t, err)
	assert.Len(t, sink.sent, 1)
}

func TestReminderWorker_SkipsTaskOutsideWindow(t *testing.T) {
	// Arrange - task due in two hours
	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.Local)
	task := model.Task{
		ID:      1,
		UserID:  uuid.New(),
		Title:   "Lunch",
		Status:  model.TaskStatusPending,
		DueDate: datePtr(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)),
		DueTime: strPtr("12:00"),
	}
	sink := &recordingNotifier{}
	w := newTestWorker(&fakeTaskSource{tasks: []model.Task{task}}, sink, now)

	// Act
	err := w.CheckNow(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, sink.sent)
}

func TestReminderWorker_SendsOverdueOnce(t *testing.T) {
	// Arrange - task due an hour ago
	now := time.Date(2026, time.March, 10, 13, 0, 0, 0, time.Local)
	task := model.Task{
		ID:      2,
		UserID:  uuid.New(),
		Title:   "Submit report",
		Status:  model.TaskStatusInProgress,
		DueDate: datePtr(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)),
		DueTime: strPtr("12:00"),
	}
	sink := &recordingNotifier{}
	w := newTestWorker(&fakeTaskSource{tasks: []model.Task{task}}, sink, now)

	// Act
	assert.NoError(t, w.CheckNow(context.Background()))
	assert.NoError(t, w.CheckNow(context.Background()))

	// Assert
	assert.Len(t, sink.sent, 1)
	assert.Equal(t, notify.KindOverdue, sink.sent[0].Kind)
}

func TestReminderWorker_DateOnlyTaskSkippedUntilOverdue(t *testing.T) {
	// Arrange - date-only task due today; end of day has not passed yet
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)
	task := model.Task{
		ID:      3,
		UserID:  uuid.New(),
		Title:   "Pay rent",
		Status:  model.TaskStatusPending,
		DueDate: datePtr(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)),
	}
	sink := &recordingNotifier{}
	source := &fakeTaskSource{tasks: []model.Task{task}}
	w := newTestWorker(source, sink, now)

	assert.NoError(t, w.CheckNow(context.Background()))
	assert.Empty(t, sink.sent)

	// The day after, the task surfaces through the overdue path
	w.now = func() time.Time {
		return time.Date(2026, time.March, 11, 9, 0, 0, 0, time.Local)
	}
	assert.NoError(t, w.CheckNow(context.Background()))
	assert.Len(t, sink.sent, 1)
	assert.Equal(t, notify.KindOverdue, sink.sent[0].Kind)
}

func TestReminderWorker_PingFailureCounts(t *testing.T) {
	// Arrange
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)
	source := &fakeTaskSource{pingErr: assert.AnError}
	w := newTestWorker(source, &recordingNotifier{}, now)

	// Act
	err := w.CheckNow(context.Background())
	assert.Error(t, err)
	err = w.CheckNow(context.Background())
	assert.Error(t, err)

	// Assert
	status := w.Status()
	assert.Equal(t, 2, status.Failures)

	// A healthy poll resets the counter
	source.pingErr = nil
	assert.NoError(t, w.CheckNow(context.Background()))
	assert.Equal(t, 0, w.Status().Failures)
}

func TestReminderWorker_DailyReset(t *testing.T) {
	// Arrange - an already sent overdue notification
	now := time.Date(2026, time.March, 10, 13, 0, 0, 0, time.Local)
	task := model.Task{
		ID:      4,
		UserID:  uuid.New(),
		Title:   "Water plants",
		Status:  model.TaskStatusPending,
		DueDate: datePtr(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)),
		DueTime: strPtr("12:00"),
	}
	sink := &recordingNotifier{}
	w := newTestWorker(&fakeTaskSource{tasks: []model.Task{task}}, sink, now)
	assert.NoError(t, w.CheckNow(context.Background()))
	assert.Len(t, sink.sent, 1)

	// Act - a day later the sent set is cleared, so the still-open task
	// notifies again
	w.now = func() time.Time { return now.Add(25 * time.Hour) }
	assert.NoError(t, w.CheckNow(context.Background()))

	// Assert
	assert.Len(t, sink.sent, 2)
}

// brokenTaskSource fails every ping and remembers the context it was
// polled with.
type brokenTaskSource struct {
	mu      sync.Mutex
	pollCtx context.Context
}

func (b *brokenTaskSource) GetActiveDueBy(context.Context, time.Time) ([]model.Task, error) {
	return nil, nil
}

func (b *brokenTaskSource) Ping(ctx context.Context) error {
	b.mu.Lock()
	b.pollCtx = ctx
	b.mu.Unlock()
	return assert.AnError
}

func (b *brokenTaskSource) lastCtx() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pollCtx
}

func TestReminderWorker_FailureStopReleasesContext(t *testing.T) {
	// Arrange - every poll fails, so the worker must give up on its own
	source := &brokenTaskSource{}
	w := NewReminderWorker(source, &recordingNotifier{}, 5*time.Millisecond, 15*time.Minute, 2)

	// Act
	w.Start()

	// Assert - the worker stops itself and cancels its derived context
	assert.Eventually(t, func() bool { return !w.Running() }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		ctx := source.lastCtx()
		return ctx != nil && ctx.Err() != nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, w.Status().Failures, 2)
}

func TestReminderWorker_StartStop(t *testing.T) {
	w := NewReminderWorker(&fakeTaskSource{}, &recordingNotifier{}, time.Hour, 15*time.Minute, 5)

	assert.False(t, w.Running())
	w.Start()
	assert.True(t, w.Running())

	// Starting twice is a no-op
	w.Start()
	assert.True(t, w.Running())

	w.Stop()
	assert.False(t, w.Running())
}
