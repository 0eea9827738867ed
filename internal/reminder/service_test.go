package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

type captureNotifier struct {
	mu       sync.Mutex
	messages []string
	fired    chan struct{}
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{fired: make(chan struct{}, 16)}
}

func (n *captureNotifier) Notify(_ context.Context, userID, message string) error {
	n.mu.Lock()
	n.messages = append(n.messages, userID+": "+message)
	n.mu.Unlock()
	n.fired <- struct{}{}
	return nil
}

func testReminder(userID, reminderID string, enabled bool) models.ReminderConfig {
	return models.ReminderConfig{
		UserID:     userID,
		ReminderID: reminderID,
		Type:       models.ReminderTraining,
		Time:       models.TimeOfDay{Hour: 9, Minute: 30},
		Frequency:  models.FrequencyDaily,
		Message:    "Time to train",
		Enabled:    enabled,
	}
}

func TestCronSpec(t *testing.T) {
	daily := testReminder("user1", "r1", true)
	spec, err := cronSpec(daily)
	if err != nil {
		t.Fatalf("cronSpec failed: %v", err)
	}
	if spec != "30 9 * * *" {
		t.Errorf("unexpected daily spec %q", spec)
	}

	weekly := daily
	weekly.Frequency = models.FrequencyWeekly
	spec, err = cronSpec(weekly)
	if err != nil {
		t.Fatalf("cronSpec failed: %v", err)
	}
	if spec != "30 9 * * 1" {
		t.Errorf("unexpected weekly spec %q", spec)
	}

	invalid := daily
	invalid.Frequency = models.Frequency("hourly")
	if _, err := cronSpec(invalid); err == nil {
		t.Error("expected error for unsupported frequency")
	}
}

func TestScheduleArmsEnabledReminder(t *testing.T) {
	st := store.NewInMemoryStore()
	s := NewService(st, newCaptureNotifier())
	defer s.Stop()

	if err := s.Schedule(testReminder("user1", "r1", true)); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(s.jobs) != 1 {
		t.Errorf("expected 1 armed job, got %d", len(s.jobs))
	}
	reminders, err := st.ListReminders("user1")
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(reminders) != 1 {
		t.Errorf("expected reminder persisted, got %d", len(reminders))
	}
}

func TestScheduleDisabledReminderIsPersistedNotArmed(t *testing.T) {
	st := store.NewInMemoryStore()
	s := NewService(st, newCaptureNotifier())
	defer s.Stop()

	if err := s.Schedule(testReminder("user1", "r1", false)); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(s.jobs) != 0 {
		t.Errorf("expected no armed jobs, got %d", len(s.jobs))
	}
	reminders, err := st.ListReminders("user1")
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(reminders) != 1 {
		t.Errorf("expected reminder persisted, got %d", len(reminders))
	}
}

func TestRescheduleReplacesJob(t *testing.T) {
	s := NewService(store.NewInMemoryStore(), newCaptureNotifier())
	defer s.Stop()

	reminder := testReminder("user1", "r1", true)
	if err := s.Schedule(reminder); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	reminder.Time = models.TimeOfDay{Hour: 18, Minute: 0}
	if err := s.Schedule(reminder); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(s.jobs) != 1 {
		t.Errorf("expected rescheduling to keep a single job, got %d", len(s.jobs))
	}
}

func TestCancelRemovesJobAndReminder(t *testing.T) {
	st := store.NewInMemoryStore()
	s := NewService(st, newCaptureNotifier())
	defer s.Stop()

	if err := s.Schedule(testReminder("user1", "r1", true)); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if err := s.Cancel("user1", "r1"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if len(s.jobs) != 0 {
		t.Errorf("expected no jobs after cancel, got %d", len(s.jobs))
	}
	reminders, err := st.ListReminders("user1")
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("expected reminder deleted, got %d", len(reminders))
	}

	// Cancelling again is a no-op.
	if err := s.Cancel("user1", "r1"); err != nil {
		t.Errorf("expected idempotent cancel, got %v", err)
	}
}

func TestRestoreAllArmsOnlyEnabled(t *testing.T) {
	st := store.NewInMemoryStore()
	if err := st.SaveReminder(testReminder("user1", "r1", true)); err != nil {
		t.Fatalf("SaveReminder failed: %v", err)
	}
	if err := st.SaveReminder(testReminder("user1", "r2", false)); err != nil {
		t.Fatalf("SaveReminder failed: %v", err)
	}
	if err := st.SaveReminder(testReminder("user2", "r1", true)); err != nil {
		t.Fatalf("SaveReminder failed: %v", err)
	}

	s := NewService(st, newCaptureNotifier())
	defer s.Stop()
	if err := s.RestoreAll(); err != nil {
		t.Fatalf("RestoreAll failed: %v", err)
	}
	if len(s.jobs) != 2 {
		t.Errorf("expected 2 restored jobs, got %d", len(s.jobs))
	}
}

func TestNudgeAfterDelivers(t *testing.T) {
	notifier := newCaptureNotifier()
	s := NewService(store.NewInMemoryStore(), notifier)
	defer s.Stop()

	s.NudgeAfter("user1", "Still up for training?", time.Millisecond)
	select {
	case <-notifier.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("nudge was not delivered")
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.messages) != 1 || notifier.messages[0] != "user1: Still up for training?" {
		t.Errorf("unexpected messages: %v", notifier.messages)
	}
}
