// Package reminder schedules recurring user reminders on top of the
// repository. Schedules live in process memory and are rebuilt from the
// persisted reminder configs on startup.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fitcoach-bot/fitcoach/internal/messaging"
	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

// Service persists reminder configs and fires them through a Notifier.
type Service struct {
	store    store.Store
	notifier messaging.Notifier
	cron     *cron.Cron

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// NewService creates a reminder service and starts its scheduler.
func NewService(st store.Store, notifier messaging.Notifier) *Service {
	s := &Service{
		store:    st,
		notifier: notifier,
		cron:     cron.New(),
		jobs:     make(map[string]cron.EntryID),
	}
	s.cron.Start()
	return s
}

// Stop halts the scheduler. Persisted reminders survive and are re-armed by
// RestoreAll on the next start.
func (s *Service) Stop() {
	s.cron.Stop()
	slog.Debug("reminder scheduler stopped")
}

func jobKey(userID, reminderID string) string {
	return userID + ":" + reminderID
}

// cronSpec renders the trigger: daily at the configured time, or weekly on
// Monday at the configured time.
func cronSpec(reminder models.ReminderConfig) (string, error) {
	switch reminder.Frequency {
	case models.FrequencyDaily:
		return fmt.Sprintf("%d %d * * *", reminder.Time.Minute, reminder.Time.Hour), nil
	case models.FrequencyWeekly:
		return fmt.Sprintf("%d %d * * 1", reminder.Time.Minute, reminder.Time.Hour), nil
	default:
		return "", fmt.Errorf("unsupported frequency %q", reminder.Frequency)
	}
}

// Schedule persists the reminder and (re)arms its trigger. A disabled
// reminder is persisted but not armed.
func (s *Service) Schedule(reminder models.ReminderConfig) error {
	if err := s.store.SaveReminder(reminder); err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}
	s.removeJob(reminder.UserID, reminder.ReminderID)
	if !reminder.Enabled {
		slog.Debug("reminder saved disabled", "userID", reminder.UserID, "reminderID", reminder.ReminderID)
		return nil
	}
	if err := s.arm(reminder); err != nil {
		return err
	}
	slog.Info("reminder scheduled", "userID", reminder.UserID, "reminderID", reminder.ReminderID,
		"type", reminder.Type, "frequency", reminder.Frequency)
	return nil
}

func (s *Service) arm(reminder models.ReminderConfig) error {
	spec, err := cronSpec(reminder)
	if err != nil {
		return err
	}
	userID, message := reminder.UserID, reminder.Message
	entryID, err := s.cron.AddFunc(spec, func() {
		if err := s.notifier.Notify(context.Background(), userID, message); err != nil {
			slog.Error("reminder delivery failed", "error", err, "userID", userID)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register reminder trigger: %w", err)
	}
	s.mu.Lock()
	s.jobs[jobKey(reminder.UserID, reminder.ReminderID)] = entryID
	s.mu.Unlock()
	return nil
}

func (s *Service) removeJob(userID, reminderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := jobKey(userID, reminderID)
	if entryID, ok := s.jobs[key]; ok {
		s.cron.Remove(entryID)
		delete(s.jobs, key)
	}
}

// Cancel unarms and deletes the reminder. Cancelling an unknown reminder is
// a no-op.
func (s *Service) Cancel(userID, reminderID string) error {
	s.removeJob(userID, reminderID)
	if err := s.store.DeleteReminder(userID, reminderID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	slog.Info("reminder cancelled", "userID", userID, "reminderID", reminderID)
	return nil
}

// List returns the user's persisted reminders.
func (s *Service) List(userID string) ([]models.ReminderConfig, error) {
	return s.store.ListReminders(userID)
}

// RestoreAll re-arms every enabled persisted reminder. Called on startup.
func (s *Service) RestoreAll() error {
	reminders, err := s.store.AllReminders()
	if err != nil {
		return fmt.Errorf("failed to load reminders: %w", err)
	}
	restored := 0
	for _, reminder := range reminders {
		if !reminder.Enabled {
			continue
		}
		if err := s.arm(reminder); err != nil {
			slog.Error("failed to restore reminder", "error", err,
				"userID", reminder.UserID, "reminderID", reminder.ReminderID)
			continue
		}
		restored++
	}
	slog.Info("reminders restored", "count", restored)
	return nil
}

// NudgeAfter delivers a one-off message after the given delay.
func (s *Service) NudgeAfter(userID, message string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := s.notifier.Notify(context.Background(), userID, message); err != nil {
			slog.Error("nudge delivery failed", "error", err, "userID", userID)
		}
	})
}
