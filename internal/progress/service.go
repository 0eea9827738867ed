// Package progress provides body-progress tracking and workout analytics
// over the repository.
package progress

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

// Summary aggregates a user's tracked progress. AverageWeight is nil when no
// entry carries a weight.
type Summary struct {
	AverageWeight *float64 `json:"average_weight"`
	Sessions      int      `json:"sessions"`
}

// ExerciseStats describes the latest recorded state of one exercise.
// WeightDelta is the difference between the first and last recorded actual
// weights, nil when fewer than two weights exist.
type ExerciseStats struct {
	CurrentWeight *float64 `json:"current_weight"`
	CurrentReps   *int     `json:"current_reps"`
	WeightDelta   *float64 `json:"weight_delta"`
}

// Service handles progress persistence and analytics.
type Service struct {
	store store.Store
}

// NewService creates a progress service over the given repository.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Add records a body-metrics entry.
func (s *Service) Add(entry models.ProgressEntry) error {
	if entry.UserID == "" {
		return models.ErrMissingUserID
	}
	if err := s.store.AddProgressEntry(entry); err != nil {
		return fmt.Errorf("failed to add progress entry: %w", err)
	}
	slog.Debug("progress entry added", "userID", entry.UserID)
	return nil
}

// List returns all body-metrics entries in storage order.
func (s *Service) List(userID string) ([]models.ProgressEntry, error) {
	return s.store.ListProgress(userID)
}

// Summarize computes the average tracked body weight and counts completed
// workout sessions.
func (s *Service) Summarize(userID string) (Summary, error) {
	entries, err := s.store.ListProgress(userID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list progress: %w", err)
	}
	executions, err := s.store.GetWorkoutExecutions(userID, "")
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list executions: %w", err)
	}

	summary := Summary{Sessions: len(executions)}
	var total float64
	var count int
	for _, entry := range entries {
		if entry.Weight != nil {
			total += *entry.Weight
			count++
		}
	}
	if count > 0 {
		avg := total / float64(count)
		summary.AverageWeight = &avg
	}
	return summary, nil
}

// LastEntries returns the most recent body-metrics entries, newest first.
func (s *Service) LastEntries(userID string, limit int) ([]models.ProgressEntry, error) {
	entries, err := s.store.ListProgress(userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// WorkoutHistory returns the execution history for one workout entry.
func (s *Service) WorkoutHistory(userID, entryID string) ([]models.WorkoutExecution, error) {
	return s.store.GetWorkoutExecutions(userID, entryID)
}

// ExerciseStats derives the current weight and reps of an exercise from its
// recorded history, plus the weight delta since the first record.
func (s *Service) ExerciseStats(userID, exerciseName string) (ExerciseStats, error) {
	history, err := s.store.GetExerciseProgressHistory(userID, exerciseName)
	if err != nil {
		return ExerciseStats{}, fmt.Errorf("failed to load exercise history: %w", err)
	}
	if len(history) == 0 {
		return ExerciseStats{}, nil
	}

	var stats ExerciseStats
	latest := history[len(history)-1]
	stats.CurrentWeight = latest.ActualWeight
	if len(latest.ActualReps) > 0 {
		reps := latest.ActualReps[len(latest.ActualReps)-1]
		stats.CurrentReps = &reps
	}

	var weights []float64
	for _, record := range history {
		if record.ActualWeight != nil {
			weights = append(weights, *record.ActualWeight)
		}
	}
	if len(weights) > 1 && weights[0] != 0 {
		delta := weights[len(weights)-1] - weights[0]
		stats.WeightDelta = &delta
	}
	return stats, nil
}
