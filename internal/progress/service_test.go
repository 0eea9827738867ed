package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestAddRequiresUserID(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	err := s.Add(models.ProgressEntry{Date: time.Now()})
	if !errors.Is(err, models.ErrMissingUserID) {
		t.Errorf("expected ErrMissingUserID, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	st := store.NewInMemoryStore()
	s := NewService(st)

	entries := []models.ProgressEntry{
		{UserID: "user1", Date: time.Now(), Weight: ptr(80.0)},
		{UserID: "user1", Date: time.Now(), Weight: ptr(78.0)},
		{UserID: "user1", Date: time.Now()},
	}
	for _, entry := range entries {
		if err := s.Add(entry); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	execution := models.NewWorkoutExecution("user1", "entry1", nil)
	if err := st.SaveWorkoutExecution(execution); err != nil {
		t.Fatalf("SaveWorkoutExecution failed: %v", err)
	}

	summary, err := s.Summarize("user1")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.AverageWeight == nil || *summary.AverageWeight != 79 {
		t.Errorf("expected average weight 79, got %v", summary.AverageWeight)
	}
	if summary.Sessions != 1 {
		t.Errorf("expected 1 session, got %d", summary.Sessions)
	}
}

func TestSummarizeNoWeights(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	if err := s.Add(models.ProgressEntry{UserID: "user1", Date: time.Now()}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	summary, err := s.Summarize("user1")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.AverageWeight != nil {
		t.Errorf("expected nil average without weights, got %g", *summary.AverageWeight)
	}
}

func TestLastEntriesNewestFirst(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := models.ProgressEntry{UserID: "user1", Date: base.AddDate(0, 0, i)}
		if err := s.Add(entry); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	entries, err := s.LastEntries("user1", 2)
	if err != nil {
		t.Fatalf("LastEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].Date.After(entries[1].Date) {
		t.Errorf("expected newest first, got %v then %v", entries[0].Date, entries[1].Date)
	}
}

func TestExerciseStats(t *testing.T) {
	st := store.NewInMemoryStore()
	s := NewService(st)

	weights := []float64{40, 42.5, 45}
	for i, weight := range weights {
		execution := models.NewWorkoutExecution("user1", "entry1", []models.ExerciseProgress{
			{ExerciseName: "Squats", ActualWeight: ptr(weight), ActualReps: []int{10, 10, 8 + i}},
		})
		if err := st.SaveWorkoutExecution(execution); err != nil {
			t.Fatalf("SaveWorkoutExecution failed: %v", err)
		}
	}

	stats, err := s.ExerciseStats("user1", "squats")
	if err != nil {
		t.Fatalf("ExerciseStats failed: %v", err)
	}
	if stats.CurrentWeight == nil || *stats.CurrentWeight != 45 {
		t.Errorf("expected current weight 45, got %v", stats.CurrentWeight)
	}
	if stats.CurrentReps == nil || *stats.CurrentReps != 10 {
		t.Errorf("expected current reps 10, got %v", stats.CurrentReps)
	}
	if stats.WeightDelta == nil || *stats.WeightDelta != 5 {
		t.Errorf("expected weight delta 5, got %v", stats.WeightDelta)
	}
}

func TestExerciseStatsEmptyHistory(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	stats, err := s.ExerciseStats("user1", "Squats")
	if err != nil {
		t.Fatalf("ExerciseStats failed: %v", err)
	}
	if stats.CurrentWeight != nil || stats.CurrentReps != nil || stats.WeightDelta != nil {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
