package workout

import (
	"fmt"
	"log/slog"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

// PlanBuilder assembles plans from the user's existing workout entries.
type PlanBuilder struct {
	store store.Store
}

// NewPlanBuilder creates a plan builder over the given repository.
func NewPlanBuilder(st store.Store) *PlanBuilder {
	return &PlanBuilder{store: st}
}

// CreatePlanFromWorkouts builds an active plan from a day-to-entry mapping.
// Empty entry ids mean rest days and are skipped; unknown ids are skipped
// too. At least one entry must resolve.
func (b *PlanBuilder) CreatePlanFromWorkouts(userID string, workoutsByDay map[models.Weekday]string, name string) (models.WorkoutPlan, error) {
	var entries []models.WorkoutEntry
	for _, day := range models.Weekdays {
		entryID, ok := workoutsByDay[day]
		if !ok || entryID == "" {
			continue
		}
		entry, err := b.store.GetWorkoutEntry(userID, entryID)
		if err != nil {
			return models.WorkoutPlan{}, fmt.Errorf("failed to resolve entry %s: %w", entryID, err)
		}
		if entry == nil {
			slog.Warn("plan builder skipping unknown entry", "userID", userID, "entryID", entryID, "day", day)
			continue
		}
		entries = append(entries, *entry)
	}
	if len(entries) == 0 {
		return models.WorkoutPlan{}, models.ErrNoPlanEntries
	}

	plan := models.NewWorkoutPlan(userID, name, entries)
	if err := b.store.SaveWorkoutPlan(plan); err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("failed to save plan: %w", err)
	}
	slog.Info("plan created from workouts", "userID", userID, "planID", plan.PlanID, "entries", len(entries))
	return plan, nil
}

// WorkoutsForDay lists the entries available for one weekday.
func (b *PlanBuilder) WorkoutsForDay(userID string, day models.Weekday) ([]models.WorkoutEntry, error) {
	return b.store.GetWorkoutEntriesByDay(userID, day)
}
