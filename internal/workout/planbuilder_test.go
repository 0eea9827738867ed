package workout

import (
	"errors"
	"testing"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

func TestCreatePlanFromWorkouts(t *testing.T) {
	st := store.NewInMemoryStore()
	b := NewPlanBuilder(st)

	monday := models.NewWorkoutEntry(models.Monday, []models.Exercise{{Name: "Squats", Reps: 10, Sets: 3}})
	friday := models.NewWorkoutEntry(models.Friday, []models.Exercise{{Name: "Deadlifts", Reps: 8, Sets: 3}})
	for _, entry := range []models.WorkoutEntry{monday, friday} {
		if err := st.SaveStandaloneWorkout("user1", entry); err != nil {
			t.Fatalf("SaveStandaloneWorkout failed: %v", err)
		}
	}

	plan, err := b.CreatePlanFromWorkouts("user1", map[models.Weekday]string{
		models.Monday: monday.EntryID,
		models.Friday: friday.EntryID,
		models.Sunday: "",
	}, "Split")
	if err != nil {
		t.Fatalf("CreatePlanFromWorkouts failed: %v", err)
	}
	if plan.Name != "Split" {
		t.Errorf("unexpected plan name %q", plan.Name)
	}
	if len(plan.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(plan.Entries))
	}
	// Weekday iteration order, not map order.
	if plan.Entries[0].DayOfWeek != models.Monday || plan.Entries[1].DayOfWeek != models.Friday {
		t.Errorf("unexpected entry order: %s, %s", plan.Entries[0].DayOfWeek, plan.Entries[1].DayOfWeek)
	}
}

func TestCreatePlanFromWorkoutsSkipsUnknownIDs(t *testing.T) {
	st := store.NewInMemoryStore()
	b := NewPlanBuilder(st)

	monday := models.NewWorkoutEntry(models.Monday, []models.Exercise{{Name: "Squats", Reps: 10, Sets: 3}})
	if err := st.SaveStandaloneWorkout("user1", monday); err != nil {
		t.Fatalf("SaveStandaloneWorkout failed: %v", err)
	}

	plan, err := b.CreatePlanFromWorkouts("user1", map[models.Weekday]string{
		models.Monday:  monday.EntryID,
		models.Tuesday: "missing-id",
	}, "")
	if err != nil {
		t.Fatalf("CreatePlanFromWorkouts failed: %v", err)
	}
	if len(plan.Entries) != 1 {
		t.Errorf("expected unknown id to be skipped, got %d entries", len(plan.Entries))
	}
}

func TestCreatePlanFromWorkoutsNothingResolves(t *testing.T) {
	b := NewPlanBuilder(store.NewInMemoryStore())
	_, err := b.CreatePlanFromWorkouts("user1", map[models.Weekday]string{
		models.Monday: "missing-id",
	}, "")
	if !errors.Is(err, models.ErrNoPlanEntries) {
		t.Errorf("expected ErrNoPlanEntries, got %v", err)
	}
}
