package flow

import (
	"strings"
	"testing"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/state"
	"github.com/fitcoach-bot/fitcoach/internal/store"
	"github.com/fitcoach-bot/fitcoach/internal/workout"
)

func newWorkoutFixture() (*WorkoutFlow, *state.Store, store.Store) {
	states := state.NewStore()
	st := store.NewInMemoryStore()
	return NewWorkoutFlow(states, st), states, st
}

func TestWorkoutFlowFullRunWithCatalogExercise(t *testing.T) {
	f, _, st := newWorkoutFixture()
	userID := "user1"

	result, err := f.Start(userID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(result.Options) != 8 {
		t.Fatalf("expected 7 weekdays plus cancel, got %d options", len(result.Options))
	}

	if _, err := f.SelectDay(userID, "mon"); err != nil {
		t.Fatalf("SelectDay failed: %v", err)
	}
	if _, err := f.ShowCategories(userID); err != nil {
		t.Fatalf("ShowCategories failed: %v", err)
	}
	result, err = f.SelectCategory(userID, "legs")
	if err != nil {
		t.Fatalf("SelectCategory failed: %v", err)
	}
	if len(result.Options) != len(workout.ExercisesByCategory("legs"))+1 {
		t.Fatalf("expected one option per exercise plus cancel, got %d", len(result.Options))
	}

	if _, err := f.SelectExercise(userID, 0); err != nil {
		t.Fatalf("SelectExercise failed: %v", err)
	}
	if _, err := f.SubmitReps(userID, "12"); err != nil {
		t.Fatalf("SubmitReps failed: %v", err)
	}
	if _, err := f.SubmitSets(userID, "3"); err != nil {
		t.Fatalf("SubmitSets failed: %v", err)
	}
	result, err = f.SubmitWeight(userID, "40")
	if err != nil {
		t.Fatalf("SubmitWeight failed: %v", err)
	}
	if !strings.Contains(result.Text, "Added exercises") {
		t.Fatalf("expected exercise list, got %q", result.Text)
	}

	result, err = f.Save(userID)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !result.Done {
		t.Error("expected Done after save")
	}

	entries, err := st.GetWorkoutEntriesByDay(userID, models.Monday)
	if err != nil {
		t.Fatalf("GetWorkoutEntriesByDay failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one saved workout, got %d", len(entries))
	}
	exercise := entries[0].Exercises[0]
	if exercise.Name != workout.ExercisesByCategory("legs")[0] {
		t.Errorf("unexpected exercise name %q", exercise.Name)
	}
	if exercise.Reps != 12 || exercise.Sets != 3 {
		t.Errorf("unexpected reps/sets: %d/%d", exercise.Reps, exercise.Sets)
	}
	if exercise.Weight == nil || *exercise.Weight != 40 {
		t.Errorf("unexpected weight: %v", exercise.Weight)
	}
}

func TestWorkoutFlowManualExerciseAndSkipWeight(t *testing.T) {
	f, _, st := newWorkoutFixture()
	userID := "user1"

	if _, err := f.Start(userID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := f.SelectDay(userID, "fri"); err != nil {
		t.Fatalf("SelectDay failed: %v", err)
	}
	if _, err := f.SubmitExerciseName(userID, "Handstand Push-ups"); err != nil {
		t.Fatalf("SubmitExerciseName failed: %v", err)
	}
	if _, err := f.SubmitReps(userID, "8"); err != nil {
		t.Fatalf("SubmitReps failed: %v", err)
	}
	if _, err := f.SubmitSets(userID, "4"); err != nil {
		t.Fatalf("SubmitSets failed: %v", err)
	}
	if _, err := f.SkipWeight(userID); err != nil {
		t.Fatalf("SkipWeight failed: %v", err)
	}
	if _, err := f.Save(userID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := st.GetWorkoutEntriesByDay(userID, models.Friday)
	if err != nil {
		t.Fatalf("GetWorkoutEntriesByDay failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one saved workout, got %d", len(entries))
	}
	exercise := entries[0].Exercises[0]
	if exercise.Name != "Handstand Push-ups" {
		t.Errorf("unexpected exercise name %q", exercise.Name)
	}
	if exercise.Weight != nil {
		t.Errorf("expected bodyweight exercise, got weight %g", *exercise.Weight)
	}
}

func TestWorkoutFlowRejectsInvalidDay(t *testing.T) {
	f, _, _ := newWorkoutFixture()
	userID := "user1"

	if _, err := f.Start(userID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	result, err := f.SelectDay(userID, "someday")
	if err != nil {
		t.Fatalf("SelectDay failed: %v", err)
	}
	if !strings.Contains(result.Text, "Pick a day") {
		t.Errorf("expected day re-prompt, got %q", result.Text)
	}
}

func TestWorkoutFlowSaveWithoutExercises(t *testing.T) {
	f, _, _ := newWorkoutFixture()
	userID := "user1"

	if _, err := f.Start(userID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := f.SelectDay(userID, "tue"); err != nil {
		t.Fatalf("SelectDay failed: %v", err)
	}
	result, err := f.Save(userID)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if result.Done {
		t.Error("expected flow to stay open without exercises")
	}
	if !strings.Contains(result.Text, "No exercises") {
		t.Errorf("expected missing-exercises message, got %q", result.Text)
	}
}

func TestWorkoutFlowStaleExerciseIndex(t *testing.T) {
	f, _, _ := newWorkoutFixture()
	userID := "user1"

	if _, err := f.Start(userID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := f.SelectDay(userID, "wed"); err != nil {
		t.Fatalf("SelectDay failed: %v", err)
	}
	result, err := f.SelectExercise(userID, 5)
	if err != nil {
		t.Fatalf("SelectExercise failed: %v", err)
	}
	if !strings.Contains(result.Text, "no longer available") {
		t.Errorf("expected stale index message, got %q", result.Text)
	}
}

func TestWorkoutFlowExpiredStateRestarts(t *testing.T) {
	f, _, _ := newWorkoutFixture()

	result, err := f.SubmitReps("user1", "10")
	if err != nil {
		t.Fatalf("SubmitReps failed: %v", err)
	}
	if !strings.Contains(result.Text, "Session expired") {
		t.Errorf("expected restart prompt, got %q", result.Text)
	}
}
