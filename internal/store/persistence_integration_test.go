package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fitcoach-bot/fitcoach/internal/models"
)

// getenvOrSkip skips the test when the environment variable is unset, so DB
// integration tests only run where a server is available.
func getenvOrSkip(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set; skipping", key)
	}
	return v
}

// checkStoreContract exercises the observable semantics every backend must
// share: profile round trip, entry upsert and lookup order, execution
// statistics and reminder lifecycle.
func checkStoreContract(t *testing.T, s Store) {
	t.Helper()

	if err := s.SaveProfile(testProfile("it-user")); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	profile, err := s.GetProfile("it-user")
	if err != nil || profile == nil || profile.Goal != models.GoalGain {
		t.Fatalf("profile round trip failed: %+v err %v", profile, err)
	}

	entry := testEntry(models.Monday, "Squats")
	if err := s.SaveStandaloneWorkout("it-user", entry); err != nil {
		t.Fatalf("SaveStandaloneWorkout: %v", err)
	}
	entry.Exercises[0].Sets = 5
	if err := s.SaveStandaloneWorkout("it-user", entry); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	all, err := s.GetAllWorkoutEntries("it-user")
	if err != nil || len(all) != 1 {
		t.Fatalf("upsert duplicated the entry: %d err %v", len(all), err)
	}
	if all[0].Exercises[0].Sets != 5 {
		t.Errorf("upsert did not replace: %+v", all[0])
	}

	plan := models.NewWorkoutPlan("it-user", "Split", []models.WorkoutEntry{testEntry(models.Friday, "Deadlift")})
	if err := s.SaveWorkoutPlan(plan); err != nil {
		t.Fatalf("SaveWorkoutPlan: %v", err)
	}
	active, err := s.GetActivePlans("it-user")
	if err != nil || len(active) != 1 {
		t.Fatalf("GetActivePlans: %d err %v", len(active), err)
	}
	if err := s.DeactivatePlan("it-user", plan.PlanID); err != nil {
		t.Fatalf("DeactivatePlan: %v", err)
	}

	if err := s.SaveWorkoutExecution(models.NewWorkoutExecution("it-user", entry.EntryID, nil)); err != nil {
		t.Fatalf("SaveWorkoutExecution: %v", err)
	}
	updated, err := s.GetWorkoutEntry("it-user", entry.EntryID)
	if err != nil || updated == nil {
		t.Fatalf("GetWorkoutEntry after execution: %v err %v", updated, err)
	}
	if updated.CompletionCount != 1 || updated.LastCompleted == nil {
		t.Errorf("execution statistics not applied: %+v", updated)
	}

	if err := s.UpdateWorkoutEntry("it-user", "no-such-id", entry); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing entry, got %v", err)
	}

	// Concurrent executions against one entry must all land: the history
	// append and the statistics update are serialized per store.
	concEntry := testEntry(models.Wednesday, "Bench Press")
	if err := s.SaveStandaloneWorkout("it-user", concEntry); err != nil {
		t.Fatalf("SaveStandaloneWorkout: %v", err)
	}
	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.SaveWorkoutExecution(models.NewWorkoutExecution("it-user", concEntry.EntryID, nil))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent SaveWorkoutExecution: %v", err)
		}
	}
	executions, err := s.GetWorkoutExecutions("it-user", concEntry.EntryID)
	if err != nil {
		t.Fatalf("GetWorkoutExecutions: %v", err)
	}
	if len(executions) != writers {
		t.Errorf("expected %d executions recorded, got %d", writers, len(executions))
	}
	concUpdated, err := s.GetWorkoutEntry("it-user", concEntry.EntryID)
	if err != nil || concUpdated == nil {
		t.Fatalf("GetWorkoutEntry after concurrent executions: %v err %v", concUpdated, err)
	}
	if concUpdated.CompletionCount != writers {
		t.Errorf("expected completion count %d, got %d", writers, concUpdated.CompletionCount)
	}

	reminder := models.ReminderConfig{
		UserID:     "it-user",
		ReminderID: models.NewID(),
		Type:       models.ReminderWater,
		Time:       models.TimeOfDay{Hour: 12},
		Frequency:  models.FrequencyDaily,
		Message:    "Drink water",
		Enabled:    true,
	}
	if err := s.SaveReminder(reminder); err != nil {
		t.Fatalf("SaveReminder: %v", err)
	}
	reminders, err := s.ListReminders("it-user")
	if err != nil || len(reminders) != 1 {
		t.Fatalf("ListReminders: %d err %v", len(reminders), err)
	}
	if err := s.DeleteReminder("it-user", reminder.ReminderID); err != nil {
		t.Fatalf("DeleteReminder: %v", err)
	}
}

func TestInMemoryStoreContract(t *testing.T) {
	checkStoreContract(t, NewInMemoryStore())
}

func TestFileStoreContract(t *testing.T) {
	s, err := NewFileStore(WithDataDir(t.TempDir()))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	checkStoreContract(t, s)
}

func TestSQLiteStoreContract(t *testing.T) {
	s, err := NewSQLiteStore(WithDSN(filepath.Join(t.TempDir(), "fitcoach.db")))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	checkStoreContract(t, s)
}

func TestPostgresStoreContract(t *testing.T) {
	dsn := getenvOrSkip(t, "FITCOACH_TEST_POSTGRES_DSN")
	s, err := NewPostgresStore(WithDSN(dsn))
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	defer s.Close()
	checkStoreContract(t, s)
}
