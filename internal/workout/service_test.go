package workout

import (
	"testing"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

func testProfile(experience models.Experience, goal models.Goal, workoutTime models.WorkoutTime) *models.UserProfile {
	return &models.UserProfile{
		UserID:            "user1",
		Age:               28,
		Gender:            models.GenderMale,
		Weight:            80,
		Goal:              goal,
		Experience:        experience,
		PreferredLocation: models.LocationGym,
		WorkoutTime:       workoutTime,
	}
}

func TestGenerateDailyWorkoutFromTemplateScalesWeights(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	profile := testProfile(models.ExperienceBeginner, models.GoalGain, models.WorkoutTimeMedium)

	entry := s.GenerateDailyWorkout(profile, "legs", "gym_legs_intermediate")
	if entry.WorkoutName != "Legs at the Gym (intermediate)" {
		t.Fatalf("unexpected workout name %q", entry.WorkoutName)
	}
	template := TemplateByID("gym_legs_intermediate")
	if len(entry.Exercises) != len(template.Exercises) {
		t.Fatalf("expected %d exercises, got %d", len(template.Exercises), len(entry.Exercises))
	}
	// Beginners get 70% of the template baseline: 40 kg squats become 28.
	first := entry.Exercises[0]
	if first.Weight == nil || *first.Weight != 28 {
		t.Errorf("expected scaled weight 28, got %v", first.Weight)
	}
}

func TestGenerateDailyWorkoutAdvancedScalesUp(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	profile := testProfile(models.ExperienceAdvanced, models.GoalGain, models.WorkoutTimeMedium)

	entry := s.GenerateDailyWorkout(profile, "legs", "gym_legs_intermediate")
	first := entry.Exercises[0]
	if first.Weight == nil || *first.Weight != 52 {
		t.Errorf("expected scaled weight 52, got %v", first.Weight)
	}
}

func TestGenerateDailyWorkoutUnknownTemplateFallsBack(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	profile := testProfile(models.ExperienceBeginner, models.GoalLose, models.WorkoutTimeShort)

	entry := s.GenerateDailyWorkout(profile, "legs", "no_such_template")
	if len(entry.Exercises) != 3 {
		t.Fatalf("expected 3 exercises for a short session, got %d", len(entry.Exercises))
	}
	for _, exercise := range entry.Exercises {
		if exercise.Reps != 15 {
			t.Errorf("expected 15 reps for weight loss goal, got %d", exercise.Reps)
		}
		if exercise.Sets != 3 {
			t.Errorf("expected 3 sets, got %d", exercise.Sets)
		}
		// 80 kg body weight, beginner: 80 * 0.3 * 0.8 = 19.2.
		if exercise.Weight == nil || *exercise.Weight != 19.2 {
			t.Errorf("expected estimated weight 19.2, got %v", exercise.Weight)
		}
	}
}

func TestGenerateDailyWorkoutCardioHasNoWeight(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	profile := testProfile(models.ExperienceIntermediate, models.GoalMaintain, models.WorkoutTimeLong)

	entry := s.GenerateDailyWorkout(profile, "cardio", "")
	if len(entry.Exercises) != 5 {
		t.Fatalf("expected 5 exercises for a long session, got %d", len(entry.Exercises))
	}
	for _, exercise := range entry.Exercises {
		if exercise.Weight == nil || *exercise.Weight != 0 {
			t.Errorf("expected zero weight for cardio, got %v", exercise.Weight)
		}
		if exercise.Reps != 12 {
			t.Errorf("expected 12 reps for maintenance goal, got %d", exercise.Reps)
		}
	}
}

func TestGenerateDailyWorkoutUnknownFocusDefaultsToLegs(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	profile := testProfile(models.ExperienceBeginner, models.GoalGain, models.WorkoutTimeShort)

	entry := s.GenerateDailyWorkout(profile, "telepathy", "")
	if len(entry.Exercises) == 0 {
		t.Fatal("expected a fallback workout")
	}
	legNames := map[string]bool{}
	for _, name := range focusPools["legs"] {
		legNames[name] = true
	}
	for _, exercise := range entry.Exercises {
		if !legNames[exercise.Name] {
			t.Errorf("expected leg pool exercise, got %q", exercise.Name)
		}
	}
}

func TestAvailableTemplatesFiltersByProfile(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	profile := testProfile(models.ExperienceBeginner, models.GoalGain, models.WorkoutTimeMedium)
	profile.PreferredLocation = models.LocationHome

	templates := s.AvailableTemplates(profile, "legs")
	if len(templates) == 0 {
		t.Fatal("expected at least one template")
	}
	for _, template := range templates {
		if template.Location != models.LocationHome {
			t.Errorf("expected home templates only, got %q", template.ID)
		}
		if template.Experience != models.ExperienceBeginner {
			t.Errorf("expected beginner templates only, got %q", template.ID)
		}
		if template.Focus != "legs" {
			t.Errorf("expected legs focus only, got %q", template.ID)
		}
	}
}

func TestAvailableTemplatesNilProfileMatchesAll(t *testing.T) {
	s := NewService(store.NewInMemoryStore())
	if got := len(s.AvailableTemplates(nil, "")); got != len(templates) {
		t.Errorf("expected all %d templates, got %d", len(templates), got)
	}
}

func TestSavePlanPersistsActivePlan(t *testing.T) {
	st := store.NewInMemoryStore()
	s := NewService(st)
	entry := models.NewWorkoutEntry(models.Monday, []models.Exercise{{Name: "Squats", Reps: 10, Sets: 3}})

	plan, err := s.SavePlan("user1", []models.WorkoutEntry{entry})
	if err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if !plan.IsActive {
		t.Error("expected new plan to be active")
	}

	active, err := st.GetActivePlans("user1")
	if err != nil {
		t.Fatalf("GetActivePlans failed: %v", err)
	}
	if len(active) != 1 || active[0].PlanID != plan.PlanID {
		t.Errorf("expected the saved plan to be active, got %+v", active)
	}
}
