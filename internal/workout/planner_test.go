package workout

import (
	"context"
	"errors"
	"testing"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

type fakeAssistant struct {
	available bool
	response  string
	err       error
}

func (f *fakeAssistant) Available() bool { return f.available }

func (f *fakeAssistant) GenerateAnswer(_ context.Context, _, _ string) (string, error) {
	return f.response, f.err
}

func plannerProfile() *models.UserProfile {
	return &models.UserProfile{
		UserID:            "user1",
		Age:               28,
		Gender:            models.GenderMale,
		Weight:            80,
		Goal:              models.GoalGain,
		Experience:        models.ExperienceBeginner,
		PreferredLocation: models.LocationGym,
		WorkoutTime:       models.WorkoutTimeMedium,
	}
}

func TestBuildWeeklyPlanParsesAndPersists(t *testing.T) {
	st := store.NewInMemoryStore()
	assistant := &fakeAssistant{
		available: true,
		response: "```json\n" + `{
  "plan_name": "Mass Builder",
  "workouts": [
    {"day": "mon", "workout_name": "Push", "exercises": [
      {"name": "Bench Press", "sets": 4, "reps": 8, "weight": 50}
    ]},
    {"day": "wed", "workout_name": "Pull", "exercises": [
      {"name": "", "sets": 0, "reps": 0}
    ]},
    {"day": "thu", "workout_name": "Rest", "exercises": []},
    {"day": "blursday", "workout_name": "Bad", "exercises": [
      {"name": "Squats", "sets": 3, "reps": 10}
    ]}
  ]
}` + "\n```",
	}
	p := NewPlanner(st, assistant)

	plan, err := p.BuildWeeklyPlan(context.Background(), plannerProfile())
	if err != nil {
		t.Fatalf("BuildWeeklyPlan failed: %v", err)
	}
	if plan.Name != "Mass Builder" {
		t.Errorf("unexpected plan name %q", plan.Name)
	}
	// Rest day and invalid day are dropped, leaving mon and wed.
	if len(plan.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(plan.Entries))
	}
	if plan.Entries[0].DayOfWeek != models.Monday || plan.Entries[1].DayOfWeek != models.Wednesday {
		t.Errorf("unexpected days: %s, %s", plan.Entries[0].DayOfWeek, plan.Entries[1].DayOfWeek)
	}

	// Empty exercise fields fall back to defaults.
	fallback := plan.Entries[1].Exercises[0]
	if fallback.Name != "Exercise" || fallback.Reps != 12 || fallback.Sets != 3 {
		t.Errorf("unexpected defaults: %+v", fallback)
	}

	saved, err := st.GetActivePlans("user1")
	if err != nil {
		t.Fatalf("GetActivePlans failed: %v", err)
	}
	if len(saved) != 1 || saved[0].PlanID != plan.PlanID {
		t.Errorf("expected the plan to be persisted active, got %+v", saved)
	}
}

func TestBuildWeeklyPlanAssistantUnavailable(t *testing.T) {
	p := NewPlanner(store.NewInMemoryStore(), &fakeAssistant{available: false})
	_, err := p.BuildWeeklyPlan(context.Background(), plannerProfile())
	if !errors.Is(err, ErrAssistantUnavailable) {
		t.Errorf("expected ErrAssistantUnavailable, got %v", err)
	}
}

func TestBuildWeeklyPlanAllRestDays(t *testing.T) {
	assistant := &fakeAssistant{
		available: true,
		response:  `{"plan_name": "Lazy Week", "workouts": [{"day": "mon", "exercises": []}]}`,
	}
	p := NewPlanner(store.NewInMemoryStore(), assistant)
	_, err := p.BuildWeeklyPlan(context.Background(), plannerProfile())
	if !errors.Is(err, ErrEmptyPlan) {
		t.Errorf("expected ErrEmptyPlan, got %v", err)
	}
}

func TestBuildWeeklyPlanUnparsableResponse(t *testing.T) {
	assistant := &fakeAssistant{available: true, response: "Sorry, I cannot help with that."}
	p := NewPlanner(store.NewInMemoryStore(), assistant)
	if _, err := p.BuildWeeklyPlan(context.Background(), plannerProfile()); err == nil {
		t.Error("expected parse error")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced without language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding prose", `Here is your plan: {"a": 1} Enjoy!`, `{"a": 1}`},
		{"no json at all", "no object here", "no object here"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.input); got != tc.expected {
				t.Errorf("ExtractJSON(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
