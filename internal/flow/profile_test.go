package flow

import (
	"strings"
	"testing"
	"time"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/state"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

func newProfileFixture() (*ProfileFlow, *state.Store, store.Store) {
	states := state.NewStore()
	st := store.NewInMemoryStore()
	return NewProfileFlow(states, st), states, st
}

type profileStep struct {
	text  string
	value string
}

// runProfileSteps drives the collection from the current step through the
// review summary and saves, failing the test on any step error.
func runProfileSteps(t *testing.T, f *ProfileFlow, userID string, steps []profileStep) {
	t.Helper()
	var result StepResult
	var err error
	for i, step := range steps {
		if step.text != "" {
			result, err = f.SubmitText(userID, step.text)
		} else {
			result, err = f.SelectOption(userID, step.value)
		}
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	if !strings.Contains(result.Text, "Review your profile") {
		t.Fatalf("expected review summary, got %q", result.Text)
	}
	result, err = f.Save(userID)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !result.Done {
		t.Error("expected Done after save")
	}
}

func TestProfileFlowFullRun(t *testing.T) {
	f, _, st := newProfileFixture()
	userID := "user1"

	result, err := f.Start(userID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !strings.Contains(result.Text, "How old are you?") {
		t.Fatalf("expected age prompt, got %q", result.Text)
	}

	runProfileSteps(t, f, userID, []profileStep{
		{text: "28"},
		{value: string(models.GenderMale)},
		{text: "80"},
		{value: string(models.GoalGain)},
		{value: string(models.ExperienceBeginner)},
		{value: string(models.LocationGym)},
		{value: string(models.WorkoutTimeMedium)},
	})

	profile, err := st.GetProfile(userID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile == nil {
		t.Fatal("expected profile to be persisted")
	}
	if profile.Age != 28 || profile.Weight != 80 {
		t.Errorf("unexpected profile values: age=%d weight=%g", profile.Age, profile.Weight)
	}
	if profile.Gender != models.GenderMale || profile.Goal != models.GoalGain {
		t.Errorf("unexpected profile enums: gender=%s goal=%s", profile.Gender, profile.Goal)
	}
	if profile.Experience != models.ExperienceBeginner ||
		profile.PreferredLocation != models.LocationGym ||
		profile.WorkoutTime != models.WorkoutTimeMedium {
		t.Errorf("unexpected profile enums: %+v", profile)
	}

	// A second complete run replaces the profile wholesale: every field
	// reflects the new answers, nothing from the first run survives.
	if _, err := f.Edit(userID); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	runProfileSteps(t, f, userID, []profileStep{
		{text: "35"},
		{value: string(models.GenderFemale)},
		{text: "62.5"},
		{value: string(models.GoalLose)},
		{value: string(models.ExperienceAdvanced)},
		{value: string(models.LocationHome)},
		{value: string(models.WorkoutTimeLong)},
	})

	replaced, err := st.GetProfile(userID)
	if err != nil {
		t.Fatalf("GetProfile after rerun failed: %v", err)
	}
	if replaced == nil {
		t.Fatal("expected replaced profile to be persisted")
	}
	if replaced.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be stamped on save")
	}
	got := *replaced
	got.UpdatedAt = time.Time{}
	want := models.UserProfile{
		UserID:            userID,
		Age:               35,
		Gender:            models.GenderFemale,
		Weight:            62.5,
		Goal:              models.GoalLose,
		Experience:        models.ExperienceAdvanced,
		PreferredLocation: models.LocationHome,
		WorkoutTime:       models.WorkoutTimeLong,
	}
	if got != want {
		t.Errorf("rerun left residue from the first run: got %+v, want %+v", got, want)
	}
}

func TestProfileFlowInvalidAgeRePrompts(t *testing.T) {
	f, _, _ := newProfileFixture()
	userID := "user1"

	if _, err := f.Start(userID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	result, err := f.SubmitText(userID, "five")
	if err != nil {
		t.Fatalf("SubmitText failed: %v", err)
	}
	if !strings.Contains(result.Text, "Try again") {
		t.Errorf("expected re-prompt, got %q", result.Text)
	}

	// The step did not advance; valid input still fills the age field.
	result, err = f.SubmitText(userID, "28")
	if err != nil {
		t.Fatalf("SubmitText failed: %v", err)
	}
	if !strings.Contains(result.Text, "gender") {
		t.Errorf("expected gender prompt after valid age, got %q", result.Text)
	}
}

func TestProfileFlowRejectsUnknownOptionValue(t *testing.T) {
	f, _, _ := newProfileFixture()
	userID := "user1"

	if _, err := f.Start(userID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := f.SubmitText(userID, "28"); err != nil {
		t.Fatalf("SubmitText failed: %v", err)
	}
	result, err := f.SelectOption(userID, "attack-helicopter")
	if err != nil {
		t.Fatalf("SelectOption failed: %v", err)
	}
	if !strings.Contains(result.Text, "gender") {
		t.Errorf("expected same step to be re-asked, got %q", result.Text)
	}
}

func TestProfileFlowExpiredStateRestarts(t *testing.T) {
	f, _, _ := newProfileFixture()

	result, err := f.SubmitText("user1", "28")
	if err != nil {
		t.Fatalf("SubmitText failed: %v", err)
	}
	if !strings.Contains(result.Text, "Session expired") {
		t.Errorf("expected restart prompt, got %q", result.Text)
	}
	if !result.Done {
		t.Error("expected Done on expired state")
	}
}

func TestProfileFlowStartWithExistingProfileOffersEdit(t *testing.T) {
	f, _, st := newProfileFixture()
	userID := "user1"
	err := st.SaveProfile(models.UserProfile{
		UserID: userID, Age: 30, Gender: models.GenderFemale, Weight: 62,
		Goal: models.GoalMaintain, Experience: models.ExperienceIntermediate,
		PreferredLocation: models.LocationHome, WorkoutTime: models.WorkoutTimeShort,
	})
	if err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	result, err := f.Start(userID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !strings.Contains(result.Text, "Current profile") {
		t.Errorf("expected existing profile display, got %q", result.Text)
	}
	foundEdit := false
	for _, option := range result.Options {
		if option.Data == "edit" {
			foundEdit = true
		}
	}
	if !foundEdit {
		t.Error("expected an edit option")
	}
}

func TestProfileFlowCancelClearsState(t *testing.T) {
	f, states, _ := newProfileFixture()
	userID := "user1"

	if _, err := f.Start(userID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	result, err := f.Cancel(userID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if !result.Done {
		t.Error("expected Done after cancel")
	}
	if _, ok := states.Get(userID, models.FlowProfileCreation); ok {
		t.Error("expected flow state to be cleared")
	}
}
