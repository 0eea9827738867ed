package flow

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/state"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

const profileRestartHint = "profile setup"

// profileFields is the collection order. Free-text fields and option fields
// interleave; the index in flow state tracks where the user is.
var profileFields = []string{
	"age", "gender", "weight", "goal", "experience", "preferred_location", "workout_time",
}

// profileOptions maps each option field to its choices.
var profileOptions = map[string][]Option{
	"gender": {
		{Label: "Male", Data: string(models.GenderMale)},
		{Label: "Female", Data: string(models.GenderFemale)},
		{Label: "Other", Data: string(models.GenderOther)},
	},
	"goal": {
		{Label: "Lose weight", Data: string(models.GoalLose)},
		{Label: "Gain muscle", Data: string(models.GoalGain)},
		{Label: "Stay in shape", Data: string(models.GoalMaintain)},
	},
	"experience": {
		{Label: "Beginner", Data: string(models.ExperienceBeginner)},
		{Label: "Intermediate", Data: string(models.ExperienceIntermediate)},
		{Label: "Advanced", Data: string(models.ExperienceAdvanced)},
	},
	"preferred_location": {
		{Label: "At home", Data: string(models.LocationHome)},
		{Label: "In the gym", Data: string(models.LocationGym)},
	},
	"workout_time": {
		{Label: "Short (~30 min)", Data: string(models.WorkoutTimeShort)},
		{Label: "Medium (~60 min)", Data: string(models.WorkoutTimeMedium)},
		{Label: "Long (~90 min)", Data: string(models.WorkoutTimeLong)},
	},
}

// ProfileFlow collects the user profile field by field and persists it on
// confirmation.
type ProfileFlow struct {
	states *state.Store
	store  store.Store
}

// NewProfileFlow creates a profile flow controller.
func NewProfileFlow(states *state.Store, st store.Store) *ProfileFlow {
	return &ProfileFlow{states: states, store: st}
}

// Start begins profile collection. If a profile already exists the result
// shows it with edit/cancel options instead of collecting again.
func (f *ProfileFlow) Start(userID string) (StepResult, error) {
	existing, err := f.store.GetProfile(userID)
	if err != nil {
		slog.Error("ProfileFlow start failed to load profile", "error", err, "userID", userID)
		return StepResult{}, fmt.Errorf("failed to load profile: %w", err)
	}
	if existing != nil {
		return StepResult{
			Text: "Current profile:\n\n" + formatProfile(existing) + "\n\nWould you like to edit it?",
			Options: []Option{
				{Label: "Edit", Data: "edit"},
				cancelOption(),
			},
		}, nil
	}
	return f.beginCollection(userID), nil
}

// Edit restarts collection over a fresh state, discarding any partial run.
func (f *ProfileFlow) Edit(userID string) (StepResult, error) {
	return f.beginCollection(userID), nil
}

func (f *ProfileFlow) beginCollection(userID string) StepResult {
	f.states.Set(userID, models.FlowProfileCreation, models.FlowData{
		"collected":   map[string]any{},
		"field_index": 0,
	})
	slog.Debug("ProfileFlow collection started", "userID", userID)
	return f.askField(userID, 0)
}

func (f *ProfileFlow) askField(userID string, index int) StepResult {
	if index >= len(profileFields) {
		return f.summary(userID)
	}
	step := fmt.Sprintf("Step %d of %d\n\n", index+1, len(profileFields))
	switch field := profileFields[index]; field {
	case "age":
		return StepResult{Text: step + "How old are you? (10 to 100)"}
	case "weight":
		return StepResult{Text: step + "What is your current weight in kg? (20 to 300)"}
	default:
		prompts := map[string]string{
			"gender":             "Select your gender:",
			"goal":               "Select your goal:",
			"experience":         "Select your experience level:",
			"preferred_location": "Where do you prefer to train?",
			"workout_time":       "Select your preferred workout duration:",
		}
		options := append([]Option{}, profileOptions[field]...)
		return StepResult{Text: step + prompts[field], Options: append(options, cancelOption())}
	}
}

// SubmitText handles free-text input for the current field (age or weight).
// Invalid input re-prompts the same step without advancing.
func (f *ProfileFlow) SubmitText(userID, text string) (StepResult, error) {
	data, ok := f.states.Get(userID, models.FlowProfileCreation)
	if !ok {
		return restartResult(profileRestartHint), nil
	}
	index, collected := profileProgress(data)
	if index >= len(profileFields) {
		return f.summary(userID), nil
	}

	var value any
	var err error
	switch field := profileFields[index]; field {
	case "age":
		value, err = ParseAge(text)
	case "weight":
		value, err = ParseBodyWeight(text)
	default:
		return f.askField(userID, index), nil
	}
	if err != nil {
		return retryResult(err), nil
	}

	collected[profileFields[index]] = value
	f.states.Update(userID, models.FlowProfileCreation, models.FlowData{
		"collected":   collected,
		"field_index": index + 1,
	})
	return f.askField(userID, index+1), nil
}

// SelectOption handles a button choice for the current option field.
func (f *ProfileFlow) SelectOption(userID, value string) (StepResult, error) {
	data, ok := f.states.Get(userID, models.FlowProfileCreation)
	if !ok {
		return restartResult(profileRestartHint), nil
	}
	index, collected := profileProgress(data)
	if index >= len(profileFields) {
		return f.summary(userID), nil
	}

	field := profileFields[index]
	options, isOptionField := profileOptions[field]
	if !isOptionField {
		return f.askField(userID, index), nil
	}
	valid := false
	for _, option := range options {
		if option.Data == value {
			valid = true
			break
		}
	}
	if !valid {
		slog.Debug("ProfileFlow rejected option value", "userID", userID, "field", field, "value", value)
		return f.askField(userID, index), nil
	}

	collected[field] = value
	f.states.Update(userID, models.FlowProfileCreation, models.FlowData{
		"collected":   collected,
		"field_index": index + 1,
	})
	return f.askField(userID, index+1), nil
}

func (f *ProfileFlow) summary(userID string) StepResult {
	data, ok := f.states.Get(userID, models.FlowProfileCreation)
	if !ok {
		return restartResult(profileRestartHint)
	}
	_, collected := profileProgress(data)
	profile, err := buildProfile(userID, collected)
	if err != nil {
		slog.Error("ProfileFlow incomplete collection at summary", "error", err, "userID", userID)
		return StepResult{Text: fmt.Sprintf("Profile data is incomplete (%s). Start again with %s.", err, profileRestartHint), Done: true}
	}
	return StepResult{
		Text: "Review your profile:\n\n" + formatProfile(profile) + "\n\nSave it?",
		Options: []Option{
			{Label: "Save", Data: "save"},
			{Label: "Edit", Data: "edit"},
			cancelOption(),
		},
	}
}

// Save validates the collected profile, persists it and only then clears the
// flow state, so a storage failure leaves the flow resumable.
func (f *ProfileFlow) Save(userID string) (StepResult, error) {
	data, ok := f.states.Get(userID, models.FlowProfileCreation)
	if !ok {
		return restartResult(profileRestartHint), nil
	}
	_, collected := profileProgress(data)
	profile, err := buildProfile(userID, collected)
	if err != nil {
		return StepResult{Text: fmt.Sprintf("Profile data is incomplete (%s). Start again with %s.", err, profileRestartHint), Done: true}, nil
	}
	if err := f.store.SaveProfile(*profile); err != nil {
		slog.Error("ProfileFlow save failed", "error", err, "userID", userID)
		return StepResult{}, fmt.Errorf("failed to save profile: %w", err)
	}
	f.states.Clear(userID, models.FlowProfileCreation)
	slog.Info("ProfileFlow profile saved", "userID", userID)
	return StepResult{Text: "Profile saved.", Done: true}, nil
}

// Cancel abandons the flow and clears its state.
func (f *ProfileFlow) Cancel(userID string) (StepResult, error) {
	f.states.Clear(userID, models.FlowProfileCreation)
	return StepResult{Text: "Profile setup cancelled.", Done: true}, nil
}

// profileProgress extracts the field index and collected map from flow state.
func profileProgress(data models.FlowData) (int, map[string]any) {
	index, _ := data["field_index"].(int)
	collected, ok := data["collected"].(map[string]any)
	if !ok {
		collected = map[string]any{}
	}
	return index, collected
}

// buildProfile assembles a validated profile from collected values. A
// missing or mistyped field is reported by name.
func buildProfile(userID string, collected map[string]any) (*models.UserProfile, error) {
	age, ok := collected["age"].(int)
	if !ok {
		return nil, fmt.Errorf("missing field age")
	}
	weight, ok := collected["weight"].(float64)
	if !ok {
		return nil, fmt.Errorf("missing field weight")
	}
	str := func(field string) (string, error) {
		v, ok := collected[field].(string)
		if !ok {
			return "", fmt.Errorf("missing field %s", field)
		}
		return v, nil
	}
	gender, err := str("gender")
	if err != nil {
		return nil, err
	}
	goal, err := str("goal")
	if err != nil {
		return nil, err
	}
	experience, err := str("experience")
	if err != nil {
		return nil, err
	}
	location, err := str("preferred_location")
	if err != nil {
		return nil, err
	}
	workoutTime, err := str("workout_time")
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:            userID,
		Age:               age,
		Gender:            models.Gender(gender),
		Weight:            weight,
		Goal:              models.Goal(goal),
		Experience:        models.Experience(experience),
		PreferredLocation: models.Location(location),
		WorkoutTime:       models.WorkoutTime(workoutTime),
		UpdatedAt:         time.Now().UTC(),
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

func formatProfile(p *models.UserProfile) string {
	label := func(field, value string) string {
		for _, option := range profileOptions[field] {
			if option.Data == value {
				return option.Label
			}
		}
		return value
	}
	lines := []string{
		fmt.Sprintf("Age: %d", p.Age),
		"Gender: " + label("gender", string(p.Gender)),
		fmt.Sprintf("Weight: %g kg", p.Weight),
		"Goal: " + label("goal", string(p.Goal)),
		"Level: " + label("experience", string(p.Experience)),
		"Location: " + label("preferred_location", string(p.PreferredLocation)),
		"Duration: " + label("workout_time", string(p.WorkoutTime)),
	}
	return strings.Join(lines, "\n")
}
