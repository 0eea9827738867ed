package flow

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/state"
	"github.com/fitcoach-bot/fitcoach/internal/store"
	"github.com/fitcoach-bot/fitcoach/internal/workout"
)

const workoutRestartHint = "workout creation"

const defaultRestSeconds = 60

// WorkoutFlow builds a standalone workout step by step: day, then one or
// more exercises (name, reps, sets, optional weight), then save.
type WorkoutFlow struct {
	states *state.Store
	store  store.Store
}

// NewWorkoutFlow creates a workout creation flow controller.
func NewWorkoutFlow(states *state.Store, st store.Store) *WorkoutFlow {
	return &WorkoutFlow{states: states, store: st}
}

// Start begins a new workout creation run, discarding any previous state.
func (f *WorkoutFlow) Start(userID string) (StepResult, error) {
	f.states.Set(userID, models.FlowWorkoutCreation, models.FlowData{
		"step":      "day",
		"exercises": []models.Exercise{},
	})
	slog.Debug("WorkoutFlow started", "userID", userID)
	return StepResult{
		Text:    "Pick a day of the week for the workout:",
		Options: weekdayOptions(),
	}, nil
}

// SelectDay records the chosen weekday and moves on to exercise selection.
func (f *WorkoutFlow) SelectDay(userID, day string) (StepResult, error) {
	if _, ok := f.states.Get(userID, models.FlowWorkoutCreation); !ok {
		return restartResult(workoutRestartHint), nil
	}
	if !models.IsValidWeekday(models.Weekday(day)) {
		return StepResult{Text: "Pick a day of the week for the workout:", Options: weekdayOptions()}, nil
	}
	f.states.Update(userID, models.FlowWorkoutCreation, models.FlowData{
		"day":  day,
		"step": "exercise_choice",
	})
	return exerciseChoiceResult(), nil
}

func exerciseChoiceResult() StepResult {
	return StepResult{
		Text: "How do you want to add an exercise?",
		Options: []Option{
			{Label: "Choose from list", Data: "list"},
			{Label: "Enter manually", Data: "manual"},
			cancelOption(),
		},
	}
}

// ShowCategories lists the exercise catalog categories.
func (f *WorkoutFlow) ShowCategories(userID string) (StepResult, error) {
	if _, ok := f.states.Get(userID, models.FlowWorkoutCreation); !ok {
		return restartResult(workoutRestartHint), nil
	}
	options := make([]Option, 0, len(workout.Categories())+1)
	for _, category := range workout.Categories() {
		options = append(options, Option{Label: workout.CategoryLabel(category), Data: category})
	}
	return StepResult{
		Text:    "Pick an exercise category:",
		Options: append(options, cancelOption()),
	}, nil
}

// SelectCategory lists the exercises of one category. The list is stashed in
// flow state so a selection can reference an index instead of a full name.
func (f *WorkoutFlow) SelectCategory(userID, category string) (StepResult, error) {
	if _, ok := f.states.Get(userID, models.FlowWorkoutCreation); !ok {
		return restartResult(workoutRestartHint), nil
	}
	exercises := workout.ExercisesByCategory(category)
	if len(exercises) == 0 {
		return StepResult{Text: "This category has no exercises."}, nil
	}
	f.states.Update(userID, models.FlowWorkoutCreation, models.FlowData{
		"choices": exercises,
	})
	options := make([]Option, 0, len(exercises)+1)
	for i, name := range exercises {
		options = append(options, Option{Label: name, Data: strconv.Itoa(i)})
	}
	return StepResult{
		Text:    fmt.Sprintf("Pick an exercise from %q:", workout.CategoryLabel(category)),
		Options: append(options, cancelOption()),
	}, nil
}

// SelectExercise resolves a stashed catalog index to an exercise name.
func (f *WorkoutFlow) SelectExercise(userID string, index int) (StepResult, error) {
	data, ok := f.states.Get(userID, models.FlowWorkoutCreation)
	if !ok {
		return restartResult(workoutRestartHint), nil
	}
	choices, _ := data["choices"].([]string)
	if index < 0 || index >= len(choices) {
		slog.Debug("WorkoutFlow exercise index out of range", "userID", userID, "index", index, "choices", len(choices))
		return StepResult{Text: "That exercise is no longer available. Pick a category again."}, nil
	}
	return f.beginExercise(userID, choices[index])
}

// SubmitExerciseName accepts a manually typed exercise name.
func (f *WorkoutFlow) SubmitExerciseName(userID, name string) (StepResult, error) {
	if _, ok := f.states.Get(userID, models.FlowWorkoutCreation); !ok {
		return restartResult(workoutRestartHint), nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return StepResult{Text: "The exercise name cannot be empty. Enter a name:"}, nil
	}
	return f.beginExercise(userID, name)
}

func (f *WorkoutFlow) beginExercise(userID, name string) (StepResult, error) {
	f.states.Update(userID, models.FlowWorkoutCreation, models.FlowData{
		"name": name,
		"step": "reps",
	})
	return StepResult{
		Text: fmt.Sprintf("Exercise: %s\n\nEnter the number of repetitions (1 to 100):", name),
	}, nil
}

// SubmitReps records the repetition count and asks for sets.
func (f *WorkoutFlow) SubmitReps(userID, text string) (StepResult, error) {
	data, ok := f.states.Get(userID, models.FlowWorkoutCreation)
	if !ok {
		return restartResult(workoutRestartHint), nil
	}
	reps, err := ParseReps(text)
	if err != nil {
		return retryResult(err), nil
	}
	f.states.Update(userID, models.FlowWorkoutCreation, models.FlowData{
		"reps": reps,
		"step": "sets",
	})
	name, _ := data["name"].(string)
	options := make([]Option, 0, 7)
	for i := 1; i <= 5; i++ {
		options = append(options, Option{Label: strconv.Itoa(i), Data: strconv.Itoa(i)})
	}
	options = append(options, Option{Label: "Other", Data: "manual"}, cancelOption())
	return StepResult{
		Text:    fmt.Sprintf("Exercise: %s\nRepetitions: %d\n\nPick the number of sets:", name, reps),
		Options: options,
	}, nil
}

// SubmitSets records the set count from a button or manual input and asks
// for the weight.
func (f *WorkoutFlow) SubmitSets(userID, text string) (StepResult, error) {
	data, ok := f.states.Get(userID, models.FlowWorkoutCreation)
	if !ok {
		return restartResult(workoutRestartHint), nil
	}
	sets, err := ParseSets(text)
	if err != nil {
		return retryResult(err), nil
	}
	f.states.Update(userID, models.FlowWorkoutCreation, models.FlowData{
		"sets": sets,
		"step": "weight",
	})
	name, _ := data["name"].(string)
	reps, _ := data["reps"].(int)
	return StepResult{
		Text: fmt.Sprintf("Exercise: %s\nRepetitions: %d\nSets: %d\n\nWeight in kg (0 to 500, or skip for bodyweight):", name, reps, sets),
		Options: []Option{
			{Label: "Skip (no weight)", Data: "skip"},
			{Label: "Enter weight", Data: "manual"},
			cancelOption(),
		},
	}, nil
}

// SkipWeight finishes the current exercise without a weight.
func (f *WorkoutFlow) SkipWeight(userID string) (StepResult, error) {
	if _, ok := f.states.Get(userID, models.FlowWorkoutCreation); !ok {
		return restartResult(workoutRestartHint), nil
	}
	return f.appendExercise(userID, nil)
}

// SubmitWeight parses the weight input and finishes the current exercise.
// Zero means bodyweight and is stored as no weight.
func (f *WorkoutFlow) SubmitWeight(userID, text string) (StepResult, error) {
	if _, ok := f.states.Get(userID, models.FlowWorkoutCreation); !ok {
		return restartResult(workoutRestartHint), nil
	}
	weight, err := ParseExerciseWeight(text)
	if err != nil {
		return retryResult(err), nil
	}
	return f.appendExercise(userID, weight)
}

func (f *WorkoutFlow) appendExercise(userID string, weight *float64) (StepResult, error) {
	data, ok := f.states.Get(userID, models.FlowWorkoutCreation)
	if !ok {
		return restartResult(workoutRestartHint), nil
	}
	name, _ := data["name"].(string)
	reps, _ := data["reps"].(int)
	sets, _ := data["sets"].(int)
	if name == "" || reps == 0 || sets == 0 {
		slog.Debug("WorkoutFlow exercise incomplete at append", "userID", userID)
		return exerciseChoiceResult(), nil
	}

	rest := defaultRestSeconds
	exercises, _ := data["exercises"].([]models.Exercise)
	exercises = append(exercises, models.Exercise{
		ExerciseID:  models.NewID(),
		Name:        name,
		Weight:      weight,
		Reps:        reps,
		Sets:        sets,
		RestSeconds: &rest,
	})
	f.states.Update(userID, models.FlowWorkoutCreation, models.FlowData{
		"exercises": exercises,
		"name":      "",
		"reps":      0,
		"sets":      0,
		"step":      "exercise_choice",
	})

	lines := []string{"Added exercises:", ""}
	for i, exercise := range exercises {
		lines = append(lines, formatExerciseLine(i+1, exercise))
	}
	lines = append(lines, "", "What next?")
	return StepResult{
		Text: strings.Join(lines, "\n"),
		Options: []Option{
			{Label: "Add exercise", Data: "add"},
			{Label: "Save workout", Data: "save"},
			cancelOption(),
		},
	}, nil
}

// AddAnother returns to exercise selection for one more exercise.
func (f *WorkoutFlow) AddAnother(userID string) (StepResult, error) {
	if _, ok := f.states.Get(userID, models.FlowWorkoutCreation); !ok {
		return restartResult(workoutRestartHint), nil
	}
	return exerciseChoiceResult(), nil
}

// Save persists the collected workout as a standalone entry and clears the
// flow state. It requires a chosen day and at least one exercise.
func (f *WorkoutFlow) Save(userID string) (StepResult, error) {
	data, ok := f.states.Get(userID, models.FlowWorkoutCreation)
	if !ok {
		return restartResult(workoutRestartHint), nil
	}
	day, _ := data["day"].(string)
	exercises, _ := data["exercises"].([]models.Exercise)
	if day == "" {
		return StepResult{Text: "No day selected yet.", Options: weekdayOptions()}, nil
	}
	if len(exercises) == 0 {
		return StepResult{Text: "No exercises added yet."}, nil
	}

	entry := models.NewWorkoutEntry(models.Weekday(day), exercises)
	if err := f.store.SaveStandaloneWorkout(userID, entry); err != nil {
		slog.Error("WorkoutFlow save failed", "error", err, "userID", userID)
		return StepResult{}, fmt.Errorf("failed to save workout: %w", err)
	}
	f.states.Clear(userID, models.FlowWorkoutCreation)
	slog.Info("WorkoutFlow workout saved", "userID", userID, "day", day, "exercises", len(exercises))

	lines := []string{fmt.Sprintf("Workout for %s saved.", day), "", "Exercises:"}
	for i, exercise := range exercises {
		lines = append(lines, formatExerciseLine(i+1, exercise))
	}
	return StepResult{Text: strings.Join(lines, "\n"), Done: true}, nil
}

// Cancel abandons the flow and clears its state.
func (f *WorkoutFlow) Cancel(userID string) (StepResult, error) {
	f.states.Clear(userID, models.FlowWorkoutCreation)
	return StepResult{Text: "Workout creation cancelled.", Done: true}, nil
}

func formatExerciseLine(n int, e models.Exercise) string {
	line := fmt.Sprintf("%d. %s: %dx%d", n, e.Name, e.Sets, e.Reps)
	if e.Weight != nil {
		line += fmt.Sprintf(", %g kg", *e.Weight)
	}
	return line
}
