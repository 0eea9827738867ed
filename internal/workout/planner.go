package workout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

// ErrAssistantUnavailable is returned when the LLM cannot be reached.
var ErrAssistantUnavailable = errors.New("assistant is unavailable")

// ErrEmptyPlan is returned when the LLM response yields no usable workouts.
var ErrEmptyPlan = errors.New("the generated plan contains no workouts")

// Assistant is the text-generation capability the planner needs.
type Assistant interface {
	Available() bool
	GenerateAnswer(ctx context.Context, prompt, profileContext string) (string, error)
}

// Planner builds a weekly plan from the user's profile via an LLM.
type Planner struct {
	store     store.Store
	assistant Assistant
}

// NewPlanner creates an LLM-backed weekly planner.
func NewPlanner(st store.Store, assistant Assistant) *Planner {
	return &Planner{store: st, assistant: assistant}
}

// planPayload is the JSON shape requested from the model.
type planPayload struct {
	PlanName string `json:"plan_name"`
	Workouts []struct {
		Day         string `json:"day"`
		WorkoutName string `json:"workout_name"`
		Exercises   []struct {
			Name   string   `json:"name"`
			Sets   int      `json:"sets"`
			Reps   int      `json:"reps"`
			Weight *float64 `json:"weight"`
		} `json:"exercises"`
	} `json:"workouts"`
}

// BuildWeeklyPlan asks the model for a 7-day plan, parses its JSON answer
// and persists the result as the user's active plan. Invalid days and rest
// days (no exercises) are skipped; a plan with zero workouts is an error.
func (p *Planner) BuildWeeklyPlan(ctx context.Context, profile *models.UserProfile) (models.WorkoutPlan, error) {
	if !p.assistant.Available() {
		slog.Error("weekly plan requested while assistant unavailable", "userID", profile.UserID)
		return models.WorkoutPlan{}, ErrAssistantUnavailable
	}

	prompt := weeklyPlanPrompt(profile)
	slog.Debug("requesting weekly plan from assistant", "userID", profile.UserID)
	response, err := p.assistant.GenerateAnswer(ctx, prompt, "")
	if err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("failed to generate plan: %w", err)
	}

	var payload planPayload
	if err := json.Unmarshal([]byte(ExtractJSON(response)), &payload); err != nil {
		slog.Error("failed to parse plan response", "error", err, "userID", profile.UserID)
		return models.WorkoutPlan{}, fmt.Errorf("cannot parse generated plan: %w", err)
	}

	rest := 60
	var entries []models.WorkoutEntry
	for _, w := range payload.Workouts {
		day := models.Weekday(w.Day)
		if !models.IsValidWeekday(day) {
			slog.Warn("skipping workout with invalid day", "day", w.Day)
			continue
		}
		var exercises []models.Exercise
		for _, e := range w.Exercises {
			exercise := models.Exercise{
				ExerciseID:  models.NewID(),
				Name:        e.Name,
				Weight:      e.Weight,
				Reps:        e.Reps,
				Sets:        e.Sets,
				RestSeconds: &rest,
			}
			if exercise.Name == "" {
				exercise.Name = "Exercise"
			}
			if exercise.Reps == 0 {
				exercise.Reps = 12
			}
			if exercise.Sets == 0 {
				exercise.Sets = 3
			}
			exercises = append(exercises, exercise)
		}
		// Rest days come back with no exercises.
		if len(exercises) == 0 {
			slog.Debug("skipping rest day", "day", w.Day)
			continue
		}
		entry := models.NewWorkoutEntry(day, exercises)
		entry.WorkoutName = w.WorkoutName
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return models.WorkoutPlan{}, ErrEmptyPlan
	}

	plan := models.NewWorkoutPlan(profile.UserID, payload.PlanName, entries)
	if err := p.store.SaveWorkoutPlan(plan); err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("failed to save plan: %w", err)
	}
	slog.Info("weekly plan created", "userID", profile.UserID, "planID", plan.PlanID, "entries", len(entries))
	return plan, nil
}

func weeklyPlanPrompt(profile *models.UserProfile) string {
	return fmt.Sprintf(`You are a professional fitness coach. Create a personal weekly workout plan (7 days) for this user:

User profile:
- Age: %d
- Gender: %s
- Weight: %g kg
- Goal: %s
- Experience: %s
- Training location: %s
- Session duration: %s

Requirements:
1. Plan the 7 days of the week (Monday through Sunday).
2. Each training day has 3-5 exercises.
3. Respect the user's goal (%s), experience (%s) and location (%s).
4. Cardio days may have fewer exercises.
5. Include 1-2 rest days per week.

Return ONLY JSON in this shape, with no extra text:
{
  "plan_name": "Plan name",
  "workouts": [
    {
      "day": "mon",
      "workout_name": "Workout name",
      "exercises": [
        {"name": "Exercise name", "sets": 3, "reps": 12, "weight": 10}
      ]
    }
  ]
}

Days of the week: mon, tue, wed, thu, fri, sat, sun.
For rest days return an empty exercises array or skip the day.

Important: return ONLY valid JSON, no markdown formatting, no commentary.`,
		profile.Age, profile.Gender, profile.Weight, profile.Goal,
		profile.Experience, profile.PreferredLocation, profile.WorkoutTime,
		profile.Goal, profile.Experience, profile.PreferredLocation)
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON pulls a JSON object out of a model response that may wrap it
// in markdown fences or surrounding prose.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)
	if m := fencedJSON.FindStringSubmatch(response); m != nil {
		return m[1]
	}
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start != -1 && end > start {
		return response[start : end+1]
	}
	return response
}
