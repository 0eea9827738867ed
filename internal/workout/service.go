package workout

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

// focusPools are the fallback pools for random generation when no template
// is requested.
var focusPools = map[string][]string{
	"legs":   {"Squats", "Lunges", "Glute Bridges", "Pistol Squats", "Leg Press"},
	"back":   {"Lat Pulldowns", "Deadlifts", "Back Extensions", "Dumbbell Rows"},
	"cardio": {"Burpees", "Jump Rope", "Running in Place", "Stationary Bike", "Elliptical"},
}

// workoutLength maps the preferred session duration to an exercise count.
var workoutLength = map[models.WorkoutTime]int{
	models.WorkoutTimeShort:  3,
	models.WorkoutTimeMedium: 4,
	models.WorkoutTimeLong:   5,
}

// Service generates and persists workout recommendations.
type Service struct {
	store store.Store
}

// NewService creates a workout service over the given repository.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// GenerateDailyWorkout builds a workout for today. With a template id it
// instantiates the template, scaling weights to the user's experience; the
// fallback samples the focus pool with goal-based repetitions and an
// estimated weight.
func (s *Service) GenerateDailyWorkout(profile *models.UserProfile, focus, templateID string) models.WorkoutEntry {
	if templateID != "" {
		if t := TemplateByID(templateID); t != nil {
			slog.Debug("workout generated from template", "userID", profile.UserID, "templateID", templateID)
			return s.fromTemplate(profile, focus, t)
		}
		slog.Debug("template not found, falling back to random generation", "templateID", templateID)
	}
	return s.randomWorkout(profile, focus)
}

func (s *Service) fromTemplate(profile *models.UserProfile, focus string, t *Template) models.WorkoutEntry {
	exercises := make([]models.Exercise, 0, len(t.Exercises))
	for _, base := range t.Exercises {
		exercise := base
		if base.Weight != nil && focus != "cardio" {
			adjusted := roundTenth(*base.Weight * experienceTemplateModifier(profile.Experience))
			exercise.Weight = &adjusted
		}
		if exercise.RestSeconds == nil {
			rest := 60
			exercise.RestSeconds = &rest
		}
		exercises = append(exercises, exercise)
	}
	entry := models.NewWorkoutEntry(todayWeekday(), exercises)
	entry.WorkoutName = t.Name
	return entry
}

func (s *Service) randomWorkout(profile *models.UserProfile, focus string) models.WorkoutEntry {
	pool, ok := focusPools[focus]
	if !ok {
		focus = "legs"
		pool = focusPools[focus]
	}
	count := workoutLength[profile.WorkoutTime]
	if count == 0 || count > len(pool) {
		count = len(pool)
	}

	names := append([]string(nil), pool...)
	rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	names = names[:count]

	exercises := make([]models.Exercise, 0, count)
	rest := 60
	for _, name := range names {
		weight := estimateWeight(profile, focus)
		exercises = append(exercises, models.Exercise{
			Name:        name,
			Weight:      &weight,
			Reps:        goalReps(profile.Goal),
			Sets:        3,
			RestSeconds: &rest,
		})
	}
	slog.Debug("workout generated randomly", "userID", profile.UserID, "focus", focus, "exercises", count)
	return models.NewWorkoutEntry(todayWeekday(), exercises)
}

// experienceTemplateModifier scales template baseline weights.
func experienceTemplateModifier(e models.Experience) float64 {
	switch e {
	case models.ExperienceBeginner:
		return 0.7
	case models.ExperienceAdvanced:
		return 1.3
	default:
		return 1.0
	}
}

// estimateWeight guesses a starting weight from body weight and experience.
// Cardio exercises get zero.
func estimateWeight(profile *models.UserProfile, focus string) float64 {
	if focus == "cardio" {
		return 0
	}
	base := profile.Weight * 0.3
	switch profile.Experience {
	case models.ExperienceBeginner:
		base *= 0.8
	case models.ExperienceAdvanced:
		base *= 1.2
	}
	return roundTenth(base)
}

// goalReps picks the repetition count for the training goal.
func goalReps(goal models.Goal) int {
	switch goal {
	case models.GoalLose:
		return 15
	case models.GoalGain:
		return 8
	default:
		return 12
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func todayWeekday() models.Weekday {
	return models.Weekday(strings.ToLower(time.Now().Format("Mon")))
}

// SavePlan persists a new active plan from the given entries.
func (s *Service) SavePlan(userID string, entries []models.WorkoutEntry) (models.WorkoutPlan, error) {
	plan := models.NewWorkoutPlan(userID, "", entries)
	if err := s.store.SaveWorkoutPlan(plan); err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("failed to save plan: %w", err)
	}
	slog.Info("workout plan saved", "userID", userID, "planID", plan.PlanID, "entries", len(entries))
	return plan, nil
}

// SaveStandaloneWorkout persists a workout outside any plan.
func (s *Service) SaveStandaloneWorkout(userID string, entry models.WorkoutEntry) error {
	return s.store.SaveStandaloneWorkout(userID, entry)
}

// ListPlans returns all of the user's plans.
func (s *Service) ListPlans(userID string) ([]models.WorkoutPlan, error) {
	return s.store.GetWorkoutPlans(userID)
}

// AvailableTemplates returns templates matching the profile and optional
// focus. A nil profile matches everything.
func (s *Service) AvailableTemplates(profile *models.UserProfile, focus string) []Template {
	var location models.Location
	var experience models.Experience
	if profile != nil {
		location = profile.PreferredLocation
		experience = profile.Experience
	}
	return TemplatesByFilters(focus, location, experience)
}
