// Package models defines the core data structures for fitcoach.
//
// It includes user profiles, workout plans and entries, execution history,
// body progress and reminder configuration, which are shared across modules.
// All types carry the JSON field names used by previously written data files,
// so they double as the wire format for the file-backed store.
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Gender is a closed set of profile gender values.
type Gender string

// Goal is a closed set of training goals.
type Goal string

// Experience is a closed set of training experience levels.
type Experience string

// Location is a closed set of preferred workout locations.
type Location string

// WorkoutTime is a closed set of preferred session durations.
type WorkoutTime string

// Weekday is a closed set of workout days (three-letter, lowercase).
type Weekday string

// Rating is a closed set of perceived difficulty values.
type Rating string

// Mood is a closed set of body-progress mood values.
type Mood string

// ReminderType is a closed set of reminder kinds.
type ReminderType string

// Frequency is a closed set of reminder frequencies.
type Frequency string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"

	GoalLose     Goal = "lose"
	GoalGain     Goal = "gain"
	GoalMaintain Goal = "maintain"

	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"

	LocationHome Location = "home"
	LocationGym  Location = "gym"

	WorkoutTimeShort  WorkoutTime = "short"
	WorkoutTimeMedium WorkoutTime = "medium"
	WorkoutTimeLong   WorkoutTime = "long"

	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"

	RatingEasy   Rating = "easy"
	RatingNormal Rating = "normal"
	RatingHard   Rating = "hard"

	MoodLow    Mood = "low"
	MoodMedium Mood = "medium"
	MoodHigh   Mood = "high"

	ReminderTraining ReminderType = "training"
	ReminderWater    ReminderType = "water"

	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Weekdays lists all weekdays in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Validation range constants for user-supplied fields.
const (
	MinAge            = 10
	MaxAge            = 100
	MinBodyWeight     = 20.0
	MaxBodyWeight     = 300.0
	MinReps           = 1
	MaxReps           = 100
	MinSets           = 1
	MaxSets           = 10
	MaxExerciseWeight = 500.0
)

// Error variables for validation failures shared across modules.
var (
	ErrMissingUserID     = errors.New("user id cannot be empty")
	ErrAgeNotPositive    = errors.New("age must be positive")
	ErrWeightNotPositive = errors.New("weight must be positive")
	ErrEmptyExerciseName = errors.New("exercise name cannot be empty")
	ErrNoPlanEntries     = errors.New("workout plan must contain at least one entry")
	ErrEmptyReminderID   = errors.New("reminder id cannot be empty")
	ErrEmptyMessage      = errors.New("reminder message cannot be empty")
)

// IsValidGender reports whether g is one of the supported gender values.
func IsValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// IsValidGoal reports whether g is one of the supported goal values.
func IsValidGoal(g Goal) bool {
	switch g {
	case GoalLose, GoalGain, GoalMaintain:
		return true
	default:
		return false
	}
}

// IsValidExperience reports whether e is one of the supported experience levels.
func IsValidExperience(e Experience) bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	default:
		return false
	}
}

// IsValidLocation reports whether l is one of the supported locations.
func IsValidLocation(l Location) bool {
	switch l {
	case LocationHome, LocationGym:
		return true
	default:
		return false
	}
}

// IsValidWorkoutTime reports whether w is one of the supported durations.
func IsValidWorkoutTime(w WorkoutTime) bool {
	switch w {
	case WorkoutTimeShort, WorkoutTimeMedium, WorkoutTimeLong:
		return true
	default:
		return false
	}
}

// IsValidWeekday reports whether d is one of the seven weekday values.
func IsValidWeekday(d Weekday) bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	default:
		return false
	}
}

// IsValidRating reports whether r is one of the supported difficulty ratings.
func IsValidRating(r Rating) bool {
	switch r {
	case RatingEasy, RatingNormal, RatingHard:
		return true
	default:
		return false
	}
}

// IsValidMood reports whether m is one of the supported mood values.
func IsValidMood(m Mood) bool {
	switch m {
	case MoodLow, MoodMedium, MoodHigh:
		return true
	default:
		return false
	}
}

// IsValidReminderType reports whether t is one of the supported reminder kinds.
func IsValidReminderType(t ReminderType) bool {
	switch t {
	case ReminderTraining, ReminderWater:
		return true
	default:
		return false
	}
}

// IsValidFrequency reports whether f is one of the supported frequencies.
func IsValidFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly:
		return true
	default:
		return false
	}
}

// UnmarshalJSON enforces the closed gender set; out-of-set values are a hard error.
func (g *Gender) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(g), func(s string) bool { return IsValidGender(Gender(s)) }, "gender")
}

// UnmarshalJSON enforces the closed goal set.
func (g *Goal) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(g), func(s string) bool { return IsValidGoal(Goal(s)) }, "goal")
}

// UnmarshalJSON enforces the closed experience set.
func (e *Experience) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(e), func(s string) bool { return IsValidExperience(Experience(s)) }, "experience")
}

// UnmarshalJSON enforces the closed location set.
func (l *Location) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(l), func(s string) bool { return IsValidLocation(Location(s)) }, "location")
}

// UnmarshalJSON enforces the closed workout-time set.
func (w *WorkoutTime) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(w), func(s string) bool { return IsValidWorkoutTime(WorkoutTime(s)) }, "workout time")
}

// UnmarshalJSON enforces the closed weekday set.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(d), func(s string) bool { return IsValidWeekday(Weekday(s)) }, "weekday")
}

// UnmarshalJSON enforces the closed rating set. An explicit null is allowed
// on the pointer fields that use Rating.
func (r *Rating) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(r), func(s string) bool { return IsValidRating(Rating(s)) }, "rating")
}

// UnmarshalJSON enforces the closed mood set.
func (m *Mood) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(m), func(s string) bool { return IsValidMood(Mood(s)) }, "mood")
}

// UnmarshalJSON enforces the closed reminder-type set.
func (t *ReminderType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(t), func(s string) bool { return IsValidReminderType(ReminderType(s)) }, "reminder type")
}

// UnmarshalJSON enforces the closed frequency set.
func (f *Frequency) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(f), func(s string) bool { return IsValidFrequency(Frequency(s)) }, "frequency")
}

// NewID returns a fresh UUID string for entity identifiers.
func NewID() string {
	return uuid.NewString()
}

// UserProfile is the single per-user profile record. It is overwritten
// wholesale on save.
type UserProfile struct {
	UserID            string      `json:"user_id"`
	Age               int         `json:"age"`
	Gender            Gender      `json:"gender"`
	Weight            float64     `json:"weight"`
	Goal              Goal        `json:"goal"`
	Experience        Experience  `json:"experience"`
	PreferredLocation Location    `json:"preferred_location"`
	WorkoutTime       WorkoutTime `json:"workout_time"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// Validate checks the profile invariants: positive age and weight, all
// enumerated fields inside their closed sets.
func (p *UserProfile) Validate() error {
	if p.UserID == "" {
		return ErrMissingUserID
	}
	if p.Age <= 0 {
		return ErrAgeNotPositive
	}
	if p.Weight <= 0 {
		return ErrWeightNotPositive
	}
	if !IsValidGender(p.Gender) {
		return fmt.Errorf("invalid gender %q", p.Gender)
	}
	if !IsValidGoal(p.Goal) {
		return fmt.Errorf("invalid goal %q", p.Goal)
	}
	if !IsValidExperience(p.Experience) {
		return fmt.Errorf("invalid experience %q", p.Experience)
	}
	if !IsValidLocation(p.PreferredLocation) {
		return fmt.Errorf("invalid preferred location %q", p.PreferredLocation)
	}
	if !IsValidWorkoutTime(p.WorkoutTime) {
		return fmt.Errorf("invalid workout time %q", p.WorkoutTime)
	}
	return nil
}

// Exercise is one configured exercise inside a workout entry.
type Exercise struct {
	ExerciseID  string   `json:"exercise_id"`
	Name        string   `json:"name"`
	Weight      *float64 `json:"weight"`
	Reps        int      `json:"reps"`
	Sets        int      `json:"sets"`
	RestSeconds *int     `json:"rest_seconds"`
}

// Validate checks that the exercise has a name and sane rep/set counts.
func (e *Exercise) Validate() error {
	if e.Name == "" {
		return ErrEmptyExerciseName
	}
	if e.Reps < 1 {
		return fmt.Errorf("exercise %q: reps must be at least 1", e.Name)
	}
	if e.Sets < 1 {
		return fmt.Errorf("exercise %q: sets must be at least 1", e.Name)
	}
	return nil
}

// EnsureID backfills a missing exercise id. Data written by early versions
// predates exercise ids.
func (e *Exercise) EnsureID() {
	if e.ExerciseID == "" {
		e.ExerciseID = NewID()
	}
}

// WorkoutEntry is a single workout definition: a day of week plus an ordered
// exercise list. It may live standalone or embedded in a plan.
type WorkoutEntry struct {
	EntryID         string     `json:"entry_id"`
	DayOfWeek       Weekday    `json:"day_of_week"`
	Exercises       []Exercise `json:"exercises"`
	WorkoutName     string     `json:"workout_name,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletionCount int        `json:"completion_count"`
	LastCompleted   *time.Time `json:"last_completed"`
}

// NewWorkoutEntry builds an entry with a fresh id and creation timestamp.
func NewWorkoutEntry(day Weekday, exercises []Exercise) WorkoutEntry {
	for i := range exercises {
		exercises[i].EnsureID()
	}
	return WorkoutEntry{
		EntryID:   NewID(),
		DayOfWeek: day,
		Exercises: exercises,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the entry's weekday and each exercise.
func (w *WorkoutEntry) Validate() error {
	if !IsValidWeekday(w.DayOfWeek) {
		return fmt.Errorf("invalid day of week %q", w.DayOfWeek)
	}
	for i := range w.Exercises {
		if err := w.Exercises[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EnsureIDs backfills missing entry and exercise ids on legacy data.
func (w *WorkoutEntry) EnsureIDs() {
	if w.EntryID == "" {
		w.EntryID = NewID()
	}
	for i := range w.Exercises {
		w.Exercises[i].EnsureID()
	}
}

// WorkoutPlan is an ordered multi-day program owned by one user. Entries
// inside a plan are owned by the plan, not shared with standalone entries.
type WorkoutPlan struct {
	PlanID    string         `json:"plan_id"`
	UserID    string         `json:"user_id"`
	Name      string         `json:"name,omitempty"`
	StartDate Date           `json:"start_date"`
	Entries   []WorkoutEntry `json:"entries"`
	CreatedAt time.Time      `json:"created_at"`
	IsActive  bool           `json:"is_active"`
}

// NewWorkoutPlan builds an active plan starting today with a fresh id.
func NewWorkoutPlan(userID, name string, entries []WorkoutEntry) WorkoutPlan {
	return WorkoutPlan{
		PlanID:    NewID(),
		UserID:    userID,
		Name:      name,
		StartDate: Today(),
		Entries:   entries,
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}
}

// Validate checks the plan invariants, most importantly that it carries at
// least one entry.
func (p *WorkoutPlan) Validate() error {
	if p.UserID == "" {
		return ErrMissingUserID
	}
	if len(p.Entries) == 0 {
		return ErrNoPlanEntries
	}
	for i := range p.Entries {
		if err := p.Entries[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EnsureIDs backfills missing plan and nested ids on legacy data.
func (p *WorkoutPlan) EnsureIDs() {
	if p.PlanID == "" {
		p.PlanID = NewID()
	}
	for i := range p.Entries {
		p.Entries[i].EnsureIDs()
	}
}

// ExerciseProgress records the actuals for one exercise inside an execution.
type ExerciseProgress struct {
	ExerciseID    string   `json:"exercise_id"`
	ExerciseName  string   `json:"exercise_name"`
	ActualWeight  *float64 `json:"actual_weight"`
	ActualReps    []int    `json:"actual_reps"`
	CompletedSets int      `json:"completed_sets"`
	Rating        *Rating  `json:"rating"`
	Notes         string   `json:"notes,omitempty"`
}

// WorkoutExecution is one completed performance of a workout entry.
// Executions are append-only history; they are never mutated after creation.
type WorkoutExecution struct {
	ExecutionID       string             `json:"execution_id"`
	UserID            string             `json:"user_id"`
	WorkoutEntryID    string             `json:"workout_entry_id"`
	PlanID            string             `json:"plan_id,omitempty"`
	ExecutionDate     time.Time          `json:"execution_date"`
	ExercisesProgress []ExerciseProgress `json:"exercises_progress"`
	OverallRating     *Rating            `json:"overall_rating"`
	Notes             string             `json:"notes,omitempty"`
	BodyWeight        *float64           `json:"body_weight"`
}

// NewWorkoutExecution builds an execution record stamped with the current time.
func NewWorkoutExecution(userID, entryID string, progress []ExerciseProgress) WorkoutExecution {
	return WorkoutExecution{
		ExecutionID:       NewID(),
		UserID:            userID,
		WorkoutEntryID:    entryID,
		ExecutionDate:     time.Now().UTC(),
		ExercisesProgress: progress,
	}
}

// EnsureID backfills a missing execution id on legacy data.
func (e *WorkoutExecution) EnsureID() {
	if e.ExecutionID == "" {
		e.ExecutionID = NewID()
	}
}

// Validate checks the execution's required references.
func (e *WorkoutExecution) Validate() error {
	if e.UserID == "" {
		return ErrMissingUserID
	}
	if e.WorkoutEntryID == "" {
		return errors.New("workout entry id cannot be empty")
	}
	return nil
}

// ProgressEntry is a simple body-metrics record kept separately from
// workout executions.
type ProgressEntry struct {
	UserID       string             `json:"user_id"`
	Date         time.Time          `json:"date"`
	Weight       *float64           `json:"weight"`
	Measurements map[string]float64 `json:"measurements"`
	Mood         *Mood              `json:"mood"`
}

// ReminderConfig is a per-user scheduled notification, keyed by reminder id
// unique within the user.
type ReminderConfig struct {
	UserID     string       `json:"user_id"`
	ReminderID string       `json:"reminder_id"`
	Type       ReminderType `json:"type"`
	Time       TimeOfDay    `json:"time"`
	Frequency  Frequency    `json:"frequency"`
	Message    string       `json:"message"`
	Enabled    bool         `json:"enabled"`
}

// Validate checks the reminder invariants.
func (r *ReminderConfig) Validate() error {
	if r.UserID == "" {
		return ErrMissingUserID
	}
	if r.ReminderID == "" {
		return ErrEmptyReminderID
	}
	if r.Message == "" {
		return ErrEmptyMessage
	}
	if !IsValidReminderType(r.Type) {
		return fmt.Errorf("invalid reminder type %q", r.Type)
	}
	if !IsValidFrequency(r.Frequency) {
		return fmt.Errorf("invalid frequency %q", r.Frequency)
	}
	return nil
}
