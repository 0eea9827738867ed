// Package store provides storage backends for fitcoach.
//
// The primary backend keeps per-user JSON files whose shapes are the
// durability wire format and must stay readable across versions, including
// the legacy bare-array layouts. SQLite and PostgreSQL backends implement
// the same capability interface with identical observable semantics so a
// deployment can swap the backing store without touching callers.
package store

import (
	"errors"
	"strings"

	"github.com/fitcoach-bot/fitcoach/internal/models"
)

// ErrNotFound is returned by operations whose target entity must exist,
// such as UpdateWorkoutEntry. Lookups report absence with a nil result
// instead.
var ErrNotFound = errors.New("not found")

// Store is the persistence capability consumed by flow controllers and
// domain services. Callers never touch serialization or file paths directly.
type Store interface {
	// GetProfile returns the user's profile, or nil if none was saved.
	GetProfile(userID string) (*models.UserProfile, error)
	// SaveProfile replaces the single profile for the user unconditionally.
	SaveProfile(profile models.UserProfile) error

	// SaveWorkoutPlan upserts by plan id within the user's plan list. An
	// existing plan is replaced in place, preserving list position.
	SaveWorkoutPlan(plan models.WorkoutPlan) error
	// GetWorkoutPlans returns all plans in storage order.
	GetWorkoutPlans(userID string) ([]models.WorkoutPlan, error)
	// GetActivePlans returns the plans whose is_active flag is set.
	GetActivePlans(userID string) ([]models.WorkoutPlan, error)
	// DeactivatePlan clears the is_active flag; missing plans are a no-op.
	DeactivatePlan(userID, planID string) error

	// SaveStandaloneWorkout upserts by entry id against the standalone list.
	SaveStandaloneWorkout(userID string, entry models.WorkoutEntry) error
	// GetWorkoutEntry searches all plans' entries first, then the standalone
	// list, and returns nil when the id is unknown. Entry ids are expected to
	// be unique across both collections; if a caller ever stores the same id
	// in both, the plan copy wins because plans are searched first.
	GetWorkoutEntry(userID, entryID string) (*models.WorkoutEntry, error)
	// GetWorkoutEntriesByDay concatenates matches from plans (storage order)
	// and then the standalone list. No de-duplication is performed.
	GetWorkoutEntriesByDay(userID string, day models.Weekday) ([]models.WorkoutEntry, error)
	// GetAllWorkoutEntries returns every entry: plans in storage order with
	// their entries in original order, then standalone entries.
	GetAllWorkoutEntries(userID string) ([]models.WorkoutEntry, error)
	// UpdateWorkoutEntry replaces the entry in place, searching plans first
	// and then the standalone list. Returns ErrNotFound if the id is absent;
	// it never creates.
	UpdateWorkoutEntry(userID, entryID string, entry models.WorkoutEntry) error
	// DeleteWorkoutEntry removes the id from every plan and from the
	// standalone list. Deleting an absent id is not an error.
	DeleteWorkoutEntry(userID, entryID string) error

	// SaveWorkoutExecution appends to the user's execution history and, in
	// the same logical transaction, increments the referenced entry's
	// completion count and stamps its last-completed time. If the referenced
	// entry no longer exists the execution is still recorded and the
	// statistics update is skipped.
	SaveWorkoutExecution(execution models.WorkoutExecution) error
	// GetWorkoutExecutions returns the user's executions; a non-empty
	// entryID restricts the result to that workout entry.
	GetWorkoutExecutions(userID, entryID string) ([]models.WorkoutExecution, error)
	// GetExerciseProgressHistory collects per-exercise actuals across all
	// executions, matching the exercise name case-insensitively.
	GetExerciseProgressHistory(userID, exerciseName string) ([]models.ExerciseProgress, error)

	// AddProgressEntry appends a body-metrics record.
	AddProgressEntry(entry models.ProgressEntry) error
	// ListProgress returns all body-metrics records in storage order.
	ListProgress(userID string) ([]models.ProgressEntry, error)

	// SaveReminder upserts the reminder by id within the user's reminder map.
	SaveReminder(reminder models.ReminderConfig) error
	// ListReminders returns all reminders configured for the user.
	ListReminders(userID string) ([]models.ReminderConfig, error)
	// AllReminders returns every user's reminders, for startup restore.
	AllReminders() ([]models.ReminderConfig, error)
	// DeleteReminder removes the reminder; missing ids are a no-op.
	DeleteReminder(userID, reminderID string) error
}

// DetectDSNType classifies a database DSN as "postgres" or "sqlite". URL
// style and key=value style connection strings are Postgres; anything else is
// treated as a SQLite file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// Opts holds configuration applied via Option values.
type Opts struct {
	// DataDir is the base directory for the file backend.
	DataDir string
	// DSN is the connection string for the SQLite and Postgres backends.
	DSN string
}

// Option configures a store backend.
type Option func(*Opts)

// WithDataDir sets the base directory for the file backend.
func WithDataDir(dir string) Option {
	return func(o *Opts) { o.DataDir = dir }
}

// WithDSN sets the database connection string for DB-backed stores.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}
