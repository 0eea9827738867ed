package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/fitcoach-bot/fitcoach/internal/models"
)

// dbStore implements Store on top of database/sql. Profiles, the per-user
// workout document and the per-user progress document are stored as JSON
// payloads keyed by user id, reminders as one row per reminder. Queries are
// written with ? placeholders; the Postgres wrapper rebinds them to $N.
//
// The same coarse write mutex as the file backend serializes every
// read-modify-write document sequence (entry updates, execution statistics),
// so concurrent writers never lose appended history to a stale reload.
type dbStore struct {
	db         *sql.DB
	bindDollar bool
	mu         sync.Mutex
}

func (s *dbStore) rebind(query string) string {
	if !s.bindDollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *dbStore) exec(query string, args ...any) error {
	_, err := s.db.Exec(s.rebind(query), args...)
	return err
}

// loadDoc reads one JSON payload by user id from the given table into dst.
// A missing row leaves dst untouched and returns false.
func (s *dbStore) loadDoc(table, userID string, dst any) (bool, error) {
	var data []byte
	query := fmt.Sprintf("SELECT data FROM %s WHERE user_id = ?", table)
	err := s.db.QueryRow(s.rebind(query), userID).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		slog.Error("dbStore document query failed", "error", err, "table", table, "userID", userID)
		return false, fmt.Errorf("failed to query %s for %s: %w", table, userID, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Error("dbStore document decode failed", "error", err, "table", table, "userID", userID)
		return false, fmt.Errorf("cannot decode %s document for %s: %w", table, userID, err)
	}
	return true, nil
}

// saveDoc upserts one JSON payload by user id into the given table.
func (s *dbStore) saveDoc(table, userID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s document: %w", table, err)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (user_id, data) VALUES (?, ?) ON CONFLICT (user_id) DO UPDATE SET data = excluded.data",
		table)
	if err := s.exec(query, userID, data); err != nil {
		slog.Error("dbStore document upsert failed", "error", err, "table", table, "userID", userID)
		return fmt.Errorf("failed to upsert %s for %s: %w", table, userID, err)
	}
	return nil
}

func (s *dbStore) loadWorkoutDoc(userID string) (*workoutData, error) {
	doc := &workoutData{}
	if _, err := s.loadDoc("workout_docs", userID, doc); err != nil {
		return nil, err
	}
	normalizeWorkoutData(doc)
	return doc, nil
}

func (s *dbStore) saveWorkoutDoc(userID string, doc *workoutData) error {
	if doc.Plans == nil {
		doc.Plans = []models.WorkoutPlan{}
	}
	if doc.Standalone == nil {
		doc.Standalone = []models.WorkoutEntry{}
	}
	return s.saveDoc("workout_docs", userID, doc)
}

func (s *dbStore) loadProgressDoc(userID string) (*progressData, error) {
	doc := &progressData{}
	if _, err := s.loadDoc("progress_docs", userID, doc); err != nil {
		return nil, err
	}
	normalizeProgressData(doc)
	return doc, nil
}

func (s *dbStore) saveProgressDoc(userID string, doc *progressData) error {
	if doc.BodyProgress == nil {
		doc.BodyProgress = []models.ProgressEntry{}
	}
	if doc.WorkoutExecutions == nil {
		doc.WorkoutExecutions = []models.WorkoutExecution{}
	}
	return s.saveDoc("progress_docs", userID, doc)
}

func (s *dbStore) GetProfile(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	found, err := s.loadDoc("profiles", userID, &profile)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &profile, nil
}

func (s *dbStore) SaveProfile(profile models.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	return s.saveDoc("profiles", profile.UserID, profile)
}

func (s *dbStore) SaveWorkoutPlan(plan models.WorkoutPlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.loadWorkoutDoc(plan.UserID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range doc.Plans {
		if doc.Plans[i].PlanID == plan.PlanID {
			doc.Plans[i] = plan
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Plans = append(doc.Plans, plan)
	}
	return s.saveWorkoutDoc(plan.UserID, doc)
}

func (s *dbStore) GetWorkoutPlans(userID string) ([]models.WorkoutPlan, error) {
	doc, err := s.loadWorkoutDoc(userID)
	if err != nil {
		return nil, err
	}
	return doc.Plans, nil
}

func (s *dbStore) GetActivePlans(userID string) ([]models.WorkoutPlan, error) {
	doc, err := s.loadWorkoutDoc(userID)
	if err != nil {
		return nil, err
	}
	var active []models.WorkoutPlan
	for _, plan := range doc.Plans {
		if plan.IsActive {
			active = append(active, plan)
		}
	}
	return active, nil
}

func (s *dbStore) DeactivatePlan(userID, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.loadWorkoutDoc(userID)
	if err != nil {
		return err
	}
	for i := range doc.Plans {
		if doc.Plans[i].PlanID == planID {
			doc.Plans[i].IsActive = false
			break
		}
	}
	return s.saveWorkoutDoc(userID, doc)
}

func (s *dbStore) SaveStandaloneWorkout(userID string, entry models.WorkoutEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.loadWorkoutDoc(userID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range doc.Standalone {
		if doc.Standalone[i].EntryID == entry.EntryID {
			doc.Standalone[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Standalone = append(doc.Standalone, entry)
	}
	return s.saveWorkoutDoc(userID, doc)
}

func (s *dbStore) GetWorkoutEntry(userID, entryID string) (*models.WorkoutEntry, error) {
	doc, err := s.loadWorkoutDoc(userID)
	if err != nil {
		return nil, err
	}
	if entry := findEntry(doc, entryID); entry != nil {
		found := *entry
		return &found, nil
	}
	return nil, nil
}

func (s *dbStore) GetWorkoutEntriesByDay(userID string, day models.Weekday) ([]models.WorkoutEntry, error) {
	doc, err := s.loadWorkoutDoc(userID)
	if err != nil {
		return nil, err
	}
	var result []models.WorkoutEntry
	for _, plan := range doc.Plans {
		for _, entry := range plan.Entries {
			if entry.DayOfWeek == day {
				result = append(result, entry)
			}
		}
	}
	for _, entry := range doc.Standalone {
		if entry.DayOfWeek == day {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *dbStore) GetAllWorkoutEntries(userID string) ([]models.WorkoutEntry, error) {
	doc, err := s.loadWorkoutDoc(userID)
	if err != nil {
		return nil, err
	}
	var result []models.WorkoutEntry
	for _, plan := range doc.Plans {
		result = append(result, plan.Entries...)
	}
	result = append(result, doc.Standalone...)
	return result, nil
}

func (s *dbStore) UpdateWorkoutEntry(userID, entryID string, entry models.WorkoutEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.loadWorkoutDoc(userID)
	if err != nil {
		return err
	}
	target := findEntry(doc, entryID)
	if target == nil {
		return fmt.Errorf("workout entry %s: %w", entryID, ErrNotFound)
	}
	*target = entry
	return s.saveWorkoutDoc(userID, doc)
}

func (s *dbStore) DeleteWorkoutEntry(userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.loadWorkoutDoc(userID)
	if err != nil {
		return err
	}
	for p := range doc.Plans {
		kept := doc.Plans[p].Entries[:0]
		for _, entry := range doc.Plans[p].Entries {
			if entry.EntryID != entryID {
				kept = append(kept, entry)
			}
		}
		doc.Plans[p].Entries = kept
	}
	kept := doc.Standalone[:0]
	for _, entry := range doc.Standalone {
		if entry.EntryID != entryID {
			kept = append(kept, entry)
		}
	}
	doc.Standalone = kept
	return s.saveWorkoutDoc(userID, doc)
}

func (s *dbStore) SaveWorkoutExecution(execution models.WorkoutExecution) error {
	if err := execution.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	progress, err := s.loadProgressDoc(execution.UserID)
	if err != nil {
		return err
	}
	progress.WorkoutExecutions = append(progress.WorkoutExecutions, execution)
	if err := s.saveProgressDoc(execution.UserID, progress); err != nil {
		return err
	}

	workouts, err := s.loadWorkoutDoc(execution.UserID)
	if err != nil {
		return err
	}
	entry := findEntry(workouts, execution.WorkoutEntryID)
	if entry == nil {
		slog.Warn("dbStore execution references missing entry, statistics skipped",
			"userID", execution.UserID, "entryID", execution.WorkoutEntryID)
		return nil
	}
	entry.CompletionCount++
	completed := execution.ExecutionDate
	entry.LastCompleted = &completed
	return s.saveWorkoutDoc(execution.UserID, workouts)
}

func (s *dbStore) GetWorkoutExecutions(userID, entryID string) ([]models.WorkoutExecution, error) {
	doc, err := s.loadProgressDoc(userID)
	if err != nil {
		return nil, err
	}
	if entryID == "" {
		return doc.WorkoutExecutions, nil
	}
	var filtered []models.WorkoutExecution
	for _, execution := range doc.WorkoutExecutions {
		if execution.WorkoutEntryID == entryID {
			filtered = append(filtered, execution)
		}
	}
	return filtered, nil
}

func (s *dbStore) GetExerciseProgressHistory(userID, exerciseName string) ([]models.ExerciseProgress, error) {
	doc, err := s.loadProgressDoc(userID)
	if err != nil {
		return nil, err
	}
	return collectExerciseProgress(doc.WorkoutExecutions, exerciseName), nil
}

func (s *dbStore) AddProgressEntry(entry models.ProgressEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.loadProgressDoc(entry.UserID)
	if err != nil {
		return err
	}
	doc.BodyProgress = append(doc.BodyProgress, entry)
	return s.saveProgressDoc(entry.UserID, doc)
}

func (s *dbStore) ListProgress(userID string) ([]models.ProgressEntry, error) {
	doc, err := s.loadProgressDoc(userID)
	if err != nil {
		return nil, err
	}
	return doc.BodyProgress, nil
}

func (s *dbStore) SaveReminder(reminder models.ReminderConfig) error {
	if err := reminder.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(reminder)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder: %w", err)
	}
	query := `INSERT INTO reminders (user_id, reminder_id, data) VALUES (?, ?, ?)
		ON CONFLICT (user_id, reminder_id) DO UPDATE SET data = excluded.data`
	if err := s.exec(query, reminder.UserID, reminder.ReminderID, data); err != nil {
		slog.Error("dbStore SaveReminder failed", "error", err, "userID", reminder.UserID)
		return fmt.Errorf("failed to upsert reminder %s: %w", reminder.ReminderID, err)
	}
	return nil
}

func (s *dbStore) ListReminders(userID string) ([]models.ReminderConfig, error) {
	rows, err := s.db.Query(s.rebind("SELECT data FROM reminders WHERE user_id = ?"), userID)
	if err != nil {
		slog.Error("dbStore ListReminders query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.ReminderConfig
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		var reminder models.ReminderConfig
		if err := json.Unmarshal(data, &reminder); err != nil {
			return nil, fmt.Errorf("cannot decode reminder for %s: %w", userID, err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminder rows: %w", err)
	}
	return reminders, nil
}

func (s *dbStore) AllReminders() ([]models.ReminderConfig, error) {
	rows, err := s.db.Query("SELECT data FROM reminders")
	if err != nil {
		slog.Error("dbStore AllReminders query failed", "error", err)
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.ReminderConfig
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		var reminder models.ReminderConfig
		if err := json.Unmarshal(data, &reminder); err != nil {
			return nil, fmt.Errorf("cannot decode reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminder rows: %w", err)
	}
	return reminders, nil
}

func (s *dbStore) DeleteReminder(userID, reminderID string) error {
	if err := s.exec("DELETE FROM reminders WHERE user_id = ? AND reminder_id = ?", userID, reminderID); err != nil {
		slog.Error("dbStore DeleteReminder failed", "error", err, "userID", userID, "reminderID", reminderID)
		return fmt.Errorf("failed to delete reminder %s: %w", reminderID, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *dbStore) Close() error {
	return s.db.Close()
}
