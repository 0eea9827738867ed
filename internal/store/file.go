// Package store provides storage backends for fitcoach.
//
// This file implements the JSON-file backend. The on-disk layout is the
// durability wire format: users.json maps user id to profile, reminders.json
// maps user id to a reminder-id keyed map, workouts/<user>.json holds
// {"plans": [...], "standalone_workouts": [...]} and progress/<user>.json
// holds {"body_progress": [...], "workout_executions": [...]}. Files written
// by early versions hold a bare array (plans, respectively body progress);
// those are accepted on read, normalized in memory, and rewritten in the
// modern shape on the next write.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fitcoach-bot/fitcoach/internal/models"
)

// DefaultDirPermissions defines the default permissions for data directories.
const DefaultDirPermissions = 0o755

// FileStore persists all entities as JSON files under one base directory.
// A single mutex serializes every write; writes rebuild the whole collection
// in memory, dump it to a temporary path and atomically rename it over the
// target, so a crash mid-write leaves the previous file intact.
type FileStore struct {
	mu            sync.Mutex
	baseDir       string
	profilesPath  string
	remindersPath string
	workoutsDir   string
	progressDir   string
}

// NewFileStore creates a file store rooted at the configured data directory,
// creating the directory layout if needed.
func NewFileStore(opts ...Option) (*FileStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DataDir == "" {
		slog.Error("FileStore data directory not set")
		return nil, fmt.Errorf("data directory not set")
	}

	s := &FileStore{
		baseDir:       cfg.DataDir,
		profilesPath:  filepath.Join(cfg.DataDir, "users.json"),
		remindersPath: filepath.Join(cfg.DataDir, "reminders.json"),
		workoutsDir:   filepath.Join(cfg.DataDir, "workouts"),
		progressDir:   filepath.Join(cfg.DataDir, "progress"),
	}
	for _, dir := range []string{s.baseDir, s.workoutsDir, s.progressDir} {
		if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
			slog.Error("FileStore failed to create data directory", "error", err, "dir", dir)
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	slog.Info("FileStore initialized", "baseDir", s.baseDir)
	return s, nil
}

// readRawMap reads a JSON object of raw values, returning an empty map when
// the file does not exist yet.
func readRawMap(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &out); err != nil {
		slog.Error("FileStore failed to decode JSON file", "error", err, "path", path)
		return nil, fmt.Errorf("cannot decode JSON from %s: %w", path, err)
	}
	return out, nil
}

// writeJSONAtomic marshals v, writes it to a temporary path and renames the
// temporary file over the target. The rename is the crash-safety mechanism:
// the target either keeps its old content or gets the complete new one.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	slog.Debug("FileStore file written", "path", path, "bytes", len(data))
	return nil
}

// Profiles --------------------------------------------------------------

func (s *FileStore) GetProfile(userID string) (*models.UserProfile, error) {
	raw, err := readRawMap(s.profilesPath)
	if err != nil {
		return nil, err
	}
	entry, ok := raw[userID]
	if !ok {
		slog.Debug("FileStore profile not found", "userID", userID)
		return nil, nil
	}
	var profile models.UserProfile
	if err := json.Unmarshal(entry, &profile); err != nil {
		slog.Error("FileStore profile decode failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("cannot decode profile for %s: %w", userID, err)
	}
	slog.Debug("FileStore profile found", "userID", userID, "goal", profile.Goal)
	return &profile, nil
}

func (s *FileStore) SaveProfile(profile models.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := readRawMap(s.profilesPath)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	raw[profile.UserID] = encoded
	if err := writeJSONAtomic(s.profilesPath, raw); err != nil {
		return err
	}
	slog.Info("FileStore profile saved", "userID", profile.UserID, "goal", profile.Goal)
	return nil
}

// Workouts --------------------------------------------------------------

// workoutData is the modern shape of workouts/<user>.json.
type workoutData struct {
	Plans      []models.WorkoutPlan  `json:"plans"`
	Standalone []models.WorkoutEntry `json:"standalone_workouts"`
}

func (s *FileStore) workoutPath(userID string) string {
	return filepath.Join(s.workoutsDir, userID+".json")
}

// loadWorkoutData reads the user's workout file, accepting the legacy shape
// (bare array of plans) and normalizing it in memory. Caller may hold s.mu.
func (s *FileStore) loadWorkoutData(userID string) (*workoutData, error) {
	path := s.workoutPath(userID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &workoutData{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Legacy shape: the whole file is the plan list.
	if looksLikeArray(data) {
		var plans []models.WorkoutPlan
		if err := json.Unmarshal(data, &plans); err != nil {
			slog.Error("FileStore workout file decode failed", "error", err, "path", path)
			return nil, fmt.Errorf("cannot decode JSON from %s: %w", path, err)
		}
		slog.Debug("FileStore legacy workout file normalized", "userID", userID, "plans", len(plans))
		legacy := &workoutData{Plans: plans}
		normalizeWorkoutData(legacy)
		return legacy, nil
	}

	var modern workoutData
	if err := json.Unmarshal(data, &modern); err != nil {
		slog.Error("FileStore workout file decode failed", "error", err, "path", path)
		return nil, fmt.Errorf("cannot decode JSON from %s: %w", path, err)
	}
	normalizeWorkoutData(&modern)
	return &modern, nil
}

func normalizeWorkoutData(d *workoutData) {
	for i := range d.Plans {
		d.Plans[i].EnsureIDs()
	}
	for i := range d.Standalone {
		d.Standalone[i].EnsureIDs()
	}
}

func looksLikeArray(data []byte) bool {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	return strings.HasPrefix(trimmed, "[")
}

// saveWorkoutData writes the modern shape. Caller must hold s.mu.
func (s *FileStore) saveWorkoutData(userID string, d *workoutData) error {
	if d.Plans == nil {
		d.Plans = []models.WorkoutPlan{}
	}
	if d.Standalone == nil {
		d.Standalone = []models.WorkoutEntry{}
	}
	return writeJSONAtomic(s.workoutPath(userID), d)
}

func (s *FileStore) SaveWorkoutPlan(plan models.WorkoutPlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.loadWorkoutData(plan.UserID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range data.Plans {
		if data.Plans[i].PlanID == plan.PlanID {
			data.Plans[i] = plan
			replaced = true
			break
		}
	}
	if !replaced {
		data.Plans = append(data.Plans, plan)
	}
	if err := s.saveWorkoutData(plan.UserID, data); err != nil {
		return err
	}
	slog.Debug("FileStore plan saved", "userID", plan.UserID, "planID", plan.PlanID, "replaced", replaced)
	return nil
}

func (s *FileStore) GetWorkoutPlans(userID string) ([]models.WorkoutPlan, error) {
	data, err := s.loadWorkoutData(userID)
	if err != nil {
		return nil, err
	}
	return data.Plans, nil
}

func (s *FileStore) GetActivePlans(userID string) ([]models.WorkoutPlan, error) {
	data, err := s.loadWorkoutData(userID)
	if err != nil {
		return nil, err
	}
	var active []models.WorkoutPlan
	for _, plan := range data.Plans {
		if plan.IsActive {
			active = append(active, plan)
		}
	}
	return active, nil
}

func (s *FileStore) DeactivatePlan(userID, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.loadWorkoutData(userID)
	if err != nil {
		return err
	}
	for i := range data.Plans {
		if data.Plans[i].PlanID == planID {
			data.Plans[i].IsActive = false
			break
		}
	}
	return s.saveWorkoutData(userID, data)
}

func (s *FileStore) SaveStandaloneWorkout(userID string, entry models.WorkoutEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.loadWorkoutData(userID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range data.Standalone {
		if data.Standalone[i].EntryID == entry.EntryID {
			data.Standalone[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		data.Standalone = append(data.Standalone, entry)
	}
	if err := s.saveWorkoutData(userID, data); err != nil {
		return err
	}
	slog.Debug("FileStore standalone workout saved", "userID", userID, "entryID", entry.EntryID, "replaced", replaced)
	return nil
}

// findEntry searches plans first and then the standalone list. The plan copy
// wins on an id collision because plans are searched first.
func findEntry(data *workoutData, entryID string) *models.WorkoutEntry {
	for p := range data.Plans {
		for e := range data.Plans[p].Entries {
			if data.Plans[p].Entries[e].EntryID == entryID {
				return &data.Plans[p].Entries[e]
			}
		}
	}
	for e := range data.Standalone {
		if data.Standalone[e].EntryID == entryID {
			return &data.Standalone[e]
		}
	}
	return nil
}

func (s *FileStore) GetWorkoutEntry(userID, entryID string) (*models.WorkoutEntry, error) {
	data, err := s.loadWorkoutData(userID)
	if err != nil {
		return nil, err
	}
	if entry := findEntry(data, entryID); entry != nil {
		found := *entry
		return &found, nil
	}
	slog.Debug("FileStore workout entry not found", "userID", userID, "entryID", entryID)
	return nil, nil
}

func (s *FileStore) GetWorkoutEntriesByDay(userID string, day models.Weekday) ([]models.WorkoutEntry, error) {
	data, err := s.loadWorkoutData(userID)
	if err != nil {
		return nil, err
	}
	var result []models.WorkoutEntry
	for _, plan := range data.Plans {
		for _, entry := range plan.Entries {
			if entry.DayOfWeek == day {
				result = append(result, entry)
			}
		}
	}
	for _, entry := range data.Standalone {
		if entry.DayOfWeek == day {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *FileStore) GetAllWorkoutEntries(userID string) ([]models.WorkoutEntry, error) {
	data, err := s.loadWorkoutData(userID)
	if err != nil {
		return nil, err
	}
	var result []models.WorkoutEntry
	for _, plan := range data.Plans {
		result = append(result, plan.Entries...)
	}
	result = append(result, data.Standalone...)
	return result, nil
}

// updateEntryLocked replaces the entry in place, plans first, then the
// standalone list. Caller must hold s.mu.
func (s *FileStore) updateEntryLocked(userID, entryID string, entry models.WorkoutEntry) error {
	data, err := s.loadWorkoutData(userID)
	if err != nil {
		return err
	}
	target := findEntry(data, entryID)
	if target == nil {
		slog.Error("FileStore workout entry update target missing", "userID", userID, "entryID", entryID)
		return fmt.Errorf("workout entry %s: %w", entryID, ErrNotFound)
	}
	*target = entry
	return s.saveWorkoutData(userID, data)
}

func (s *FileStore) UpdateWorkoutEntry(userID, entryID string, entry models.WorkoutEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateEntryLocked(userID, entryID, entry)
}

func (s *FileStore) DeleteWorkoutEntry(userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.loadWorkoutData(userID)
	if err != nil {
		return err
	}
	for p := range data.Plans {
		kept := data.Plans[p].Entries[:0]
		for _, entry := range data.Plans[p].Entries {
			if entry.EntryID != entryID {
				kept = append(kept, entry)
			}
		}
		data.Plans[p].Entries = kept
	}
	kept := data.Standalone[:0]
	for _, entry := range data.Standalone {
		if entry.EntryID != entryID {
			kept = append(kept, entry)
		}
	}
	data.Standalone = kept
	if err := s.saveWorkoutData(userID, data); err != nil {
		return err
	}
	slog.Debug("FileStore workout entry deleted", "userID", userID, "entryID", entryID)
	return nil
}

// Progress --------------------------------------------------------------

// progressData is the modern shape of progress/<user>.json.
type progressData struct {
	BodyProgress      []models.ProgressEntry    `json:"body_progress"`
	WorkoutExecutions []models.WorkoutExecution `json:"workout_executions"`
}

func (s *FileStore) progressPath(userID string) string {
	return filepath.Join(s.progressDir, userID+".json")
}

// loadProgressData reads the user's progress file, accepting the legacy
// shape (bare array of body-progress entries). Caller may hold s.mu.
func (s *FileStore) loadProgressData(userID string) (*progressData, error) {
	path := s.progressPath(userID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &progressData{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Legacy shape: the whole file is the body-progress list.
	if looksLikeArray(data) {
		var entries []models.ProgressEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			slog.Error("FileStore progress file decode failed", "error", err, "path", path)
			return nil, fmt.Errorf("cannot decode JSON from %s: %w", path, err)
		}
		slog.Debug("FileStore legacy progress file normalized", "userID", userID, "entries", len(entries))
		legacy := &progressData{BodyProgress: entries}
		normalizeProgressData(legacy)
		return legacy, nil
	}

	var modern progressData
	if err := json.Unmarshal(data, &modern); err != nil {
		slog.Error("FileStore progress file decode failed", "error", err, "path", path)
		return nil, fmt.Errorf("cannot decode JSON from %s: %w", path, err)
	}
	normalizeProgressData(&modern)
	return &modern, nil
}

func normalizeProgressData(d *progressData) {
	for i := range d.WorkoutExecutions {
		d.WorkoutExecutions[i].EnsureID()
	}
}

// saveProgressData writes the modern shape. Caller must hold s.mu.
func (s *FileStore) saveProgressData(userID string, d *progressData) error {
	if d.BodyProgress == nil {
		d.BodyProgress = []models.ProgressEntry{}
	}
	if d.WorkoutExecutions == nil {
		d.WorkoutExecutions = []models.WorkoutExecution{}
	}
	return writeJSONAtomic(s.progressPath(userID), d)
}

func (s *FileStore) AddProgressEntry(entry models.ProgressEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.loadProgressData(entry.UserID)
	if err != nil {
		return err
	}
	data.BodyProgress = append(data.BodyProgress, entry)
	return s.saveProgressData(entry.UserID, data)
}

func (s *FileStore) ListProgress(userID string) ([]models.ProgressEntry, error) {
	data, err := s.loadProgressData(userID)
	if err != nil {
		return nil, err
	}
	return data.BodyProgress, nil
}

func (s *FileStore) SaveWorkoutExecution(execution models.WorkoutExecution) error {
	if err := execution.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.loadProgressData(execution.UserID)
	if err != nil {
		return err
	}
	data.WorkoutExecutions = append(data.WorkoutExecutions, execution)
	if err := s.saveProgressData(execution.UserID, data); err != nil {
		return err
	}

	// Statistics update for the referenced entry happens under the same
	// lock. A missing entry is not fatal: the execution stays recorded.
	workouts, err := s.loadWorkoutData(execution.UserID)
	if err != nil {
		return err
	}
	entry := findEntry(workouts, execution.WorkoutEntryID)
	if entry == nil {
		slog.Warn("FileStore execution references missing entry, statistics skipped",
			"userID", execution.UserID, "entryID", execution.WorkoutEntryID)
		return nil
	}
	entry.CompletionCount++
	completed := execution.ExecutionDate
	entry.LastCompleted = &completed
	if err := s.saveWorkoutData(execution.UserID, workouts); err != nil {
		return err
	}
	slog.Debug("FileStore execution saved", "userID", execution.UserID,
		"entryID", execution.WorkoutEntryID, "completionCount", entry.CompletionCount)
	return nil
}

func (s *FileStore) GetWorkoutExecutions(userID, entryID string) ([]models.WorkoutExecution, error) {
	data, err := s.loadProgressData(userID)
	if err != nil {
		return nil, err
	}
	if entryID == "" {
		return data.WorkoutExecutions, nil
	}
	var filtered []models.WorkoutExecution
	for _, execution := range data.WorkoutExecutions {
		if execution.WorkoutEntryID == entryID {
			filtered = append(filtered, execution)
		}
	}
	return filtered, nil
}

func (s *FileStore) GetExerciseProgressHistory(userID, exerciseName string) ([]models.ExerciseProgress, error) {
	data, err := s.loadProgressData(userID)
	if err != nil {
		return nil, err
	}
	return collectExerciseProgress(data.WorkoutExecutions, exerciseName), nil
}

// Reminders -------------------------------------------------------------

func (s *FileStore) SaveReminder(reminder models.ReminderConfig) error {
	if err := reminder.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := readRawMap(s.remindersPath)
	if err != nil {
		return err
	}
	userReminders := map[string]models.ReminderConfig{}
	if existing, ok := raw[reminder.UserID]; ok {
		if err := json.Unmarshal(existing, &userReminders); err != nil {
			return fmt.Errorf("cannot decode reminders for %s: %w", reminder.UserID, err)
		}
	}
	userReminders[reminder.ReminderID] = reminder
	encoded, err := json.Marshal(userReminders)
	if err != nil {
		return fmt.Errorf("failed to marshal reminders: %w", err)
	}
	raw[reminder.UserID] = encoded
	if err := writeJSONAtomic(s.remindersPath, raw); err != nil {
		return err
	}
	slog.Debug("FileStore reminder saved", "userID", reminder.UserID, "reminderID", reminder.ReminderID)
	return nil
}

func (s *FileStore) ListReminders(userID string) ([]models.ReminderConfig, error) {
	raw, err := readRawMap(s.remindersPath)
	if err != nil {
		return nil, err
	}
	entry, ok := raw[userID]
	if !ok {
		return nil, nil
	}
	userReminders := map[string]models.ReminderConfig{}
	if err := json.Unmarshal(entry, &userReminders); err != nil {
		return nil, fmt.Errorf("cannot decode reminders for %s: %w", userID, err)
	}
	reminders := make([]models.ReminderConfig, 0, len(userReminders))
	for _, reminder := range userReminders {
		reminders = append(reminders, reminder)
	}
	return reminders, nil
}

func (s *FileStore) AllReminders() ([]models.ReminderConfig, error) {
	raw, err := readRawMap(s.remindersPath)
	if err != nil {
		return nil, err
	}
	var reminders []models.ReminderConfig
	for userID, entry := range raw {
		userReminders := map[string]models.ReminderConfig{}
		if err := json.Unmarshal(entry, &userReminders); err != nil {
			return nil, fmt.Errorf("cannot decode reminders for %s: %w", userID, err)
		}
		for _, reminder := range userReminders {
			reminders = append(reminders, reminder)
		}
	}
	return reminders, nil
}

func (s *FileStore) DeleteReminder(userID, reminderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := readRawMap(s.remindersPath)
	if err != nil {
		return err
	}
	entry, ok := raw[userID]
	if !ok {
		return nil
	}
	userReminders := map[string]models.ReminderConfig{}
	if err := json.Unmarshal(entry, &userReminders); err != nil {
		return fmt.Errorf("cannot decode reminders for %s: %w", userID, err)
	}
	if _, ok := userReminders[reminderID]; !ok {
		return nil
	}
	delete(userReminders, reminderID)
	encoded, err := json.Marshal(userReminders)
	if err != nil {
		return fmt.Errorf("failed to marshal reminders: %w", err)
	}
	raw[userID] = encoded
	return writeJSONAtomic(s.remindersPath, raw)
}
