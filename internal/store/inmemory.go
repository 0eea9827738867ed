package store

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fitcoach-bot/fitcoach/internal/models"
)

// InMemoryStore keeps all entities in process memory. It mirrors the file
// backend's observable semantics exactly and is intended for tests and
// throwaway deployments; nothing survives a restart.
type InMemoryStore struct {
	mu        sync.Mutex
	profiles  map[string]models.UserProfile
	workouts  map[string]*workoutData
	progress  map[string]*progressData
	reminders map[string]map[string]models.ReminderConfig
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	slog.Debug("InMemoryStore initialized")
	return &InMemoryStore{
		profiles:  make(map[string]models.UserProfile),
		workouts:  make(map[string]*workoutData),
		progress:  make(map[string]*progressData),
		reminders: make(map[string]map[string]models.ReminderConfig),
	}
}

func (s *InMemoryStore) workoutDoc(userID string) *workoutData {
	doc, ok := s.workouts[userID]
	if !ok {
		doc = &workoutData{}
		s.workouts[userID] = doc
	}
	return doc
}

func (s *InMemoryStore) progressDoc(userID string) *progressData {
	doc, ok := s.progress[userID]
	if !ok {
		doc = &progressData{}
		s.progress[userID] = doc
	}
	return doc
}

func (s *InMemoryStore) GetProfile(userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (s *InMemoryStore) SaveProfile(profile models.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *InMemoryStore) SaveWorkoutPlan(plan models.WorkoutPlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.workoutDoc(plan.UserID)
	for i := range doc.Plans {
		if doc.Plans[i].PlanID == plan.PlanID {
			doc.Plans[i] = plan
			return nil
		}
	}
	doc.Plans = append(doc.Plans, plan)
	return nil
}

func (s *InMemoryStore) GetWorkoutPlans(userID string) ([]models.WorkoutPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WorkoutPlan(nil), s.workoutDoc(userID).Plans...), nil
}

func (s *InMemoryStore) GetActivePlans(userID string) ([]models.WorkoutPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []models.WorkoutPlan
	for _, plan := range s.workoutDoc(userID).Plans {
		if plan.IsActive {
			active = append(active, plan)
		}
	}
	return active, nil
}

func (s *InMemoryStore) DeactivatePlan(userID, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.workoutDoc(userID)
	for i := range doc.Plans {
		if doc.Plans[i].PlanID == planID {
			doc.Plans[i].IsActive = false
			break
		}
	}
	return nil
}

func (s *InMemoryStore) SaveStandaloneWorkout(userID string, entry models.WorkoutEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.workoutDoc(userID)
	for i := range doc.Standalone {
		if doc.Standalone[i].EntryID == entry.EntryID {
			doc.Standalone[i] = entry
			return nil
		}
	}
	doc.Standalone = append(doc.Standalone, entry)
	return nil
}

func (s *InMemoryStore) GetWorkoutEntry(userID, entryID string) (*models.WorkoutEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry := findEntry(s.workoutDoc(userID), entryID); entry != nil {
		found := *entry
		return &found, nil
	}
	return nil, nil
}

func (s *InMemoryStore) GetWorkoutEntriesByDay(userID string, day models.Weekday) ([]models.WorkoutEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.workoutDoc(userID)
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

func (s *InMemoryStore) GetAllWorkoutEntries(userID string) ([]models.WorkoutEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.workoutDoc(userID)
	var result []models.WorkoutEntry
	for _, plan := range doc.Plans {
		result = append(result, plan.Entries...)
	}
	result = append(result, doc.Standalone...)
	return result, nil
}

func (s *InMemoryStore) UpdateWorkoutEntry(userID, entryID string, entry models.WorkoutEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target := findEntry(s.workoutDoc(userID), entryID)
	if target == nil {
		return fmt.Errorf("workout entry %s: %w", entryID, ErrNotFound)
	}
	*target = entry
	return nil
}

func (s *InMemoryStore) DeleteWorkoutEntry(userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.workoutDoc(userID)
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
	return nil
}

func (s *InMemoryStore) SaveWorkoutExecution(execution models.WorkoutExecution) error {
	if err := execution.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.progressDoc(execution.UserID)
	doc.WorkoutExecutions = append(doc.WorkoutExecutions, execution)

	entry := findEntry(s.workoutDoc(execution.UserID), execution.WorkoutEntryID)
	if entry == nil {
		slog.Warn("InMemoryStore execution references missing entry, statistics skipped",
			"userID", execution.UserID, "entryID", execution.WorkoutEntryID)
		return nil
	}
	entry.CompletionCount++
	completed := execution.ExecutionDate
	entry.LastCompleted = &completed
	return nil
}

func (s *InMemoryStore) GetWorkoutExecutions(userID, entryID string) ([]models.WorkoutExecution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.progressDoc(userID)
	if entryID == "" {
		return append([]models.WorkoutExecution(nil), doc.WorkoutExecutions...), nil
	}
	var filtered []models.WorkoutExecution
	for _, execution := range doc.WorkoutExecutions {
		if execution.WorkoutEntryID == entryID {
			filtered = append(filtered, execution)
		}
	}
	return filtered, nil
}

func (s *InMemoryStore) GetExerciseProgressHistory(userID, exerciseName string) ([]models.ExerciseProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collectExerciseProgress(s.progressDoc(userID).WorkoutExecutions, exerciseName), nil
}

func (s *InMemoryStore) AddProgressEntry(entry models.ProgressEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.progressDoc(entry.UserID)
	doc.BodyProgress = append(doc.BodyProgress, entry)
	return nil
}

func (s *InMemoryStore) ListProgress(userID string) ([]models.ProgressEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ProgressEntry(nil), s.progressDoc(userID).BodyProgress...), nil
}

func (s *InMemoryStore) SaveReminder(reminder models.ReminderConfig) error {
	if err := reminder.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	userReminders, ok := s.reminders[reminder.UserID]
	if !ok {
		userReminders = make(map[string]models.ReminderConfig)
		s.reminders[reminder.UserID] = userReminders
	}
	userReminders[reminder.ReminderID] = reminder
	return nil
}

func (s *InMemoryStore) ListReminders(userID string) ([]models.ReminderConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userReminders := s.reminders[userID]
	if len(userReminders) == 0 {
		return nil, nil
	}
	reminders := make([]models.ReminderConfig, 0, len(userReminders))
	for _, reminder := range userReminders {
		reminders = append(reminders, reminder)
	}
	return reminders, nil
}

func (s *InMemoryStore) AllReminders() ([]models.ReminderConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reminders []models.ReminderConfig
	for _, userReminders := range s.reminders {
		for _, reminder := range userReminders {
			reminders = append(reminders, reminder)
		}
	}
	return reminders, nil
}

func (s *InMemoryStore) DeleteReminder(userID, reminderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userReminders, ok := s.reminders[userID]; ok {
		delete(userReminders, reminderID)
	}
	return nil
}
