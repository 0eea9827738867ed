package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/workout"
)

// offTopicAnswer is returned when a question falls outside the coaching
// domain.
const offTopicAnswer = "I can only help with fitness, training, nutrition and recovery questions. Ask me something about your workouts."

// queryUserID extracts the mandatory user_id query parameter. Returns an
// empty string after writing a 400 when it is missing.
func queryUserID(w http.ResponseWriter, r *http.Request) string {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
	}
	return userID
}

func (s *Server) profileGetHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := queryUserID(w, r)
	if userID == "" {
		return
	}
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		slog.Error("Server.profileGetHandler: failed to load profile", "error", err, "userID", userID)
		writeServiceError(w, err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSONResponse(w, http.StatusOK, profile)
}

func (s *Server) workoutsListHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := queryUserID(w, r)
	if userID == "" {
		return
	}
	day := r.URL.Query().Get("day")

	var entries []models.WorkoutEntry
	var err error
	if day == "" {
		entries, err = s.store.GetAllWorkoutEntries(userID)
	} else {
		if !models.IsValidWeekday(models.Weekday(day)) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid day %q", day))
			return
		}
		entries, err = s.store.GetWorkoutEntriesByDay(userID, models.Weekday(day))
	}
	if err != nil {
		slog.Error("Server.workoutsListHandler: failed to list workouts", "error", err, "userID", userID)
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"workouts": entries})
}

func (s *Server) workoutEntryHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := queryUserID(w, r)
	if userID == "" {
		return
	}
	entryID := r.URL.Query().Get("entry_id")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "entry_id is required")
		return
	}
	entry, err := s.store.GetWorkoutEntry(userID, entryID)
	if err != nil {
		slog.Error("Server.workoutEntryHandler: failed to load entry", "error", err, "userID", userID)
		writeServiceError(w, err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "workout entry not found")
		return
	}
	writeJSONResponse(w, http.StatusOK, entry)
}

func (s *Server) workoutUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID  string              `json:"user_id"`
		EntryID string              `json:"entry_id"`
		Entry   models.WorkoutEntry `json:"entry"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.EntryID == "" {
		writeError(w, http.StatusBadRequest, "entry_id is required")
		return
	}
	req.Entry.EntryID = req.EntryID
	req.Entry.EnsureIDs()
	if err := s.store.UpdateWorkoutEntry(req.UserID, req.EntryID, req.Entry); err != nil {
		slog.Error("Server.workoutUpdateHandler: failed to update entry", "error", err, "userID", req.UserID)
		writeServiceError(w, err)
		return
	}
	slog.Info("Server workout entry updated", "userID", req.UserID, "entryID", req.EntryID)
	writeJSONResponse(w, http.StatusOK, req.Entry)
}

func (s *Server) workoutDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID  string `json:"user_id"`
		EntryID string `json:"entry_id"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.EntryID == "" {
		writeError(w, http.StatusBadRequest, "entry_id is required")
		return
	}
	if err := s.store.DeleteWorkoutEntry(req.UserID, req.EntryID); err != nil {
		slog.Error("Server.workoutDeleteHandler: failed to delete entry", "error", err, "userID", req.UserID)
		writeServiceError(w, err)
		return
	}
	slog.Info("Server workout entry deleted", "userID", req.UserID, "entryID", req.EntryID)
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) workoutGenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID     string `json:"user_id"`
		Focus      string `json:"focus"`
		TemplateID string `json:"template_id"`
		Save       bool   `json:"save"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	profile, err := s.store.GetProfile(req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found, set up a profile first")
		return
	}
	entry := s.workouts.GenerateDailyWorkout(profile, req.Focus, req.TemplateID)
	if req.Save {
		if err := s.workouts.SaveStandaloneWorkout(req.UserID, entry); err != nil {
			slog.Error("Server.workoutGenerateHandler: failed to save generated workout", "error", err, "userID", req.UserID)
			writeServiceError(w, err)
			return
		}
	}
	slog.Info("Server workout generated", "userID", req.UserID, "focus", req.Focus, "saved", req.Save)
	writeJSONResponse(w, http.StatusOK, entry)
}

func (s *Server) workoutTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := queryUserID(w, r)
	if userID == "" {
		return
	}
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found, set up a profile first")
		return
	}
	templates := s.workouts.AvailableTemplates(profile, r.URL.Query().Get("focus"))
	writeJSONResponse(w, http.StatusOK, map[string]any{"templates": templates})
}

func (s *Server) plansListHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := queryUserID(w, r)
	if userID == "" {
		return
	}
	plans, err := s.store.GetWorkoutPlans(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"plans": plans})
}

func (s *Server) plansActiveHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := queryUserID(w, r)
	if userID == "" {
		return
	}
	plans, err := s.store.GetActivePlans(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"plans": plans})
}

func (s *Server) planDeactivateHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID string `json:"user_id"`
		PlanID string `json:"plan_id"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.PlanID == "" {
		writeError(w, http.StatusBadRequest, "plan_id is required")
		return
	}
	if err := s.store.DeactivatePlan(req.UserID, req.PlanID); err != nil {
		writeServiceError(w, err)
		return
	}
	slog.Info("Server plan deactivated", "userID", req.UserID, "planID", req.PlanID)
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (s *Server) planFromWorkoutsHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID        string            `json:"user_id"`
		Name          string            `json:"name"`
		WorkoutsByDay map[string]string `json:"workouts_by_day"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	byDay := make(map[models.Weekday]string, len(req.WorkoutsByDay))
	for day, entryID := range req.WorkoutsByDay {
		weekday := models.Weekday(day)
		if !models.IsValidWeekday(weekday) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid day %q", day))
			return
		}
		byDay[weekday] = entryID
	}
	plan, err := s.planBuilder.CreatePlanFromWorkouts(req.UserID, byDay, req.Name)
	if err != nil {
		slog.Error("Server.planFromWorkoutsHandler: failed to create plan", "error", err, "userID", req.UserID)
		writeServiceError(w, err)
		return
	}
	slog.Info("Server plan created from workouts", "userID", req.UserID, "planID", plan.PlanID)
	writeJSONResponse(w, http.StatusOK, plan)
}

func (s *Server) planGenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req userRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	profile, err := s.store.GetProfile(req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found, set up a profile first")
		return
	}
	plan, err := s.planner.BuildWeeklyPlan(r.Context(), profile)
	if err != nil {
		slog.Error("Server.planGenerateHandler: failed to generate plan", "error", err, "userID", req.UserID)
		switch {
		case errors.Is(err, workout.ErrAssistantUnavailable):
			writeError(w, http.StatusServiceUnavailable, "plan generation is unavailable, no assistant configured")
		case errors.Is(err, workout.ErrEmptyPlan):
			writeError(w, http.StatusBadGateway, "the assistant returned an unusable plan, try again")
		default:
			writeServiceError(w, err)
		}
		return
	}
	slog.Info("Server weekly plan generated", "userID", req.UserID, "planID", plan.PlanID, "entries", len(plan.Entries))
	writeJSONResponse(w, http.StatusOK, plan)
}

func (s *Server) executionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var execution models.WorkoutExecution
		if !decodeJSONBody(w, r, &execution) {
			return
		}
		execution.EnsureID()
		if err := s.store.SaveWorkoutExecution(execution); err != nil {
			slog.Error("Server.executionsHandler: failed to record execution", "error", err, "userID", execution.UserID)
			writeServiceError(w, err)
			return
		}
		slog.Info("Server workout execution recorded", "userID", execution.UserID, "entryID", execution.WorkoutEntryID)
		writeJSONResponse(w, http.StatusOK, execution)
	case http.MethodGet:
		userID := queryUserID(w, r)
		if userID == "" {
			return
		}
		executions, err := s.progress.WorkoutHistory(userID, r.URL.Query().Get("entry_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, map[string]any{"executions": executions})
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) exerciseStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := queryUserID(w, r)
	if userID == "" {
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	stats, err := s.progress.ExerciseStats(userID, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	history, err := s.store.GetExerciseProgressHistory(userID, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"stats": stats, "history": history})
}

func (s *Server) progressHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var entry models.ProgressEntry
		if !decodeJSONBody(w, r, &entry) {
			return
		}
		if err := s.progress.Add(entry); err != nil {
			slog.Error("Server.progressHandler: failed to add progress entry", "error", err, "userID", entry.UserID)
			writeServiceError(w, err)
			return
		}
		slog.Info("Server progress entry recorded", "userID", entry.UserID)
		writeJSONResponse(w, http.StatusOK, entry)
	case http.MethodGet:
		userID := queryUserID(w, r)
		if userID == "" {
			return
		}
		entries, err := s.progress.List(userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, map[string]any{"progress": entries})
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) progressSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := queryUserID(w, r)
	if userID == "" {
		return
	}
	summary, err := s.progress.Summarize(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, summary)
}

func (s *Server) remindersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var reminderConfig models.ReminderConfig
		if !decodeJSONBody(w, r, &reminderConfig) {
			return
		}
		if reminderConfig.ReminderID == "" {
			reminderConfig.ReminderID = models.NewID()
		}
		if err := s.reminders.Schedule(reminderConfig); err != nil {
			slog.Error("Server.remindersHandler: failed to schedule reminder", "error", err, "userID", reminderConfig.UserID)
			writeServiceError(w, err)
			return
		}
		slog.Info("Server reminder scheduled", "userID", reminderConfig.UserID, "reminderID", reminderConfig.ReminderID)
		writeJSONResponse(w, http.StatusOK, reminderConfig)
	case http.MethodGet:
		userID := queryUserID(w, r)
		if userID == "" {
			return
		}
		reminders, err := s.reminders.List(userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, map[string]any{"reminders": reminders})
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) reminderDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID     string `json:"user_id"`
		ReminderID string `json:"reminder_id"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.ReminderID == "" {
		writeError(w, http.StatusBadRequest, "reminder_id is required")
		return
	}
	if err := s.reminders.Cancel(req.UserID, req.ReminderID); err != nil {
		writeServiceError(w, err)
		return
	}
	slog.Info("Server reminder cancelled", "userID", req.UserID, "reminderID", req.ReminderID)
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) askHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID   string `json:"user_id"`
		Question string `json:"question"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if !s.assistant.Relevant(req.Question) {
		writeJSONResponse(w, http.StatusOK, map[string]string{"answer": offTopicAnswer})
		return
	}

	profileContext := ""
	if profile, err := s.store.GetProfile(req.UserID); err == nil && profile != nil {
		profileContext = describeProfile(profile)
	}
	answer, err := s.assistant.GenerateAnswer(r.Context(), req.Question, profileContext)
	if err != nil {
		slog.Error("Server.askHandler: answer generation failed", "error", err, "userID", req.UserID)
		writeError(w, http.StatusBadGateway, "answer generation failed, try again later")
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"answer": answer})
}

// describeProfile renders the profile as a compact context line for the
// assistant.
func describeProfile(p *models.UserProfile) string {
	return fmt.Sprintf("Age %d, gender %s, weight %g kg, goal %s, experience %s, trains %s, preferred duration %s.",
		p.Age, p.Gender, p.Weight, p.Goal, p.Experience, p.PreferredLocation, p.WorkoutTime)
}
