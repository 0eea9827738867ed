package api

import (
	"log/slog"
	"net/http"

	"github.com/fitcoach-bot/fitcoach/internal/flow"
)

// userRequest is the common body for flow endpoints that only need the user.
type userRequest struct {
	UserID string `json:"user_id"`
}

// textRequest carries free-text input for the current flow step.
type textRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// selectRequest carries a button selection for the current flow step.
type selectRequest struct {
	UserID string `json:"user_id"`
	Value  string `json:"value"`
}

// requirePost rejects non-POST requests. Returns false when the response has
// been written.
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// requireGet rejects non-GET requests.
func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// writeStepResult writes a flow step outcome. Flow-level conditions such as
// expired state or invalid input are ordinary step results and stay 200; only
// infrastructure failures surface as errors.
func writeStepResult(w http.ResponseWriter, op string, result flow.StepResult, err error) {
	if err != nil {
		slog.Error("Server flow step failed", "error", err, "op", op)
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

func (s *Server) profileStartHandler(w http.ResponseWriter, r *http.Request) {
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
	slog.Debug("Server.profileStartHandler: starting profile flow", "userID", req.UserID)
	result, err := s.profileFlow.Start(req.UserID)
	writeStepResult(w, "profile.start", result, err)
}

func (s *Server) profileEditHandler(w http.ResponseWriter, r *http.Request) {
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
	result, err := s.profileFlow.Edit(req.UserID)
	writeStepResult(w, "profile.edit", result, err)
}

func (s *Server) profileInputHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req textRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	result, err := s.profileFlow.SubmitText(req.UserID, req.Text)
	writeStepResult(w, "profile.input", result, err)
}

func (s *Server) profileSelectHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req selectRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	result, err := s.profileFlow.SelectOption(req.UserID, req.Value)
	writeStepResult(w, "profile.select", result, err)
}

func (s *Server) profileSaveHandler(w http.ResponseWriter, r *http.Request) {
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
	result, err := s.profileFlow.Save(req.UserID)
	writeStepResult(w, "profile.save", result, err)
}

func (s *Server) profileCancelHandler(w http.ResponseWriter, r *http.Request) {
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
	result, err := s.profileFlow.Cancel(req.UserID)
	writeStepResult(w, "profile.cancel", result, err)
}

func (s *Server) workoutStartHandler(w http.ResponseWriter, r *http.Request) {
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
	slog.Debug("Server.workoutStartHandler: starting workout flow", "userID", req.UserID)
	result, err := s.workoutFlow.Start(req.UserID)
	writeStepResult(w, "workout.start", result, err)
}

func (s *Server) workoutDayHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID string `json:"user_id"`
		Day    string `json:"day"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	result, err := s.workoutFlow.SelectDay(req.UserID, req.Day)
	writeStepResult(w, "workout.day", result, err)
}

func (s *Server) workoutCategoriesHandler(w http.ResponseWriter, r *http.Request) {
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
	result, err := s.workoutFlow.ShowCategories(req.UserID)
	writeStepResult(w, "workout.categories", result, err)
}

func (s *Server) workoutCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID   string `json:"user_id"`
		Category string `json:"category"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	result, err := s.workoutFlow.SelectCategory(req.UserID, req.Category)
	writeStepResult(w, "workout.category", result, err)
}

func (s *Server) workoutExerciseSelectHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID string `json:"user_id"`
		Index  int    `json:"index"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	result, err := s.workoutFlow.SelectExercise(req.UserID, req.Index)
	writeStepResult(w, "workout.exercise.select", result, err)
}

func (s *Server) workoutExerciseNameHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID string `json:"user_id"`
		Name   string `json:"name"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	result, err := s.workoutFlow.SubmitExerciseName(req.UserID, req.Name)
	writeStepResult(w, "workout.exercise.name", result, err)
}

func (s *Server) workoutRepsHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req textRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	result, err := s.workoutFlow.SubmitReps(req.UserID, req.Text)
	writeStepResult(w, "workout.reps", result, err)
}

func (s *Server) workoutSetsHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req textRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	result, err := s.workoutFlow.SubmitSets(req.UserID, req.Text)
	writeStepResult(w, "workout.sets", result, err)
}

func (s *Server) workoutWeightHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req textRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	result, err := s.workoutFlow.SubmitWeight(req.UserID, req.Text)
	writeStepResult(w, "workout.weight", result, err)
}

func (s *Server) workoutWeightSkipHandler(w http.ResponseWriter, r *http.Request) {
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
	result, err := s.workoutFlow.SkipWeight(req.UserID)
	writeStepResult(w, "workout.weight.skip", result, err)
}

func (s *Server) workoutAddHandler(w http.ResponseWriter, r *http.Request) {
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
	result, err := s.workoutFlow.AddAnother(req.UserID)
	writeStepResult(w, "workout.add", result, err)
}

func (s *Server) workoutSaveHandler(w http.ResponseWriter, r *http.Request) {
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
	result, err := s.workoutFlow.Save(req.UserID)
	writeStepResult(w, "workout.save", result, err)
}

func (s *Server) workoutCancelHandler(w http.ResponseWriter, r *http.Request) {
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
	result, err := s.workoutFlow.Cancel(req.UserID)
	writeStepResult(w, "workout.cancel", result, err)
}
