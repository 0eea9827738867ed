package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fitcoach-bot/fitcoach/internal/flow"
	"github.com/fitcoach-bot/fitcoach/internal/genai"
	"github.com/fitcoach-bot/fitcoach/internal/progress"
	"github.com/fitcoach-bot/fitcoach/internal/reminder"
	"github.com/fitcoach-bot/fitcoach/internal/state"
	"github.com/fitcoach-bot/fitcoach/internal/store"
	"github.com/fitcoach-bot/fitcoach/internal/workout"
)

// Server wires the flow controllers and domain services to HTTP endpoints.
// It is transport-plumbing only: every handler decodes input, calls exactly
// one flow or service method and writes the result.
type Server struct {
	store       store.Store
	profileFlow *flow.ProfileFlow
	workoutFlow *flow.WorkoutFlow
	workouts    *workout.Service
	planBuilder *workout.PlanBuilder
	planner     *workout.Planner
	progress    *progress.Service
	reminders   *reminder.Service
	assistant   *genai.Client
}

// NewServer builds the flow controllers and services over the given
// dependencies.
func NewServer(st store.Store, states *state.Store, assistant *genai.Client, reminders *reminder.Service) *Server {
	return &Server{
		store:       st,
		profileFlow: flow.NewProfileFlow(states, st),
		workoutFlow: flow.NewWorkoutFlow(states, st),
		workouts:    workout.NewService(st),
		planBuilder: workout.NewPlanBuilder(st),
		planner:     workout.NewPlanner(st, assistant),
		progress:    progress.NewService(st),
		reminders:   reminders,
		assistant:   assistant,
	}
}

// Handler returns the route table as an http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthHandler)

	mux.HandleFunc("/api/profile", s.profileGetHandler)
	mux.HandleFunc("/api/profile/flow/start", s.profileStartHandler)
	mux.HandleFunc("/api/profile/flow/edit", s.profileEditHandler)
	mux.HandleFunc("/api/profile/flow/input", s.profileInputHandler)
	mux.HandleFunc("/api/profile/flow/select", s.profileSelectHandler)
	mux.HandleFunc("/api/profile/flow/save", s.profileSaveHandler)
	mux.HandleFunc("/api/profile/flow/cancel", s.profileCancelHandler)

	mux.HandleFunc("/api/workout/flow/start", s.workoutStartHandler)
	mux.HandleFunc("/api/workout/flow/day", s.workoutDayHandler)
	mux.HandleFunc("/api/workout/flow/categories", s.workoutCategoriesHandler)
	mux.HandleFunc("/api/workout/flow/category", s.workoutCategoryHandler)
	mux.HandleFunc("/api/workout/flow/exercise/select", s.workoutExerciseSelectHandler)
	mux.HandleFunc("/api/workout/flow/exercise/name", s.workoutExerciseNameHandler)
	mux.HandleFunc("/api/workout/flow/reps", s.workoutRepsHandler)
	mux.HandleFunc("/api/workout/flow/sets", s.workoutSetsHandler)
	mux.HandleFunc("/api/workout/flow/weight", s.workoutWeightHandler)
	mux.HandleFunc("/api/workout/flow/weight/skip", s.workoutWeightSkipHandler)
	mux.HandleFunc("/api/workout/flow/add", s.workoutAddHandler)
	mux.HandleFunc("/api/workout/flow/save", s.workoutSaveHandler)
	mux.HandleFunc("/api/workout/flow/cancel", s.workoutCancelHandler)

	mux.HandleFunc("/api/workouts", s.workoutsListHandler)
	mux.HandleFunc("/api/workouts/entry", s.workoutEntryHandler)
	mux.HandleFunc("/api/workouts/update", s.workoutUpdateHandler)
	mux.HandleFunc("/api/workouts/delete", s.workoutDeleteHandler)
	mux.HandleFunc("/api/workouts/generate", s.workoutGenerateHandler)
	mux.HandleFunc("/api/workouts/templates", s.workoutTemplatesHandler)

	mux.HandleFunc("/api/plans", s.plansListHandler)
	mux.HandleFunc("/api/plans/active", s.plansActiveHandler)
	mux.HandleFunc("/api/plans/deactivate", s.planDeactivateHandler)
	mux.HandleFunc("/api/plans/from-workouts", s.planFromWorkoutsHandler)
	mux.HandleFunc("/api/plans/generate", s.planGenerateHandler)

	mux.HandleFunc("/api/executions", s.executionsHandler)
	mux.HandleFunc("/api/exercises/stats", s.exerciseStatsHandler)

	mux.HandleFunc("/api/progress", s.progressHandler)
	mux.HandleFunc("/api/progress/summary", s.progressSummaryHandler)

	mux.HandleFunc("/api/reminders", s.remindersHandler)
	mux.HandleFunc("/api/reminders/delete", s.reminderDeleteHandler)

	mux.HandleFunc("/api/ask", s.askHandler)

	return mux
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
