package store

import (
	"strings"

	"github.com/fitcoach-bot/fitcoach/internal/models"
)

// collectExerciseProgress flattens per-exercise actuals out of an execution
// list, matching the exercise name case-insensitively. Order follows the
// execution history.
func collectExerciseProgress(executions []models.WorkoutExecution, exerciseName string) []models.ExerciseProgress {
	var history []models.ExerciseProgress
	for _, execution := range executions {
		for _, progress := range execution.ExercisesProgress {
			if strings.EqualFold(progress.ExerciseName, exerciseName) {
				history = append(history, progress)
			}
		}
	}
	return history
}
