package flow

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fitcoach-bot/fitcoach/internal/models"
)

// Free-text input parsers. Error messages are user-facing re-prompt text.

var (
	errNotANumber  = errors.New("please enter a number")
	errNotADecimal = errors.New("please enter a number (decimal point allowed)")
)

// ParseAge parses and range-checks an age input.
func ParseAge(s string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errNotANumber
	}
	if age < models.MinAge {
		return 0, errors.New("age must be at least 10")
	}
	if age > models.MaxAge {
		return 0, errors.New("age must be at most 100")
	}
	return age, nil
}

// ParseBodyWeight parses a body weight in kg. A comma decimal separator is
// accepted.
func ParseBodyWeight(s string) (float64, error) {
	weight, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, errNotADecimal
	}
	if weight < models.MinBodyWeight {
		return 0, errors.New("weight must be at least 20 kg")
	}
	if weight > models.MaxBodyWeight {
		return 0, errors.New("weight must be at most 300 kg")
	}
	return weight, nil
}

// ParseReps parses and range-checks a repetition count.
func ParseReps(s string) (int, error) {
	reps, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errNotANumber
	}
	if reps < models.MinReps {
		return 0, errors.New("repetitions must be at least 1")
	}
	if reps > models.MaxReps {
		return 0, errors.New("repetitions must be at most 100")
	}
	return reps, nil
}

// ParseSets parses and range-checks a set count.
func ParseSets(s string) (int, error) {
	sets, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errNotANumber
	}
	if sets < models.MinSets {
		return 0, errors.New("sets must be at least 1")
	}
	if sets > models.MaxSets {
		return 0, errors.New("sets must be at most 10")
	}
	return sets, nil
}

// ParseExerciseWeight parses an exercise weight in kg. Zero means bodyweight
// and is returned as nil. A comma decimal separator is accepted.
func ParseExerciseWeight(s string) (*float64, error) {
	weight, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return nil, errors.New("please enter a number (decimal point allowed) or 0")
	}
	if weight < 0 {
		return nil, errors.New("weight cannot be negative")
	}
	if weight > models.MaxExerciseWeight {
		return nil, errors.New("weight must be at most 500 kg")
	}
	if weight == 0 {
		return nil, nil
	}
	return &weight, nil
}
