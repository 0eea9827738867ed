// Package flow implements the guided multi-step interactions: profile
// creation and workout creation. Each controller consumes one user event at
// a time and returns a presentation-neutral StepResult; the delivery adapter
// renders the text and options for its channel.
//
// Controllers keep all between-step data in the state store. An absent or
// expired state is a normal outcome: the user gets a restart prompt, never
// an error.
package flow

import (
	"fmt"

	"github.com/fitcoach-bot/fitcoach/internal/models"
)

// Option is one selectable choice offered with a step. Data is the opaque
// callback value the adapter sends back on selection.
type Option struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// StepResult is the outcome of one flow step. Done marks the flow as
// finished (saved or cancelled); the adapter should stop expecting input.
type StepResult struct {
	Text    string   `json:"text"`
	Options []Option `json:"options,omitempty"`
	Done    bool     `json:"done"`
}

// restartResult is returned when the flow state is gone. The interaction is
// over from the controller's point of view; the user starts fresh.
func restartResult(startHint string) StepResult {
	return StepResult{
		Text: "Session expired. Start again with " + startHint + ".",
		Done: true,
	}
}

// retryResult wraps a validation failure into a same-step re-prompt.
func retryResult(err error) StepResult {
	return StepResult{Text: fmt.Sprintf("%s\n\nTry again:", err)}
}

func cancelOption() Option {
	return Option{Label: "Cancel", Data: "cancel"}
}

func weekdayOptions() []Option {
	labels := map[models.Weekday]string{
		models.Monday:    "Monday",
		models.Tuesday:   "Tuesday",
		models.Wednesday: "Wednesday",
		models.Thursday:  "Thursday",
		models.Friday:    "Friday",
		models.Saturday:  "Saturday",
		models.Sunday:    "Sunday",
	}
	options := make([]Option, 0, len(models.Weekdays)+1)
	for _, day := range models.Weekdays {
		options = append(options, Option{Label: labels[day], Data: string(day)})
	}
	return append(options, cancelOption())
}
