// Package api exposes the HTTP entry points for delivery adapters. Each
// endpoint maps one user action to a flow or service call and returns the
// step result or query payload as JSON.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fitcoach-bot/fitcoach/internal/models"
	"github.com/fitcoach-bot/fitcoach/internal/store"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// Pre-marshaled fallback so a marshal failure still yields valid JSON.
var fallbackErrorResponse []byte

func init() {
	var err error
	fallbackErrorResponse, err = json.Marshal(errorBody{Error: "Internal server error"})
	if err != nil {
		panic(fmt.Sprintf("failed to marshal fallback error response at startup: %v", err))
	}
}

// writeJSONResponse marshals first and writes headers only afterwards, so an
// encoding failure can still downgrade to the fallback error payload.
func writeJSONResponse(w http.ResponseWriter, statusCode int, response any) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		slog.Error("Server.writeJSONResponse: failed to marshal JSON response", "error", err)
		jsonData = fallbackErrorResponse
		statusCode = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, writeErr := w.Write(jsonData); writeErr != nil {
		slog.Error("Server.writeJSONResponse: failed to write JSON response", "error", writeErr)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, errorBody{Error: message})
}

// validationSentinels are user-input failures that map to 400.
var validationSentinels = []error{
	models.ErrMissingUserID,
	models.ErrAgeNotPositive,
	models.ErrWeightNotPositive,
	models.ErrEmptyExerciseName,
	models.ErrNoPlanEntries,
	models.ErrEmptyReminderID,
	models.ErrEmptyMessage,
}

// writeServiceError maps a service error onto an HTTP status: missing
// entities to 404, validation failures to 400, everything else to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// decodeJSONBody decodes the request body into dst, reporting a 400 on
// malformed JSON. Returns false when the response has been written.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Warn("Server: failed to decode JSON body", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return false
	}
	return true
}
