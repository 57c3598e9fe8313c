package helpers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"voxlink_server/services"
)

// APIResponse is the uniform envelope every endpoint returns
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// WriteJSONResponse writes a JSON body with the given status code
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// WriteJSONError maps a service failure to a status code and envelope.
// Unexpected failures are logged and surfaced as a generic message;
// details leak only when APP_ENV=development.
func WriteJSONError(w http.ResponseWriter, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case services.IsInvalidInput(err):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		log.Printf("❌ %s: %v", fallback, err)
	}

	response := APIResponse{Success: false, Message: message}
	if status == http.StatusInternalServerError && os.Getenv("APP_ENV") == "development" {
		response.Error = err.Error()
	}
	WriteJSONResponse(w, status, response)
}
