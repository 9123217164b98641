package helpers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cove_server/services"
)

// WriteJSONResponse writes a JSON body with the given status code
func WriteJSONResponse(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// WriteErrorResponse writes a JSON error body
func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, map[string]string{"error": message})
}

// WriteServiceError maps service sentinel errors to HTTP statuses.
// Anything unrecognized is a backend failure.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		WriteErrorResponse(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrEmptyPool):
		WriteErrorResponse(w, http.StatusNotFound, "no memories in this cove yet")
	case errors.Is(err, services.ErrAlreadyMember):
		WriteErrorResponse(w, http.StatusConflict, "you are already a member of this cove")
	case errors.Is(err, services.ErrAlreadyOwner):
		WriteErrorResponse(w, http.StatusConflict, "you cannot join a cove you own")
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrNotMember):
		WriteErrorResponse(w, http.StatusForbidden, "not allowed")
	case errors.Is(err, services.ErrCodeCollision):
		WriteErrorResponse(w, http.StatusServiceUnavailable, "could not allocate a join code, please retry")
	case errors.Is(err, services.ErrConditionFailed):
		WriteErrorResponse(w, http.StatusConflict, "conflicting update, please retry")
	default:
		log.Printf("internal error: %v", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}
