package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"abracadamots/internal/game"
	"abracadamots/internal/models"
	"abracadamots/internal/security"
	"abracadamots/internal/service"
	"abracadamots/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).Int("status", status).Msg(logMsg)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps a service or engine error to a status code
func respondWithServiceError(w http.ResponseWriter, err error) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidSettings):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, models.ErrChildNotFound):
		respondWithError(w, http.StatusNotFound, "Child not found", "", nil)
	case errors.Is(err, service.ErrListNotFound):
		respondWithError(w, http.StatusNotFound, "List not found", "", nil)
	case errors.Is(err, game.ErrNoActiveSession):
		respondWithError(w, http.StatusConflict, "No active session", "", nil)
	case errors.Is(err, game.ErrNoChildSelected):
		respondWithError(w, http.StatusConflict, "No child selected", "", nil)
	case errors.Is(err, service.ErrInvalidPIN), errors.Is(err, security.ErrInvalidToken):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "", nil)
	case errors.Is(err, service.ErrAuthDisabled):
		respondWithError(w, http.StatusNotFound, "Caregiver login is disabled", "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", "", nil)
		return false
	}
	return true
}
