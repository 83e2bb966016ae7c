package handlers

import (
	"net/http"
	"time"

	"abracadamots/internal/security"
	"abracadamots/internal/service"
)

// AuthHandler handles the caregiver PIN gate
type AuthHandler struct {
	authService *service.AuthService
	limiter     *security.RateLimiter
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, limiter *security.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
	}
}

type loginRequest struct {
	PIN string `json:"pin"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type setPINRequest struct {
	CurrentPIN string `json:"currentPin"`
	NewPIN     string `json:"newPin"`
}

// Login exchanges the caregiver PIN for a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(security.GetClientIP(r)) {
		respondWithError(w, http.StatusTooManyRequests, "Too many login attempts", "", nil)
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, expiresAt, err := h.authService.Login(r.Context(), req.PIN)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt})
}

// SetPIN sets or changes the caregiver PIN
func (h *AuthHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req setPINRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.authService.SetPIN(r.Context(), req.CurrentPIN, req.NewPIN); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
