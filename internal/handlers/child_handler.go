package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"abracadamots/internal/models"
	"abracadamots/internal/service"
)

// ChildHandler handles child profile endpoints
type ChildHandler struct {
	childService    *service.ChildService
	settingsService *service.SettingsService
}

// NewChildHandler creates a new child handler
func NewChildHandler(childService *service.ChildService, settingsService *service.SettingsService) *ChildHandler {
	return &ChildHandler{
		childService:    childService,
		settingsService: settingsService,
	}
}

type childRequest struct {
	Name      *string `json:"name"`
	FaceColor *string `json:"faceColor"`
}

type childResponse struct {
	models.Child
	Progress models.ChildProgress `json:"progress"`
}

// ListChildren returns every child with their progress
func (h *ChildHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.childService.ListChildren(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	resp := make([]childResponse, 0, len(children))
	for _, c := range children {
		progress, err := h.childService.Progress(r.Context(), c.ID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		resp = append(resp, childResponse{Child: c, Progress: progress})
	}
	respondJSON(w, http.StatusOK, resp)
}

// CreateChild adds a child profile
func (h *ChildHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	child, err := h.childService.CreateChild(r.Context(), name)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, child)
}

// GetChild returns one child with their progress
func (h *ChildHandler) GetChild(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	child, err := h.childService.GetChild(r.Context(), childID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	progress, err := h.childService.Progress(r.Context(), childID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, childResponse{Child: *child, Progress: progress})
}

// UpdateChild renames a child and/or changes their face colour
func (h *ChildHandler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	var req childRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	child, err := h.childService.GetChild(r.Context(), childID)
	if req.Name != nil && err == nil {
		child, err = h.childService.RenameChild(r.Context(), childID, *req.Name)
	}
	if req.FaceColor != nil && err == nil {
		child, err = h.childService.UpdateChildColor(r.Context(), childID, *req.FaceColor)
	}
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// DeleteChild removes a child and their lists
func (h *ChildHandler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	if err := h.childService.DeleteChild(r.Context(), chi.URLParam(r, "childID")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectChild makes a child the one play sessions start with
func (h *ChildHandler) SelectChild(w http.ResponseWriter, r *http.Request) {
	if err := h.settingsService.SelectChild(r.Context(), chi.URLParam(r, "childID")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
