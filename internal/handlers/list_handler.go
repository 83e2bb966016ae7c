package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"abracadamots/internal/service"
)

// ListHandler handles word list endpoints
type ListHandler struct {
	listService *service.ListService
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

// listRequest carries the list name and its words, one per line
type listRequest struct {
	Name  string `json:"name"`
	Words string `json:"words"`
}

type toggleResponse struct {
	IsSelected bool `json:"isSelected"`
}

// GetChildLists returns a child's lists
func (h *ListHandler) GetChildLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.listService.GetChildLists(r.Context(), chi.URLParam(r, "childID"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lists)
}

// CreateList adds a list for a child
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	list, err := h.listService.CreateList(r.Context(), chi.URLParam(r, "childID"), req.Name, req.Words)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, list)
}

// GetList returns one list
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	list, err := h.listService.GetList(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// UpdateList renames a list and replaces its words
func (h *ListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	list, err := h.listService.UpdateList(r.Context(), chi.URLParam(r, "listID"), req.Name, req.Words)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// DeleteList removes a list
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.listService.DeleteList(r.Context(), chi.URLParam(r, "listID")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleList flips whether a list is used in play sessions
func (h *ListHandler) ToggleList(w http.ResponseWriter, r *http.Request) {
	selected, err := h.listService.ToggleListSelection(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toggleResponse{IsSelected: selected})
}
