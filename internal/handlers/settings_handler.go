package handlers

import (
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"

	"abracadamots/internal/models"
	"abracadamots/internal/service"
)

// SettingsHandler handles settings and backup endpoints
type SettingsHandler struct {
	settingsService *service.SettingsService
	backupService   *service.BackupService
	clock           clockwork.Clock
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService, backupService *service.BackupService, clock clockwork.Clock) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		backupService:   backupService,
		clock:           clock,
	}
}

// GetSettings returns the settings record
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// SaveSettings replaces the settings record. Settings apply from the next
// play session on.
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req models.Settings
	if !decodeJSON(w, r, &req) {
		return
	}
	saved, err := h.settingsService.SaveSettings(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// Export downloads the full data snapshot
func (h *SettingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("abracadamots-%s.json", h.clock.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := h.backupService.ExportToWriter(r.Context(), w); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Export failed", "", err)
	}
}

// Import replaces all data with the uploaded snapshot
func (h *SettingsHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := h.backupService.ImportFromReader(r.Context(), r.Body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Import failed", "", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
