package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"abracadamots/internal/game"
)

// PlayHandler exposes the single play session of the device
type PlayHandler struct {
	runner *game.Runner
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(runner *game.Runner) *PlayHandler {
	return &PlayHandler{runner: runner}
}

type startRequest struct {
	ChildID string `json:"childId"`
}

type keyRequest struct {
	Text string `json:"text"`
}

// Routes registers the play endpoints
func (h *PlayHandler) Routes(r chi.Router) {
	r.Get("/", h.GetView)
	r.Post("/start", h.Start)
	r.Post("/tap/{index}", h.Tap)
	r.Post("/key", h.Key)
	r.Post("/hint", h.Hint)
	r.Post("/backspace", h.Backspace)
	r.Post("/shuffle", h.Shuffle)
	r.Post("/exit", h.Exit)
}

// Start begins a session for the given child, or the selected one. An
// empty body is allowed.
func (h *PlayHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body", "", nil)
		return
	}
	h.do(w, func(s *game.Session) error {
		return s.Start(r.Context(), req.ChildID)
	})
}

// GetView returns the current presentation snapshot
func (h *PlayHandler) GetView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.runner.View())
}

// Tap places the tile at the index in the path
func (h *PlayHandler) Tap(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tile index", "", nil)
		return
	}
	h.do(w, func(s *game.Session) error {
		return s.TapTile(r.Context(), index)
	})
}

// Key appends typed characters
func (h *PlayHandler) Key(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.do(w, func(s *game.Session) error {
		return s.Key(r.Context(), req.Text)
	})
}

// Hint reveals one more correct character
func (h *PlayHandler) Hint(w http.ResponseWriter, r *http.Request) {
	h.do(w, func(s *game.Session) error {
		return s.Hint(r.Context())
	})
}

// Backspace removes the last answer character
func (h *PlayHandler) Backspace(w http.ResponseWriter, r *http.Request) {
	h.do(w, (*game.Session).Backspace)
}

// Shuffle deals the tiles again
func (h *PlayHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	h.do(w, (*game.Session).Shuffle)
}

// Exit ends the session
func (h *PlayHandler) Exit(w http.ResponseWriter, r *http.Request) {
	h.do(w, func(s *game.Session) error {
		s.Exit()
		return nil
	})
}

// do runs fn on the session and answers with the resulting view
func (h *PlayHandler) do(w http.ResponseWriter, fn func(s *game.Session) error) {
	var view game.View
	err := h.runner.Do(func(s *game.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		view = s.View()
		return nil
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
