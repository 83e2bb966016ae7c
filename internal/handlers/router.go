package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router serves
type Handlers struct {
	Play     *PlayHandler
	Auth     *AuthHandler
	Children *ChildHandler
	Lists    *ListHandler
	Settings *SettingsHandler

	// Gate guards the caregiver routes. Nil leaves them open.
	Gate func(http.Handler) http.Handler
}

// NewRouter wires the JSON API
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(Logging)
	r.Use(chimw.Timeout(10 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/play", h.Play.Routes)

		r.Route("/caregiver", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				if h.Gate != nil {
					r.Use(h.Gate)
				}

				r.Put("/pin", h.Auth.SetPIN)

				r.Get("/children", h.Children.ListChildren)
				r.Post("/children", h.Children.CreateChild)
				r.Route("/children/{childID}", func(r chi.Router) {
					r.Get("/", h.Children.GetChild)
					r.Patch("/", h.Children.UpdateChild)
					r.Delete("/", h.Children.DeleteChild)
					r.Post("/select", h.Children.SelectChild)
					r.Get("/lists", h.Lists.GetChildLists)
					r.Post("/lists", h.Lists.CreateList)
				})

				r.Route("/lists/{listID}", func(r chi.Router) {
					r.Get("/", h.Lists.GetList)
					r.Put("/", h.Lists.UpdateList)
					r.Delete("/", h.Lists.DeleteList)
					r.Post("/toggle", h.Lists.ToggleList)
				})

				r.Get("/settings", h.Settings.GetSettings)
				r.Put("/settings", h.Settings.SaveSettings)
				r.Get("/export", h.Settings.Export)
				r.Post("/import", h.Settings.Import)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found", "", nil)
	})

	return r
}
