package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"abracadamots/internal/database"
	"abracadamots/internal/game"
	"abracadamots/internal/models"
	"abracadamots/internal/security"
	"abracadamots/internal/service"
)

type testApp struct {
	handler http.Handler
	clock   *clockwork.FakeClock
	token   string
}

func newTestApp(t *testing.T, withGate bool) *testApp {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	rng := game.NewRand(7)

	session := game.NewSession(service.NewStore(db), rng, game.DefaultConfig(), zerolog.Nop())
	runner := game.NewRunner(session, clock, 0)

	var tokens *security.TokenIssuer
	if withGate {
		tokens = security.NewTokenIssuer("test-secret-at-least-32-chars-long-for-security", "abracadamots-test", 30*time.Minute, clock)
	}
	auth := service.NewAuthService(db, tokens, bcrypt.MinCost)
	settings := service.NewSettingsService(db)

	h := Handlers{
		Play:     NewPlayHandler(runner),
		Auth:     NewAuthHandler(auth, security.NewRateLimiter(3, time.Minute, clock)),
		Children: NewChildHandler(service.NewChildService(db, clock, rng), settings),
		Lists:    NewListHandler(service.NewListService(db, clock)),
		Settings: NewSettingsHandler(settings, service.NewBackupService(db, clock), clock),
	}
	if withGate {
		h.Gate = RequireCaregiver(auth)
	}
	return &testApp{handler: NewRouter(h), clock: clock}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.1:1234"
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestCaregiverRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, true)

	rec := app.do(t, http.MethodGet, "/api/caregiver/children", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	app.token = "garbage"
	rec = app.do(t, http.MethodGet, "/api/caregiver/children", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	app.token = ""
	rec = app.do(t, http.MethodPost, "/api/caregiver/login", loginRequest{PIN: ""})
	require.Equal(t, http.StatusOK, rec.Code)
	app.token = decode[loginResponse](t, rec).Token

	rec = app.do(t, http.MethodGet, "/api/caregiver/children", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWithPINAndRateLimit(t *testing.T) {
	app := newTestApp(t, true)

	rec := app.do(t, http.MethodPost, "/api/caregiver/login", loginRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	app.token = decode[loginResponse](t, rec).Token

	rec = app.do(t, http.MethodPut, "/api/caregiver/pin", setPINRequest{NewPIN: "2468"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	app.token = ""

	rec = app.do(t, http.MethodPost, "/api/caregiver/login", loginRequest{PIN: "0000"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = app.do(t, http.MethodPost, "/api/caregiver/login", loginRequest{PIN: "2468"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Three attempts per minute from one client
	rec = app.do(t, http.MethodPost, "/api/caregiver/login", loginRequest{PIN: "2468"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	app.clock.Advance(time.Minute)
	rec = app.do(t, http.MethodPost, "/api/caregiver/login", loginRequest{PIN: "2468"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCaregiverCRUD(t *testing.T) {
	app := newTestApp(t, false)

	rec := app.do(t, http.MethodPost, "/api/caregiver/children", map[string]string{"name": "Léa"})
	require.Equal(t, http.StatusCreated, rec.Code)
	child := decode[models.Child](t, rec)

	rec = app.do(t, http.MethodPost, "/api/caregiver/children", map[string]string{"name": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPatch, "/api/caregiver/children/"+child.ID, map[string]string{"faceColor": "#D1FAE5"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#D1FAE5", decode[models.Child](t, rec).FaceColor)

	rec = app.do(t, http.MethodPost, "/api/caregiver/children/"+child.ID+"/lists", listRequest{Name: "Animaux", Words: "chat\nchien\n"})
	require.Equal(t, http.StatusCreated, rec.Code)
	list := decode[models.WordList](t, rec)
	assert.Len(t, list.Words, 2)
	assert.True(t, list.IsSelected)

	rec = app.do(t, http.MethodPut, "/api/caregiver/lists/"+list.ID, listRequest{Name: "Bêtes", Words: "chien\nlapin"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.WordList](t, rec)
	assert.Equal(t, list.Words[1].ID, updated.Words[0].ID, "chien keeps its identity")

	rec = app.do(t, http.MethodPost, "/api/caregiver/lists/"+list.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[toggleResponse](t, rec).IsSelected)

	rec = app.do(t, http.MethodGet, "/api/caregiver/children/"+child.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[childResponse](t, rec).Progress.TotalWords)

	rec = app.do(t, http.MethodGet, "/api/caregiver/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode[models.AppData](t, rec)
	assert.Len(t, snapshot.WordLists, 1)

	rec = app.do(t, http.MethodDelete, "/api/caregiver/lists/"+list.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/caregiver/lists/"+list.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/caregiver/children/"+child.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/caregiver/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", decode[models.Settings](t, rec).SelectedChildID)
}

func TestSettingsValidation(t *testing.T) {
	app := newTestApp(t, false)

	bad := models.DefaultSettings()
	bad.RequiredMasteredCount = 0
	rec := app.do(t, http.MethodPut, "/api/caregiver/settings", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	good := models.DefaultSettings()
	good.WritingStyle = models.WritingLowercase
	rec = app.do(t, http.MethodPut, "/api/caregiver/settings", good)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.WritingLowercase, decode[models.Settings](t, rec).WritingStyle)
}

func TestPlayTypingRound(t *testing.T) {
	app := newTestApp(t, false)

	rec := app.do(t, http.MethodPost, "/api/play/start", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "no child selected yet")

	rec = app.do(t, http.MethodPost, "/api/caregiver/children", map[string]string{"name": "Léa"})
	require.Equal(t, http.StatusCreated, rec.Code)
	child := decode[models.Child](t, rec)
	rec = app.do(t, http.MethodPost, "/api/caregiver/children/"+child.ID+"/lists", listRequest{Name: "Animaux", Words: "chat"})
	require.Equal(t, http.StatusCreated, rec.Code)

	settings := models.DefaultSettings()
	settings.RequiredMasteredCount = 1
	settings.GameModes = models.GameModes{Typing: true}
	rec = app.do(t, http.MethodPut, "/api/caregiver/settings", settings)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/play/key", keyRequest{Text: "chat"})
	assert.Equal(t, http.StatusConflict, rec.Code, "no session yet")

	rec = app.do(t, http.MethodPost, "/api/play/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[game.View](t, rec)
	assert.Equal(t, game.PhaseMemorize, view.Phase)
	assert.Equal(t, game.ModeTyping, view.Mode)
	assert.Equal(t, "CHAT", view.Word)
	assert.Equal(t, 5, view.Countdown)

	app.clock.Advance(6 * time.Second)
	rec = app.do(t, http.MethodGet, "/api/play", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[game.View](t, rec)
	require.Equal(t, game.PhaseInput, view.Phase)
	assert.Empty(t, view.Word, "word is hidden during input")

	rec = app.do(t, http.MethodPost, "/api/play/key", keyRequest{Text: "chat"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[game.View](t, rec)
	assert.Equal(t, game.PhaseSuccess, view.Phase)
	assert.Equal(t, 1, view.MasteredWords)

	app.clock.Advance(2 * time.Second)
	rec = app.do(t, http.MethodGet, "/api/play", nil)
	assert.Equal(t, game.PhaseFinished, decode[game.View](t, rec).Phase)

	rec = app.do(t, http.MethodPost, "/api/play/exit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, game.PhaseIdle, decode[game.View](t, rec).Phase)
}

func TestPlayTapRejectsBadIndex(t *testing.T) {
	app := newTestApp(t, false)
	rec := app.do(t, http.MethodPost, "/api/play/tap/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
