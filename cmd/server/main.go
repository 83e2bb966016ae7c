package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"abracadamots/internal/config"
	"abracadamots/internal/database"
	"abracadamots/internal/game"
	"abracadamots/internal/handlers"
	"abracadamots/internal/models"
	"abracadamots/internal/security"
	"abracadamots/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.Log.Setup(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Str("type", cfg.Database.Type).Msg("database connection established")

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := game.NewRand(seed)

	// Initialize services
	var tokens *security.TokenIssuer
	if cfg.Auth.AuthEnabled() {
		tokens = security.NewTokenIssuer(cfg.Auth.JWTSecret, "abracadamots", cfg.Auth.TokenTTL, clock)
	} else {
		log.Warn().Msg("AUTH_JWT_SECRET not set: caregiver routes are open")
	}
	authService := service.NewAuthService(db, tokens, 0)
	childService := service.NewChildService(db, clock, rng)
	listService := service.NewListService(db, clock)
	settingsService := service.NewSettingsService(db)
	backupService := service.NewBackupService(db, clock)
	emailService, err := service.NewEmailService(ctx, cfg.Email.Region, cfg.Email.From, cfg.Email.ReportTo)
	if err != nil {
		return err
	}

	// Game engine
	session := game.NewSession(service.NewStore(db), rng, cfg.Game.Engine(), logger)
	session.OnFinished(func(childID string, progress models.ChildProgress) {
		go sendReport(childService, emailService, childID, progress)
	})
	runner := game.NewRunner(session, clock, cfg.Game.Resolution)

	// Initialize handlers
	limiter := security.NewRateLimiter(cfg.Auth.LoginAttempts, cfg.Auth.LoginWindow, clock)
	h := handlers.Handlers{
		Play:     handlers.NewPlayHandler(runner),
		Auth:     handlers.NewAuthHandler(authService, limiter),
		Children: handlers.NewChildHandler(childService, settingsService),
		Lists:    handlers.NewListHandler(listService),
		Settings: handlers.NewSettingsHandler(settingsService, backupService, clock),
	}
	if tokens != nil {
		h.Gate = handlers.RequireCaregiver(authService)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handlers.NewRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runner.Run(gctx) })
	g.Go(func() error { return limiter.Run(gctx) })
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// sendReport mails the finished session's progress. Failures are logged.
func sendReport(children *service.ChildService, email *service.EmailService, childID string, progress models.ChildProgress) {
	if !email.IsEnabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	name := childID
	if child, err := children.GetChild(ctx, childID); err == nil {
		name = child.Name
	}
	if err := email.SendSessionReport(ctx, name, progress); err != nil {
		log.Warn().Err(err).Str("child", childID).Msg("failed to send session report")
	}
}
