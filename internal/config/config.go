package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"abracadamots/internal/game"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Game     GameConfig     `yaml:"game"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig selects the database backend
type DatabaseConfig struct {
	Type string `yaml:"type" env:"DB_TYPE" env-default:"sqlite"`
	Path string `yaml:"path" env:"DB_PATH" env-default:"./abracadamots.db"`
	URL  string `yaml:"url"  env:"DATABASE_URL"`
}

// GameConfig holds the engine timings and the runner resolution
type GameConfig struct {
	Tick           time.Duration `yaml:"tick"            env:"GAME_TICK"            env-default:"1s"`
	Countdown      int           `yaml:"countdown"       env:"GAME_COUNTDOWN"       env-default:"5"`
	HideDelay      time.Duration `yaml:"hide_delay"      env:"GAME_HIDE_DELAY"      env-default:"500ms"`
	VanishDuration time.Duration `yaml:"vanish_duration" env:"GAME_VANISH_DURATION" env-default:"800ms"`
	WrongReset     time.Duration `yaml:"wrong_reset"     env:"GAME_WRONG_RESET"     env-default:"500ms"`
	SuccessDelay   time.Duration `yaml:"success_delay"   env:"GAME_SUCCESS_DELAY"   env-default:"1500ms"`
	Resolution     time.Duration `yaml:"resolution"      env:"GAME_RESOLUTION"      env-default:"50ms"`
	Seed           int64         `yaml:"seed"            env:"GAME_SEED"`
}

// AuthConfig holds the caregiver gate settings
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"     env:"AUTH_JWT_SECRET"`
	TokenTTL      time.Duration `yaml:"token_ttl"      env:"AUTH_TOKEN_TTL"      env-default:"30m"`
	LoginAttempts int           `yaml:"login_attempts" env:"AUTH_LOGIN_ATTEMPTS" env-default:"5"`
	LoginWindow   time.Duration `yaml:"login_window"   env:"AUTH_LOGIN_WINDOW"   env-default:"1m"`
}

// EmailConfig holds the session report settings. Reports are off when
// ReportTo is empty.
type EmailConfig struct {
	Region   string `yaml:"region"    env:"AWS_REGION"   env-default:"eu-west-3"`
	From     string `yaml:"from"      env:"EMAIL_FROM"`
	ReportTo string `yaml:"report_to" env:"EMAIL_REPORT_TO"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configuration from an optional .env file, an optional YAML
// file named by CONFIG_PATH, and the environment.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for values the application cannot start with
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Database.Type) {
	case "sqlite", "sqlite3", "":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	case "postgres", "postgresql", "mysql":
		if c.Database.URL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for %s", c.Database.Type))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database type: %s", c.Database.Type))
	}

	if c.Game.Countdown < 1 {
		errs = append(errs, fmt.Errorf("GAME_COUNTDOWN must be at least 1, got %d", c.Game.Countdown))
	}
	if c.Game.Tick <= 0 {
		errs = append(errs, errors.New("GAME_TICK must be positive"))
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be at least 32 characters"))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}
	if c.Email.ReportTo != "" && c.Email.From == "" {
		errs = append(errs, errors.New("EMAIL_FROM is required when EMAIL_REPORT_TO is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Engine converts the game section into engine timings
func (g GameConfig) Engine() game.Config {
	return game.Config{
		Tick:           g.Tick,
		Countdown:      g.Countdown,
		HideDelay:      g.HideDelay,
		VanishDuration: g.VanishDuration,
		WrongReset:     g.WrongReset,
		SuccessDelay:   g.SuccessDelay,
	}
}

// AuthEnabled reports whether caregiver tokens can be issued
func (a AuthConfig) AuthEnabled() bool {
	return a.JWTSecret != ""
}

// Setup configures the global zerolog logger and returns it. Output goes
// to w, through a console writer when Format is "console".
func (l LogConfig) Setup(w io.Writer) zerolog.Logger {
	if lvl, err := zerolog.ParseLevel(l.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if strings.EqualFold(l.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return log.Logger
}
