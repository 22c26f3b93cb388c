// Package main runs the site portal API server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/wmhi/site-portal/internal/config"
	"github.com/wmhi/site-portal/internal/database"
	"github.com/wmhi/site-portal/internal/handlers"
	"github.com/wmhi/site-portal/internal/logging"
	"github.com/wmhi/site-portal/internal/repository"
	"github.com/wmhi/site-portal/internal/services"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "West Midlands Home Improvements site portal",
	Long: `portal serves the jobs, chat, site diary and task board API.

Running portal with no subcommand is the same as "portal serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// app holds what every subcommand needs after startup
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	ws     *services.Workspace
}

// bootstrap loads configuration, connects the database and loads the
// workspace, seeding it on first run.
func bootstrap() (*app, error) {
	cfg := config.Load()

	logger, err := logging.NewLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	if err := database.Connect(cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repo := repository.NewPortalRepository(repository.NewKVRepository(database.GetDB()))
	ws := services.NewWorkspace(repo, logger, services.WithLocation(loc))
	if err := ws.Load(); err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	return &app{cfg: cfg, logger: logger, ws: ws}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	gin.SetMode(a.cfg.GinMode)

	store, err := newSessionStore(a.cfg)
	if err != nil {
		return err
	}

	ai := services.NewAIService(a.cfg.OpenAIAPIKey, a.cfg.OpenAIModel, a.logger)
	r := handlers.NewRouter(handlers.NewServices(a.ws, ai), store, a.logger)

	a.logger.Info("Server starting",
		zap.String("port", a.cfg.Port),
		zap.String("db_driver", a.cfg.DBDriver),
		zap.String("session_store", a.cfg.SessionStore),
	)
	return r.Run(":" + a.cfg.Port)
}

// newSessionStore returns a Redis-backed store when SESSION_STORE=redis,
// otherwise a signed cookie store.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case "redis":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			redisAddr,
			"", // username (empty for default user)
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	case "cookie", "":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: 2, // SameSite=Lax
	})
	return store, nil
}
