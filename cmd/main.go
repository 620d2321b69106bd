package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mood_journal/internal/config"
	"mood_journal/internal/handlers"
	"mood_journal/internal/logger"
	"mood_journal/internal/repository"
	"mood_journal/internal/repository/db"
	"mood_journal/internal/server"
	"mood_journal/internal/service"
)

const (
	configDir       = "configs"
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title                       Mood Journal API
// @version                     1.0
// @description                 Personal mood journal: accounts, sessions and daily mood records with streaks.
// @BasePath                    /
// @securityDefinitions.basic   BasicAuth
// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        session
func main() {
	// load configs/config.yml + MOOD_* env
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.New(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	if cfg.SecretGenerated {
		log.Warnw("auth.secret not set; generated a random one, sessions will not survive a restart")
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer startCancel()

	// open DB and apply migrations
	sqlDB, err := db.InitDB(startCtx, cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos, err := buildRepositories(startCtx, cfg, sqlDB, log)
	if err != nil {
		log.Fatalw("failed to init session store", "backend", cfg.Session.Backend, "err", err)
	}
	services := service.NewService(repos, service.Options{
		Secret:     []byte(cfg.Auth.Secret),
		SessionTTL: cfg.Session.TTL,
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		MaxAge: cfg.Session.TTL,
	})

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.SessionSweeper.Run(ctx, cfg.Session.SweepInterval)

	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	waitForShutdown(cancel, srv, log)
}

// buildRepositories returns the SQLite repositories, with sessions moved to
// Redis when session.backend is "redis".
func buildRepositories(ctx context.Context, cfg *config.Config, sqlDB *sql.DB, log *logger.Logger) (*repository.Repository, error) {
	repos := repository.NewRepository(sqlDB)
	if cfg.Session.Backend != config.SessionBackendRedis {
		return repos, nil
	}

	client := repository.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Redis.Addr, err)
	}
	log.Infow("session store: redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	repos.Sessions = repository.NewSessionRedis(client)
	return repos, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the session sweeper
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
