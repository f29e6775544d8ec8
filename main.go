package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"healthpredict-web/client"
	"healthpredict-web/config"
	"healthpredict-web/dashboard"
	"healthpredict-web/database"
	"healthpredict-web/handlers"
	"healthpredict-web/logger"
	"healthpredict-web/session"
)

func main() {
	// Missing .env.local is fine outside development.
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log, err := logger.NewWithConfig(&cfg.Logging)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid logging configuration")
	}
	log.WithFields(logrus.Fields{
		"addr":     cfg.ServerAddr(),
		"backend":  cfg.API.BaseURL,
		"database": cfg.IsDatabaseConfigured(),
	}).Info("Starting HealthPredict web front")

	loc, err := cfg.Location()
	if err != nil {
		log.WithError(err).Fatal("Invalid display time zone")
	}

	// Diagnostics
	var diagnostics dashboard.Diagnostics = dashboard.NewLogDiagnostics(log)
	var db *sql.DB
	if cfg.IsDatabaseConfigured() {
		db, err = database.Connect(&cfg.Database, log)
		if err != nil {
			log.WithError(err).Fatal("Database connection failed")
		}
		defer db.Close()

		if err := database.InitDB(context.Background(), db); err != nil {
			log.WithError(err).Fatal("Database initialization failed")
		}
		diagnostics = dashboard.MultiDiagnostics{diagnostics, database.NewDiagnosticsStore(db, log)}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := dashboard.NewMetrics(registry)

	// Backend clients
	base := client.NewBaseClient(cfg.API.BaseURL, cfg.API.Timeout, log)
	stats := client.NewStatsClient(base, log)
	auth := client.NewAuthClient(base, log)

	// Sessions
	var tokens *session.TokenCodec
	if cfg.IsTokenAuthEnabled() {
		tokens = session.NewTokenCodec(cfg.Session.TokenSecret, cfg.Session.TokenTTL)
	}
	provider := session.NewCookieProvider(&cfg.Session, tokens, log)

	composer := dashboard.NewComposer(
		stats,
		dashboard.NewSurface(time.Duration(cfg.Session.MaxAge)*time.Second),
		dashboard.NewClock(loc, cfg.Display.TimeFormat),
		diagnostics,
		metrics,
		log,
	)

	r := handlers.NewRouter(handlers.Deps{
		Auth:     auth,
		Composer: composer,
		Provider: provider,
		Tokens:   tokens,
		Renderer: handlers.NewRenderer(log),
		Upgrader: handlers.NewUpgrader(cfg.Security.AllowedOrigins),
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:   log,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Security.AllowedOrigins,
		AllowCredentials: cfg.Security.AllowCredentials,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
	})

	srv := &http.Server{
		Handler:      c.Handler(r),
		Addr:         cfg.ServerAddr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Infof("Server listening on http://%s", cfg.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	log.Info("Server stopped")
}
