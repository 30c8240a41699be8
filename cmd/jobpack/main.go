package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobpack/internal/auth"
	"jobpack/internal/config"
	"jobpack/internal/db"
	"jobpack/internal/export"
	httpx "jobpack/internal/http"
	"jobpack/internal/job"
	"jobpack/internal/logger"
	"jobpack/internal/policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := slog.Default()

	pol, err := policy.LoadPolicy(cfg.ExportPolicyFile)
	if err != nil {
		log.Error("export policy", "err", err)
		os.Exit(1)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Error("db migrate", "err", err)
		os.Exit(1)
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL)
	users := &auth.Repo{DB: gdb}
	svc := &export.Service{
		Jobs:            &job.Repo{DB: gdb},
		Accounts:        users,
		Policy:          pol,
		ReferencePrefix: cfg.DocRefPrefix,
		Logger:          log,
	}
	r := httpx.NewRouter(cfg, httpx.Deps{Users: users, JWT: jwtSvc, Export: svc, Logger: log})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
