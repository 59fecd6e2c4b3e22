package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/birostris/PadelRanking/internal/adapters/http/api"
	"github.com/birostris/PadelRanking/internal/adapters/repository"
	"github.com/birostris/PadelRanking/internal/app"
	"github.com/birostris/PadelRanking/internal/config"
	"github.com/birostris/PadelRanking/internal/domain/skill"
	"github.com/birostris/PadelRanking/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := repository.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Error(ctx, "failed to open database", logger.String("db_path", cfg.DBPath), logger.Error(err))
		return
	}
	log.Info(ctx, "opened database", logger.String("db_path", cfg.DBPath))

	raterOpts := []skill.Option{
		skill.WithMu(cfg.RatingMu),
		skill.WithSigma(cfg.RatingSigma),
		skill.WithTau(cfg.RatingTau),
	}
	if cfg.RatingBeta > 0 {
		raterOpts = append(raterOpts, skill.WithBeta(cfg.RatingBeta))
	}

	svc := app.New(
		app.WithStore(store),
		app.WithRater(skill.NewTwoTeamRater(raterOpts...)),
		app.WithLogger(log),
		app.WithDeleteSecret(cfg.DeleteSecret),
	)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error(context.Background(), "closing service", logger.Error(err))
		}
	}()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	if cfg.WebDir != "" {
		mux.Handle("/web/", http.StripPrefix("/web/", http.FileServer(http.Dir(cfg.WebDir))))
		log.Info(ctx, "serving static web UI", logger.String("web_dir", cfg.WebDir))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}
