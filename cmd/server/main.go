package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/pollingapp/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollingapp/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollingapp/internal/config"
	"github.com/vncsmyrnk/pollingapp/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	connStr := postgres.ConnString(cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	db, err := postgres.Open(connStr)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	userRepo := postgres.NewUserRepository(db)

	pollService := services.NewPollService(pollRepo, voteRepo, userRepo, cfg.Pagination.DefaultSize, cfg.Pagination.MaxSize)
	voteService := services.NewVoteService(pollRepo, voteRepo, userRepo)
	userService := services.NewUserService(userRepo, pollRepo, voteRepo)

	pollHandler := http.NewPollHandler(pollService, voteService)
	userHandler := http.NewUserHandler(userService, pollService)
	auth := http.NewAuthMiddleware(cfg.Auth.JWTSecret)

	handler := http.NewHandler(pollHandler, userHandler, auth)
	server := &stdhttp.Server{Addr: cfg.Server.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.WithField("addr", cfg.Server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	logrus.Info("gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("shutdown failed")
	}
}
