package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"journal_backend/internal/app/config"
	"journal_backend/internal/app/di"
	"journal_backend/internal/app/router"
	authhandler "journal_backend/internal/feature/auth/transport/handler"
	authusecase "journal_backend/internal/feature/auth/usecase"
	greetinghandler "journal_backend/internal/feature/greeting/transport/handler"
	greetingusecase "journal_backend/internal/feature/greeting/usecase"
	journalhandler "journal_backend/internal/feature/journal/transport/handler"
	"journal_backend/internal/platform/credential"
	"journal_backend/internal/platform/http/handler"
	jwtmw "journal_backend/internal/platform/jwt"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// infra
	infra, err := di.OpenInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := infra.Close(); err != nil {
			slog.Error("failed to close connections", "error", err)
		}
	}()

	uow, err := di.NewUnitOfWork(cfg.StoreBackend, infra.DB, infra.Redis)
	if err != nil {
		return err
	}

	// Usecase
	hasher := credential.NewBcryptHasher(cfg.BcryptCost)
	journal := di.NewJournal(uow, hasher, di.RetryPolicy(cfg))
	authUC := authusecase.NewAuthUsecase(uow.Stores().Principals(), hasher, jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTTTL))
	weather := di.NewWeatherRepository(cfg.Weather, infra.Redis, cfg.WeatherCacheTTL)
	greetingUC := greetingusecase.NewGreetingUsecase(weather, cfg.WeatherCity)

	// Handler
	r := router.NewRouter(router.Handlers{
		Health:   handler.NewHealthHandler(infra.Checks()),
		Auth:     authhandler.NewAuthHandler(authUC),
		Journal:  journalhandler.NewJournalHandler(journal.Usecase),
		Greeting: greetinghandler.NewGreetingHandler(greetingUC),
	}, journal.Usecase)

	// A failed startup scan is reported but does not keep the server down.
	if report, err := journal.Scanner.Scan(ctx); err != nil {
		slog.Error("startup integrity scan", "error", err)
	} else {
		slog.Info("startup integrity scan clean", "principals", report.Principals, "entries", report.Entries)
	}
	if cfg.IntegrityScanInterval > 0 {
		go journal.Scanner.RunPeriodic(ctx, cfg.IntegrityScanInterval)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
