// Package main wires the HTTP server for the project reporting service.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/davejoelwilson/connectwise-project-reports/config"
	"github.com/davejoelwilson/connectwise-project-reports/internal/analyze"
	"github.com/davejoelwilson/connectwise-project-reports/internal/collector"
	"github.com/davejoelwilson/connectwise-project-reports/internal/connectwise"
	"github.com/davejoelwilson/connectwise-project-reports/internal/fetch"
	"github.com/davejoelwilson/connectwise-project-reports/internal/orchestrator"
	"github.com/davejoelwilson/connectwise-project-reports/internal/snapshot"
	"github.com/davejoelwilson/connectwise-project-reports/internal/transport/http/middleware"
	handlers_fiber "github.com/davejoelwilson/connectwise-project-reports/internal/transport/http/server/handlers-fiber"
	"github.com/davejoelwilson/connectwise-project-reports/internal/usecase"
	"github.com/davejoelwilson/connectwise-project-reports/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}

	budget, err := fetch.NewBudget(cfg.Budget.MaxInFlight, cfg.Budget.RequestsPerWindow, cfg.Budget.Window)
	if err != nil {
		log.Errorw("budget initialization error", "error", err)
		return
	}
	retryer, err := fetch.NewRetryer(cfg.Retry.MaxAttempts, cfg.Retry.InitialDelay, cfg.Retry.MaxDelay, log)
	if err != nil {
		log.Errorw("retry policy initialization error", "error", err)
		return
	}

	client, err := connectwise.NewClient(cfg.ConnectWise.BaseURL, connectwise.Credentials{
		Company:    cfg.ConnectWise.Company,
		PublicKey:  cfg.ConnectWise.PublicKey,
		PrivateKey: cfg.ConnectWise.PrivateKey,
		ClientID:   cfg.ConnectWise.ClientID,
	}, cfg.ConnectWise.RequestTimeout, log)
	if err != nil {
		log.Errorw("platform client initialization error", "error", err)
		return
	}
	fetcher, err := connectwise.NewFetcher(client, budget, retryer, cfg.ConnectWise.PageSize, cfg.ConnectWise.MaxRecords, log)
	if err != nil {
		log.Errorw("fetcher initialization error", "error", err)
		return
	}
	source := collector.New(fetcher, cfg.ConnectWise.ProjectConditions, log)

	store, err := snapshot.NewStore(cfg.Snapshot.Dir, log)
	if err != nil {
		log.Errorw("snapshot store initialization error", "error", err)
		return
	}

	var narrative orchestrator.Client = orchestrator.Disabled{}
	if cfg.Orchestrator.Enabled {
		narrative = orchestrator.NewHTTPClient(cfg.Orchestrator.URL, cfg.Orchestrator.Timeout, log)
	}

	analyzer := analyze.Config{StalledRecencyWindow: cfg.Analyzer.StalledRecencyWindow}
	uc := usecase.New(log, source, store, narrative, analyzer, cfg.Run.Deadline)

	if cfg.Run.OnStart {
		go func() {
			if _, err := uc.RunAnalysis(ctx); err != nil {
				log.Errorw("startup analysis run failed", "error", err)
			}
		}()
	}

	serv := fiber.New(fiber.Config{})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h := handlers_fiber.NewHandler(log, uc)
	h.Register(serv)

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}
