package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recsim/app/sim-runner/router"
	"recsim/business/agent"
	"recsim/business/matrices"
	"recsim/business/sim"
	"recsim/domain"
	"recsim/internal/export"
	"recsim/internal/middleware"
	"recsim/internal/render"
	psqlRepo "recsim/internal/repository/postgres"
	"recsim/internal/rest"
	"recsim/pkg/config"
	"recsim/pkg/database"
	"recsim/pkg/logger"
	"recsim/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// runStore is whatever can keep finished reports for the reporting surface.
type runStore interface {
	rest.RunRepository
	SaveReport(ctx context.Context, report domain.RunReport, params map[string]any) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Recsim", "version", cfg.App.Version, "seed", cfg.Sim.Seed)

	metrics.Init()

	var store runStore = rest.NewInMemoryRunRepository()
	if cfg.Database.Enabled {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		logger.Info("Database connected successfully")
		store = psqlRepo.NewRunRepository(db)
	}

	console := render.NewConsole(os.Stdout, true)

	simCfg := sim.Config{
		MatrixSize:          cfg.Sim.MatrixSize,
		Ticks:               cfg.Sim.NumberOfTicks,
		Experiments:         cfg.Sim.NumberOfExperiments,
		Workers:             cfg.Sim.Workers,
		SearchPrice:         cfg.Sim.SearchPrice,
		ConsumePrice:        cfg.Sim.ConsumePrice,
		StartingBudget:      cfg.Sim.StartingBudget,
		WellServedThreshold: cfg.Sim.WellServedThreshold,
		TopN:                cfg.Sim.TopNSize,
		NewUsers:            cfg.Sim.NumberOfNewUsers,
		Dist: matrices.DistParams{
			Mean:     cfg.Sim.UtilityMean,
			Std:      cfg.Sim.UtilityStd,
			NoiseStd: cfg.Sim.ReviewNoiseStd,
		},
		Neutral: cfg.Sim.NeutralScore(),
		Seed:    cfg.Sim.Seed,
	}
	if cfg.App.Verbose {
		simCfg.Progress = console.Tick
	}
	if cfg.Sim.RatingScale > 0 {
		simCfg.Rate = agent.ScaledRating(cfg.Sim.RatingScale, cfg.Sim.UtilityMean, cfg.Sim.UtilityStd)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Running experiments",
		"experiments", simCfg.Experiments,
		"matrix_size", simCfg.MatrixSize,
		"ticks", simCfg.Ticks,
		"workers", simCfg.Workers,
	)

	reports := sim.NewRunner(simCfg).RunAll(ctx)

	params := map[string]any{
		"matrix_size":           cfg.Sim.MatrixSize,
		"number_of_ticks":       cfg.Sim.NumberOfTicks,
		"number_of_experiments": cfg.Sim.NumberOfExperiments,
		"search_price":          cfg.Sim.SearchPrice,
		"consume_price":         cfg.Sim.ConsumePrice,
		"starting_budget":       cfg.Sim.StartingBudget,
		"well_served_threshold": cfg.Sim.WellServedThreshold,
		"top_n_size":            cfg.Sim.TopNSize,
		"number_of_new_users":   cfg.Sim.NumberOfNewUsers,
		"utility_mean":          cfg.Sim.UtilityMean,
		"utility_std":           cfg.Sim.UtilityStd,
		"review_noise_std":      cfg.Sim.ReviewNoiseStd,
		"rating_scale":          cfg.Sim.RatingScale,
		"seed":                  cfg.Sim.Seed,
	}

	failed := 0
	for _, report := range reports {
		if report.Failed {
			failed++
			logger.Error("Run failed", "run", report.Run, "reason", report.FailMsg)
		}

		if cfg.App.Verbose {
			for _, line := range report.Users {
				console.UserLine(line)
			}
		}
		console.RunSummary(report)

		if err := store.SaveReport(ctx, report, params); err != nil {
			logger.Error("Failed to save run report", "run", report.Run, "error", err)
		}

		if cfg.Export.Dir != "" && !report.Failed {
			if err := export.WriteRunFiles(cfg.Export.Dir, report); err != nil {
				logger.Error("Failed to export run files", "run", report.Run, "error", err)
			}
		}
	}

	logger.Info("Experiments finished", "runs", len(reports), "failed", failed)

	if !cfg.Server.Enabled {
		return
	}

	// Report server: read-only views over the finished runs.
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler

	e.Use(echomiddleware.Recover())

	runHandler := rest.NewRunHandler(store)

	api := e.Group("/api/v1")
	router.SetupRunRoutes(api, runHandler)
	router.SetupObservability(e)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Report server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
