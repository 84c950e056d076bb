package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/temposched/tempo/adapter/cli"
	"github.com/temposched/tempo/internal/app"
	"github.com/temposched/tempo/pkg/config"
	"github.com/temposched/tempo/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development"}
	}

	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Level = cfg.LogLevel
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid TEMPO_USER_ID", "value", cfg.UserID, "error", err)
		os.Exit(1)
	}

	cli.SetApp(&cli.App{
		ScheduleTaskHandler:      container.ScheduleTaskHandler,
		RescheduleTaskHandler:    container.RescheduleTaskHandler,
		CancelBookingHandler:     container.CancelBookingHandler,
		UpdatePreferencesHandler: container.UpdatePreferencesHandler,
		FindBestSlotHandler:      container.FindBestSlotHandler,
		GetAgendaHandler:         container.GetAgendaHandler,
		GetPreferencesHandler:    container.GetPreferencesHandler,
		CurrentUserID:            userID,
	})

	cli.Execute()
}
