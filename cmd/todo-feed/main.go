// todo-feed tails the todo change feed and logs every event.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"todolist/internal/config"
	"todolist/internal/models"
	"todolist/internal/worker"
	"todolist/pkg/logger"
)

func main() {
	config.LoadEnvFile(".env")
	cfgFile := flag.String("config", os.Getenv("TODO_CONFIG"), "YAML or TOML config file")
	group := flag.String("group", "todo-feed", "Kafka consumer group")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		logger.Error(ctx, "Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	err = worker.Run(ctx, cfg, *group, func(ctx context.Context, ev models.TodoEvent) error {
		logger.Info(ctx, "Todo "+ev.Action, "event_id", ev.ID, "id", ev.Todo.ID, "name", ev.Todo.Name, "at", ev.OccurredAt)
		return nil
	})
	if err != nil {
		logger.Error(ctx, "Feed consumer failed", "error", err)
		os.Exit(1)
	}
}
