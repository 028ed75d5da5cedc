// Seed adds numbered todos to the configured database. Run from project root: go run ./scripts/seed -n 1000
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"todolist/internal/config"
	"todolist/internal/database"
	"todolist/internal/repository"
)

func main() {
	config.LoadEnvFile(".env")
	total := flag.Int("n", 100, "number of todos to add")
	cfgFile := flag.String("config", os.Getenv("TODO_CONFIG"), "YAML or TOML config file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Config failed:", err)
		os.Exit(1)
	}
	db, err := database.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.MigrateOrCreateSchema(ctx, db, cfg.DBDriver); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	todos := repository.NewTodos(db)
	start := time.Now()
	added, skipped := 0, 0
	for n := 1; n <= *total; n++ {
		_, err := todos.Create(ctx, fmt.Sprintf("Todo %d", n))
		switch {
		case errors.Is(err, repository.ErrConflict):
			skipped++
		case err != nil:
			fmt.Fprintln(os.Stderr, "\nInsert failed:", err)
			os.Exit(1)
		default:
			added++
		}
		if n%100 == 0 || n == *total {
			fmt.Printf("\rProcessed %d / %d", n, *total)
		}
	}

	count, err := todos.Count(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "\nCount failed:", err)
		os.Exit(1)
	}
	fmt.Printf("\nDone: %d added, %d already present, %d todos total in %v\n", added, skipped, count, time.Since(start))
}
