package main

import (
	"context"
	"os"

	"todolist/internal/config"
)

func main() {
	config.LoadEnvFile(".env")

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
