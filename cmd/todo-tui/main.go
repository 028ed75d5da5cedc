// todo-tui is a terminal front end for a running todo server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todolist/internal/tui"
	"todolist/pkg/client"
)

func main() {
	var addr string

	cmd := &cobra.Command{
		Use:          "todo-tui",
		Short:        "Browse and edit todos from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(client.ClientOptions{URL: addr})
			if err != nil {
				return err
			}
			return tui.Run(c)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", envOr("TODO_URL", "http://localhost:8080"), "todo server base URL")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
