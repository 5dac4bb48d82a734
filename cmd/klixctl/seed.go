package main

import (
	"fmt"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/app"
	"github.com/spf13/cobra"
)

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo tasks when the task feed is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := e.service().SeedTasks(cmd.Context(), app.DemoTasks())
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "task feed is not empty; nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d tasks into %s\n", n, e.repo.Path())
			return nil
		},
	}
}
