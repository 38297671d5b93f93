package main

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/meetings-backend/internal/adapter/postgres"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool, ctx.logger); err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write([]byte("migrations applied\n"))
			return err
		},
	}
}
