package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/infrastructure/database"
	"github.com/wichananm65/food-order-backend/internal/logger"
)

func migrateCommand() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := database.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			up := args[0] == "up"
			if !up && steps == 0 {
				return fmt.Errorf("migrate down requires --steps")
			}
			if err := database.Migrate(db.DB, up, steps); err != nil {
				return err
			}
			logger.Log.Info("migrations applied", zap.String("direction", args[0]), zap.Int("steps", steps))
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to apply (0 = all, up only)")
	return cmd
}
