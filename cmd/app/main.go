package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/config"
	"github.com/wichananm65/food-order-backend/internal/logger"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "food-order",
		Short:         "Food ordering marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCommand(), migrateCommand())

	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Log.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and initializes the global logger.
func bootstrap() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Initialize(cfg.Env, cfg.LogLevel); err != nil {
		return config.Config{}, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}
