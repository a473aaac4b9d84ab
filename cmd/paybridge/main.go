package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/paybridgelabs/paybridge/internal/clock"
	"github.com/paybridgelabs/paybridge/internal/config"
	"github.com/paybridgelabs/paybridge/internal/migration"
	"github.com/paybridgelabs/paybridge/internal/observability/logger"
	"github.com/paybridgelabs/paybridge/internal/observability/metrics"
	"github.com/paybridgelabs/paybridge/internal/processor"
	"github.com/paybridgelabs/paybridge/internal/redis"
	"github.com/paybridgelabs/paybridge/internal/registry"
	"github.com/paybridgelabs/paybridge/internal/server"
	"github.com/paybridgelabs/paybridge/internal/session"
	"github.com/paybridgelabs/paybridge/internal/webhook"
	"github.com/paybridgelabs/paybridge/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "paybridge",
		Short:   "Payment gateway facade",
		Version: version,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP facade",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the processed-event ledger schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

// migrateSchema runs the embedded SQL migrations on postgres, where multiple
// instances may race, and falls back to AutoMigrate for sqlite.
func migrateSchema(cfg config.Config, gdb *gorm.DB) error {
	if cfg.Database.Driver == "postgres" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return migration.RunMigrations(sqlDB)
	}
	return gdb.AutoMigrate(&webhook.EventRecord{})
}

func runServe() {
	app := fx.New(
		config.Module,
		logger.Module,
		metrics.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		processor.Module,
		webhook.Module,
		session.Module,
		registry.Module,
		server.Module,
		fx.Invoke(migrateSchema),
	)
	app.Run()
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		logger.Module,
		db.Module,
		fx.Invoke(migrateSchema),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	return app.Stop(context.Background())
}
