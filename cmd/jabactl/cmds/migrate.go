package cmds

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Bab4nI/Jaba/internal/migrations"
	"github.com/Bab4nI/Jaba/internal/config"
)

var migrateDownTo int64

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Migrate the database to the latest version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "migrateUpCmd")
		defer span.End()

		db, err := openDB(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to open database")
			return err
		}

		err = migrations.Up(ctx, db)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to migrate up")
			return err
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "migrated up")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Migrate the database down to a version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "migrateDownCmd")
		defer span.End()

		db, err := openDB(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to open database")
			return err
		}

		err = migrations.Down(ctx, db, migrateDownTo)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to migrate down")
			return err
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "migrated down")
		return nil
	},
}

func openDB(_ context.Context) (*gorm.DB, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := gorm.Open(
		postgres.Open(cfg.PostgresDSN()),
		&gorm.Config{TranslateError: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	migrateDownCmd.Flags().
		Int64Var(&migrateDownTo, "to", 0, "Version to migrate down to")
}
