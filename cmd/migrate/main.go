package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"library-backend/internal/handler/middleware"
	"library-backend/internal/pkg/config"
	"library-backend/migrations"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/kelseyhightower/envconfig"
)

// Applies pending migrations through the atlas CLI. migrations/atlas.sum must
// be current; regenerate it with `make migrate-hash` after adding a file.
func main() {
	atlasBin := flag.String("atlas", "atlas", "path to the atlas binary")
	dryRun := flag.Bool("dry-run", false, "print pending migrations without applying them")
	flag.Parse()

	var dbCfg config.DBConfig
	if err := envconfig.Process("", &dbCfg); err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}
	var logCfg config.LogConfig
	if err := envconfig.Process("", &logCfg); err != nil {
		slog.Error("Failed to load log config", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(logCfg).GetSlogLogger()

	if err := run(context.Background(), logger, dbCfg, *atlasBin, *dryRun); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, dbCfg config.DBConfig, atlasBin string, dryRun bool) error {
	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(migrations.FS))
	if err != nil {
		return err
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), atlasBin)
	if err != nil {
		return err
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    dbCfg.BuildDSN(),
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	logger.Info("Migrations applied",
		"applied", len(res.Applied),
		"current", res.Current,
		"target", res.Target,
		"dry_run", dryRun,
	)
	return nil
}
