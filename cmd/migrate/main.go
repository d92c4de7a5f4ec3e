// Command migrate runs goose schema migrations against the configured
// database. Usage: migrate [up|down|status|version] [args...]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/atelierhq/studio-backend/pkg/config"
	"github.com/atelierhq/studio-backend/pkg/db"
	"github.com/atelierhq/studio-backend/pkg/logger"
	"github.com/atelierhq/studio-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	command := "up"
	args := []string{}
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "studio-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := context.Background()

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "connecting to database", err)
		os.Exit(1)
	}
	defer func() { _ = client.Close() }()

	sqlDB, err := client.DB().DB()
	if err != nil {
		logg.Error(ctx, "extracting sql.DB", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{"command": command, "dir": migrate.DefaultDir})
	logg.Info(ctx, "running migrations")

	if err := migrate.Run(ctx, sqlDB, cfg.DB.Driver, migrate.DefaultDir, command, args...); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "migrations complete")
}
