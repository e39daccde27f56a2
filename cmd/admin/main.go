// Package main is the operator CLI: schema bootstrap and privileged user
// management that must never be exposed as an HTTP route.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/vitaleevo/holyfinance/internal/config"
	"github.com/vitaleevo/holyfinance/internal/migrations"
	"github.com/vitaleevo/holyfinance/internal/quota"
	"github.com/vitaleevo/holyfinance/internal/storage/repository"
)

func main() {
	seed := flag.Bool("seed", false, "run migrations and seed the package catalog")
	promote := flag.String("promote", "", "promote the user with this email to admin")
	flag.Parse()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if !*seed && *promote == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to open storage", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		_ = db.DB.Close()
	}()

	ctx := context.Background()

	if *seed {
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", slog.Any("err", err))
			os.Exit(1)
		}
		if err := db.SeedPackages(ctx, quota.DefaultPackages()); err != nil {
			logger.Error("failed to seed packages", slog.Any("err", err))
			os.Exit(1)
		}
		logger.Info("migrations applied and packages seeded")
	}

	if *promote != "" {
		if err := db.PromoteAdminByEmail(ctx, *promote); err != nil {
			logger.Error("failed to promote user", slog.String("email", *promote), slog.Any("err", err))
			os.Exit(1)
		}
		logger.Info("promoted user to admin", slog.String("email", *promote))
	}
}
