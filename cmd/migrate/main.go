package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"moviebook/pkg/config"
	"moviebook/postgres"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dir := flag.String("dir", "migrations", "directory holding the migration files")
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", "error", err)
		os.Exit(1)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		logger.Info("nothing to migrate", "driver", cfg.DB.Driver)
		return
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		logger.Error("cannot connecting to db", "error", err)
		os.Exit(1)
	}

	migrations := &migrate.FileMigrationSource{
		Dir: *dir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("cannot get db instance", "error", err)
		os.Exit(1)
	}

	direction, limit := migrate.Up, 0
	if *down {
		direction, limit = migrate.Down, 1
	}

	total, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, limit)
	if err != nil {
		logger.Error("cannot execute migration", "error", err)
		os.Exit(1)
	}

	logger.Info("applied migrations", "total", total, "down", *down)
}
