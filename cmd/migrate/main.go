package main

import (
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/growbro/backend/internal/infrastructure/config"
	"github.com/growbro/backend/internal/infrastructure/logger"
	"github.com/growbro/backend/internal/infrastructure/migration"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "Path to migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	m, err := migration.NewFromURL(cfg.Database.MigrateURL(), migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() { _ = m.Close() }()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		log.Info("Current migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up       Apply all pending migrations")
	fmt.Println("  down     Roll back the most recent migration")
	fmt.Println("  version  Show the current migration version")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
