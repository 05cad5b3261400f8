package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/m04kA/HomeService-Booking/internal/config"
	"github.com/m04kA/HomeService-Booking/migrations"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
)

// Использование:
//
//	migrate [-config config.toml] up
//	migrate [-config config.toml] down
//	migrate [-config config.toml] force <version>
//	migrate [-config config.toml] version
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Failed to create database driver: %v", err)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatal("Failed to create source driver: %v", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		log.Fatal("Failed to create migrator: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "force":
		version, convErr := strconv.Atoi(flag.Arg(1))
		if convErr != nil {
			log.Fatal("Invalid version %q: %v", flag.Arg(1), convErr)
		}
		err = m.Force(version)
	case "version":
		version, dirty, verErr := m.Version()
		if verErr != nil && !errors.Is(verErr, migrate.ErrNilVersion) {
			log.Fatal("Failed to read version: %v", verErr)
		}
		log.Info("Schema version=%d dirty=%t", version, dirty)
		return
	default:
		log.Fatal("Unknown command %q (expected up, down, force, version)", command)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal("Migration %s failed: %v", command, err)
	}

	log.Info("Migration %s complete", command)
}
