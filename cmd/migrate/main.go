package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/smartshopie/analytics-backend-go/internal/config"
	"github.com/smartshopie/analytics-backend-go/internal/database"
	"github.com/smartshopie/analytics-backend-go/pkg/logger"
)

// Standalone migration runner for deployments that apply schema changes
// before rolling the server, instead of relying on auto_migrate at boot.
func main() {
	var (
		dbPath         = flag.String("db", "", "database file path (defaults to configured database.path)")
		migrationsPath = flag.String("migrations", "", "migrations directory (defaults to configured database.migrations_path)")
	)
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *migrationsPath != "" {
		cfg.Database.MigrationsPath = *migrationsPath
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.MigrationsPath); err != nil {
		log.WithError(err).Error("Migration failed")
		os.Exit(1)
	}

	fmt.Println("Migrations applied successfully.")
}
