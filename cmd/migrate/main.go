package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"ticket-storefront/internal/config"
	"ticket-storefront/internal/database"
)

func main() {
	var (
		statusFlag = pflag.Bool("status", false, "Show migration status")
		upFlag     = pflag.Bool("up", false, "Run pending migrations")
	)
	pflag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if !cfg.Database.Enabled() {
		logger.Fatal("no database configured; set DATABASE_URL or DB_HOST")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.NewConnection(ctx, database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db.DB, logger)

	switch {
	case *statusFlag:
		statuses, err := migrator.Status(ctx)
		if err != nil {
			logger.Fatal("failed to get migration status", zap.Error(err))
		}
		fmt.Println("Migration Status:")
		for _, s := range statuses {
			state := "PENDING"
			if s.Applied {
				state = "APPLIED"
			}
			fmt.Printf("  %03d_%s: %s\n", s.Version, s.Name, state)
		}
	case *upFlag:
		if err := migrator.Up(ctx); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		fmt.Println("All migrations completed successfully!")
	default:
		fmt.Println("Usage:")
		fmt.Println("  migrate --status   # Show migration status")
		fmt.Println("  migrate --up       # Run pending migrations")
		os.Exit(1)
	}
}
