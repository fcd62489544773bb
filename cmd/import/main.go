// Command import loads a legacy expenses.txt file into a user's ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"expensetracker/internal/config"
	"expensetracker/internal/database"
	"expensetracker/internal/importer"
	"expensetracker/internal/logger"
	"expensetracker/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Import error: %v", err)
	}
}

func run() error {
	username := flag.String("user", "", "username that will own the imported expenses")
	path := flag.String("file", "expenses.txt", "legacy date,category,amount file")
	flag.Parse()

	if *username == "" {
		return fmt.Errorf("usage: import -user <username> [-file expenses.txt]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	user, err := services.NewUserService(db).GetUserByUsername(*username)
	if err != nil {
		return fmt.Errorf("user %q: %w", *username, err)
	}

	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := importer.Import(ctx, f, user.ID, services.NewExpenseService(db))
	if err != nil {
		return err
	}

	if summary.Imported > 0 {
		services.NewAuditService(db).Log(user.ID, services.AuditActionImport, "expense", "", "", map[string]any{
			"file":     *path,
			"imported": summary.Imported,
			"skipped":  len(summary.Skipped),
		})
	}

	logger.Get().Infof("Imported %d expense(s), skipped %d line(s)", summary.Imported, len(summary.Skipped))
	return nil
}
