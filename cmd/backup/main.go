package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"abracadamots/internal/config"
	"abracadamots/internal/database"
	"abracadamots/internal/service"
)

func main() {
	exportPath := flag.String("export", "", "write a backup to this file (use \"auto\" for backup_YYYYMMDD_HHMMSS.json)")
	importPath := flag.String("import", "", "replace all data with this backup file (WARNING: destructive)")
	flag.Parse()

	if (*exportPath == "") == (*importPath == "") {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.Log.Setup(os.Stderr)

	ctx := context.Background()
	db, err := database.InitializeWithConfig(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	backupService := service.NewBackupService(db, clockwork.NewRealClock())

	if *exportPath != "" {
		if err := handleExport(ctx, backupService, *exportPath); err != nil {
			log.Fatal().Err(err).Msg("export failed")
		}
		return
	}
	if err := backupService.Import(ctx, *importPath); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
	fmt.Printf("Imported %s\n", *importPath)
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath string) error {
	// Generate default filename if asked to
	if outputPath == "auto" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	// Ensure directory exists
	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := backupService.Export(ctx, outputPath); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", outputPath)
	return nil
}

func printUsage() {
	fmt.Println("Abracadamots backup tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup -export <file>   write every child, list and setting to a JSON file")
	fmt.Println("  backup -import <file>   replace all data with a JSON backup")
	fmt.Println()
	fmt.Println("The database is selected with DB_TYPE, DB_PATH and DATABASE_URL.")
}
