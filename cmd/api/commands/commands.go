package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inventra/core/internal/domain/entities"
	"github.com/inventra/core/internal/infrastructure/config"
	"github.com/inventra/core/internal/infrastructure/database"
	"github.com/inventra/core/internal/infrastructure/logger"
	"github.com/inventra/core/internal/infrastructure/metrics"
	"github.com/inventra/core/internal/infrastructure/server"
	"github.com/inventra/core/internal/ports"
)

// Build information, set with -ldflags at release time
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Inventra API server",
		Long:  "Start the Inventra API server with the items and categories routes",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create missing collection documents",
		Long:  "Read every collection once so that missing files or rows are created empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCollections(func(collections []ports.RecordService) error {
				for _, svc := range collections {
					count, err := svc.Probe(cmd.Context())
					if err != nil {
						return fmt.Errorf("init %s: %w", svc.Collection().Name, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", svc.Collection().Name, count)
				}
				return nil
			})
		},
	}
}

// NewRecordsCommand creates the records inspection command
func NewRecordsCommand() *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect stored records",
	}

	listCmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Print a collection as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ownerID *int64
			if cmd.Flags().Changed("owner-id") {
				v, _ := cmd.Flags().GetInt64("owner-id")
				ownerID = &v
			}

			return withCollections(func(collections []ports.RecordService) error {
				svc, err := findCollection(collections, args[0])
				if err != nil {
					return err
				}

				records, err := svc.List(cmd.Context(), ownerID)
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			})
		},
	}
	listCmd.Flags().Int64("owner-id", 0, "Only print records of this owner")

	recordsCmd.AddCommand(listCmd)
	return recordsCmd
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the schema of the postgres storage driver (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Inventra version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Inventra %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", Commit)
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	var db *database.DB
	if cfg.Storage.Driver == config.DriverPostgres {
		db, err = database.New(cfg.Database)
		if err != nil {
			appLogger.Fatalw("Failed to connect to database", "error", err)
		}
		defer db.Close()
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	collections, err := server.BuildCollections(cfg, db, appLogger, m)
	if err != nil {
		appLogger.Fatalw("Failed to build collections", "error", err)
	}

	srv, err := server.New(cfg, collections, db, m, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	go func() {
		appLogger.Infow("Starting Inventra API server",
			"port", cfg.Server.Port,
			"environment", cfg.App.Environment,
			"storage", cfg.Storage.Driver,
			"id_strategy", cfg.Storage.IDStrategy,
		)

		if err := srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Server forced to shutdown", "error", err)
		return
	}

	appLogger.Infow("Server exited gracefully")
}

// withCollections loads config, opens storage and hands the collection services to fn
func withCollections(fn func([]ports.RecordService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Sync()

	var db *database.DB
	if cfg.Storage.Driver == config.DriverPostgres {
		db, err = database.New(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
	}

	collections, err := server.BuildCollections(cfg, db, appLogger, nil)
	if err != nil {
		return err
	}

	return fn(collections)
}

func findCollection(collections []ports.RecordService, name string) (ports.RecordService, error) {
	for _, svc := range collections {
		if svc.Collection().Name == name {
			return svc, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown collection %q", entities.ErrNotFound, name)
}

func openMigrationDB() *database.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatalf("Migrations only apply to the postgres storage driver (current: %s)", cfg.Storage.Driver)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return db
}

func runMigration(direction string) {
	db := openMigrationDB()
	defer db.Close()

	applied, err := db.Migrate(direction)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if !applied {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	db := openMigrationDB()
	defer db.Close()

	m, err := db.Migrator()
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}
