package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bakeryaid/backend/internal/infrastructure/config"
	"github.com/bakeryaid/backend/internal/infrastructure/logger"
	"github.com/bakeryaid/backend/internal/infrastructure/migration"
	"github.com/bakeryaid/backend/migrations"
)

func main() {
	var (
		action         string
		steps          int
		version        uint
		migrationsPath string
		name           string
		description    string
		logLevel       string
	)

	flag.StringVar(&action, "action", "up", "Action: up, down, steps, goto, version, force, create, list")
	flag.IntVar(&steps, "steps", 0, "Number of steps for -action steps (negative rolls back)")
	flag.UintVar(&version, "version", 0, "Target version for -action goto and -action force")
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&name, "name", "", "Migration name for -action create")
	flag.StringVar(&description, "description", "", "Migration description for -action create")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if migrationsPath != "" {
		if migrationsPath, err = filepath.Abs(migrationsPath); err != nil {
			log.Fatal("Failed to resolve migrations path", zap.Error(err))
		}
	}

	log.Info("Migration CLI started",
		zap.String("action", action),
		zap.String("migrations_path", sourceLabel(migrationsPath)),
	)

	// Actions that do not need a database connection
	switch action {
	case "create":
		if name == "" {
			log.Fatal("Migration name required: migrate -action create -name <name>")
		}
		dir := migrationsPath
		if dir == "" {
			dir = "migrations"
		}
		mf, err := migration.CreateMigration(dir, name, description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		var names []string
		if migrationsPath == "" {
			names, err = migration.ListMigrations(migrations.FS)
		} else {
			names, err = migration.ListMigrations(os.DirFS(migrationsPath))
		}
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		log.Info("Available migrations", zap.Int("count", len(names)))
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("SQL migrations target PostgreSQL; SQLite is migrated by the server at startup",
			zap.String("driver", cfg.Database.Driver))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if migrationsPath == "" {
		m, err = migration.New(db, log)
	} else {
		m, err = migration.NewFromPath(db, migrationsPath, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := run(m, action, steps, version, log); err != nil {
		log.Error("Migration failed", zap.String("action", action), zap.Error(err))
		os.Exit(1)
	}
}

func run(m *migration.Migrator, action string, steps int, version uint, log *zap.Logger) error {
	switch action {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		if steps == 0 {
			return fmt.Errorf("-steps must be non-zero")
		}
		return m.Steps(steps)
	case "goto":
		if version == 0 {
			return fmt.Errorf("-version is required")
		}
		return m.GoTo(version)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	case "force":
		if version == 0 {
			return fmt.Errorf("-version is required")
		}
		log.Warn("Forcing migration version - use with caution!")
		return m.Force(int(version))
	default:
		printUsage()
		return fmt.Errorf("unknown action %q", action)
	}
}

func sourceLabel(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Bakery aid database migration tool

Usage:
  migrate [flags]

Actions (-action):
  up          Apply all pending migrations (default)
  down        Roll back all migrations
  steps       Apply -steps migrations (positive=up, negative=down)
  goto        Migrate to -version
  version     Show the current migration version
  force       Force-set -version on a dirty database
  create      Create the next migration pair named -name under -path (default ./migrations)
  list        List available migrations

Flags:
  -path string          Migrations directory (default: migrations embedded in the binary)
  -log-level string     debug, info, warn, error (default: info)

Connection settings come from config.toml, .env and BAKERY_DATABASE_* variables.

Examples:
  migrate -action up
  migrate -action steps -steps -1
  migrate -action create -name "add production index"`)
}
