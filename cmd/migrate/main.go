package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ogurasousui/feedback-exchange/internal/platform/config"
	mongodb "github.com/ogurasousui/feedback-exchange/internal/platform/db/mongo"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing postgres migration files")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		err = migrateMongo(action, cfg.Mongo)
	default:
		err = runMigration(action, *migrationsDir, cfg.Database.DSN())
	}
	if err != nil {
		log.Fatalf("migration %s failed: %v", action, err)
	}

	log.Printf("migration %s completed (driver=%s)", action, cfg.Storage.Driver)
}

func loadConfig(flagValue string) (*config.Config, error) {
	if flagValue != "" {
		return config.Load(flagValue)
	}
	return config.LoadFromEnv()
}

// migrateMongo はスキーマを持たない MongoDB に対してインデックスのみを揃えます。
func migrateMongo(action string, cfg config.MongoConfig) error {
	if action != "up" {
		return fmt.Errorf("unsupported action %q for mongo driver", action)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout*2)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	return mongodb.EnsureIndexes(ctx, client.Database(cfg.Database))
}

func runMigration(action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	if _, err := os.Stat(absDir); err != nil {
		return fmt.Errorf("migrations directory: %w", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Printf("no migration applied")
			return nil
		}
		if err != nil {
			return err
		}
		log.Printf("version=%d dirty=%t", version, dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
