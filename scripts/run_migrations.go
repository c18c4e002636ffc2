package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/safar/vendor-portal/internal/config"
	"github.com/safar/vendor-portal/internal/database"
)

const trackingTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name VARCHAR(255) PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT NOW()
)`

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/run_migrations.go [up|down] [migrations-dir]")
	}

	direction := os.Args[1]
	if direction != "up" && direction != "down" {
		log.Fatal("Direction must be 'up' or 'down'")
	}

	migrationDir := "migrations"
	if len(os.Args) > 2 {
		migrationDir = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, trackingTable); err != nil {
		log.Fatalf("Create schema_migrations: %v", err)
	}

	files, err := migrationFiles(migrationDir, direction)
	if err != nil {
		log.Fatalf("Read migration directory: %v", err)
	}

	applied := 0
	for _, filename := range files {
		name := strings.TrimSuffix(filename, "."+direction+".sql")

		done, err := isApplied(ctx, db, name)
		if err != nil {
			log.Fatalf("Check migration %s: %v", name, err)
		}
		if done == (direction == "up") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationDir, filename))
		if err != nil {
			log.Fatalf("Read migration file %s: %v", filename, err)
		}

		log.Printf("Running migration: %s", filename)
		err = database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return err
			}
			if direction == "up" {
				_, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
			} else {
				_, err = tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE name = $1`, name)
			}
			return err
		})
		if err != nil {
			log.Fatalf("Execute migration %s: %v", filename, err)
		}
		applied++
	}

	log.Printf("Successfully ran %d migration(s) %s", applied, direction)
}

// migrationFiles lists the files for one direction, in apply order.
func migrationFiles(dir, direction string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "."+direction+".sql") {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files)
	if direction == "down" {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}
