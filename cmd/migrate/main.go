package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"
	"strings"

	"love-dice/internal/config"

	_ "github.com/lib/pq"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding NNN_name.sql files")
	dryRun := flag.Bool("dry-run", false, "list pending migrations without applying them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		log.Fatalf("migrate only supports postgres, DB_DRIVER is %q", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		log.Fatalf("Failed to create schema_migrations: %v", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		log.Fatalf("Failed to read applied migrations: %v", err)
	}

	pending, err := pendingMigrations(os.DirFS(*dir), applied)
	if err != nil {
		log.Fatalf("Failed to list migrations: %v", err)
	}
	if len(pending) == 0 {
		log.Println("Schema is up to date")
		return
	}

	for _, name := range pending {
		if *dryRun {
			fmt.Println("pending:", name)
			continue
		}

		body, err := fs.ReadFile(os.DirFS(*dir), name)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", name, err)
		}

		log.Printf("Applying migration: %s", name)
		if err := apply(db, name, string(body)); err != nil {
			log.Fatalf("Failed to apply %s: %v", name, err)
		}
	}

	log.Printf("Applied %d migration(s)", len(pending))
}

func appliedVersions(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// pendingMigrations returns the .sql files in fsys not yet in applied, in lexical order.
func pendingMigrations(fsys fs.FS, applied map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		if applied[strings.TrimSuffix(e.Name(), ".sql")] {
			continue
		}
		pending = append(pending, e.Name())
	}
	sort.Strings(pending)
	return pending, nil
}

func apply(db *sql.DB, name, body string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(body); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, strings.TrimSuffix(name, ".sql")); err != nil {
		return err
	}
	return tx.Commit()
}
