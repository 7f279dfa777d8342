package repository

import (
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/condoguard/frontdesk/internal/observability"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

// Migration is one applied schema version
type Migration struct {
	Version     int
	Description string
	Checksum    string
	AppliedAt   time.Time
}

type pendingMigration struct {
	version     int
	description string
	sql         string
	checksum    string
}

// NewSQLiteDB opens the local store at dbPath and brings its schema up to
// date. Schema versions only ever add tables, columns and indexes, so an
// upgraded device keeps its data.
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// One writer on the device; a single connection also keeps the pragmas.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenLocalStore is NewSQLiteDB with recovery: a corrupt database file is
// moved aside and a fresh one created in its place.
func OpenLocalStore(dbPath string, logger *observability.Logger) (*sql.DB, error) {
	db, err := NewSQLiteDB(dbPath)
	if err == nil || !IsCorruption(err) {
		return db, err
	}

	quarantine := fmt.Sprintf("%s.corrupt-%d", dbPath, time.Now().Unix())
	logger.WithError(err).WithField("moved_to", quarantine).Error("Local store is corrupt, reinitializing")

	if renameErr := os.Rename(dbPath, quarantine); renameErr != nil {
		return nil, fmt.Errorf("failed to move corrupt database aside: %w", renameErr)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		os.Remove(dbPath + suffix)
	}

	return NewSQLiteDB(dbPath)
}

// IsCorruption reports whether err comes from a damaged database file
func IsCorruption(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrCorrupt || sqliteErr.Code == sqlite3.ErrNotADB
	}
	return false
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY CHECK(version > 0),
		description TEXT NOT NULL,
		checksum TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := AppliedMigrations(db)
	if err != nil {
		return err
	}
	done := make(map[int]string, len(applied))
	for _, m := range applied {
		done[m.Version] = m.Checksum
	}

	pending, err := loadMigrations()
	if err != nil {
		return err
	}

	for _, m := range pending {
		if checksum, ok := done[m.version]; ok {
			if checksum != m.checksum {
				return fmt.Errorf("migration V%d was modified after being applied", m.version)
			}
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("failed to apply migration V%d: %w", m.version, err)
		}
	}
	return nil
}

func loadMigrations() ([]pendingMigration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}

	var out []pendingMigration
	for _, entry := range entries {
		name := entry.Name()
		parts := strings.SplitN(strings.TrimSuffix(name, ".up.sql"), "__", 2)
		if len(parts) != 2 {
			continue
		}
		version, err := strconv.Atoi(strings.TrimPrefix(parts[0], "V"))
		if err != nil {
			continue
		}

		content, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return nil, err
		}
		sum := sha256.Sum256(content)
		out = append(out, pendingMigration{
			version:     version,
			description: strings.ReplaceAll(parts[1], "_", " "),
			sql:         string(content),
			checksum:    hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func applyMigration(db *sql.DB, m pendingMigration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, description, checksum, applied_at) VALUES (?, ?, ?, ?)`,
		m.version, m.description, m.checksum, time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// AppliedMigrations lists the schema versions recorded in the database
func AppliedMigrations(db *sql.DB) ([]Migration, error) {
	rows, err := db.Query(`SELECT version, description, checksum, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Migration
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Description, &m.Checksum, &m.AppliedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
