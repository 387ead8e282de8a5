// Package migrations runs the versioned SQL migrations that create the
// posting, company, progress, and history tables. Schema changes ship as
// numbered up/down pairs under migrations/ rather than relying on
// AutoMigrate, so production databases evolve explicitly.
package migrations

import (
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/remoteindex/remoteindex/internal/logger"
)

// Config describes where the migration files live and how to reach the
// database.
type Config struct {
	// SourcePath is a golang-migrate source URL, e.g. "file://migrations"
	SourcePath string
	// DatabaseURL is the postgres connection URL
	DatabaseURL string
	// RetryAttempts is how many times to retry the initial connection
	RetryAttempts int
	// RetryDelay is the wait between connection attempts
	RetryDelay time.Duration
}

// DefaultConfig returns the standard migration configuration.
func DefaultConfig() Config {
	return Config{
		SourcePath:    "file://migrations",
		RetryAttempts: 5,
		RetryDelay:    3 * time.Second,
	}
}

// Runner applies and rolls back schema migrations.
type Runner struct {
	config  Config
	migrate *migrate.Migrate
}

// NewRunner connects to the database and prepares a Runner. The connection
// is retried because the migrate entrypoint often races the database
// container coming up.
func NewRunner(config Config) (*Runner, error) {
	var m *migrate.Migrate
	var err error

	for attempt := 1; attempt <= config.RetryAttempts; attempt++ {
		m, err = migrate.New(config.SourcePath, config.DatabaseURL)
		if err == nil {
			break
		}
		logger.Warnf("migrations: connection attempt %d/%d failed: %v", attempt, config.RetryAttempts, err)
		time.Sleep(config.RetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting for migrations after %d attempts: %w", config.RetryAttempts, err)
	}

	return &Runner{config: config, migrate: m}, nil
}

// Up applies all pending migrations. An already current schema is not an
// error.
func (r *Runner) Up() error {
	if err := r.migrate.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("applying migrations: %w", err)
	}
	logger.Info("migrations: schema is up to date")
	return nil
}

// Down rolls back all migrations.
func (r *Runner) Down() error {
	if err := r.migrate.Down(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("rolling back migrations: %w", err)
	}
	logger.Info("migrations: rollback complete")
	return nil
}

// Steps applies n migrations forward, or backward when n is negative.
func (r *Runner) Steps(n int) error {
	if err := r.migrate.Steps(n); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("applying %d migration steps: %w", n, err)
	}
	return nil
}

// Version reports the current schema version and whether it is dirty.
func (r *Runner) Version() (uint, bool, error) {
	return r.migrate.Version()
}

// Force records the given version without running any migration. Used to
// recover from a dirty state.
func (r *Runner) Force(version int) error {
	return r.migrate.Force(version)
}
