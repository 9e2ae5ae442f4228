package store

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

//go:embed migrations/*.sql
var migrations embed.FS

// NewDB opens a SQLite database connection and configures it for
// concurrent-read-friendly durability.
func NewDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA busy_timeout=10000", // Bounded wait when the database is locked
		"PRAGMA synchronous=NORMAL", // Good balance of safety and speed
		"PRAGMA foreign_keys=ON",    // Enforce foreign key constraints
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Migrate runs all pending database migrations, then back-fills the
// reg_link column on events tables created before the column existed.
// Safe to call on every startup.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if err := ensureRegLinkColumn(db); err != nil {
		return fmt.Errorf("ensuring reg_link column: %w", err)
	}

	return nil
}

// ensureRegLinkColumn adds the reg_link column to a pre-existing events
// table that lacks it. Databases created by earlier deployments predate
// goose, so their events table skips the CREATE IF NOT EXISTS migration
// without ever gaining the column.
func ensureRegLinkColumn(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(events)")
	if err != nil {
		return fmt.Errorf("reading events schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	hasRegLink := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		if name == "reg_link" {
			hasRegLink = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if hasRegLink {
		return nil
	}

	// Default keeps old rows valid under the NOT NULL constraint.
	if _, err := db.Exec("ALTER TABLE events ADD COLUMN reg_link TEXT NOT NULL DEFAULT ''"); err != nil {
		return fmt.Errorf("adding reg_link column: %w", err)
	}

	return nil
}
