package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS semesters (
		semester_number INTEGER PRIMARY KEY,
		position        INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS semester_courses (
		semester_number INTEGER NOT NULL REFERENCES semesters (semester_number) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		course_name     TEXT NOT NULL,
		grade           VARCHAR(2) NOT NULL,
		credits         INTEGER NOT NULL CHECK (credits > 0),
		PRIMARY KEY (semester_number, position)
	)`,
}

// RequiredTables are the tables the ledger store reads and writes
var RequiredTables = []string{"semesters", "semester_courses"}

// InitSchema creates the ledger tables if needed and verifies they exist
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	for _, table := range RequiredTables {
		var exists bool
		query := `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = current_schema()
				AND table_name = $1
			)`

		err := db.QueryRowContext(ctx, query, table).Scan(&exists)
		if err != nil {
			return err
		}

		if !exists {
			return fmt.Errorf("required table %s does not exist", table)
		}
	}

	return nil
}
