package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/nonsonwune/cgpa_tracker/ledger"
	"github.com/nonsonwune/cgpa_tracker/migrations"
	"github.com/nonsonwune/cgpa_tracker/models"
)

// PostgresStore keeps the ledger in the semesters and semester_courses tables.
// Positions preserve semester insertion order and course order.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects, pings and bootstraps the schema
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := migrations.InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	query := `
		SELECT s.semester_number, c.course_name, c.grade, c.credits
		FROM semesters s
		JOIN semester_courses c ON c.semester_number = s.semester_number
		ORDER BY s.position, c.position
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	defer rows.Close()

	type group struct {
		number  int
		entries []models.CourseEntry
	}
	var groups []*group

	row := 0
	for rows.Next() {
		row++
		var number, credits int
		var name, grade string
		if err := rows.Scan(&number, &name, &grade, &credits); err != nil {
			return nil, &MalformedDataError{Line: row, Reason: "scan failed", Err: err}
		}
		if len(groups) == 0 || groups[len(groups)-1].number != number {
			groups = append(groups, &group{number: number})
		}
		g := groups[len(groups)-1]
		g.entries = append(g.entries, models.CourseEntry{Name: name, Grade: grade, Credits: credits})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}

	l := ledger.New()
	for _, g := range groups {
		if _, err := l.AddSemester(g.number, g.entries); err != nil {
			return nil, &MalformedDataError{Line: row, Reason: fmt.Sprintf("semester %d rejected", g.number), Err: err}
		}
	}
	return l, nil
}

// Save replaces the stored ledger in a single transaction
func (s *PostgresStore) Save(ctx context.Context, l *ledger.Ledger) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileUnwritable, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM semesters`); err != nil {
		return fmt.Errorf("%w: %w", ErrFileUnwritable, err)
	}

	for pos, sem := range l.Semesters() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO semesters (semester_number, position) VALUES ($1, $2)`,
			sem.Number, pos); err != nil {
			return fmt.Errorf("%w: %w", ErrFileUnwritable, err)
		}
		for cpos, c := range sem.Courses {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO semester_courses (semester_number, position, course_name, grade, credits)
				 VALUES ($1, $2, $3, $4, $5)`,
				sem.Number, cpos, c.Name, c.Grade, c.Credits); err != nil {
				return fmt.Errorf("%w: %w", ErrFileUnwritable, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrFileUnwritable, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) String() string {
	return "postgres database"
}
