// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. For one user keeping a small record set it is all we need.
//
// Importing the driver registers "sqlite3" with database/sql; we also use
// its Error type to tell a duplicate id apart from a locked database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	"github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
//
// Db is capped at a single open connection: the store behaves like one
// long-lived handle, and SQLite only allows one writer anyway.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.StoragePath, creates the students
// table if it does not already exist, and returns a ready-to-use *SQLite.
// The caller owns the result and must Close it.
func New(cfg *config.Config) (*SQLite, error) {
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	// sql.Open only validates the driver name; Ping makes the first real
	// connection so a bad path fails here, not on the first command.
	db, err := sql.Open("sqlite3", dsn(cfg.StoragePath, cfg.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrap("sqlite.New: ping", err)
	}

	s := NewWithDB(db)
	if err := s.createTable(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// dsn turns a filesystem path into a file: URI for the driver.
//
// The driver splits its DSN at the first '?', so the path is escaped and
// a '?' or '#' in a file name stays part of the name. _busy_timeout makes
// the driver wait on a locked file instead of failing immediately with
// SQLITE_BUSY.
func dsn(path string, busyTimeout time.Duration) string {
	u := url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     filepath.ToSlash(path),
		RawQuery: url.Values{"_busy_timeout": {strconv.FormatInt(busyTimeout.Milliseconds(), 10)}}.Encode(),
	}
	return u.String()
}

// NewWithDB wraps an already-open *sql.DB without touching the schema.
// Tests use it with go-sqlmock.
func NewWithDB(db *sql.DB) *SQLite {
	return &SQLite{Db: db}
}

// createTable is idempotent and safe to run on every startup.
//
// Schema:
//
//	name       — student's full name
//	age        — whole years
//	grade      — 0..100, fractional allowed
//	student_id — caller-chosen identifier, the primary key
func (s *SQLite) createTable(ctx context.Context) error {
	_, err := s.Db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS students (
			name       TEXT,
			age        INTEGER,
			grade      REAL,
			student_id TEXT PRIMARY KEY
		)
	`)
	if err != nil {
		return wrap("sqlite.New: create table", err)
	}
	return nil
}

// Close releases the connection. Safe to call on a zero SQLite.
func (s *SQLite) Close() error {
	if s.Db == nil {
		return nil
	}
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent inserts a new row into the students table.
//
// There is no "check, then insert": the PRIMARY KEY constraint rejects a
// duplicate id atomically and wrap turns that into storage.ErrDuplicateKey.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreateStudent(ctx context.Context, student types.StudentRecord) error {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (name, age, grade, student_id) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return wrap("CreateStudent: prepare", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, student.Name, student.Age, student.Grade, student.StudentID)
	if err != nil {
		return wrap("CreateStudent: exec", err)
	}

	return nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(ctx context.Context, id string) (types.StudentRecord, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT student_id, name, age, grade FROM students WHERE student_id = ? LIMIT 1",
	)
	if err != nil {
		return types.StudentRecord{}, wrap("GetStudentByID: prepare", err)
	}
	defer stmt.Close()

	var student types.StudentRecord
	err = stmt.QueryRowContext(ctx, id).Scan(
		&student.StudentID,
		&student.Name,
		&student.Age,
		&student.Grade,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.StudentRecord{}, fmt.Errorf("GetStudentByID %q: %w", id, storage.ErrNotFound)
		}
		return types.StudentRecord{}, wrap("GetStudentByID: scan", err)
	}

	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudents returns all student rows as a slice.
//
// No ORDER BY: callers must not rely on insertion or id order.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStudents(ctx context.Context) ([]types.StudentRecord, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT student_id, name, age, grade FROM students",
	)
	if err != nil {
		return nil, wrap("GetStudents: prepare", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, wrap("GetStudents: query", err)
	}
	defer rows.Close()

	students := make([]types.StudentRecord, 0)

	for rows.Next() {
		var student types.StudentRecord

		if err := rows.Scan(
			&student.StudentID,
			&student.Name,
			&student.Age,
			&student.Grade,
		); err != nil {
			return nil, wrap("GetStudents: scan row", err)
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("GetStudents: rows iteration", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStudentByID rewrites name, age and grade for one student.
//
// The existence check is folded into the UPDATE itself: zero rows affected
// means the id was absent, reported as storage.ErrNotFound. Listing first
// and updating second would leave a window for another writer.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdateStudentByID(ctx context.Context, id string, fields types.StudentFields) error {
	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE students SET name = ?, age = ?, grade = ? WHERE student_id = ?",
	)
	if err != nil {
		return wrap("UpdateStudentByID: prepare", err)
	}
	defer stmt.Close()

	// Argument order matches the ? order: name, age, grade, student_id
	result, err := stmt.ExecContext(ctx, fields.Name, fields.Age, fields.Grade, id)
	if err != nil {
		return wrap("UpdateStudentByID: exec", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrap("UpdateStudentByID: rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("UpdateStudentByID %q: %w", id, storage.ErrNotFound)
	}

	return nil
}

// DeleteStudentByID removes a student row by primary key.
// An absent id deletes nothing and is not an error.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id string) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE student_id = ?")
	if err != nil {
		return wrap("DeleteStudentByID: prepare", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return wrap("DeleteStudentByID: exec", err)
	}

	return nil
}

// AverageGrade computes the mean grade across all rows.
//
// AVG over an empty table is NULL, which we report as 0.
func (s *SQLite) AverageGrade(ctx context.Context) (float64, error) {
	stmt, err := s.Db.PrepareContext(ctx, "SELECT AVG(grade) FROM students")
	if err != nil {
		return 0, wrap("AverageGrade: prepare", err)
	}
	defer stmt.Close()

	var avg sql.NullFloat64
	if err := stmt.QueryRowContext(ctx).Scan(&avg); err != nil {
		return 0, wrap("AverageGrade: scan", err)
	}

	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// wrap annotates err with op and maps SQLite result codes onto the
// storage sentinels. The driver error stays in the chain.
func wrap(op string, err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch sqliteErr.Code {
	case sqlite3.ErrConstraint:
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%s: %w: %w", op, storage.ErrDuplicateKey, err)
		}
	case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrIoErr,
		sqlite3.ErrCantOpen, sqlite3.ErrReadonly, sqlite3.ErrFull:
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
