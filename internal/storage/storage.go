// Package storage defines the Storage interface, the contract any database
// backend must satisfy to work with this application, and the typed
// errors every backend reports.
//
// WHY AN INTERFACE?
// ─────────────────
// The command-line handlers should not know or care which database they
// are talking to. By depending only on this interface:
//
//   - Switching front ends (CLI today, something else tomorrow) never
//     touches storage code.
//
//   - Writing tests = pass a fake that satisfies the interface.
//     No real database needed for handler tests.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Failure conditions a caller can branch on with errors.Is.
// Backends wrap these with the operation name, e.g.
//
//	fmt.Errorf("CreateStudent: %w", storage.ErrDuplicateKey)
var (
	// ErrDuplicateKey means an insert used a student id that already exists.
	ErrDuplicateKey = errors.New("student id already exists")

	// ErrNotFound means no record matched the given student id.
	ErrNotFound = errors.New("no student with the given id")

	// ErrUnavailable marks transient failures (locked database, I/O
	// error). Retrying the same call later may succeed.
	ErrUnavailable = errors.New("storage temporarily unavailable")
)

// Storage is the database contract.
type Storage interface {
	// CreateStudent inserts a new record. Returns ErrDuplicateKey if the
	// id is already present; the existing record is left untouched.
	CreateStudent(ctx context.Context, student types.StudentRecord) error

	// GetStudentByID fetches a single record. Returns ErrNotFound if absent.
	GetStudentByID(ctx context.Context, id string) (types.StudentRecord, error)

	// GetStudents returns every record, in no particular order.
	// Returns an empty slice (not nil) if there are none.
	GetStudents(ctx context.Context) ([]types.StudentRecord, error)

	// UpdateStudentByID rewrites name, age and grade of an existing
	// record. Returns ErrNotFound if nothing matched.
	UpdateStudentByID(ctx context.Context, id string, fields types.StudentFields) error

	// DeleteStudentByID removes a record. Deleting an absent id is not
	// an error.
	DeleteStudentByID(ctx context.Context, id string) error

	// AverageGrade returns the mean grade, or 0 for an empty store.
	AverageGrade(ctx context.Context) (float64, error)

	// Close releases the underlying connection.
	Close() error
}
