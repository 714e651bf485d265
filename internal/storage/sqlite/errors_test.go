package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

func newMockStore(t *testing.T) (*SQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestCreateStudent_BusyIsUnavailable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectPrepare(`INSERT INTO students`).
		ExpectExec().
		WithArgs("Ana", 20, 88.5, "S1").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})

	err := s.CreateStudent(context.Background(), types.StudentRecord{StudentID: "S1", Name: "Ana", Age: 20, Grade: 88.5})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.NotErrorIs(t, err, storage.ErrDuplicateKey)

	var sqliteErr sqlite3.Error
	assert.True(t, errors.As(err, &sqliteErr), "driver error should stay in the chain")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudent_PrimaryKeyIsDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectPrepare(`INSERT INTO students`).
		ExpectExec().
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey})

	err := s.CreateStudent(context.Background(), types.StudentRecord{StudentID: "S1", Age: 1})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudent_OtherErrorsPassThrough(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectPrepare(`INSERT INTO students`).WillReturnError(boom)

	err := s.CreateStudent(context.Background(), types.StudentRecord{StudentID: "S1", Age: 1})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, storage.ErrDuplicateKey)
	assert.NotErrorIs(t, err, storage.ErrUnavailable)
	assert.Contains(t, err.Error(), "CreateStudent: prepare")
}

func TestGetStudents_QueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectPrepare(`SELECT student_id, name, age, grade FROM students`).
		ExpectQuery().
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrIoErr})

	students, err := s.GetStudents(context.Background())
	assert.Nil(t, students)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStudentByID_NoRowsAffected(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectPrepare(`UPDATE students SET`).
		ExpectExec().
		WithArgs("Ana", 21, 88.5, "S1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateStudentByID(context.Background(), "S1", types.StudentFields{Name: "Ana", Age: 21, Grade: 88.5})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentByID_LockedIsUnavailable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectPrepare(`DELETE FROM students`).
		ExpectExec().
		WithArgs("S1").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrLocked})

	err := s.DeleteStudentByID(context.Background(), "S1")
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAverageGrade_NullIsZero(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectPrepare(`SELECT AVG`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

	avg, err := s.AverageGrade(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClose_ClosesDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectClose()
	require.NoError(t, NewWithDB(db).Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
