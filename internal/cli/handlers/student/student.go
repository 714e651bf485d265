// Package student contains the command handlers for the Student resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────────
// cobra expects a RunE with the signature:
//
//	func(*cobra.Command, []string) error
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (the store)
//  2. Returns a function with the exact signature cobra needs
//
// Example:
//
//	err := student.New(store)(cmd, args)
//
// Every handler writes its own result, success or failure, to the
// command's output streams. A failure is also returned as a
// *response.ExitError so the process exits non-zero.
package student

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/student-records/internal/form"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// RunFunc is the shape of a cobra RunE.
type RunFunc func(cmd *cobra.Command, args []string) error

// Messages shown to the user.
const (
	MsgAdded    = "Student added successfully."
	MsgRemoved  = "Student removed successfully."
	MsgUpdated  = "Student updated successfully."
	MsgNotFound = "No student with the given ID found"
)

// Flag names shared by add and update.
const (
	FlagID    = "id"
	FlagName  = "name"
	FlagAge   = "age"
	FlagGrade = "grade"
)

// InputFlags registers the four form fields on cmd.
//
// Age and grade are plain strings: parsing them is part of validation,
// so "twenty" reaches form.Parse and gets a proper message.
func InputFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagID, "", "student identifier")
	cmd.Flags().String(FlagName, "", "student name")
	cmd.Flags().String(FlagAge, "", "age in whole years, greater than 0")
	cmd.Flags().String(FlagGrade, "", "grade between 0 and 100")
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles `students add --id S1 --name Ana --age 20 --grade 88.5`
//
// Failure cases:
//
//	invalid input     — exit 2, nothing written to the store
//	duplicate id      — exit 1, existing record untouched
//	storage failure   — exit 1
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		slog.Info("adding a student")

		student, err := form.Parse(readInput(cmd))
		if err != nil {
			return invalid(cmd, err)
		}

		if err := store.CreateStudent(contextOf(cmd), student); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				slog.Warn("duplicate student id", slog.String("id", student.StudentID))
				return fail(cmd, response.Response{
					Status: response.StatusError,
					Error:  "A student with ID " + student.StudentID + " already exists",
				}, err)
			}

			slog.Error("error adding student",
				slog.String("id", student.StudentID),
				slog.String("error", err.Error()))
			return fail(cmd, response.GeneralError(err), err)
		}

		slog.Info("student added", slog.String("id", student.StudentID))
		return write(cmd, response.Message(MsgAdded))
	}
}

// GetByID handles `students get <id>`
func GetByID(store storage.Storage) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args)
		if err != nil {
			return invalid(cmd, err)
		}
		slog.Info("getting a student", slog.String("id", id))

		student, err := store.GetStudentByID(contextOf(cmd), id)
		if err != nil {
			return storageFailure(cmd, "error getting student", id, err)
		}

		return write(cmd, student)
	}
}

// GetList handles `students list`
// Prints one line per student; prints nothing when the store is empty.
func GetList(store storage.Storage) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		slog.Info("getting all students")

		students, err := store.GetStudents(contextOf(cmd))
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			return fail(cmd, response.GeneralError(err), err)
		}

		return write(cmd, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles `students update --id S1 --name Ana --age 21 --grade 88.5`
// Replaces name, age and grade; the id only selects the record.
//
// An unknown id is reported as "No student with the given ID found" and
// leaves the store unchanged.
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		student, err := form.Parse(readInput(cmd))
		if err != nil {
			return invalid(cmd, err)
		}
		slog.Info("updating a student", slog.String("id", student.StudentID))

		if err := store.UpdateStudentByID(contextOf(cmd), student.StudentID, student.Fields()); err != nil {
			return storageFailure(cmd, "error updating student", student.StudentID, err)
		}

		slog.Info("student updated", slog.String("id", student.StudentID))
		return write(cmd, response.Message(MsgUpdated))
	}
}

// Delete handles `students remove <id>`
// Removing an id that does not exist still succeeds.
func Delete(store storage.Storage) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		id, err := idArg(args)
		if err != nil {
			return invalid(cmd, err)
		}
		slog.Info("deleting a student", slog.String("id", id))

		if err := store.DeleteStudentByID(contextOf(cmd), id); err != nil {
			return storageFailure(cmd, "error deleting student", id, err)
		}

		slog.Info("student deleted", slog.String("id", id))
		return write(cmd, response.Message(MsgRemoved))
	}
}

// Average handles `students average`
func Average(store storage.Storage) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		slog.Info("calculating average grade")

		avg, err := store.AverageGrade(contextOf(cmd))
		if err != nil {
			slog.Error("error calculating average", slog.String("error", err.Error()))
			return fail(cmd, response.GeneralError(err), err)
		}

		return write(cmd, types.Average{Grade: avg})
	}
}

func readInput(cmd *cobra.Command) form.Input {
	var in form.Input
	in.StudentID, _ = cmd.Flags().GetString(FlagID)
	in.Name, _ = cmd.Flags().GetString(FlagName)
	in.Age, _ = cmd.Flags().GetString(FlagAge)
	in.Grade, _ = cmd.Flags().GetString(FlagGrade)
	return in
}

func idArg(args []string) (string, error) {
	var id string
	if len(args) > 0 {
		id = strings.TrimSpace(args[0])
	}
	if id == "" {
		return "", &form.ValidationError{Problems: []string{"field student id is required"}}
	}
	return id, nil
}

// contextOf falls back to Background for commands run outside Execute.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func format(cmd *cobra.Command) string {
	f, _ := cmd.Flags().GetString("format")
	return f
}

func write(cmd *cobra.Command, data any) error {
	return response.Write(cmd.OutOrStdout(), format(cmd), data)
}

func invalid(cmd *cobra.Command, err error) error {
	var vErr *form.ValidationError
	if !errors.As(err, &vErr) {
		return fail(cmd, response.GeneralError(err), err)
	}
	_ = response.Write(cmd.ErrOrStderr(), format(cmd), response.ValidationError(vErr))
	return &response.ExitError{Code: response.ExitInvalidInput, Err: err}
}

func storageFailure(cmd *cobra.Command, msg, id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info(msg, slog.String("id", id), slog.String("error", err.Error()))
		return fail(cmd, response.Response{Status: response.StatusError, Error: MsgNotFound}, err)
	}
	slog.Error(msg, slog.String("id", id), slog.String("error", err.Error()))
	return fail(cmd, response.GeneralError(err), err)
}

func fail(cmd *cobra.Command, resp response.Response, err error) error {
	_ = response.Write(cmd.ErrOrStderr(), format(cmd), resp)
	return &response.ExitError{Code: response.ExitFailure, Err: err}
}
