// Package response provides helpers for writing consistent command output.
//
// Every command in this application prints either a result (a record, a
// list, an average) or a status envelope. Rather than formatting by hand
// in every handler, we centralise it here, in three formats:
//
//	text — the human-readable lines shown by default
//	json — one JSON document per command
//	yaml — one YAML document per command
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/student-records/internal/form"
	"github.com/aanand-mishra/student-records/internal/types"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope for messages and errors.
//
// Result values (a student, a list, an average) are written as they are.
// Status messages and errors always look like:
//
//	{ "status": "error", "error": "No student with the given ID found" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status  string `json:"status"            yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string `json:"error,omitempty"   yaml:"error,omitempty"`
}

// Status string constants. Use these instead of raw string literals so
// a typo is caught by the compiler.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Output formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists every accepted output format.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Write renders data to w in the given format. Unknown formats fall back
// to text.
func Write(w io.Writer, format string, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, Text(data))
		return err
	}
}

// Text is the human-readable rendering used by FormatText.
func Text(data any) string {
	switch v := data.(type) {
	case Response:
		if v.Status == StatusError {
			return v.Error + "\n"
		}
		return v.Message + "\n"
	case types.StudentRecord:
		return line(v)
	case []types.StudentRecord:
		var b strings.Builder
		for _, s := range v {
			b.WriteString(line(s))
		}
		return b.String()
	case types.Average:
		return "Average Grade: " + formatFloat(v.Grade) + "\n"
	default:
		return fmt.Sprintln(v)
	}
}

func line(s types.StudentRecord) string {
	return fmt.Sprintf("ID: %s, Name: %s, Age: %d, Grade: %s\n",
		s.StudentID, s.Name, s.Age, formatFloat(s.Grade))
}

// formatFloat prints the shortest representation: 85, 88.5, 72.25.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Message wraps a success message.
func Message(msg string) Response {
	return Response{Status: StatusOK, Message: msg}
}

// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors (storage failures, bad flags, etc.)
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  "Error: " + err.Error(),
	}
}

// ValidationError converts a *form.ValidationError into a single
// human-readable Response listing every rejected field.
//
// Example output:
//
//	Invalid input: field age must be greater than 0, field grade must be between 0 and 100
func ValidationError(err *form.ValidationError) Response {
	return Response{
		Status: StatusError,
		Error:  "Invalid input: " + strings.Join(err.Problems, ", "),
	}
}

// Exit codes returned by the students binary.
const (
	ExitSuccess      = 0 // command ran and did what was asked
	ExitFailure      = 1 // storage or runtime failure, missing record
	ExitInvalidInput = 2 // rejected before reaching the store
)

// ExitError carries the process exit code for a failure that has already
// been written to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the exit code from err: 0 for nil, the carried code
// for an *ExitError, ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
