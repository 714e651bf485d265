// Package form turns the four text fields a user typed into a validated
// types.StudentRecord. Every check happens here, before the record store
// is called.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Input holds the raw, unparsed field values.
type Input struct {
	StudentID string
	Name      string
	Age       string
	Grade     string
}

// ValidationError lists every problem found in one Input.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, ", ")
}

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves every call.
var validate = validator.New()

// Parse converts in into a StudentRecord.
//
// Whitespace around each field is trimmed. Age must be a whole number
// greater than zero and grade a number between 0 and 100 inclusive.
// All problems are collected into a single *ValidationError.
func Parse(in Input) (types.StudentRecord, error) {
	rec := types.StudentRecord{
		StudentID: strings.TrimSpace(in.StudentID),
		Name:      strings.TrimSpace(in.Name),
	}

	var problems []string

	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil {
		problems = append(problems, "field age must be a whole number")
	}
	rec.Age = age

	grade, err := strconv.ParseFloat(strings.TrimSpace(in.Grade), 64)
	if err != nil {
		problems = append(problems, "field grade must be a number")
	}
	rec.Grade = grade

	if err := validate.Struct(rec); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return types.StudentRecord{}, fmt.Errorf("form.Parse: %w", err)
		}
		for _, fe := range validateErrs {
			// A field that did not parse already has a clearer message.
			if fe.Field() == "Age" && hasPrefix(problems, "field age") ||
				fe.Field() == "Grade" && hasPrefix(problems, "field grade") {
				continue
			}
			problems = append(problems, describe(fe))
		}
	}

	if len(problems) > 0 {
		return types.StudentRecord{}, &ValidationError{Problems: problems}
	}
	return rec, nil
}

// describe converts one validator.FieldError into a plain English sentence.
func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "StudentID":
		return "field student id is required"
	case "Age":
		return "field age must be greater than 0"
	case "Grade":
		return "field grade must be between 0 and 100"
	}

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", fe.Field())
	default:
		return fmt.Sprintf("field %s is invalid", fe.Field())
	}
}

func hasPrefix(problems []string, prefix string) bool {
	for _, p := range problems {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
