// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// the CLI handlers, the form parser, and storage can all import types
// without depending on each other.
package types

// StudentRecord is one student's row in the record store.
//
// StudentID is the primary key. It is set once on insert and never
// rewritten; updates carry a StudentFields value instead.
//
// Struct tags:
//
//  1. json/yaml:"..." — key names used by the json and yaml output formats.
//  2. validate:"..."  — rules checked by go-playground/validator before the
//     record ever reaches the store.
type StudentRecord struct {
	StudentID string  `json:"student_id" yaml:"student_id" validate:"required"`
	Name      string  `json:"name"       yaml:"name"`
	Age       int     `json:"age"        yaml:"age"        validate:"gt=0"`
	Grade     float64 `json:"grade"      yaml:"grade"      validate:"gte=0,lte=100"`
}

// Fields returns the mutable part of the record.
func (r StudentRecord) Fields() StudentFields {
	return StudentFields{Name: r.Name, Age: r.Age, Grade: r.Grade}
}

// StudentFields is the payload of an update: everything except the id.
type StudentFields struct {
	Name  string  `json:"name"  yaml:"name"`
	Age   int     `json:"age"   yaml:"age"   validate:"gt=0"`
	Grade float64 `json:"grade" yaml:"grade" validate:"gte=0,lte=100"`
}

// Average is the result of the average-grade aggregate.
type Average struct {
	Grade float64 `json:"average_grade" yaml:"average_grade"`
}
