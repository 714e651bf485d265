package response

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/form"
	"github.com/aanand-mishra/student-records/internal/types"
)

var sampleStudents = []types.StudentRecord{
	{StudentID: "S1", Name: "Ana", Age: 20, Grade: 88.5},
	{StudentID: "S2", Name: "Bo", Age: 22, Grade: 60},
}

// Regenerate with: go test ./internal/utils/response -update
func TestWrite_StudentListGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	var text bytes.Buffer
	require.NoError(t, Write(&text, FormatText, sampleStudents))
	g.Assert(t, "student_list", text.Bytes())

	var js bytes.Buffer
	require.NoError(t, Write(&js, FormatJSON, sampleStudents))
	g.Assert(t, "student_list_json", js.Bytes())
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"single record", types.StudentRecord{StudentID: "S1", Name: "Ana", Age: 21, Grade: 88.5}, "ID: S1, Name: Ana, Age: 21, Grade: 88.5\n"},
		{"empty list", []types.StudentRecord{}, ""},
		{"average", types.Average{Grade: 85}, "Average Grade: 85\n"},
		{"fractional average", types.Average{Grade: 84.25}, "Average Grade: 84.25\n"},
		{"message", Message("Student added successfully."), "Student added successfully.\n"},
		{"general error", GeneralError(errors.New("disk full")), "Error: disk full\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.data))
		})
	}
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, types.Average{Grade: 85}))
	assert.Equal(t, "average_grade: 85\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatYAML, Message("done")))
	assert.Equal(t, "status: ok\nmessage: done\n", buf.String())
}

func TestWrite_JSONError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, GeneralError(errors.New("boom"))))
	assert.JSONEq(t, `{"status":"error","error":"Error: boom"}`, buf.String())
}

func TestValidationError(t *testing.T) {
	resp := ValidationError(&form.ValidationError{Problems: []string{"field age must be greater than 0", "field grade must be between 0 and 100"}})
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "Invalid input: field age must be greater than 0, field grade must be between 0 and 100", resp.Error)
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("text"))
	assert.True(t, ValidFormat("json"))
	assert.True(t, ValidFormat("yaml"))
	assert.False(t, ValidFormat("xml"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("plain")))
	assert.Equal(t, ExitInvalidInput, ExitCode(&ExitError{Code: ExitInvalidInput, Err: errors.New("bad")}))

	wrapped := fmt.Errorf("outer: %w", &ExitError{Code: ExitInvalidInput, Err: errors.New("bad")})
	assert.Equal(t, ExitInvalidInput, ExitCode(wrapped))
}
