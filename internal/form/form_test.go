package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/types"
)

func TestParse_Valid(t *testing.T) {
	rec, err := Parse(Input{StudentID: " S1 ", Name: " Ana ", Age: "20", Grade: "88.5"})
	require.NoError(t, err)
	assert.Equal(t, types.StudentRecord{StudentID: "S1", Name: "Ana", Age: 20, Grade: 88.5}, rec)
}

func TestParse_GradeBounds(t *testing.T) {
	for _, grade := range []string{"0", "100", "99.99"} {
		t.Run(grade, func(t *testing.T) {
			_, err := Parse(Input{StudentID: "S1", Age: "1", Grade: grade})
			assert.NoError(t, err)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		problem string
	}{
		{"zero age", Input{StudentID: "S1", Age: "0", Grade: "50"}, "field age must be greater than 0"},
		{"negative age", Input{StudentID: "S1", Age: "-3", Grade: "50"}, "field age must be greater than 0"},
		{"grade above 100", Input{StudentID: "S1", Age: "20", Grade: "101"}, "field grade must be between 0 and 100"},
		{"negative grade", Input{StudentID: "S1", Age: "20", Grade: "-0.5"}, "field grade must be between 0 and 100"},
		{"NaN grade", Input{StudentID: "S1", Age: "20", Grade: "NaN"}, "field grade must be between 0 and 100"},
		{"non-numeric age", Input{StudentID: "S1", Age: "twenty", Grade: "50"}, "field age must be a whole number"},
		{"fractional age", Input{StudentID: "S1", Age: "20.5", Grade: "50"}, "field age must be a whole number"},
		{"non-numeric grade", Input{StudentID: "S1", Age: "20", Grade: "A+"}, "field grade must be a number"},
		{"blank id", Input{StudentID: "   ", Age: "20", Grade: "50"}, "field student id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, []string{tt.problem}, vErr.Problems)
		})
	}
}

func TestParse_CollectsAllProblems(t *testing.T) {
	_, err := Parse(Input{StudentID: "S1", Age: "0", Grade: "101"})

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{
		"field age must be greater than 0",
		"field grade must be between 0 and 100",
	}, vErr.Problems)
	assert.Equal(t, "invalid input: field age must be greater than 0, field grade must be between 0 and 100", err.Error())
}
