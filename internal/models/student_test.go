package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentValidate(t *testing.T) {
	testCases := []struct {
		name    string
		student Student
		valid   bool
	}{
		{
			name: "complete record",
			student: Student{
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "ada@example.com",
			},
			valid: true,
		},
		{
			name: "dob is optional",
			student: Student{
				FirstName: "Alan",
				LastName:  "Turing",
				Email:     "alan@example.com",
				DOB:       nil,
			},
			valid: true,
		},
		{
			name: "missing first name",
			student: Student{
				LastName: "Lovelace",
				Email:    "ada@example.com",
			},
			valid: false,
		},
		{
			name: "missing last name",
			student: Student{
				FirstName: "Ada",
				Email:     "ada@example.com",
			},
			valid: false,
		},
		{
			name: "missing email",
			student: Student{
				FirstName: "Ada",
				LastName:  "Lovelace",
			},
			valid: false,
		},
		{
			name: "malformed email",
			student: Student{
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "not-an-email",
			},
			valid: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.student.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStudentJSON(t *testing.T) {
	t.Run("dob decodes from ISO date", func(t *testing.T) {
		var student Student
		err := json.Unmarshal(
			[]byte(`{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","dob":"1815-12-10"}`),
			&student,
		)
		require.NoError(t, err)
		require.NotNil(t, student.DOB)
		assert.Equal(t, NewDate(1815, time.December, 10).Time, student.DOB.Time)
	})

	t.Run("garbage dob is rejected", func(t *testing.T) {
		var student Student
		err := json.Unmarshal([]byte(`{"dob":"next tuesday"}`), &student)
		assert.Error(t, err)
	})

	t.Run("absent dob stays nil and is omitted on output", func(t *testing.T) {
		var student Student
		err := json.Unmarshal(
			[]byte(`{"first_name":"Alan","last_name":"Turing","email":"alan@example.com"}`),
			&student,
		)
		require.NoError(t, err)
		assert.Nil(t, student.DOB)

		out, err := json.Marshal(&student)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "dob")
	})

	t.Run("dob encodes as ISO date", func(t *testing.T) {
		dob := NewDate(1815, time.December, 10)
		out, err := json.Marshal(&Student{
			ID:        1,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			DOB:       &dob,
		})
		require.NoError(t, err)
		assert.Contains(t, string(out), `"dob":"1815-12-10"`)
	})
}

func TestDateScan(t *testing.T) {
	t.Run("from time.Time", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan(time.Date(1815, time.December, 10, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, "1815-12-10", d.Format("2006-01-02"))
	})

	t.Run("from bare string", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan("1815-12-10"))
		assert.Equal(t, "1815-12-10", d.Format("2006-01-02"))
	})

	t.Run("from string with time part", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan("1815-12-10 00:00:00"))
		assert.Equal(t, "1815-12-10", d.Format("2006-01-02"))
	})

	t.Run("from bytes", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan([]byte("1815-12-10")))
		assert.Equal(t, "1815-12-10", d.Format("2006-01-02"))
	})
}
