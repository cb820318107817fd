package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryMap_InsertionOrder(t *testing.T) {
	var m CategoryMap
	m.Set("Homework", NewCategory(nil, 0))
	m.Set("Exams", NewCategory(nil, 0))
	m.Set("Quizzes", NewCategory(nil, 0))

	assert.Equal(t, []string{"Homework", "Exams", "Quizzes"}, m.Keys())

	m.Set("Exams", NewCategory(nil, 1))
	assert.Equal(t, []string{"Homework", "Exams", "Quizzes"}, m.Keys())

	require.True(t, m.Delete("Homework"))
	assert.False(t, m.Delete("Homework"))
	assert.Equal(t, []string{"Exams", "Quizzes"}, m.Keys())
	assert.Equal(t, 2, m.Len())
}

func TestCategoryMap_RenameKey(t *testing.T) {
	m := NewCategoryMap()
	quizzes := NewCategory(nil, 0)
	quizzes.Grades = append(quizzes.Grades, &Assignment{Name: "Quiz 1"})
	m.Set("Quizzes", quizzes)
	m.Set("Exams", NewCategory(nil, 0))

	require.True(t, m.RenameKey("Quizzes", "Quizzes2"))

	assert.False(t, m.Has("Quizzes"))
	got, ok := m.Get("Quizzes2")
	require.True(t, ok)
	assert.Same(t, quizzes, got)
	assert.Equal(t, []string{"Quizzes2", "Exams"}, m.Keys())

	assert.False(t, m.RenameKey("Missing", "Other"))
	assert.False(t, m.RenameKey("Quizzes2", "Exams"))
	assert.True(t, m.RenameKey("Exams", "Exams"))
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{input: `8.5`, expected: 8.5},
		{input: `"10"`, expected: 10},
		{input: `" 7.25 "`, expected: 7.25},
		{input: `""`, expected: 0},
		{input: `null`, expected: 0},
		{input: `"abc"`, wantErr: true},
		{input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var n Number
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n.Float64())
		})
	}
}

func TestNumber_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: 12.5, B: Number(math.NaN())})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12.5,"b":null}`, string(out))
}

func TestAssignmentPatch_Apply(t *testing.T) {
	a := &Assignment{Name: "HW1", ActualPoints: 5, PossiblePoints: 10}
	name := "Homework 1"
	possible := 20.0
	AssignmentPatch{Name: &name, PossiblePoints: &possible}.Apply(a)

	assert.Equal(t, "Homework 1", a.Name)
	assert.Equal(t, 5.0, a.ActualPoints)
	assert.Equal(t, 20.0, a.PossiblePoints)
}
