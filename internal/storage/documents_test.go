package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lifeos/internal/service"
)

func TestNormalizeFields(t *testing.T) {
	type nested struct {
		Name string `json:"name"`
		Reps string `json:"reps"`
	}

	got, err := normalizeFields(service.Fields{
		"exercises": []nested{{Name: "Squat", Reps: "10"}},
		"count":     3,
		"stamp":     service.ServerTimestamp,
	}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, float64(3), got["count"])
	assert.Equal(t, "2024-03-15T10:30:00.000000000Z", got["stamp"])
	assert.Equal(t, []any{map[string]any{"name": "Squat", "reps": "10"}}, got["exercises"])
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		a, b any
		name string
		want int
	}{
		{name: "strings", a: "a", b: "b", want: -1},
		{name: "numbers", a: 2.0, b: 1.0, want: 1},
		{name: "equal", a: "x", b: "x", want: 0},
		{name: "missing first", a: nil, b: "a", want: -1},
		{name: "numbers before strings", a: 5.0, b: "a", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compareValues(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, validatePath("users/u1/goals"))
	assert.NoError(t, validatePath("goals"))
	assert.ErrorIs(t, validatePath("users/u1"), ErrInvalidPath)
	assert.ErrorIs(t, validatePath("users/ /goals"), ErrInvalidPath)
	assert.ErrorIs(t, validatePath(""), ErrEmptyString)
}
