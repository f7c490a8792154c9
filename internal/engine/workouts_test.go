package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lifeos/internal/model"
)

func TestSummarizeWorkouts(t *testing.T) {
	plans := []model.WorkoutPlan{
		{ID: "p1", Name: "Legs", Exercises: []model.Exercise{{Name: "Squat"}, {Name: "Lunge"}}},
		{ID: "p2", Name: "Empty"},
	}

	t.Run("no logs", func(t *testing.T) {
		s := SummarizeWorkouts(plans, nil, 5, testNow)

		require.Len(t, s.Plans, 2)
		assert.Equal(t, 2, s.Plans[0].ExerciseCount)
		assert.Equal(t, 0, s.Plans[1].ExerciseCount)
		assert.Equal(t, model.Cardio{TimeMinutes: "0", Calories: "0"}, s.LastCardio)
		assert.False(t, s.DoneToday)
		assert.Empty(t, s.Recent)
	})

	t.Run("latest log today", func(t *testing.T) {
		logs := []model.WorkoutLog{
			{ID: "l2", CreatedAt: testNow.Add(-time.Hour), Cardio: model.Cardio{TimeMinutes: "20", Calories: ""}},
			{ID: "l1", CreatedAt: testNow.AddDate(0, 0, -1), Cardio: model.Cardio{TimeMinutes: "45", Calories: "400"}},
		}
		s := SummarizeWorkouts(plans, logs, 1, testNow)

		assert.True(t, s.DoneToday)
		assert.Equal(t, model.Cardio{TimeMinutes: "20", Calories: "0"}, s.LastCardio)
		require.Len(t, s.Recent, 1)
		assert.Equal(t, "l2", s.Recent[0].ID)
	})

	t.Run("latest log yesterday", func(t *testing.T) {
		logs := []model.WorkoutLog{{ID: "l1", CreatedAt: testNow.AddDate(0, 0, -1)}}
		s := SummarizeWorkouts(plans, logs, 5, testNow)
		assert.False(t, s.DoneToday)
	})

	t.Run("pending server timestamp", func(t *testing.T) {
		logs := []model.WorkoutLog{{ID: "l1"}}
		s := SummarizeWorkouts(plans, logs, 5, testNow)
		assert.False(t, s.DoneToday)
	})
}
