package engine

import (
	"time"

	"github.com/Veraticus/lifeos/internal/model"
)

// PlanSummary is a plan as listed on the workout dashboard.
type PlanSummary struct {
	Plan          model.WorkoutPlan
	ExerciseCount int
}

// WorkoutSummary is the derived workout dashboard.
type WorkoutSummary struct {
	LastCardio model.Cardio
	Plans      []PlanSummary
	Recent     []model.WorkoutLog
	DoneToday  bool
}

// SummarizeWorkouts derives the dashboard from plans and logs, both ordered
// newest first.
func SummarizeWorkouts(plans []model.WorkoutPlan, logs []model.WorkoutLog, recent int, now time.Time) WorkoutSummary {
	s := WorkoutSummary{
		LastCardio: model.Cardio{TimeMinutes: "0", Calories: "0"},
		Plans:      make([]PlanSummary, len(plans)),
	}

	for i, p := range plans {
		s.Plans[i] = PlanSummary{Plan: p, ExerciseCount: len(p.Exercises)}
	}

	if len(logs) > 0 {
		last := logs[0]
		if last.Cardio.TimeMinutes != "" {
			s.LastCardio.TimeMinutes = last.Cardio.TimeMinutes
		}
		if last.Cardio.Calories != "" {
			s.LastCardio.Calories = last.Cardio.Calories
		}
		s.DoneToday = sameDay(last.CreatedAt, now)
	}

	if recent <= 0 || recent > len(logs) {
		recent = len(logs)
	}
	s.Recent = logs[:recent]
	return s
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
