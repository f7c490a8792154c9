package model

import (
	"strings"
	"time"
)

// Exercise is one row of a workout plan. Counts are kept as entered.
type Exercise struct {
	Name       string `json:"name"`
	TargetSets string `json:"sets"`
	TargetReps string `json:"reps"`
}

// WorkoutPlan is a reusable, named template of exercises.
type WorkoutPlan struct {
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// Validate checks the record-level rules of a plan.
func (p *WorkoutPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ExerciseResult is what was actually done for one exercise.
type ExerciseResult struct {
	Name       string `json:"name"`
	TargetSets string `json:"targetSets"`
	DoneReps   string `json:"doneReps"`
	Weight     string `json:"weight"`
}

// Cardio holds the cardio portion of a session.
type Cardio struct {
	TimeMinutes string `json:"time"`
	Calories    string `json:"calories"`
}

// WorkoutLog is an executed session. PlanName and Exercises are copies taken
// when the log was created; the log never references its plan by id.
type WorkoutLog struct {
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Cardio      Cardio           `json:"cardio"`
	ID          string           `json:"id"`
	PlanName    string           `json:"planName"`
	DateDisplay string           `json:"dateDisplay"`
	Exercises   []ExerciseResult `json:"exercises"`
}
