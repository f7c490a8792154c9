// Package training implements the workout plan and log state machine.
package training

import "github.com/Veraticus/lifeos/internal/model"

// State is one of Dashboard, EditingPlan or Logging.
type State interface {
	Name() string
	isState()
}

// Dashboard lists plans and recent logs. It is the initial state.
type Dashboard struct{}

// EditingPlan creates or edits a plan.
type EditingPlan struct {
	Form PlanForm
}

// Logging records a new log or edits an existing one.
type Logging struct {
	Source Source
	Form   LogForm
}

// Name implements State.
func (Dashboard) Name() string { return "dashboard" }

// Name implements State.
func (EditingPlan) Name() string { return "editing_plan" }

// Name implements State.
func (Logging) Name() string { return "logging" }

func (Dashboard) isState()   {}
func (EditingPlan) isState() {}
func (Logging) isState()     {}

// Source is what seeded a logging session: a PlanSeed or a LogSeed.
type Source interface {
	// template returns the exercises the session records, with the values
	// that apply when nothing is entered.
	template() []templateExercise
	isSource()
}

// PlanSeed starts a new log from a plan.
type PlanSeed struct {
	Plan model.WorkoutPlan
}

// LogSeed edits an existing log using only its stored snapshot.
type LogSeed struct {
	Log model.WorkoutLog
}

func (PlanSeed) isSource() {}
func (LogSeed) isSource()  {}

type templateExercise struct {
	name         string
	targetSets   string
	priorReps    string
	priorWeight  string
	templateReps string
}

func (s PlanSeed) template() []templateExercise {
	out := make([]templateExercise, len(s.Plan.Exercises))
	for i, ex := range s.Plan.Exercises {
		out[i] = templateExercise{
			name:         ex.Name,
			targetSets:   ex.TargetSets,
			templateReps: ex.TargetReps,
		}
	}
	return out
}

func (s LogSeed) template() []templateExercise {
	out := make([]templateExercise, len(s.Log.Exercises))
	for i, ex := range s.Log.Exercises {
		out[i] = templateExercise{
			name:        ex.Name,
			targetSets:  ex.TargetSets,
			priorReps:   ex.DoneReps,
			priorWeight: ex.Weight,
		}
	}
	return out
}

// PlanForm is the transient state of the plan editor.
type PlanForm struct {
	PlanID    string
	Name      string
	Exercises []model.Exercise
}

// Entry is what the user typed for one exercise.
type Entry struct {
	Weight string
	Reps   string
}

// LogForm is the transient state of a logging session.
type LogForm struct {
	Cardio  model.Cardio
	Entries []Entry
}

// Default values for a new plan row.
const (
	DefaultSets = "3"
	DefaultReps = "10"
)

func blankExercise() model.Exercise {
	return model.Exercise{TargetSets: DefaultSets, TargetReps: DefaultReps}
}
