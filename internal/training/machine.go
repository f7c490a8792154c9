package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/service"
)

// Machine errors.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNoSuchRow         = errors.New("no such exercise row")
	ErrUnknownField      = errors.New("unknown exercise field")
)

// DefaultDateLayout formats a new log's display date (day/month/year).
const DefaultDateLayout = "02/01/2006"

// Field names accepted by SetExerciseField.
const (
	FieldName = "name"
	FieldSets = "sets"
	FieldReps = "reps"
)

// Config holds configuration options for the machine.
type Config struct {
	Now        func() time.Time
	DateLayout string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Now: time.Now, DateLayout: DefaultDateLayout}
}

// Machine drives the workout screens. Transitions are only valid from the
// states documented on each method; Cancel is valid everywhere.
type Machine struct {
	store    service.DocumentStore
	identity service.Identity
	state    State
	cfg      Config
}

// New creates a machine in the Dashboard state with the default configuration.
func New(store service.DocumentStore, identity service.Identity) *Machine {
	return NewWithConfig(store, identity, DefaultConfig())
}

// NewWithConfig creates a machine with custom configuration.
func NewWithConfig(store service.DocumentStore, identity service.Identity, cfg Config) *Machine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = DefaultDateLayout
	}
	return &Machine{
		store:    store,
		identity: identity,
		state:    Dashboard{},
		cfg:      cfg,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

func (m *Machine) transition(from State, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from.Name(), to)
}

func (m *Machine) reset() {
	m.state = Dashboard{}
}

// Cancel discards any form state and returns to Dashboard. Nothing is written.
func (m *Machine) Cancel() {
	m.reset()
}

// NewPlan opens an empty plan with one blank row. Dashboard only.
func (m *Machine) NewPlan() error {
	if _, ok := m.state.(Dashboard); !ok {
		return m.transition(m.state, "editing_plan")
	}
	m.state = EditingPlan{Form: PlanForm{Exercises: []model.Exercise{blankExercise()}}}
	return nil
}

// EditPlan opens plan for editing. Dashboard only.
func (m *Machine) EditPlan(plan model.WorkoutPlan) error {
	if _, ok := m.state.(Dashboard); !ok {
		return m.transition(m.state, "editing_plan")
	}
	exercises := make([]model.Exercise, len(plan.Exercises))
	copy(exercises, plan.Exercises)
	m.state = EditingPlan{Form: PlanForm{PlanID: plan.ID, Name: plan.Name, Exercises: exercises}}
	return nil
}

// StartWorkout begins a new log from plan, pre-filling reps from the plan
// and leaving weights blank. Dashboard only.
func (m *Machine) StartWorkout(plan model.WorkoutPlan) error {
	if _, ok := m.state.(Dashboard); !ok {
		return m.transition(m.state, "logging")
	}

	seed := PlanSeed{Plan: plan}
	seed.Plan.Exercises = append([]model.Exercise(nil), plan.Exercises...)

	entries := make([]Entry, len(plan.Exercises))
	for i, ex := range plan.Exercises {
		entries[i] = Entry{Reps: ex.TargetReps}
	}
	m.state = Logging{Source: seed, Form: LogForm{Entries: entries}}
	return nil
}

// EditLog reopens log from its own stored results. The plan it came from is
// not consulted. Dashboard only.
func (m *Machine) EditLog(log model.WorkoutLog) error {
	if _, ok := m.state.(Dashboard); !ok {
		return m.transition(m.state, "logging")
	}

	seed := LogSeed{Log: log}
	seed.Log.Exercises = append([]model.ExerciseResult(nil), log.Exercises...)

	entries := make([]Entry, len(log.Exercises))
	for i, ex := range log.Exercises {
		entries[i] = Entry{Weight: ex.Weight, Reps: ex.DoneReps}
	}
	m.state = Logging{Source: seed, Form: LogForm{Entries: entries, Cardio: log.Cardio}}
	return nil
}

// SavePlan validates the plan name, drops rows without a name and writes the
// plan. On success the machine returns to Dashboard. EditingPlan only.
func (m *Machine) SavePlan(ctx context.Context) error {
	editing, ok := m.state.(EditingPlan)
	if !ok {
		return m.transition(m.state, "dashboard")
	}
	form := editing.Form

	name := strings.TrimSpace(form.Name)
	if name == "" {
		return &ledger.ValidationError{Field: "name", Err: ledger.ErrRequired}
	}

	exercises := make([]model.Exercise, 0, len(form.Exercises))
	for _, ex := range form.Exercises {
		if strings.TrimSpace(ex.Name) != "" {
			exercises = append(exercises, ex)
		}
	}

	fields := service.Fields{
		"name":      name,
		"exercises": exercises,
		"updatedAt": service.ServerTimestamp,
	}
	if err := m.write(ctx, service.CollectionWorkoutPlans, form.PlanID, fields); err != nil {
		return err
	}
	m.reset()
	return nil
}

// FinishWorkout merges the entered values over the seed and writes the log.
// For each exercise the entered value wins, then the stored value, then the
// plan's reps or "0" for weight. A new log also records the plan name and
// display date; an edited log only gets new results and cardio. Logging only.
func (m *Machine) FinishWorkout(ctx context.Context) error {
	logging, ok := m.state.(Logging)
	if !ok {
		return m.transition(m.state, "dashboard")
	}

	template := logging.Source.template()
	results := make([]model.ExerciseResult, len(template))
	for i, ex := range template {
		var entry Entry
		if i < len(logging.Form.Entries) {
			entry = logging.Form.Entries[i]
		}
		results[i] = model.ExerciseResult{
			Name:       ex.name,
			TargetSets: ex.targetSets,
			DoneReps:   firstNonBlank(entry.Reps, ex.priorReps, ex.templateReps),
			Weight:     firstNonBlank(entry.Weight, ex.priorWeight, "0"),
		}
	}

	fields := service.Fields{
		"exercises": results,
		"cardio": model.Cardio{
			TimeMinutes: firstNonBlank(logging.Form.Cardio.TimeMinutes, "0"),
			Calories:    firstNonBlank(logging.Form.Cardio.Calories, "0"),
		},
		"updatedAt": service.ServerTimestamp,
	}

	var id string
	switch src := logging.Source.(type) {
	case PlanSeed:
		fields["planName"] = src.Plan.Name
		fields["dateDisplay"] = m.cfg.Now().Format(m.cfg.DateLayout)
	case LogSeed:
		id = src.Log.ID
	}

	if err := m.write(ctx, service.CollectionWorkoutLogs, id, fields); err != nil {
		return err
	}
	m.reset()
	return nil
}

// write creates (empty id) or updates a document. Without an identity it
// does nothing.
func (m *Machine) write(ctx context.Context, collection, id string, fields service.Fields) error {
	user, ok := m.identity.Current()
	if !ok {
		slog.Debug("No identity, discarding workout write", "collection", collection)
		return nil
	}
	path := service.CollectionPath(user, collection)

	if id == "" {
		fields["createdAt"] = service.ServerTimestamp
		newID, err := m.store.Create(ctx, path, fields)
		if err != nil {
			return common.NewStorageError("create", path, err)
		}
		slog.Debug("Created workout record", "path", path, "id", newID)
		return nil
	}

	if err := m.store.Update(ctx, path, id, fields); err != nil {
		return common.NewStorageError("update", path, err)
	}
	slog.Debug("Updated workout record", "path", path, "id", id)
	return nil
}

// DeletePlan asks confirmer, then deletes plan. Logs created from it keep
// their copied exercises. Dashboard only.
func (m *Machine) DeletePlan(ctx context.Context, plan model.WorkoutPlan, confirmer ledger.Confirmer) (ledger.DeleteOutcome, error) {
	return m.remove(ctx, service.CollectionWorkoutPlans, plan.ID, fmt.Sprintf("Delete plan %q?", plan.Name), confirmer)
}

// DeleteLog asks confirmer, then deletes log. Dashboard only.
func (m *Machine) DeleteLog(ctx context.Context, log model.WorkoutLog, confirmer ledger.Confirmer) (ledger.DeleteOutcome, error) {
	label := log.PlanName
	if log.DateDisplay != "" {
		label += " " + log.DateDisplay
	}
	return m.remove(ctx, service.CollectionWorkoutLogs, log.ID, fmt.Sprintf("Delete log %q?", label), confirmer)
}

func (m *Machine) remove(ctx context.Context, collection, id, prompt string, confirmer ledger.Confirmer) (ledger.DeleteOutcome, error) {
	if _, ok := m.state.(Dashboard); !ok {
		return ledger.DeleteCancelled, m.transition(m.state, "dashboard")
	}
	if _, ok := m.identity.Current(); !ok {
		return ledger.DeleteSkipped, nil
	}

	confirmed, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return ledger.DeleteCancelled, fmt.Errorf("confirmation failed: %w", err)
	}
	if !confirmed {
		return ledger.DeleteCancelled, nil
	}

	user, ok := m.identity.Current()
	if !ok {
		return ledger.DeleteSkipped, nil
	}
	path := service.CollectionPath(user, collection)
	if err := m.store.Delete(ctx, path, id); err != nil {
		return ledger.DeleteConfirmed, common.NewStorageError("delete", path, err)
	}
	return ledger.DeleteConfirmed, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
