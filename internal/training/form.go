package training

import (
	"fmt"

	"github.com/Veraticus/lifeos/internal/model"
)

func (m *Machine) planForm() (EditingPlan, error) {
	editing, ok := m.state.(EditingPlan)
	if !ok {
		return EditingPlan{}, fmt.Errorf("%w: not editing a plan", ErrInvalidTransition)
	}
	return editing, nil
}

func (m *Machine) logForm() (Logging, error) {
	logging, ok := m.state.(Logging)
	if !ok {
		return Logging{}, fmt.Errorf("%w: not logging", ErrInvalidTransition)
	}
	return logging, nil
}

// SetPlanName sets the name of the plan being edited.
func (m *Machine) SetPlanName(name string) error {
	editing, err := m.planForm()
	if err != nil {
		return err
	}
	editing.Form.Name = name
	m.state = editing
	return nil
}

// AddExercise appends a blank row with the default sets and reps.
func (m *Machine) AddExercise() error {
	editing, err := m.planForm()
	if err != nil {
		return err
	}
	editing.Form.Exercises = append(cloneExercises(editing.Form.Exercises), blankExercise())
	m.state = editing
	return nil
}

// RemoveExercise deletes row i.
func (m *Machine) RemoveExercise(i int) error {
	editing, err := m.planForm()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(editing.Form.Exercises) {
		return fmt.Errorf("%w: %d", ErrNoSuchRow, i)
	}
	exercises := cloneExercises(editing.Form.Exercises)
	editing.Form.Exercises = append(exercises[:i], exercises[i+1:]...)
	m.state = editing
	return nil
}

// SetExerciseField sets the name, sets or reps of row i.
func (m *Machine) SetExerciseField(i int, field, value string) error {
	editing, err := m.planForm()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(editing.Form.Exercises) {
		return fmt.Errorf("%w: %d", ErrNoSuchRow, i)
	}

	exercises := cloneExercises(editing.Form.Exercises)
	switch field {
	case FieldName:
		exercises[i].Name = value
	case FieldSets:
		exercises[i].TargetSets = value
	case FieldReps:
		exercises[i].TargetReps = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	editing.Form.Exercises = exercises
	m.state = editing
	return nil
}

// SetEntry records the weight and reps typed for exercise i.
func (m *Machine) SetEntry(i int, entry Entry) error {
	logging, err := m.logForm()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(logging.Form.Entries) {
		return fmt.Errorf("%w: %d", ErrNoSuchRow, i)
	}
	entries := append([]Entry(nil), logging.Form.Entries...)
	entries[i] = entry
	logging.Form.Entries = entries
	m.state = logging
	return nil
}

// SetCardio records the cardio minutes and calories.
func (m *Machine) SetCardio(cardio model.Cardio) error {
	logging, err := m.logForm()
	if err != nil {
		return err
	}
	logging.Form.Cardio = cardio
	m.state = logging
	return nil
}

func cloneExercises(in []model.Exercise) []model.Exercise {
	return append([]model.Exercise(nil), in...)
}
