// Package tui implements the interactive dashboard over the engine's views,
// with the workout, task and journal editors behind its keys.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/lifeos/internal/engine"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/training"
	"github.com/Veraticus/lifeos/internal/tui/themes"
)

// Tab is a top-level screen of the dashboard.
type Tab int

// Dashboard tabs, in display order.
const (
	TabFinance Tab = iota
	TabGoals
	TabToday
	TabTraining
	tabCount
)

var tabNames = [tabCount]string{"Finance", "Goals", "Today", "Training"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "unknown"
	}
	return tabNames[t]
}

// planColumns are the editable columns of a plan row, in focus order.
var planColumns = [...]string{training.FieldName, training.FieldSets, training.FieldReps}

// Editors are the write paths driven by the dashboard. Tasks and Journal may
// be nil, which leaves the Today tab read-only.
type Editors struct {
	Training *training.Machine
	Tasks    *ledger.TaskEditor
	Journal  *ledger.JournalEditor
}

// composeKind is the single-line entry open on the Today tab.
type composeKind int

const (
	composeNone composeKind = iota
	composeTask
	composeJournal
)

// deleteTarget is the record waiting for confirmation.
type deleteTarget struct {
	plan  *model.WorkoutPlan
	log   *model.WorkoutLog
	task  *model.Task
	label string
}

// Model holds the dashboard state. Views arrive from the engine; every write
// goes through the editors and runs as a command while the model is busy.
type Model struct {
	// ctx bounds the storage calls made by write commands.
	ctx     context.Context
	theme   themes.Theme
	views   <-chan engine.View
	editors Editors
	// state is the machine state as of the last update. Views read it instead
	// of the machine, which a running write may be changing.
	state         training.State
	pendingDelete *deleteTarget
	status        status
	keymap        KeyMap
	taskForm      ledger.TaskForm
	help          help.Model
	input         textinput.Model
	view          engine.View
	config        Config
	tab           Tab
	compose       composeKind
	cursor        int
	field         int
	width         int
	height        int
	ready         bool
	busy          bool
	quitting      bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, views <-chan engine.View, editors Editors, cfg Config) Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = formCharLimit

	h := help.New()
	h.Width = cfg.Width

	return Model{
		ctx:     ctx,
		theme:   cfg.Theme,
		views:   views,
		editors: editors,
		state:   editors.Training.State(),
		keymap:  DefaultKeyMap(),
		help:    h,
		input:   input,
		config:  cfg,
		width:   cfg.Width,
		height:  cfg.Height,
	}
}

const (
	formCharLimit    = 64
	taskCharLimit    = 200
	journalCharLimit = 2000
)

// Init starts listening for engine views.
func (m Model) Init() tea.Cmd {
	return waitForView(m.views)
}

func waitForView(views <-chan engine.View) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-views
		if !ok {
			return viewsClosedMsg{}
		}
		return viewMsg{view: v}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if !next.busy {
		next.state = next.editors.Training.State()
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewMsg:
		m.view = msg.view
		m.ready = msg.view.Ready
		m.clampCursor()
		return m, waitForView(m.views)

	case viewsClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case writeDoneMsg:
		return m.finishWrite(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.formOpen() || m.compose != composeNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Tab returns the active tab.
func (m Model) Tab() Tab {
	return m.tab
}

// Machine returns the workout state machine driven by the model.
func (m Model) Machine() *training.Machine {
	return m.editors.Training
}

// Busy reports whether a write is in flight.
func (m Model) Busy() bool {
	return m.busy
}

func (m Model) formOpen() bool {
	switch m.state.(type) {
	case training.EditingPlan, training.Logging:
		return true
	}
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	if m.pendingDelete != nil {
		return m.handleConfirmKey(msg)
	}
	if m.formOpen() {
		return m.handleFormKey(msg)
	}
	if m.compose != composeNone {
		return m.handleComposeKey(msg)
	}
	return m.handleDashboardKey(msg)
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.NextTab):
		m.tab = (m.tab + 1) % tabCount
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keymap.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < m.itemCount()-1 {
			m.cursor++
		}
		return m, nil
	}

	switch m.tab {
	case TabTraining:
		return m.handleTrainingKey(msg)
	case TabToday:
		return m.handleTodayKey(msg)
	}
	return m, nil
}

func (m Model) handleTrainingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	machine := m.editors.Training
	plan, log := m.selected()
	switch {
	case key.Matches(msg, m.keymap.NewPlan):
		return m.openForm(machine.NewPlan())
	case key.Matches(msg, m.keymap.Edit):
		switch {
		case plan != nil:
			return m.openForm(machine.EditPlan(*plan))
		case log != nil:
			return m.openForm(machine.EditLog(*log))
		}
	case key.Matches(msg, m.keymap.Start):
		if plan == nil {
			m.setStatus("Select a plan to start a workout", statusInfo)
			return m, nil
		}
		return m.openForm(machine.StartWorkout(*plan))
	case key.Matches(msg, m.keymap.Delete):
		switch {
		case plan != nil:
			m.pendingDelete = &deleteTarget{plan: plan, label: fmt.Sprintf("plan %q", plan.Name)}
		case log != nil:
			m.pendingDelete = &deleteTarget{log: log, label: fmt.Sprintf("log %q", logLabel(*log))}
		}
	}
	return m, nil
}

func (m Model) handleTodayKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	task := m.selectedTask()
	switch {
	case key.Matches(msg, m.keymap.AddTask):
		if m.editors.Tasks == nil {
			return m, nil
		}
		form, err := m.editors.Tasks.Open(nil)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.taskForm = form
		return m.openCompose(composeTask, taskCharLimit)
	case key.Matches(msg, m.keymap.WriteJournal):
		if m.editors.Journal == nil {
			return m, nil
		}
		if _, err := m.editors.Journal.Open(nil); err != nil {
			m.setError(err)
			return m, nil
		}
		return m.openCompose(composeJournal, journalCharLimit)
	case key.Matches(msg, m.keymap.Toggle):
		if task == nil || m.editors.Tasks == nil {
			return m, nil
		}
		return m.toggleTask(*task)
	case key.Matches(msg, m.keymap.Delete):
		if task != nil && m.editors.Tasks != nil {
			m.pendingDelete = &deleteTarget{task: task, label: fmt.Sprintf("task %q", task.Text)}
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Yes):
		target := *m.pendingDelete
		m.pendingDelete = nil
		return m.startWrite("Deleting...", m.deleteRecord(target))
	case key.Matches(msg, m.keymap.No):
		m.pendingDelete = nil
		m.setStatus("Delete cancelled", statusInfo)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	machine := m.editors.Training
	_, editingPlan := m.state.(training.EditingPlan)

	switch {
	case key.Matches(msg, m.keymap.Cancel):
		machine.Cancel()
		m.input.Blur()
		m.setStatus("Changes discarded", statusInfo)
		return m, nil
	case key.Matches(msg, m.keymap.Save):
		return m.save()
	case key.Matches(msg, m.keymap.NextField):
		m.focusField(m.field + 1)
		return m, nil
	case key.Matches(msg, m.keymap.PrevField):
		m.focusField(m.field - 1)
		return m, nil
	case editingPlan && key.Matches(msg, m.keymap.AddRow):
		if err := machine.AddExercise(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.state = machine.State()
		m.focusField(m.fieldCount() - len(planColumns))
		return m, nil
	case editingPlan && key.Matches(msg, m.keymap.RemoveRow):
		if m.field == 0 {
			return m, nil
		}
		if err := machine.RemoveExercise((m.field - 1) / len(planColumns)); err != nil {
			m.setError(err)
			return m, nil
		}
		m.state = machine.State()
		m.focusField(min(m.field, m.fieldCount()-1))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if err := m.setField(m.input.Value()); err != nil {
		m.setError(err)
	}
	return m, cmd
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		if m.compose == composeTask {
			m.editors.Tasks.Cancel()
		} else {
			m.editors.Journal.Cancel()
		}
		m.closeCompose()
		m.setStatus("Changes discarded", statusInfo)
		return m, nil
	case key.Matches(msg, m.keymap.Submit, m.keymap.Save):
		return m.submitCompose()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openForm(err error) (Model, tea.Cmd) {
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.status = status{}
	m.state = m.editors.Training.State()
	m.focusField(0)
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) openCompose(kind composeKind, limit int) (Model, tea.Cmd) {
	m.status = status{}
	m.compose = kind
	m.input.CharLimit = limit
	m.input.SetValue("")
	cmd := m.input.Focus()
	return m, cmd
}

func (m *Model) closeCompose() {
	m.compose = composeNone
	m.input.Blur()
	m.input.Reset()
	m.input.CharLimit = formCharLimit
}

// finishWrite applies the result of a write command. A failed write keeps
// the form or entry open for another attempt.
func (m Model) finishWrite(msg writeDoneMsg) (Model, tea.Cmd) {
	m.busy = false
	m.state = m.editors.Training.State()

	if msg.err != nil {
		m.setError(msg.err)
		if m.formOpen() || m.compose != composeNone {
			cmd := m.input.Focus()
			return m, cmd
		}
		return m, nil
	}

	if m.compose != composeNone {
		m.closeCompose()
	}
	m.status = msg.status
	return m, nil
}

// fieldCount is the number of editable fields of the open form.
func (m Model) fieldCount() int {
	switch st := m.state.(type) {
	case training.EditingPlan:
		return 1 + len(planColumns)*len(st.Form.Exercises)
	case training.Logging:
		return 2*len(st.Form.Entries) + 2
	}
	return 0
}

// focusField moves the input to field f, wrapping around, and loads its value.
func (m *Model) focusField(f int) {
	n := m.fieldCount()
	if n == 0 {
		m.field = 0
		return
	}
	m.field = ((f % n) + n) % n
	m.input.SetValue(fieldValue(m.state, m.field))
	m.input.CursorEnd()
}

// fieldValue returns the current value of field f of the open form.
func fieldValue(state training.State, f int) string {
	switch st := state.(type) {
	case training.EditingPlan:
		if f == 0 {
			return st.Form.Name
		}
		row, col := (f-1)/len(planColumns), (f-1)%len(planColumns)
		if row >= len(st.Form.Exercises) {
			return ""
		}
		ex := st.Form.Exercises[row]
		return [...]string{ex.Name, ex.TargetSets, ex.TargetReps}[col]
	case training.Logging:
		n := len(st.Form.Entries)
		switch {
		case f < 2*n && f%2 == 0:
			return st.Form.Entries[f/2].Weight
		case f < 2*n:
			return st.Form.Entries[f/2].Reps
		case f == 2*n:
			return st.Form.Cardio.TimeMinutes
		default:
			return st.Form.Cardio.Calories
		}
	}
	return ""
}

// setField writes value into the focused field through the machine.
func (m Model) setField(value string) error {
	machine := m.editors.Training
	switch st := m.state.(type) {
	case training.EditingPlan:
		if m.field == 0 {
			return machine.SetPlanName(value)
		}
		row, col := (m.field-1)/len(planColumns), (m.field-1)%len(planColumns)
		return machine.SetExerciseField(row, planColumns[col], value)
	case training.Logging:
		n := len(st.Form.Entries)
		if m.field < 2*n {
			entry := st.Form.Entries[m.field/2]
			if m.field%2 == 0 {
				entry.Weight = value
			} else {
				entry.Reps = value
			}
			return machine.SetEntry(m.field/2, entry)
		}
		cardio := st.Form.Cardio
		if m.field == 2*n {
			cardio.TimeMinutes = value
		} else {
			cardio.Calories = value
		}
		return machine.SetCardio(cardio)
	}
	return nil
}

// itemCount is the number of selectable rows on the active tab. Training
// lists plans followed by recent logs.
func (m Model) itemCount() int {
	switch m.tab {
	case TabTraining:
		return len(m.view.Workouts.Plans) + len(m.view.Workouts.Recent)
	case TabToday:
		return len(m.view.Tasks)
	}
	return 0
}

// selected returns the plan or log under the cursor.
func (m Model) selected() (*model.WorkoutPlan, *model.WorkoutLog) {
	plans := m.view.Workouts.Plans
	if m.cursor < len(plans) {
		plan := plans[m.cursor].Plan
		return &plan, nil
	}
	if i := m.cursor - len(plans); i < len(m.view.Workouts.Recent) {
		log := m.view.Workouts.Recent[i]
		return nil, &log
	}
	return nil, nil
}

func (m Model) selectedTask() *model.Task {
	if m.cursor < len(m.view.Tasks) {
		task := m.view.Tasks[m.cursor]
		return &task
	}
	return nil
}

func (m *Model) clampCursor() {
	if n := m.itemCount(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) setStatus(text string, kind statusKind) {
	m.status = status{text: text, kind: kind}
}

func (m *Model) setError(err error) {
	m.setStatus(err.Error(), statusError)
}

func logLabel(log model.WorkoutLog) string {
	if log.DateDisplay == "" {
		return log.PlanName
	}
	return log.PlanName + " " + log.DateDisplay
}
