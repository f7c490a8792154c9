package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/training"
)

// startWrite marks the model busy and returns write as its command. Keys are
// ignored until the writeDoneMsg arrives.
func (m Model) startWrite(label string, write tea.Cmd) (Model, tea.Cmd) {
	m.busy = true
	m.input.Blur()
	m.setStatus(label, statusInfo)
	return m, write
}

// saved turns the outcome of a save into its result message. A save without
// an identity writes nothing and is reported as such.
func saved(signedIn bool, done string, err error) tea.Msg {
	switch {
	case err != nil:
		return writeDoneMsg{err: err}
	case !signedIn:
		return writeDoneMsg{status: status{text: "Not signed in, nothing was saved", kind: statusInfo}}
	default:
		return writeDoneMsg{status: status{text: done, kind: statusSuccess}}
	}
}

func (m Model) save() (Model, tea.Cmd) {
	ctx, machine, signedIn := m.ctx, m.editors.Training, m.view.SignedIn
	if _, ok := m.state.(training.EditingPlan); ok {
		return m.startWrite("Saving...", func() tea.Msg {
			return saved(signedIn, "Plan saved", machine.SavePlan(ctx))
		})
	}
	return m.startWrite("Saving...", func() tea.Msg {
		return saved(signedIn, "Workout saved", machine.FinishWorkout(ctx))
	})
}

func (m Model) submitCompose() (Model, tea.Cmd) {
	ctx, signedIn, value := m.ctx, m.view.SignedIn, m.input.Value()
	if m.compose == composeTask {
		tasks, form := m.editors.Tasks, m.taskForm
		form.Text = value
		return m.startWrite("Saving...", func() tea.Msg {
			_, err := tasks.Submit(ctx, form)
			return saved(signedIn, "Task added", err)
		})
	}
	journal := m.editors.Journal
	return m.startWrite("Saving...", func() tea.Msg {
		_, err := journal.Submit(ctx, ledger.JournalForm{Content: value})
		return saved(signedIn, "Journal entry saved", err)
	})
}

func (m Model) toggleTask(task model.Task) (Model, tea.Cmd) {
	ctx, tasks, signedIn := m.ctx, m.editors.Tasks, m.view.SignedIn
	done := fmt.Sprintf("Marked %q done", task.Text)
	if task.Completed {
		done = fmt.Sprintf("Marked %q pending", task.Text)
	}
	return m.startWrite("Saving...", func() tea.Msg {
		return saved(signedIn, done, tasks.Toggle(ctx, task))
	})
}

// deleteRecord deletes the confirmed target.
func (m Model) deleteRecord(target deleteTarget) tea.Cmd {
	ctx, editors := m.ctx, m.editors
	return func() tea.Msg {
		var (
			outcome ledger.DeleteOutcome
			err     error
		)
		switch {
		case target.plan != nil:
			outcome, err = editors.Training.DeletePlan(ctx, *target.plan, ledger.Always)
		case target.log != nil:
			outcome, err = editors.Training.DeleteLog(ctx, *target.log, ledger.Always)
		default:
			outcome, err = editors.Tasks.RequestDelete(ctx, *target.task, ledger.Always)
		}
		switch {
		case err != nil:
			return writeDoneMsg{err: err}
		case outcome == ledger.DeleteSkipped:
			return writeDoneMsg{status: status{text: "Not signed in, nothing was deleted", kind: statusInfo}}
		default:
			return writeDoneMsg{status: status{text: "Deleted " + target.label, kind: statusSuccess}}
		}
	}
}
