package engine

import (
	"sort"
	"time"

	"github.com/Veraticus/lifeos/internal/model"
)

// DailySummary is the home dashboard's view of tasks and the journal.
type DailySummary struct {
	// LastEntry is the content of the newest journal entry, if any.
	LastEntry    string
	PendingTasks int
	// JournalToday is set when the newest entry was written today.
	JournalToday bool
}

// SummarizeDaily derives the daily summary from tasks and journal entries,
// the entries ordered newest first.
func SummarizeDaily(tasks []model.Task, entries []model.JournalEntry, now time.Time) DailySummary {
	var s DailySummary
	for _, t := range tasks {
		if !t.Completed {
			s.PendingTasks++
		}
	}
	if len(entries) > 0 {
		s.LastEntry = entries[0].Content
		s.JournalToday = sameDay(entries[0].CreatedAt, now)
	}
	return s
}

// OrderTasks returns tasks with pending ones first, keeping the snapshot
// order within each group.
func OrderTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Completed && out[j].Completed
	})
	return out
}
