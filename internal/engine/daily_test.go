package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/lifeos/internal/model"
)

func TestSummarizeDaily(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Text: "a"},
		{ID: "t2", Text: "b", Completed: true},
		{ID: "t3", Text: "c"},
	}

	tests := []struct {
		name    string
		entries []model.JournalEntry
		want    DailySummary
	}{
		{
			name: "empty journal",
			want: DailySummary{PendingTasks: 2},
		},
		{
			name: "written today",
			entries: []model.JournalEntry{
				{Content: "today", CreatedAt: testNow.Add(-time.Hour)},
				{Content: "older", CreatedAt: testNow.AddDate(0, 0, -3)},
			},
			want: DailySummary{PendingTasks: 2, JournalToday: true, LastEntry: "today"},
		},
		{
			name:    "last entry yesterday",
			entries: []model.JournalEntry{{Content: "yesterday", CreatedAt: testNow.AddDate(0, 0, -1)}},
			want:    DailySummary{PendingTasks: 2, LastEntry: "yesterday"},
		},
		{
			name:    "pending server timestamp",
			entries: []model.JournalEntry{{Content: "just saved"}},
			want:    DailySummary{PendingTasks: 2, LastEntry: "just saved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummarizeDaily(tasks, tt.entries, testNow))
		})
	}
}

func TestOrderTasks_PendingFirstAndStable(t *testing.T) {
	tasks := []model.Task{
		{ID: "done-new", Completed: true},
		{ID: "open-new"},
		{ID: "done-old", Completed: true},
		{ID: "open-old"},
	}

	ordered := OrderTasks(tasks)

	ids := make([]string, len(ordered))
	for i, task := range ordered {
		ids[i] = task.ID
	}
	assert.Equal(t, []string{"open-new", "open-old", "done-new", "done-old"}, ids)
	assert.Equal(t, "done-new", tasks[0].ID, "input is not reordered")
}
