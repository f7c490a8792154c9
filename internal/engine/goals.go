package engine

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/lifeos/internal/model"
)

// GoalProgress is the derived progress of a goal.
type GoalProgress struct {
	// Percent is current/target*100, rounded to two places and not clamped.
	Percent decimal.Decimal
	// BarPercent is Percent clamped to [0, 100] for progress bars.
	BarPercent decimal.Decimal
	// Remaining is target-current; negative once the goal is exceeded.
	Remaining decimal.Decimal
	Goal      model.Goal
}

// Complete reports whether the goal has been reached.
func (p GoalProgress) Complete() bool {
	return !p.Remaining.IsPositive()
}

// TrackGoal computes the progress of one goal.
func TrackGoal(g model.Goal) GoalProgress {
	percent := percentOf(g.CurrentAmount, g.TargetAmount)

	bar := percent
	switch {
	case bar.IsNegative():
		bar = decimal.Zero
	case bar.GreaterThan(hundred):
		bar = hundred
	}

	return GoalProgress{
		Goal:       g,
		Percent:    percent,
		BarPercent: bar,
		Remaining:  g.TargetAmount.Sub(g.CurrentAmount),
	}
}

// TrackGoals computes progress for every goal, keeping order.
func TrackGoals(goals []model.Goal) []GoalProgress {
	out := make([]GoalProgress, len(goals))
	for i, g := range goals {
		out[i] = TrackGoal(g)
	}
	return out
}
