package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/training"
)

const (
	barWidth     = 20
	previewWidth = 60
	journalShown = 5
)

var hundred = decimal.NewFromInt(100)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}

	var body string
	switch st := m.state.(type) {
	case training.EditingPlan:
		body = m.renderPlanForm(st)
	case training.Logging:
		body = m.renderLogForm(st)
	default:
		switch m.tab {
		case TabFinance:
			body = m.renderFinance()
		case TabGoals:
			body = m.renderGoals()
		case TabToday:
			body = m.renderToday()
		case TabTraining:
			body = m.renderTraining()
		}
	}

	sections := []string{m.renderHeader(), m.renderTabs(), "", body}
	if m.pendingDelete != nil {
		sections = append(sections, "", m.renderConfirm())
	}
	if m.status.text != "" {
		sections = append(sections, "", m.renderStatus())
	}
	if m.config.ShowHelp {
		sections = append(sections, "", m.renderHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLoading renders the loading screen.
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("Loading LifeOS..."),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Waiting for your data"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderHeader() string {
	who := "Not signed in"
	if m.view.SignedIn {
		who = m.view.User.Name
		if who == "" {
			who = m.view.User.ID
		}
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.theme.Bold.Render("◆ LifeOS"),
		"  ",
		m.theme.Subtitle.Render(who),
	)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		style := m.theme.Tab
		if t == m.tab {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFinance() string {
	s := m.view.Summary

	totals := []string{
		m.row("Total balance", m.money(s.TotalBalance)),
		m.row("Income", m.signed(s.PeriodIncome, true)),
		m.row("Expenses", m.signed(s.PeriodExpense, false)),
		m.row("Net", m.money(s.Net)),
		m.row("Spent today", m.money(s.SpentToday)),
	}

	var accounts []string
	for _, t := range model.AccountTypes {
		if n := s.AccountsByType[t]; n > 0 {
			accounts = append(accounts, fmt.Sprintf("%s %d", t, n))
		}
	}
	if len(accounts) > 0 {
		totals = append(totals, m.row("Accounts", strings.Join(accounts, ", ")))
	}

	sections := []string{m.box("Overview", strings.Join(totals, "\n"))}

	if len(s.ExpensesByCategory) > 0 {
		lines := make([]string, len(s.ExpensesByCategory))
		for i, c := range s.ExpensesByCategory {
			lines[i] = fmt.Sprintf("%s %-16s %10s  %s %s%%",
				c.Category.Icon.Glyph(),
				c.Category.Name,
				c.Total.StringFixed(2),
				m.bar(c.Percentage, false),
				c.Percentage.StringFixed(1),
			)
		}
		sections = append(sections, m.box("Expenses by category", strings.Join(lines, "\n")))
	}

	if len(s.Trend) > 0 {
		lines := make([]string, len(s.Trend))
		for i, p := range s.Trend {
			label := p.Label
			if p.Live {
				label += "*"
			}
			lines[i] = fmt.Sprintf("%-5s %s %s", label, m.signed(p.Income, true), m.signed(p.Expense, false))
		}
		sections = append(sections, m.box("Trend", strings.Join(lines, "\n")))
	}

	recent := []string{lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No transactions yet")}
	if len(s.Recent) > 0 {
		recent = recent[:0]
		for _, r := range s.Recent {
			t := r.Transaction
			recent = append(recent, fmt.Sprintf("%s  %-20s %-14s %-12s %s",
				t.Date, truncate(t.Name, 20), truncate(r.Category.Name, 14),
				truncate(r.AccountName, 12), m.signed(t.Amount, t.Type == model.TypeIncome)))
		}
	}
	sections = append(sections, m.box("Recent transactions", strings.Join(recent, "\n")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderGoals() string {
	if len(m.view.Goals) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No goals yet")
	}

	blocks := make([]string, len(m.view.Goals))
	for i, g := range m.view.Goals {
		remaining := "Remaining " + g.Remaining.StringFixed(2)
		if g.Complete() {
			remaining = m.theme.StatusSuccess.Render("✓ Complete")
		}
		lines := []string{
			fmt.Sprintf("%s / %s", g.Goal.CurrentAmount.StringFixed(2), g.Goal.TargetAmount.StringFixed(2)),
			fmt.Sprintf("%s %s%%", m.bar(g.BarPercent, g.Complete()), g.Percent.StringFixed(2)),
			remaining,
		}
		if !g.Goal.Deadline.IsZero() {
			lines = append(lines, "Deadline "+g.Goal.Deadline.String())
		}
		blocks[i] = m.box(g.Goal.Name, strings.Join(lines, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m Model) renderTraining() string {
	w := m.view.Workouts

	today := "Not yet"
	if w.DoneToday {
		today = m.theme.StatusSuccess.Render("✓ Done")
	}
	stats := strings.Join([]string{
		m.row("Today", today),
		m.row("Last cardio", fmt.Sprintf("%s min, %s kcal", w.LastCardio.TimeMinutes, w.LastCardio.Calories)),
	}, "\n")

	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	plans := []string{muted.Render("No plans yet, press n to create one")}
	if len(w.Plans) > 0 {
		plans = plans[:0]
		for i, p := range w.Plans {
			plans = append(plans, m.item(i, fmt.Sprintf("%s (%d exercises)", p.Plan.Name, p.ExerciseCount)))
		}
	}

	logs := []string{muted.Render("No workouts logged")}
	if len(w.Recent) > 0 {
		logs = logs[:0]
		for i, l := range w.Recent {
			logs = append(logs, m.item(len(w.Plans)+i,
				fmt.Sprintf("%s  %s (%d exercises)", l.DateDisplay, l.PlanName, len(l.Exercises))))
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.box("Workout", stats),
		m.box("Plans", strings.Join(plans, "\n")),
		m.box("Recent workouts", strings.Join(logs, "\n")),
	)
}

func (m Model) renderToday() string {
	d := m.view.Daily
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	journal := muted.Render("Not written yet")
	if d.JournalToday {
		journal = m.theme.StatusSuccess.Render("✓ Written today")
	}
	stats := []string{
		m.row("Pending tasks", fmt.Sprintf("%d", d.PendingTasks)),
		m.row("Journal", journal),
	}
	if d.JournalToday && d.LastEntry != "" {
		stats = append(stats, m.row("Last entry", truncate(flatten(d.LastEntry), previewWidth)))
	}

	tasks := []string{muted.Render("No tasks yet, press a to add one")}
	if len(m.view.Tasks) > 0 {
		tasks = tasks[:0]
		for i, t := range m.view.Tasks {
			check := "[ ]"
			if t.Completed {
				check = "[x]"
			}
			tasks = append(tasks, m.item(i, fmt.Sprintf("%s %s  %s #%s", check, t.Text, t.Priority, t.Tag)))
		}
	}

	sections := []string{m.box("Today", strings.Join(stats, "\n")), m.box("Tasks", strings.Join(tasks, "\n"))}
	switch m.compose {
	case composeTask:
		sections = append(sections, m.box("New task", "["+m.input.View()+"]"))
	case composeJournal:
		sections = append(sections, m.box("Journal entry", "["+m.input.View()+"]"))
	}

	entries := []string{muted.Render("No entries yet, press w to write one")}
	if n := min(len(m.view.Journal), journalShown); n > 0 {
		entries = entries[:0]
		for _, e := range m.view.Journal[:n] {
			entries = append(entries, fmt.Sprintf("%-12s %s", e.DateDisplay, truncate(flatten(e.Content), previewWidth)))
		}
	}
	sections = append(sections, m.box("Journal", strings.Join(entries, "\n")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderPlanForm(st training.EditingPlan) string {
	title := "New plan"
	if st.Form.PlanID != "" {
		title = "Edit plan"
	}

	lines := []string{m.row("Name", m.fieldView(0, st.Form.Name)), ""}
	for i, ex := range st.Form.Exercises {
		base := 1 + i*len(planColumns)
		lines = append(lines, fmt.Sprintf("%2d. %s  sets %s  reps %s",
			i+1,
			m.fieldView(base, ex.Name),
			m.fieldView(base+1, ex.TargetSets),
			m.fieldView(base+2, ex.TargetReps),
		))
	}
	return m.box(title, strings.Join(lines, "\n"))
}

func (m Model) renderLogForm(st training.Logging) string {
	var (
		title     string
		exercises []string
		sets      []string
	)
	switch src := st.Source.(type) {
	case training.PlanSeed:
		title = "Workout: " + src.Plan.Name
		for _, ex := range src.Plan.Exercises {
			exercises = append(exercises, ex.Name)
			sets = append(sets, ex.TargetSets)
		}
	case training.LogSeed:
		title = "Edit workout: " + logLabel(src.Log)
		for _, ex := range src.Log.Exercises {
			exercises = append(exercises, ex.Name)
			sets = append(sets, ex.TargetSets)
		}
	}

	lines := make([]string, 0, len(st.Form.Entries)+3)
	for i, entry := range st.Form.Entries {
		var name, target string
		if i < len(exercises) {
			name, target = exercises[i], sets[i]
		}
		lines = append(lines, fmt.Sprintf("%-18s %sx  weight %s  reps %s",
			truncate(name, 18), target,
			m.fieldView(2*i, entry.Weight),
			m.fieldView(2*i+1, entry.Reps),
		))
	}
	n := 2 * len(st.Form.Entries)
	lines = append(lines, "",
		m.row("Cardio min", m.fieldView(n, st.Form.Cardio.TimeMinutes)),
		m.row("Calories", m.fieldView(n+1, st.Form.Cardio.Calories)),
	)
	return m.box(title, strings.Join(lines, "\n"))
}

// fieldView renders field f, showing the text input when it has focus.
func (m Model) fieldView(f int, value string) string {
	if f == m.field {
		return "[" + m.input.View() + "]"
	}
	if value == "" {
		value = "_"
	}
	return m.theme.Normal.Render(value)
}

func (m Model) renderConfirm() string {
	prompt := fmt.Sprintf("Delete %s? [y/N]", m.pendingDelete.label)
	return m.theme.RoundedBox.BorderForeground(m.theme.Primary).Render(m.theme.Bold.Render(prompt))
}

func (m Model) renderStatus() string {
	switch m.status.kind {
	case statusSuccess:
		return m.theme.StatusSuccess.Render("✓ " + m.status.text)
	case statusError:
		return m.theme.StatusError.Render("✗ " + m.status.text)
	default:
		return m.theme.StatusInfo.Render(m.status.text)
	}
}

func (m Model) renderHelp() string {
	if m.compose != composeNone {
		return m.help.View(composeKeys{KeyMap: m.keymap})
	}
	switch st := m.state.(type) {
	case training.EditingPlan, training.Logging:
		_, plan := st.(training.EditingPlan)
		return m.help.View(formKeys{KeyMap: m.keymap, plan: plan})
	}
	return m.help.View(m.keymap)
}

func (m Model) box(title, content string) string {
	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, m.theme.Subtitle.Render(title), content))
}

func (m Model) row(label, value string) string {
	return fmt.Sprintf("%-14s %s", label, value)
}

// item renders a selectable row of the active tab.
func (m Model) item(i int, text string) string {
	if i == m.cursor && m.pendingDelete == nil {
		return m.theme.Selected.Render("> " + text)
	}
	return "  " + text
}

func (m Model) money(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return m.theme.Expense.Render(amount.StringFixed(2))
	}
	return m.theme.Normal.Render(amount.StringFixed(2))
}

func (m Model) signed(amount decimal.Decimal, income bool) string {
	if income {
		return m.theme.Income.Render("+" + amount.StringFixed(2))
	}
	return m.theme.Expense.Render("-" + amount.StringFixed(2))
}

// bar renders percent (0-100) as a fixed-width progress bar.
func (m Model) bar(percent decimal.Decimal, done bool) string {
	filled := int(percent.Mul(decimal.NewFromInt(barWidth)).Div(hundred).IntPart())
	filled = min(max(filled, 0), barWidth)

	full := m.theme.ProgressFull
	if done {
		full = m.theme.ProgressDone
	}
	return full.Render(strings.Repeat("█", filled)) +
		m.theme.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// flatten collapses whitespace so multi-line text fits on one row.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
