package tasks

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "tasks.json"), zerolog.Nop())
	require.NoError(t, err)
	m.now = func() time.Time { return testNow }
	return m
}

func TestAdd_DefaultsToTodayMediumPriority(t *testing.T) {
	m := newTestManager(t)

	task, err := m.Add("Morning workout", "30 minutes cardio", "", "")
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "2026-03-10", task.DueDate)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.False(t, task.Completed)
}

func TestAdd_RejectsBadDueDate(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Add("x", "", "tomorrow", "")
	require.Error(t, err)
	assert.Empty(t, m.All())
}

func TestCompleteAndDelete(t *testing.T) {
	m := newTestManager(t)
	task, err := m.Add("Team meeting", "", "", PriorityHigh)
	require.NoError(t, err)

	assert.True(t, m.Complete(task.ID))
	got, ok := m.Get(task.ID)
	require.True(t, ok)
	assert.True(t, got.Completed)

	assert.True(t, m.Delete(task.ID))
	_, ok = m.Get(task.ID)
	assert.False(t, ok)

	assert.False(t, m.Complete("no-such-id"))
	assert.False(t, m.Delete("no-such-id"))
}

func TestDateWindows(t *testing.T) {
	m := newTestManager(t)
	mustAdd := func(title, due string) Task {
		task, err := m.Add(title, "", due, "")
		require.NoError(t, err)
		return task
	}

	mustAdd("today", "2026-03-10")
	mustAdd("in three days", "2026-03-13")
	mustAdd("next month", "2026-04-20")
	late := mustAdd("late", "2026-03-01")
	lateDone := mustAdd("late but done", "2026-03-02")
	require.True(t, m.Complete(lateDone.ID))

	today := m.Today()
	require.Len(t, today, 1)
	assert.Equal(t, "today", today[0].Title)

	week := m.Week()
	require.Len(t, week, 2)

	overdue := m.Overdue()
	require.Len(t, overdue, 1, "completed tasks are never overdue")
	assert.Equal(t, late.ID, overdue[0].ID)
}

func TestSearchAndPriority(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Add("Team meeting", "Discuss project updates", "", PriorityHigh)
	require.NoError(t, err)
	_, err = m.Add("Code review", "Review pull requests", "", PriorityLow)
	require.NoError(t, err)

	results := m.Search("MEETING")
	require.Len(t, results, 1)
	assert.Equal(t, "Team meeting", results[0].Title)

	results = m.Search("review")
	assert.Len(t, results, 1)

	assert.Len(t, m.ByPriority("HIGH"), 1)
	assert.Empty(t, m.ByPriority("medium"))
}

func TestSummary(t *testing.T) {
	m := newTestManager(t)

	assert.Equal(t, "You have no tasks for today. You're all clear!", m.Summary())

	_, err := m.Add("Morning workout", "", "2026-03-10", PriorityHigh)
	require.NoError(t, err)
	_, err = m.Add("Pay rent", "", "2026-03-01", "")
	require.NoError(t, err)

	summary := m.Summary()
	assert.Contains(t, summary, "1 overdue task")
	assert.Contains(t, summary, "1 task for today")
	assert.Contains(t, summary, "1. Morning workout")
}

func TestManager_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	m, err := NewManager(path, zerolog.Nop())
	require.NoError(t, err)
	m.now = func() time.Time { return testNow }
	task, err := m.Add("Persisted", "", "", "")
	require.NoError(t, err)

	reopened, err := NewManager(path, zerolog.Nop())
	require.NoError(t, err)
	got, ok := reopened.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Persisted", got.Title)
}

func TestReminder_InvalidSchedule(t *testing.T) {
	m := newTestManager(t)
	_, err := NewReminder(m, "not a schedule", func(string) {}, zerolog.Nop())
	require.Error(t, err)
}

func TestReminder_FiresSummary(t *testing.T) {
	m := newTestManager(t)
	var got string
	r, err := NewReminder(m, "@every 1h", func(s string) { got = s }, zerolog.Nop())
	require.NoError(t, err)

	r.fire()
	assert.Equal(t, m.Summary(), got)
}
