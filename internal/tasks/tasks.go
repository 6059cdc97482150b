// Package tasks manages daily tasks with JSON persistence and produces the
// spoken summaries the assistant announces.
package tasks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Priority levels.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const dateLayout = "2006-01-02"

// Task is one tracked item. DueDate is a calendar date in YYYY-MM-DD form.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

type fileFormat struct {
	Tasks []Task `json:"tasks"`
}

// Manager persists tasks to a single JSON file. Safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	path   string
	tasks  []Task
	logger zerolog.Logger

	now func() time.Time // swapped in tests
}

// NewManager opens (or creates) the task store at path.
func NewManager(path string, logger zerolog.Logger) (*Manager, error) {
	m := &Manager{
		path:   path,
		logger: logger.With().Str("component", "tasks").Logger(),
		now:    time.Now,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create task dir: %w", err)
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	m.logger.Info().Int("tasks", len(m.tasks)).Str("path", path).Msg("Task store opened")
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return m.save()
	}
	if err != nil {
		return fmt.Errorf("read task file: %w", err)
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode task file: %w", err)
	}
	m.tasks = f.Tasks
	return nil
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(fileFormat{Tasks: m.tasks}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0644)
}

// Add creates a task. An empty dueDate defaults to today; an empty priority
// defaults to medium.
func (m *Manager) Add(title, description, dueDate, priority string) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dueDate == "" {
		dueDate = m.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, dueDate); err != nil {
		return Task{}, fmt.Errorf("due date must be YYYY-MM-DD: %w", err)
	}
	if priority == "" {
		priority = PriorityMedium
	}
	priority = strings.ToLower(priority)

	task := Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		CreatedAt:   m.now(),
	}
	m.tasks = append(m.tasks, task)
	if err := m.save(); err != nil {
		m.tasks = m.tasks[:len(m.tasks)-1]
		return Task{}, fmt.Errorf("persist task: %w", err)
	}
	m.logger.Info().Str("id", task.ID).Str("title", title).Msg("Task added")
	return task, nil
}

// Get looks up a task by ID.
func (m *Manager) Get(id string) (Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Update applies fn to the task with the given ID and persists the result.
func (m *Manager) Update(id string, fn func(*Task)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			fn(&m.tasks[i])
			if err := m.save(); err != nil {
				m.logger.Error().Err(err).Msg("Failed to persist task update")
			}
			return true
		}
	}
	return false
}

// Complete marks the task done.
func (m *Manager) Complete(id string) bool {
	return m.Update(id, func(t *Task) { t.Completed = true })
}

// Delete removes the task.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			if err := m.save(); err != nil {
				m.logger.Error().Err(err).Msg("Failed to persist task deletion")
			}
			return true
		}
	}
	return false
}

// Today returns tasks due today.
func (m *Manager) Today() []Task {
	today := m.now().Format(dateLayout)
	return m.filter(func(t Task) bool { return t.DueDate == today })
}

// Week returns tasks due within the next seven days.
func (m *Manager) Week() []Task {
	start := m.now().Format(dateLayout)
	end := m.now().AddDate(0, 0, 7).Format(dateLayout)
	return m.filter(func(t Task) bool { return t.DueDate >= start && t.DueDate <= end })
}

// Overdue returns incomplete tasks whose due date has passed.
func (m *Manager) Overdue() []Task {
	today := m.now().Format(dateLayout)
	return m.filter(func(t Task) bool { return !t.Completed && t.DueDate < today })
}

// Pending returns all incomplete tasks.
func (m *Manager) Pending() []Task {
	return m.filter(func(t Task) bool { return !t.Completed })
}

// ByPriority returns tasks at the given priority level.
func (m *Manager) ByPriority(priority string) []Task {
	priority = strings.ToLower(priority)
	return m.filter(func(t Task) bool { return t.Priority == priority })
}

// All returns every task.
func (m *Manager) All() []Task {
	return m.filter(func(Task) bool { return true })
}

// Search matches the query against titles and descriptions.
func (m *Manager) Search(query string) []Task {
	q := strings.ToLower(query)
	return m.filter(func(t Task) bool {
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q)
	})
}

func (m *Manager) filter(keep func(Task) bool) []Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Task
	for _, t := range m.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Summary builds the spoken task announcement.
func (m *Manager) Summary() string {
	overdue := m.Overdue()
	today := m.Today()

	var pendingToday []Task
	for _, t := range today {
		if !t.Completed {
			pendingToday = append(pendingToday, t)
		}
	}

	var parts []string
	if n := len(overdue); n > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue %s", n, plural("task", n)))
	}
	if n := len(pendingToday); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s for today", n, plural("task", n)))
	}
	if len(parts) == 0 {
		return "You have no tasks for today. You're all clear!"
	}

	summary := "You have " + strings.Join(parts, " and ") + "."
	if n := len(pendingToday); n > 0 && n <= 5 {
		titles := make([]string, n)
		for i, t := range pendingToday {
			titles[i] = fmt.Sprintf("%d. %s", i+1, t.Title)
		}
		summary += " Here they are: " + strings.Join(titles, ", ")
	}
	return summary
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
