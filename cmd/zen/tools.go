package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zen-ai/zen/internal/memory"
	"github.com/zen-ai/zen/internal/research"
	"github.com/zen-ai/zen/internal/system"
	"github.com/zen-ai/zen/internal/tasks"
	"github.com/zen-ai/zen/internal/tool"
)

// toolDeps are the collaborators the registered tools close over.
type toolDeps struct {
	memory     *memory.Store
	tasks      *tasks.Manager
	system     *system.Controller
	researcher *research.Researcher
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64: // JSON numbers decode as float64
		return int(v)
	case int:
		return v
	}
	return 0
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// registerTools wires every local action into the registry. This must finish
// before the provider is constructed so the full descriptor list reaches the
// remote model.
func registerTools(reg *tool.Registry, deps toolDeps) error {
	descriptors := []tool.Descriptor{
		{
			Name:        "remember_fact",
			Description: "Store a fact or piece of information in long-term memory",
			Schema: tool.NewSchema("remember_fact", "Store a fact in long-term memory").
				AddParam("fact", "string", "The information to remember", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				fact := stringArg(args, "fact")
				if fact == "" {
					return "", fmt.Errorf("fact must not be empty")
				}
				if _, err := deps.memory.Remember(fact); err != nil {
					return "", err
				}
				return "I've stored that in my official memory.", nil
			},
		},
		{
			Name:        "recall_memories",
			Description: "Search long-term memory for information",
			Schema: tool.NewSchema("recall_memories", "Search long-term memory").
				AddParam("query", "string", "The topic or question to search for", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				results := deps.memory.Recall(stringArg(args, "query"), 3)
				if len(results) == 0 {
					return "I couldn't find any relevant memories about that.", nil
				}
				lines := make([]string, len(results))
				for i, f := range results {
					lines[i] = "- " + f.Text
				}
				return "Here is what I found in my memory:\n" + strings.Join(lines, "\n"), nil
			},
		},
		{
			Name:        "add_task",
			Description: "Add a task to the daily task list",
			Schema: tool.NewSchema("add_task", "Add a task").
				AddParam("title", "string", "Task title", true).
				AddParam("description", "string", "Task description", false).
				AddParam("due_date", "string", "Due date in YYYY-MM-DD format, defaults to today", false).
				AddParam("priority", "string", "Priority: high, medium or low", false).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				title := stringArg(args, "title")
				if title == "" {
					return "", fmt.Errorf("title must not be empty")
				}
				task, err := deps.tasks.Add(title,
					stringArg(args, "description"),
					stringArg(args, "due_date"),
					stringArg(args, "priority"))
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Added %s to your tasks for %s.", task.Title, task.DueDate), nil
			},
		},
		{
			Name:        "list_tasks",
			Description: "List tasks: today's, this week's, overdue or all pending",
			Schema: tool.NewSchema("list_tasks", "List tasks").
				AddParam("scope", "string", "One of: today, week, overdue, pending", false).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				var list []tasks.Task
				scope := stringArg(args, "scope")
				switch scope {
				case "week":
					list = deps.tasks.Week()
				case "overdue":
					list = deps.tasks.Overdue()
				case "pending":
					list = deps.tasks.Pending()
				default:
					return deps.tasks.Summary(), nil
				}
				if len(list) == 0 {
					return fmt.Sprintf("No %s tasks.", scope), nil
				}
				lines := make([]string, len(list))
				for i, t := range list {
					lines[i] = fmt.Sprintf("%d. %s (due %s)", i+1, t.Title, t.DueDate)
				}
				return strings.Join(lines, " "), nil
			},
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as complete by its title",
			Schema: tool.NewSchema("complete_task", "Complete a task").
				AddParam("title", "string", "Title of the task to complete", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				title := stringArg(args, "title")
				for _, t := range deps.tasks.Search(title) {
					if !t.Completed {
						deps.tasks.Complete(t.ID)
						return fmt.Sprintf("Marked %s as complete.", t.Title), nil
					}
				}
				return fmt.Sprintf("I couldn't find a pending task called %s.", title), nil
			},
		},
		{
			Name:        "research_topic",
			Description: "Research a topic by searching the web and summarizing results",
			Schema: tool.NewSchema("research_topic", "Research a topic on the web").
				AddParam("query", "string", "The topic to research", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				return deps.researcher.SearchAndSummarize(ctx, stringArg(args, "query"), 3)
			},
		},
		{
			Name:        "open_application",
			Description: "Open an application on this computer",
			Schema: tool.NewSchema("open_application", "Open an application").
				AddParam("app_name", "string", "Name of the application, e.g. chrome or calculator", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				return deps.system.OpenApplication(stringArg(args, "app_name")), nil
			},
		},
		{
			Name:        "get_current_time",
			Description: "Get the current date and time",
			Exec: func(map[string]any) (string, error) {
				return deps.system.CurrentTime(), nil
			},
		},
		{
			Name:        "search_web",
			Description: "Search the web using the default browser",
			Schema: tool.NewSchema("search_web", "Open a web search").
				AddParam("query", "string", "Search query", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				return deps.system.SearchWeb(stringArg(args, "query")), nil
			},
		},
		{
			Name:        "get_system_info",
			Description: "Get basic system information",
			Exec: func(map[string]any) (string, error) {
				return deps.system.SystemInfo(), nil
			},
		},
		{
			Name:        "set_volume",
			Description: "Set the system volume to a level between 0 and 100",
			Schema: tool.NewSchema("set_volume", "Set system volume").
				AddParam("level", "integer", "Volume level from 0 to 100", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				return deps.system.SetVolume(intArg(args, "level")), nil
			},
		},
		{
			Name:        "control_media",
			Description: "Control music or video playback",
			Schema: tool.NewSchema("control_media", "Control media playback").
				AddParam("action", "string", "One of: play, pause, next, previous, volume_up, volume_down, mute", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				return deps.system.ControlMedia(stringArg(args, "action")), nil
			},
		},
		{
			Name:        "play_youtube",
			Description: "Search and play a video on YouTube",
			Schema: tool.NewSchema("play_youtube", "Play a YouTube video").
				AddParam("query", "string", "The video to search for", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				return deps.system.PlayYouTube(stringArg(args, "query")), nil
			},
		},
		{
			Name:        "shutdown_system",
			Description: "Shutdown the computer. Requires confirm to be true.",
			Schema: tool.NewSchema("shutdown_system", "Shutdown the computer").
				AddParam("confirm", "boolean", "Must be true to actually shut down", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				return deps.system.Shutdown(boolArg(args, "confirm")), nil
			},
		},
		{
			Name:        "restart_system",
			Description: "Restart the computer. Requires confirm to be true.",
			Schema: tool.NewSchema("restart_system", "Restart the computer").
				AddParam("confirm", "boolean", "Must be true to actually restart", true).
				Build(),
			Exec: func(args map[string]any) (string, error) {
				return deps.system.Restart(boolArg(args, "confirm")), nil
			},
		},
	}

	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return fmt.Errorf("register %s: %w", d.Name, err)
		}
	}
	return nil
}
