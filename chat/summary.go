package chat

import (
	"fmt"
	"strings"
)

// Task is the caller-supplied view of a task used to build the model's
// context. It is never persisted by the chat endpoint.
type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

const maxListedTasks = 10

// TaskContext renders the task-state summary injected into the system prompt.
// At most ten open tasks are listed; the counts always reflect the full
// input. An empty task list yields an empty string.
func TaskContext(tasks []Task) string {
	if len(tasks) == 0 {
		return ""
	}

	var todo, done []Task
	for _, task := range tasks {
		if task.Status == "done" {
			done = append(done, task)
		} else {
			todo = append(todo, task)
		}
	}

	var list strings.Builder
	for i, task := range todo {
		if i == maxListedTasks {
			break
		}
		fmt.Fprintf(&list, "- ID: %s, Title: %s, Priority: %s\n", task.ID, task.Title, task.Priority)
	}

	var sb strings.Builder
	sb.WriteString("\n\nCurrent task state:\n")
	fmt.Fprintf(&sb, "Open tasks: %d\n", len(todo))
	fmt.Fprintf(&sb, "Completed tasks: %d\n", len(done))
	if list.Len() > 0 {
		sb.WriteString("\nOpen task list:\n")
		sb.WriteString(list.String())
	}
	return sb.String()
}
