package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/furisto/companion/tool"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type createTaskInput struct {
	Title    string `json:"title" jsonschema:"title=title,description=Short title of the task to create"`
	Priority string `json:"priority,omitempty" jsonschema:"title=priority,enum=high,enum=medium,enum=low,description=Priority of the task"`
}

type taskRefInput struct {
	TaskID string `json:"task_id" jsonschema:"title=task_id,description=Identifier of an existing task"`
}

// TaskTools builds the capability table for one chat turn. Every tool writes
// to the given ledger and returns a short acknowledgement for the model;
// nothing is persisted here.
func TaskTools(ledger *Ledger) []tool.Tool {
	return []tool.Tool{
		tool.NewTool("create_task",
			"Create a new task with a title and an optional priority.",
			func(ctx context.Context, input createTaskInput) (string, error) {
				title := strings.TrimSpace(input.Title)
				if title == "" {
					return "", fmt.Errorf("title must not be empty")
				}
				priority := normalizePriority(input.Priority)
				ledger.RecordCreate(title, priority)
				return fmt.Sprintf("Task %q staged for creation with %s priority.", title, priority), nil
			}),
		tool.NewTool("delete_task",
			"Delete the task with the given id.",
			func(ctx context.Context, input taskRefInput) (string, error) {
				if input.TaskID == "" {
					return "", fmt.Errorf("task_id must not be empty")
				}
				ledger.RecordDelete(input.TaskID)
				return fmt.Sprintf("Task %s staged for deletion.", input.TaskID), nil
			}),
		tool.NewTool("complete_task",
			"Mark the task with the given id as done.",
			func(ctx context.Context, input taskRefInput) (string, error) {
				if input.TaskID == "" {
					return "", fmt.Errorf("task_id must not be empty")
				}
				ledger.RecordComplete(input.TaskID)
				return fmt.Sprintf("Task %s staged for completion.", input.TaskID), nil
			}),
		tool.NewTool("uncomplete_task",
			"Mark the task with the given id as not done.",
			func(ctx context.Context, input taskRefInput) (string, error) {
				if input.TaskID == "" {
					return "", fmt.Errorf("task_id must not be empty")
				}
				ledger.RecordUncomplete(input.TaskID)
				return fmt.Sprintf("Task %s staged to reopen.", input.TaskID), nil
			}),
	}
}

func normalizePriority(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}
