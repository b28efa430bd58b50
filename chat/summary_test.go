package chat_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/furisto/companion/chat"
)

func TestTaskContext_Empty(t *testing.T) {
	t.Parallel()

	if got := chat.TaskContext(nil); got != "" {
		t.Errorf("expected empty context for no tasks, got %q", got)
	}
}

func TestTaskContext_CountsAndListing(t *testing.T) {
	t.Parallel()

	tasks := []chat.Task{
		{ID: "t1", Title: "buy milk", Status: "todo", Priority: "high"},
		{ID: "t2", Title: "walk dog", Status: "done", Priority: "low"},
		{ID: "t3", Title: "mow lawn", Status: "todo", Priority: "medium"},
	}

	got := chat.TaskContext(tasks)

	if !strings.Contains(got, "Open tasks: 2") {
		t.Errorf("missing open count: %q", got)
	}
	if !strings.Contains(got, "Completed tasks: 1") {
		t.Errorf("missing done count: %q", got)
	}
	if !strings.Contains(got, "- ID: t1, Title: buy milk, Priority: high") {
		t.Errorf("missing todo line: %q", got)
	}
	if strings.Contains(got, "walk dog") {
		t.Errorf("done task should not be listed: %q", got)
	}
}

func TestTaskContext_CapsListingAtTen(t *testing.T) {
	t.Parallel()

	tasks := make([]chat.Task, 0, 50)
	for i := range 40 {
		tasks = append(tasks, chat.Task{
			ID:       fmt.Sprintf("todo-%d", i),
			Title:    fmt.Sprintf("task %d", i),
			Status:   "todo",
			Priority: "medium",
		})
	}
	for i := range 10 {
		tasks = append(tasks, chat.Task{
			ID:     fmt.Sprintf("done-%d", i),
			Title:  fmt.Sprintf("finished %d", i),
			Status: "done",
		})
	}

	got := chat.TaskContext(tasks)

	if lines := strings.Count(got, "- ID: "); lines != 10 {
		t.Errorf("expected 10 listed tasks, got %d", lines)
	}
	if !strings.Contains(got, "Open tasks: 40") {
		t.Errorf("open count must reflect the full input: %q", got)
	}
	if !strings.Contains(got, "Completed tasks: 10") {
		t.Errorf("done count must reflect the full input: %q", got)
	}
}
