package event

import "time"

// ChatTurnEvent is published after every chat turn, successful or not.
type ChatTurnEvent struct {
	Created      int
	Deleted      int
	Completed    int
	Uncompleted  int
	InputTokens  int64
	OutputTokens int64
	Duration     time.Duration
	Failed       bool
}

func (ChatTurnEvent) Event() {}

// TaskChangedEvent is published when a task is mutated through the REST API.
type TaskChangedEvent struct {
	TaskID    string
	ProjectID string
	Change    string
}

func (TaskChangedEvent) Event() {}
