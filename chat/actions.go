package chat

import "sync"

// CreateAction is one pending task creation recorded during a turn.
type CreateAction struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
}

// Actions is the drained contents of a turn's ledger. The slices are never
// nil so that an empty list serializes as [] rather than null.
type Actions struct {
	Create     []CreateAction `json:"create"`
	Delete     []string       `json:"delete"`
	Complete   []string       `json:"complete"`
	Uncomplete []string       `json:"uncomplete"`
}

func (a Actions) Empty() bool {
	return len(a.Create) == 0 && len(a.Delete) == 0 && len(a.Complete) == 0 && len(a.Uncomplete) == 0
}

// Count returns the total number of recorded actions.
func (a Actions) Count() int {
	return len(a.Create) + len(a.Delete) + len(a.Complete) + len(a.Uncomplete)
}

// Ledger accumulates the task actions the model requests over a single chat
// turn. A fresh ledger is created per request; entries are kept in recording
// order and are never deduplicated.
type Ledger struct {
	mu         sync.Mutex
	create     []CreateAction
	delete     []string
	complete   []string
	uncomplete []string
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) RecordCreate(title, priority string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.create = append(l.create, CreateAction{Title: title, Priority: priority})
}

func (l *Ledger) RecordDelete(taskID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.delete = append(l.delete, taskID)
}

func (l *Ledger) RecordComplete(taskID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.complete = append(l.complete, taskID)
}

func (l *Ledger) RecordUncomplete(taskID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.uncomplete = append(l.uncomplete, taskID)
}

// Drain returns a copy of everything recorded so far. The ledger itself is
// left untouched; callers reset it separately once the turn concludes.
func (l *Ledger) Drain() Actions {
	l.mu.Lock()
	defer l.mu.Unlock()

	actions := Actions{
		Create:     make([]CreateAction, len(l.create)),
		Delete:     make([]string, len(l.delete)),
		Complete:   make([]string, len(l.complete)),
		Uncomplete: make([]string, len(l.uncomplete)),
	}
	copy(actions.Create, l.create)
	copy(actions.Delete, l.delete)
	copy(actions.Complete, l.complete)
	copy(actions.Uncomplete, l.uncomplete)
	return actions
}

// Reset discards all recorded actions. It runs at the end of every turn,
// successful or not.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.create = nil
	l.delete = nil
	l.complete = nil
	l.uncomplete = nil
}
