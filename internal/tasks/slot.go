package tasks

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsync/internal/shared"
)

// Slot runs at most one task at a time. Start rejects while a task is
// running; callers retry after the current task finishes, nothing is queued.
type Slot struct {
	mu      sync.Mutex
	current *Task
	logger  *log.Logger
}

func NewSlot(logger *log.Logger) *Slot {
	return &Slot{logger: logger}
}

// Start launches run as a new task of the given kind. Returns ErrSlotBusy
// when another task occupies the slot.
func (s *Slot) Start(kind Kind, run Runner) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, fmt.Errorf("%w: %s is running", shared.ErrSlotBusy, s.current.kind)
	}

	task := newTask(kind)
	s.current = task
	s.logger.Debug("task started", "task", task.id, "kind", kind.String())

	go func() {
		outcome, err := run(task.token, task.progress)
		s.finish(task, outcome, err)
	}()

	return task, nil
}

// finish records the outcome, releases the slot, then signals terminality.
// The slot is free by the time Done (or the progress close) is observed, so
// a consumer reacting to either may immediately start the next task.
func (s *Slot) finish(task *Task, outcome Outcome, err error) {
	task.outcome = outcome
	task.err = err

	s.mu.Lock()
	if s.current == task {
		s.current = nil
	}
	s.mu.Unlock()

	close(task.progress)
	close(task.done)

	if err != nil {
		s.logger.Warn("task finished", "task", task.id, "kind", task.kind.String(), "outcome", outcome.String(), "err", err)
	} else {
		s.logger.Debug("task finished", "task", task.id, "kind", task.kind.String(), "outcome", outcome.String())
	}
}

// Current returns the running task, or nil when the slot is free.
func (s *Slot) Current() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cancel requests cancellation of the running task, if any.
func (s *Slot) Cancel() {
	s.mu.Lock()
	task := s.current
	s.mu.Unlock()
	if task != nil {
		task.Cancel()
	}
}
