// package tasks implements the background work model of the application.
//
// A Slot holds at most one running Task at a time; starting a second task is
// rejected rather than queued. Each Task carries its own CancelToken and an
// ordered progress channel whose close is the task's terminal signal.
// SyncEngine provides the operations that run inside tasks.
package tasks

import "github.com/desertthunder/spotsync/internal/shared"

// progressBuffer sizes each task's progress channel. Updates are sent
// non-blocking, so a slow consumer drops updates instead of stalling work.
const progressBuffer = 256

// Kind identifies the operation a task performs.
type Kind int

const (
	KindSearch Kind = iota
	KindAdd
	KindSyncOne
	KindSyncAll
)

func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindAdd:
		return "add"
	case KindSyncOne:
		return "sync_one"
	case KindSyncAll:
		return "sync_all"
	default:
		return ""
	}
}

// Outcome is the terminal state of a finished task.
type Outcome int

const (
	Succeeded Outcome = iota
	Partial
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Partial:
		return "partial"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Runner is the body of a task. It reports progress through the channel,
// polls the token between units of work, and returns the terminal outcome.
type Runner func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error)

// Task is a single background operation started through a Slot.
type Task struct {
	id       string
	kind     Kind
	token    *CancelToken
	progress chan ProgressUpdate
	done     chan struct{}
	outcome  Outcome
	err      error
}

func newTask(kind Kind) *Task {
	return &Task{
		id:       shared.GenerateID(),
		kind:     kind,
		token:    &CancelToken{},
		progress: make(chan ProgressUpdate, progressBuffer),
		done:     make(chan struct{}),
	}
}

func (t *Task) ID() string { return t.id }

func (t *Task) Kind() Kind { return t.kind }

// Progress returns the task's ordered update stream. The channel is closed
// exactly once, when the task reaches its terminal state.
func (t *Task) Progress() <-chan ProgressUpdate {
	return t.progress
}

// Done is closed after the outcome is recorded and the slot is released.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel requests cooperative cancellation. The task keeps running until it
// observes the token at its next check.
func (t *Task) Cancel() {
	t.token.Cancel()
}

// Wait blocks until the task finishes and returns its outcome.
func (t *Task) Wait() (Outcome, error) {
	<-t.done
	return t.outcome, t.err
}
