package tasks

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/spotsync/internal/shared"
)

func testSlot() *Slot {
	return NewSlot(shared.NewLogger(io.Discard))
}

func TestCancelToken(t *testing.T) {
	token := &CancelToken{}
	if token.Cancelled() {
		t.Error("New token should not be cancelled")
	}
	token.Cancel()
	if !token.Cancelled() {
		t.Error("Token should be cancelled after Cancel")
	}
	token.Cancel()
	if !token.Cancelled() {
		t.Error("Cancel should be idempotent")
	}
}

func TestSlot_Start(t *testing.T) {
	t.Run("rejects second task while busy", func(t *testing.T) {
		slot := testSlot()
		gate := make(chan struct{})

		task, err := slot.Start(KindSyncAll, func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
			<-gate
			return Succeeded, nil
		})
		if err != nil {
			t.Fatalf("First Start failed: %v", err)
		}

		if _, err := slot.Start(KindSearch, func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
			return Succeeded, nil
		}); !errors.Is(err, shared.ErrSlotBusy) {
			t.Errorf("Expected ErrSlotBusy, got %v", err)
		}

		close(gate)
		if outcome, err := task.Wait(); outcome != Succeeded || err != nil {
			t.Errorf("Expected Succeeded, got %s / %v", outcome, err)
		}
	})

	t.Run("frees the slot after the task finishes", func(t *testing.T) {
		slot := testSlot()

		task, err := slot.Start(KindAdd, func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
			return Succeeded, nil
		})
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		task.Wait()

		next, err := slot.Start(KindSearch, func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
			return Succeeded, nil
		})
		if err != nil {
			t.Fatalf("Start after finish failed: %v", err)
		}
		next.Wait()
	})

	t.Run("slot is already free when progress closes", func(t *testing.T) {
		slot := testSlot()

		task, err := slot.Start(KindSyncOne, func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
			progress <- syncPlaylistUpdate(1, 1, "Mix")
			return Succeeded, nil
		})
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		for range task.Progress() {
		}
		if _, err := slot.Start(KindSearch, func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
			return Succeeded, nil
		}); err != nil {
			t.Errorf("Start after progress close failed: %v", err)
		}
	})
}

func TestTask_Progress(t *testing.T) {
	t.Run("delivers updates in order then closes exactly once", func(t *testing.T) {
		slot := testSlot()

		task, err := slot.Start(KindSyncAll, func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
			for i := 1; i <= 3; i++ {
				progress <- syncPlaylistUpdate(i, 3, "Mix")
			}
			return Succeeded, nil
		})
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		var steps []int
		for update := range task.Progress() {
			steps = append(steps, update.Step)
		}
		if len(steps) != 3 {
			t.Fatalf("Expected 3 updates, got %d", len(steps))
		}
		for i, step := range steps {
			if step != i+1 {
				t.Errorf("Updates out of order: %v", steps)
			}
		}

		// A closed channel yields immediately with ok=false, nothing follows
		// the terminal signal.
		if _, ok := <-task.Progress(); ok {
			t.Error("Received update after terminal signal")
		}
	})

	t.Run("wait returns the runner error", func(t *testing.T) {
		slot := testSlot()
		wantErr := errors.New("listing failed")

		task, _ := slot.Start(KindSearch, func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
			return Failed, wantErr
		})
		outcome, err := task.Wait()
		if outcome != Failed || !errors.Is(err, wantErr) {
			t.Errorf("Expected Failed with runner error, got %s / %v", outcome, err)
		}
	})
}

func TestSlot_Cancel(t *testing.T) {
	slot := testSlot()
	started := make(chan struct{})

	task, err := slot.Start(KindSyncAll, func(token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
		close(started)
		for {
			if token.Cancelled() {
				return Cancelled, shared.ErrCancelled
			}
			time.Sleep(time.Millisecond)
		}
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	<-started
	slot.Cancel()

	outcome, err := task.Wait()
	if outcome != Cancelled || !errors.Is(err, shared.ErrCancelled) {
		t.Errorf("Expected Cancelled, got %s / %v", outcome, err)
	}
	if slot.Current() != nil {
		t.Error("Slot should be free after cancellation")
	}
}
