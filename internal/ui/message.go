package ui

import (
	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/tasks"
)

// collectionLoadedMsg carries a fresh snapshot of the stored collection.
type collectionLoadedMsg struct {
	collection *models.Collection
	err        error
}

// storeUpdatedMsg signals that a mutation finished and the list should reload.
type storeUpdatedMsg struct {
	err error
}

// progressMsg wraps one update from the running task's progress channel.
type progressMsg tasks.ProgressUpdate

// taskDoneMsg carries the terminal outcome of the running task.
type taskDoneMsg struct {
	outcome tasks.Outcome
	err     error
}
