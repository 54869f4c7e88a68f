package main

import (
	"context"

	"github.com/desertthunder/spotsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync downloads enabled playlists in priority order, or a single playlist
// when --id is given.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, _, err := r.buildEngine(ctx, db)
	if err != nil {
		return err
	}

	kind := tasks.KindSyncAll
	run := func(token *tasks.CancelToken, progress chan<- tasks.ProgressUpdate) (tasks.Outcome, error) {
		return engine.SyncAll(ctx, token, progress)
	}
	if id != "" {
		kind = tasks.KindSyncOne
		run = func(token *tasks.CancelToken, progress chan<- tasks.ProgressUpdate) (tasks.Outcome, error) {
			return engine.SyncOne(ctx, id, token, progress)
		}
	}

	r.logger.Info("starting sync", "kind", kind.String())
	r.writePlain("Starting sync...\n")

	outcome, err := r.runTask(kind, run, func(update tasks.ProgressUpdate) {
		switch update.Phase {
		case tasks.SyncPlaylist:
			r.writePlain("\n📥 %s\n", update.Message)
		case tasks.DownloadTrack:
			r.writePlain("   %s\n", update.Message)
		}
	})
	if err != nil {
		return err
	}

	if outcome == tasks.Succeeded {
		r.writePlainHeader("Sync Complete!")
	}
	return nil
}
