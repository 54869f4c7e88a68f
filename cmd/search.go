package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/desertthunder/spotsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search lists a user's public playlists, streaming results as they arrive.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	asJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, _, err := r.buildEngine(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Info("searching for playlists", "username", username)

	var found []models.Playlist
	_, err = r.runTask(tasks.KindSearch, func(token *tasks.CancelToken, progress chan<- tasks.ProgressUpdate) (tasks.Outcome, error) {
		return engine.Search(ctx, username, token, progress)
	}, func(update tasks.ProgressUpdate) {
		switch update.Phase {
		case tasks.SearchLibrary:
			if !asJSON {
				r.writePlain("🔍 %s\n", update.Message)
			}
		case tasks.UsernameUpdated:
			if !asJSON {
				r.writePlain("💾 %s\n", update.Message)
			}
		case tasks.PlaylistFound:
			payload, ok := update.Data.(tasks.FoundPlaylist)
			if !ok {
				return
			}
			found = append(found, payload.Playlist)
			if !asJSON {
				r.writePlain("   %s\n", update.Message)
			}
		}
	})
	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(found, pretty)
	}

	r.writePlain("\n%d playlists found\n", len(found))
	return nil
}

// Add stores a playlist from the user's Spotify library by id or title.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.StringArg("playlist")
	if playlist == "" {
		return fmt.Errorf("%w: playlist id or title is required", shared.ErrMissingArgument)
	}
	username := cmd.String("username")

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, _, err := r.buildEngine(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Info("adding playlist", "playlist", playlist, "username", username)

	_, err = r.runTask(tasks.KindAdd, func(token *tasks.CancelToken, progress chan<- tasks.ProgressUpdate) (tasks.Outcome, error) {
		return engine.AddByID(ctx, username, playlist, token, progress)
	}, func(update tasks.ProgressUpdate) {
		if update.Phase == tasks.PlaylistAdded {
			r.writePlain("✓ %s\n", update.Message)
		}
	})
	return err
}
