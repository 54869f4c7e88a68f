package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotsync/internal/formatter"
	"github.com/desertthunder/spotsync/internal/repositories"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints the stored collection in priority order.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store := repositories.NewPlaylistStore(db)
	collection, err := store.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(collection, cmd.Bool("pretty"))
	}

	if len(collection.Playlists) == 0 {
		r.writePlain("No playlists stored. Run 'spotsync search' and 'spotsync add' first.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Playlists of %s", collection.Username))
	for _, pl := range collection.Playlists {
		marker := "●"
		if !pl.Enabled {
			marker = "○"
		}
		r.writePlain("%s [%d] %s (%d tracks) • %s\n", marker, pl.Priority, pl.Title, pl.TotalTracks, pl.ID)
	}
	return nil
}

// PlaylistsEnable includes a playlist in sync runs.
func (r *Runner) PlaylistsEnable(ctx context.Context, cmd *cli.Command) error {
	return r.setEnabled(cmd, true)
}

// PlaylistsDisable excludes a playlist from sync runs.
func (r *Runner) PlaylistsDisable(ctx context.Context, cmd *cli.Command) error {
	return r.setEnabled(cmd, false)
}

func (r *Runner) setEnabled(cmd *cli.Command, enabled bool) error {
	id := cmd.StringArg("id")
	all := cmd.Bool("all")
	if id == "" && !all {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	state := "enabled"
	if !enabled {
		state = "disabled"
	}

	store := repositories.NewPlaylistStore(db)
	if all {
		if err := store.SetEnabledAll(enabled); err != nil {
			return err
		}
		r.writePlain("All playlists %s\n", state)
		return nil
	}

	if err := store.SetEnabled(id, enabled); err != nil {
		return err
	}
	r.writePlain("Playlist %s %s\n", id, state)
	return nil
}

// PlaylistsMove changes a playlist's sync priority.
func (r *Runner) PlaylistsMove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}
	priority := cmd.Int("priority")

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store := repositories.NewPlaylistStore(db)
	if err := store.SetPriority(id, priority); err != nil {
		return err
	}

	r.writePlain("Playlist %s moved to priority %d\n", id, priority)
	return nil
}

// PlaylistsExport renders the collection in the requested format.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store := repositories.NewPlaylistStore(db)
	collection, err := store.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load playlists: %w", err)
	}

	if output != "" {
		if err := formatter.WriteExport(collection, format, output); err != nil {
			return err
		}
		r.writePlain("Exported %d playlists to %s\n", len(collection.Playlists), output)
		return nil
	}

	data, err := formatter.Export(collection, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// PlaylistsRemove deletes a playlist and invalidates its cached cover.
func (r *Runner) PlaylistsRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, _, err := r.buildEngine(ctx, db)
	if err != nil {
		return err
	}
	if err := engine.Remove(id); err != nil {
		return err
	}

	r.writePlain("Playlist %s removed\n", id)
	return nil
}
