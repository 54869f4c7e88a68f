package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotsync/internal/repositories"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// UsernameGet prints the saved Spotify username.
func (r *Runner) UsernameGet(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store := repositories.NewPlaylistStore(db)
	username, err := store.Username()
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	if username == "" {
		r.writePlain("No username saved\n")
		return nil
	}
	r.writePlain("%s\n", username)
	return nil
}

// UsernameSet saves a username for future searches.
func (r *Runner) UsernameSet(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: username is required", shared.ErrMissingArgument)
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store := repositories.NewPlaylistStore(db)
	if err := store.SetUsername(name); err != nil {
		return fmt.Errorf("failed to save username: %w", err)
	}

	r.writePlain("Username saved: %s\n", name)
	return nil
}
