package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsync/internal/cache"
	"github.com/desertthunder/spotsync/internal/repositories"
	"github.com/desertthunder/spotsync/internal/services"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/desertthunder/spotsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, addCommand, syncCommand, playlistsCommand, usernameCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDB opens the configured database. Callers close it.
func (r *Runner) openDB() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// buildEngine wires the sync engine and its collaborators over an open
// database. The library is nil when no Spotify credentials are configured;
// operations that need it fail with ErrServiceUnavailable.
func (r *Runner) buildEngine(ctx context.Context, db *sql.DB) (*tasks.SyncEngine, *repositories.PlaylistStore, error) {
	store := repositories.NewPlaylistStore(db)

	coverCache, err := cache.NewCoverCache(r.config.Library.CoversDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cover cache: %w", err)
	}
	covers := cache.NewCoverService(coverCache, r.httpClient, r.logger)

	var library services.Library
	creds := r.config.Credentials.Spotify
	if creds.ClientID != "" && creds.ClientSecret != "" {
		spotify, err := services.NewSpotifyService(ctx, creds.ClientID, creds.ClientSecret)
		if err != nil {
			return nil, nil, err
		}
		library = spotify
	}

	resolver := services.NewSpotdlResolver(r.config.Spotdl.Binary, shared.WithLogger(r.logger, "component", "spotdl"))
	engine := tasks.NewSyncEngine(store, covers, library, resolver, r.config.Library.DownloadsDir, shared.WithLogger(r.logger, "component", "engine"))
	return engine, store, nil
}

// runTask starts run in a fresh slot, streams its progress to the output via
// print, and maps the outcome to the command's exit status. Ctrl-C cancels
// the task cooperatively instead of killing the process.
func (r *Runner) runTask(kind tasks.Kind, run tasks.Runner, print func(tasks.ProgressUpdate)) (tasks.Outcome, error) {
	slot := tasks.NewSlot(r.logger)
	task, err := slot.Start(kind, run)
	if err != nil {
		return tasks.Failed, err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		select {
		case <-interrupt:
			r.writePlain("\nCancelling...\n")
			task.Cancel()
		case <-task.Done():
		}
	}()

	for update := range task.Progress() {
		print(update)
	}

	outcome, err := task.Wait()
	switch outcome {
	case tasks.Succeeded:
		return outcome, nil
	case tasks.Partial:
		r.writePlain("%s\n", err)
		return outcome, nil
	case tasks.Cancelled:
		r.writePlain("Cancelled.\n")
		return outcome, nil
	default:
		return outcome, err
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
