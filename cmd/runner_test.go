package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/repositories"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/desertthunder/spotsync/internal/tasks"
	tu "github.com/desertthunder/spotsync/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})

		t.Run("returns error for unmarshalable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected marshal error")
			}
		})

		t.Run("returns error when write fails", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected write error")
			}
		})

		t.Run("returns error when newline write fails", func(t *testing.T) {
			limited := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limited})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected newline write error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes formatted text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("count: %d\n", 3); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "count: 3\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("returns error when write fails", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writePlain("text"); err == nil {
				t.Error("expected write error")
			}
		})
	})
}

func TestRunTask(t *testing.T) {
	newRunner := func(output *bytes.Buffer) *Runner {
		return NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})
	}
	run := func(outcome tasks.Outcome, err error) tasks.Runner {
		return func(token *tasks.CancelToken, progress chan<- tasks.ProgressUpdate) (tasks.Outcome, error) {
			return outcome, err
		}
	}
	discard := func(tasks.ProgressUpdate) {}

	t.Run("succeeded task returns nil", func(t *testing.T) {
		runner := newRunner(&bytes.Buffer{})
		outcome, err := runner.runTask(tasks.KindSyncAll, run(tasks.Succeeded, nil), discard)
		if outcome != tasks.Succeeded || err != nil {
			t.Errorf("expected Succeeded with nil error, got %s / %v", outcome, err)
		}
	})

	t.Run("partial task prints the error without failing the command", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := newRunner(output)
		outcome, err := runner.runTask(tasks.KindSyncAll, run(tasks.Partial, errors.New("2 of 3 synchronized")), discard)
		if outcome != tasks.Partial || err != nil {
			t.Errorf("expected Partial with nil error, got %s / %v", outcome, err)
		}
		if !strings.Contains(output.String(), "2 of 3 synchronized") {
			t.Errorf("expected the partial error in output, got %q", output.String())
		}
	})

	t.Run("cancelled task prints a notice", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := newRunner(output)
		outcome, err := runner.runTask(tasks.KindSyncAll, run(tasks.Cancelled, shared.ErrCancelled), discard)
		if outcome != tasks.Cancelled || err != nil {
			t.Errorf("expected Cancelled with nil error, got %s / %v", outcome, err)
		}
		if !strings.Contains(output.String(), "Cancelled.") {
			t.Errorf("expected a cancellation notice, got %q", output.String())
		}
	})

	t.Run("failed task surfaces the error", func(t *testing.T) {
		runner := newRunner(&bytes.Buffer{})
		outcome, err := runner.runTask(tasks.KindSyncAll, run(tasks.Failed, errors.New("boom")), discard)
		if outcome != tasks.Failed || err == nil {
			t.Errorf("expected Failed with an error, got %s / %v", outcome, err)
		}
	})

	t.Run("interrupt watcher exits with the task", func(t *testing.T) {
		runner := newRunner(&bytes.Buffer{})
		before := runtime.NumGoroutine()

		for i := 0; i < 20; i++ {
			if _, err := runner.runTask(tasks.KindSyncAll, run(tasks.Succeeded, nil), discard); err != nil {
				t.Fatalf("runTask failed: %v", err)
			}
		}

		// The watcher parks on the task's done channel, so finished runs
		// should not accumulate goroutines. Allow the scheduler a moment.
		deadline := time.Now().Add(2 * time.Second)
		for runtime.NumGoroutine() > before+2 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		if n := runtime.NumGoroutine(); n > before+2 {
			t.Errorf("expected watchers to exit, goroutines grew from %d to %d", before, n)
		}
	})
}

// newTestApp builds the full CLI wired to a runner writing into output, with
// the database and library directories rooted in a temp dir.
func newTestApp(t *testing.T, output *bytes.Buffer) (*cli.Command, *shared.Config) {
	t.Helper()
	dir := t.TempDir()

	config := shared.DefaultConfig()
	config.Database.Path = dir + "/spotsync.db"
	config.Library.DownloadsDir = dir + "/playlists"
	config.Library.CoversDir = dir + "/covers"

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(output),
		Output: output,
	})

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	db.Close()

	return &cli.Command{
		Name:     "spotsync",
		Commands: runner.register(),
	}, config
}

func TestUsernameCommands(t *testing.T) {
	output := &bytes.Buffer{}
	app, _ := newTestApp(t, output)
	ctx := context.Background()

	if err := app.Run(ctx, []string{"spotsync", "username", "set", "alice"}); err != nil {
		t.Fatalf("username set failed: %v", err)
	}
	if !strings.Contains(output.String(), "Username saved: alice") {
		t.Errorf("unexpected output %q", output.String())
	}

	output.Reset()
	if err := app.Run(ctx, []string{"spotsync", "username", "get"}); err != nil {
		t.Fatalf("username get failed: %v", err)
	}
	if !strings.Contains(output.String(), "alice") {
		t.Errorf("expected saved username in output, got %q", output.String())
	}
}

func TestPlaylistsListCommand(t *testing.T) {
	output := &bytes.Buffer{}
	app, _ := newTestApp(t, output)

	if err := app.Run(context.Background(), []string{"spotsync", "playlists", "list"}); err != nil {
		t.Fatalf("playlists list failed: %v", err)
	}
	if !strings.Contains(output.String(), "No playlists stored") {
		t.Errorf("expected empty-collection hint, got %q", output.String())
	}
}

func TestPlaylistsEnableAllCommand(t *testing.T) {
	output := &bytes.Buffer{}
	app, config := newTestApp(t, output)
	ctx := context.Background()

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	store := repositories.NewPlaylistStore(db)
	for i, id := range []string{"pl1", "pl2"} {
		playlist := models.Playlist{
			ID:          id,
			Title:       "Mix " + id,
			Owner:       "tester",
			URL:         "https://open.spotify.com/playlist/" + id,
			TotalTracks: 5,
			Enabled:     true,
			Priority:    i,
		}
		if err := store.Set(playlist); err != nil {
			t.Fatalf("failed to seed playlist: %v", err)
		}
	}
	db.Close()

	if err := app.Run(ctx, []string{"spotsync", "playlists", "disable", "--all"}); err != nil {
		t.Fatalf("playlists disable --all failed: %v", err)
	}
	if !strings.Contains(output.String(), "All playlists disabled") {
		t.Errorf("unexpected output %q", output.String())
	}

	db, err = shared.NewDatabase(config.Database.Path)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()
	collection, err := repositories.NewPlaylistStore(db).GetAll()
	if err != nil {
		t.Fatalf("failed to load collection: %v", err)
	}
	if enabled := collection.Enabled(); len(enabled) != 0 {
		t.Errorf("expected no enabled playlists, got %d", len(enabled))
	}
}

func TestSetupCommand(t *testing.T) {
	dir := t.TempDir()
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, dir)
	defer tu.MustChdir(t, wd)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Logger: shared.NewLogger(output),
		Output: output,
	})
	app := &cli.Command{Name: "spotsync", Commands: runner.register()}

	if err := app.Run(context.Background(), []string{"spotsync", "setup"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tu.AssertFileExists(t, dir+"/config.toml")
	tu.AssertFileExists(t, dir+"/spotsync.db")
	tu.AssertDirExists(t, dir+"/playlists")
	tu.AssertDirExists(t, dir+"/cache/covers")
}
