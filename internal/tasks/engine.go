package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/services"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/dustin/go-humanize"
)

const (
	// DefaultUsername seeds the persisted username before any search.
	DefaultUsername = "Spotify"

	// UsernameSentinel in a search request means "use the persisted username".
	UsernameSentinel = "default"
)

// Store is the durable playlist collection the engine reads and writes.
// Implemented by repositories.PlaylistStore.
type Store interface {
	Username() (string, error)
	SetUsername(name string) error
	Get(id string) (*models.Playlist, error)
	GetAll() (*models.Collection, error)
	Set(playlist models.Playlist) error
	Remove(id string) error
}

// Covers resolves playlist cover art, serving cached bytes where possible.
// Implemented by cache.CoverService.
type Covers interface {
	Cover(ctx context.Context, id, url string) []byte
	Delete(id string) error
}

// SyncEngine implements the search, add, and sync operations that run as
// tasks. All methods match Runner modulo their leading arguments, so callers
// wrap them in closures when starting a slot task.
type SyncEngine struct {
	store        Store
	covers       Covers
	library      services.Library
	resolver     services.Resolver
	downloadsDir string
	logger       *log.Logger
}

// NewSyncEngine creates an engine around the given collaborators.
func NewSyncEngine(store Store, covers Covers, library services.Library, resolver services.Resolver, downloadsDir string, logger *log.Logger) *SyncEngine {
	return &SyncEngine{
		store:        store,
		covers:       covers,
		library:      library,
		resolver:     resolver,
		downloadsDir: downloadsDir,
		logger:       logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the work.
func (e *SyncEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// fetchCover runs the cache-aside cover lookup, tolerating an engine built
// without a cover service.
func (e *SyncEngine) fetchCover(ctx context.Context, id, url string) []byte {
	if e.covers == nil {
		return nil
	}
	return e.covers.Cover(ctx, id, url)
}

// resolveUsername maps a requested username to the one to search for. The
// sentinel resolves to the persisted username, falling back to the seed; an
// empty request is an error.
func (e *SyncEngine) resolveUsername(requested string) (string, error) {
	if requested == "" {
		return "", fmt.Errorf("%w: username is required", shared.ErrMissingArgument)
	}
	if requested != UsernameSentinel {
		return requested, nil
	}
	stored, err := e.store.Username()
	if err != nil {
		return "", fmt.Errorf("%w: failed to read username: %v", shared.ErrStoreUnavailable, err)
	}
	if stored == "" {
		return DefaultUsername, nil
	}
	return stored, nil
}

// Search lists the remote playlists of a user, emitting one PlaylistFound
// update per playlist with its cover art. A username that differs from the
// persisted one is saved and announced with a UsernameUpdated update.
func (e *SyncEngine) Search(ctx context.Context, username string, token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
	if e.library == nil {
		return Failed, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	effective, err := e.resolveUsername(username)
	if err != nil {
		return Failed, err
	}

	// Persist the effective username before listing so it survives a failed
	// lookup. The sentinel path seeds the default here on first use.
	stored, err := e.store.Username()
	if err != nil {
		e.logger.Warn("failed to read stored username", "err", err)
	}
	if stored != effective {
		if err := e.store.SetUsername(effective); err != nil {
			e.logger.Warn("failed to persist username", "username", effective, "err", err)
		} else {
			e.sendProgress(progress, usernameUpdatedUpdate(stored, effective))
		}
	}

	e.sendProgress(progress, searchStartedUpdate(e.library.Name(), effective))

	remotes, err := e.library.ListPlaylists(ctx, effective)
	if err != nil {
		return Failed, err
	}

	// Only public playlists are listed; private ones are skipped silently.
	var public []models.RemotePlaylist
	for _, remote := range remotes {
		if remote.Public {
			public = append(public, remote)
		}
	}

	total := len(public)
	for i, remote := range public {
		if token.Cancelled() {
			return Cancelled, shared.ErrCancelled
		}
		cover := e.fetchCover(ctx, remote.ID, remote.CoverURL)
		e.sendProgress(progress, foundPlaylistUpdate(i+1, total, remote.Record(), cover))
	}

	return Succeeded, nil
}

// Add persists a remote playlist as a new enabled record. Adding a playlist
// that is already stored is rejected, it never creates a duplicate.
func (e *SyncEngine) Add(ctx context.Context, remote models.RemotePlaylist, token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
	if token.Cancelled() {
		return Cancelled, shared.ErrCancelled
	}

	existing, err := e.store.Get(remote.ID)
	if err != nil {
		return Failed, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	if existing != nil {
		return Failed, fmt.Errorf("%w: %s", shared.ErrDuplicatePlaylist, remote.Title)
	}

	record := remote.Record()
	if err := e.store.Set(record); err != nil {
		return Failed, err
	}

	// Warms the cover cache so the stored record renders immediately.
	cover := e.fetchCover(ctx, record.ID, record.CoverURL)

	e.sendProgress(progress, addedPlaylistUpdate(record, cover))
	return Succeeded, nil
}

// AddByID looks up a remote playlist by id or title among the user's
// playlists and adds it to the store.
func (e *SyncEngine) AddByID(ctx context.Context, username, idOrTitle string, token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
	if e.library == nil {
		return Failed, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	effective, err := e.resolveUsername(username)
	if err != nil {
		return Failed, err
	}

	remotes, err := e.library.ListPlaylists(ctx, effective)
	if err != nil {
		return Failed, err
	}

	for _, remote := range remotes {
		if remote.ID == idOrTitle || remote.Title == idOrTitle {
			return e.Add(ctx, remote, token, progress)
		}
	}
	return Failed, fmt.Errorf("%w: %s has no playlist %q", shared.ErrPlaylistNotFound, effective, idOrTitle)
}

// SyncOne downloads the tracks of a single stored playlist, enabled or not.
func (e *SyncEngine) SyncOne(ctx context.Context, id string, token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
	playlist, err := e.store.Get(id)
	if err != nil {
		return Failed, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	if playlist == nil {
		return Failed, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return e.syncPlaylists(ctx, []models.Playlist{*playlist}, token, progress)
}

// SyncAll downloads every enabled playlist in priority order.
func (e *SyncEngine) SyncAll(ctx context.Context, token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
	collection, err := e.store.GetAll()
	if err != nil {
		return Failed, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return e.syncPlaylists(ctx, collection.Enabled(), token, progress)
}

// syncPlaylists runs the sync pipeline over the given records. A failing
// playlist is recorded and the remaining ones still run; cancellation stops
// before the next unit of work.
func (e *SyncEngine) syncPlaylists(ctx context.Context, playlists []models.Playlist, token *CancelToken, progress chan<- ProgressUpdate) (Outcome, error) {
	if e.resolver == nil {
		return Failed, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}

	total := len(playlists)
	failures := 0

	for i, playlist := range playlists {
		if token.Cancelled() {
			return Cancelled, shared.ErrCancelled
		}

		e.sendProgress(progress, syncPlaylistUpdate(i+1, total, playlist.Title))

		err := e.syncPlaylist(ctx, playlist, i+1, total, token, progress)
		if errors.Is(err, shared.ErrCancelled) {
			return Cancelled, err
		}
		if err != nil {
			failures++
			e.logger.Warn("playlist sync failed", "playlist", playlist.Title, "err", err)
		}
	}

	if failures > 0 {
		return Partial, fmt.Errorf("%d of %d playlists failed", failures, total)
	}
	return Succeeded, nil
}

// syncPlaylist resolves and downloads one playlist's tracks. A failing track
// is logged and skipped so the rest of the playlist still downloads.
func (e *SyncEngine) syncPlaylist(ctx context.Context, playlist models.Playlist, step, total int, token *CancelToken, progress chan<- ProgressUpdate) error {
	dir := filepath.Join(e.downloadsDir, shared.SanitizeTitle(playlist.Title))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create playlist directory: %w", err)
	}

	if cover := e.fetchCover(ctx, playlist.ID, playlist.CoverURL); len(cover) > 0 {
		if err := os.WriteFile(filepath.Join(dir, "cover.jpg"), cover, 0644); err != nil {
			e.logger.Warn("failed to write playlist cover", "playlist", playlist.Title, "err", err)
		}
	}

	tracks, err := e.resolver.ResolveTracks(ctx, playlist.URL)
	if err != nil {
		return err
	}

	count := len(tracks)
	if count == 0 {
		e.logger.Warn("no tracks resolved", "playlist", playlist.Title)
		return nil
	}
	failed := 0

	for i, track := range tracks {
		if token.Cancelled() {
			return shared.ErrCancelled
		}

		e.sendProgress(progress, downloadTrackUpdate(step, total, playlist.Title, track.Name, i+1, count))

		path, err := e.resolver.DownloadTrack(ctx, track, dir)
		if err != nil {
			failed++
			e.logger.Warn("track download failed", "playlist", playlist.Title, "track", track.Name, "err", err)
			continue
		}
		if path != "" {
			if info, statErr := os.Stat(path); statErr == nil {
				e.logger.Info("track downloaded", "track", track.Name, "size", humanize.Bytes(uint64(info.Size())))
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d tracks failed", failed, count)
	}
	return nil
}

// Remove deletes a stored playlist and invalidates its cached cover.
func (e *SyncEngine) Remove(id string) error {
	if err := e.store.Remove(id); err != nil {
		return err
	}
	if e.covers != nil {
		if err := e.covers.Delete(id); err != nil {
			e.logger.Warn("failed to delete cached cover", "playlist", id, "err", err)
		}
	}
	return nil
}
