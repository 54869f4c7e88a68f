package repositories

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
)

// PlaylistStore persists the playlist collection and the current username.
//
// All mutating operations take the writer mutex, so writes issued by
// concurrent tasks are applied one at a time. Reads go straight to the
// database and observe complete records only.
type PlaylistStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewPlaylistStore creates a new PlaylistStore with the given database connection
func NewPlaylistStore(db *sql.DB) *PlaylistStore {
	return &PlaylistStore{db: db}
}

// Username returns the configured remote username, empty when unset.
func (s *PlaylistStore) Username() (string, error) {
	var username string
	err := s.db.QueryRow("SELECT username FROM settings WHERE id = 1").Scan(&username)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read username: %v", shared.ErrStoreUnavailable, err)
	}
	return username, nil
}

// SetUsername persists the remote username used for playlist search.
func (s *PlaylistStore) SetUsername(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("UPDATE settings SET username = ? WHERE id = 1", name); err != nil {
		return fmt.Errorf("%w: failed to save username: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}

// Get retrieves a playlist by id. Returns nil when the id is not stored.
func (s *PlaylistStore) Get(id string) (*models.Playlist, error) {
	query := `
		SELECT id, title, owner, url, total_tracks, cover_url, enabled, priority
		FROM playlists
		WHERE id = ?
	`

	playlist, err := scanPlaylist(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist: %w", err)
	}
	return playlist, nil
}

// GetAll returns a snapshot of every stored playlist in priority order,
// with insertion order breaking priority ties, plus the current username.
func (s *PlaylistStore) GetAll() (*models.Collection, error) {
	username, err := s.Username()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, owner, url, total_tracks, cover_url, enabled, priority
		FROM playlists
		ORDER BY priority ASC, rowid ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	collection := &models.Collection{Username: username}
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		collection.Playlists = append(collection.Playlists, *playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlists: %w", err)
	}

	return collection, nil
}

// Set upserts a playlist by id and writes it through before returning.
//
// A record carrying the unassigned priority sentinel is placed at the end of
// the current order (highest priority + 1).
func (s *PlaylistStore) Set(playlist models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if playlist.Priority < 0 {
		next, err := s.nextPriority()
		if err != nil {
			return err
		}
		playlist.Priority = next
	}

	query := `
		INSERT INTO playlists (id, title, owner, url, total_tracks, cover_url, enabled, priority, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			owner = excluded.owner,
			url = excluded.url,
			total_tracks = excluded.total_tracks,
			cover_url = excluded.cover_url,
			enabled = excluded.enabled,
			priority = excluded.priority,
			updated_at = excluded.updated_at
	`

	_, err := s.db.Exec(query,
		playlist.ID,
		playlist.Title,
		playlist.Owner,
		playlist.URL,
		playlist.TotalTracks,
		playlist.CoverURL,
		playlist.Enabled,
		playlist.Priority,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save playlist: %v", shared.ErrStoreUnavailable, err)
	}

	return nil
}

// SetAll replaces the entire stored collection in a single transaction.
func (s *PlaylistStore) SetAll(collection *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlists"); err != nil {
		return fmt.Errorf("failed to clear playlists: %w", err)
	}

	query := `
		INSERT INTO playlists (id, title, owner, url, total_tracks, cover_url, enabled, priority, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	for _, playlist := range collection.Playlists {
		if err := playlist.Validate(); err != nil {
			return fmt.Errorf("validation failed for %q: %w", playlist.ID, err)
		}
		_, err := tx.Exec(query,
			playlist.ID,
			playlist.Title,
			playlist.Owner,
			playlist.URL,
			playlist.TotalTracks,
			playlist.CoverURL,
			playlist.Enabled,
			playlist.Priority,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert playlist %q: %w", playlist.ID, err)
		}
	}

	if _, err := tx.Exec("UPDATE settings SET username = ? WHERE id = 1", collection.Username); err != nil {
		return fmt.Errorf("failed to save username: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}

// SetPriority reassigns one playlist's position in the sync order.
//
// Last write wins per record; duplicate priorities are tolerated and
// resolved by insertion order when the collection is read back.
func (s *PlaylistStore) SetPriority(id string, priority int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("UPDATE playlists SET priority = ?, updated_at = ? WHERE id = ?", priority, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: failed to update priority: %v", shared.ErrStoreUnavailable, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return nil
}

// SetEnabled toggles whether a playlist is included in sync-all runs.
func (s *PlaylistStore) SetEnabled(id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("UPDATE playlists SET enabled = ?, updated_at = ? WHERE id = ?", enabled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: failed to update playlist: %v", shared.ErrStoreUnavailable, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return nil
}

// SetEnabledAll sets the enabled flag on every stored playlist at once.
func (s *PlaylistStore) SetEnabledAll(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("UPDATE playlists SET enabled = ?, updated_at = ?", enabled, time.Now()); err != nil {
		return fmt.Errorf("%w: failed to update playlists: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}

// Remove deletes a playlist from the collection.
//
// Callers are responsible for invalidating the playlist's cover cache entry;
// the sync engine does both through its Remove operation.
func (s *PlaylistStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete playlist: %v", shared.ErrStoreUnavailable, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return nil
}

// nextPriority returns one past the highest stored priority, starting at 0.
func (s *PlaylistStore) nextPriority() (int, error) {
	var max sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(priority) FROM playlists").Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to compute next priority: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanPlaylist.
type scanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(row scanner) (*models.Playlist, error) {
	var p models.Playlist
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Owner,
		&p.URL,
		&p.TotalTracks,
		&p.CoverURL,
		&p.Enabled,
		&p.Priority,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
