package models

import "fmt"

// UnassignedPriority marks a playlist that has not yet been inserted into the
// ordered collection. The store assigns the next trailing priority on insert.
const UnassignedPriority = -1

// Playlist is a curated remote playlist tracked by the store.
type Playlist struct {
	ID          string `json:"id"`           // Stable identifier from the remote service
	Title       string `json:"title"`        // Display title
	Owner       string `json:"owner"`        // Remote owner display name
	URL         string `json:"url"`          // Remote playlist URL
	TotalTracks int    `json:"total_tracks"` // Track count reported by the remote service
	CoverURL    string `json:"cover_url,omitempty"`
	Enabled     bool   `json:"enabled"`  // Included in sync-all runs
	Priority    int    `json:"priority"` // Sync and display order; lower runs earlier
}

// Validate checks that the playlist carries the fields the store requires.
func (p *Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("playlist title is required")
	}
	if p.URL == "" {
		return fmt.Errorf("playlist url is required")
	}
	if p.TotalTracks < 0 {
		return fmt.Errorf("total tracks must be non-negative")
	}
	return nil
}

// Collection is a consistent snapshot of the stored playlists and the
// configured remote username.
type Collection struct {
	Username  string     `json:"username"`
	Playlists []Playlist `json:"playlists"` // Ordered by priority, insertion order breaking ties
}

// Get returns the playlist with the given id, or nil if absent.
func (c *Collection) Get(id string) *Playlist {
	for i := range c.Playlists {
		if c.Playlists[i].ID == id {
			return &c.Playlists[i]
		}
	}
	return nil
}

// Enabled returns the playlists included in a sync-all run, preserving order.
func (c *Collection) Enabled() []Playlist {
	var out []Playlist
	for _, p := range c.Playlists {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// RemotePlaylist is a playlist as reported by the remote listing service.
type RemotePlaylist struct {
	ID          string
	Title       string
	Owner       string
	URL         string
	TotalTracks int
	CoverURL    string
	Public      bool
}

// Record converts a remote listing entry into a store record.
//
// The record is constructed fresh: enabled, with no priority assigned yet.
func (r RemotePlaylist) Record() Playlist {
	return Playlist{
		ID:          r.ID,
		Title:       r.Title,
		Owner:       r.Owner,
		URL:         r.URL,
		TotalTracks: r.TotalTracks,
		CoverURL:    r.CoverURL,
		Enabled:     true,
		Priority:    UnassignedPriority,
	}
}

// Track is a resolved track descriptor awaiting download.
type Track struct {
	Name string // Display name used in progress output
	ID   string // Identifier understood by the download capability
	URL  string // Direct track URL, when the resolver provides one
}
