package tasks

import (
	"fmt"

	"github.com/desertthunder/spotsync/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Updates for a single task arrive in the order they were emitted; the close
// of the task's progress channel is the terminal signal and no update follows
// it.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SearchLibrary Phase = iota
	PlaylistFound
	PlaylistAdded
	UsernameUpdated
	SyncPlaylist
	DownloadTrack
)

func (p Phase) String() string {
	switch p {
	case SearchLibrary:
		return "search_library"
	case PlaylistFound:
		return "playlist_found"
	case PlaylistAdded:
		return "playlist_added"
	case UsernameUpdated:
		return "username_updated"
	case SyncPlaylist:
		return "sync_playlist"
	case DownloadTrack:
		return "download_track"
	default:
		return ""
	}
}

// FoundPlaylist is the Data payload of a PlaylistFound update.
type FoundPlaylist struct {
	Playlist models.Playlist
	Cover    []byte // nil when no cover could be fetched
}

// AddedPlaylist is the Data payload of a PlaylistAdded update.
type AddedPlaylist struct {
	Playlist models.Playlist
	Cover    []byte
}

// UsernameChange is the Data payload of a UsernameUpdated update.
type UsernameChange struct {
	Previous string
	Current  string
}

func searchStartedUpdate(service, username string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchLibrary,
		Step:    0,
		Total:   0,
		Message: fmt.Sprintf("Searching %s for playlists of %s...", service, username),
	}
}

func foundPlaylistUpdate(step, total int, pl models.Playlist, cover []byte) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlaylistFound,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Found playlist: %s (%d tracks)", step, total, pl.Title, pl.TotalTracks),
		Data:    FoundPlaylist{Playlist: pl, Cover: cover},
	}
}

func addedPlaylistUpdate(pl models.Playlist, cover []byte) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlaylistAdded,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added playlist: %s", pl.Title),
		Data:    AddedPlaylist{Playlist: pl, Cover: cover},
	}
}

func usernameUpdatedUpdate(previous, current string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UsernameUpdated,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Username updated: %s", current),
		Data:    UsernameChange{Previous: previous, Current: current},
	}
}

func syncPlaylistUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Synchronizing: %s", step, total, title),
	}
}

func downloadTrackUpdate(step, total int, title, track string, index, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%s: synchronizing %s... %d/%d", title, track, index, count),
	}
}
