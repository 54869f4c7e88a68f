// package services defines the external capabilities the sync pipelines consume
//
// Spotify (playlist listing) and spotdl (track resolution and download)
package services

import (
	"context"

	"github.com/desertthunder/spotsync/internal/models"
)

// Library lists remote playlists for a user account.
type Library interface {
	// ListPlaylists retrieves every playlist owned by the given username,
	// following pagination. Includes non-public playlists; callers filter.
	ListPlaylists(ctx context.Context, username string) ([]models.RemotePlaylist, error)

	// Name returns the name of the remote service
	Name() string
}

// Resolver turns a playlist URL into downloadable track descriptors.
type Resolver interface {
	// ResolveTracks resolves the playlist URL into an ordered track listing.
	// May return an empty slice for an empty or vanished playlist.
	ResolveTracks(ctx context.Context, playlistURL string) ([]models.Track, error)

	// DownloadTrack downloads a single track into dir and returns the local path.
	DownloadTrack(ctx context.Context, track models.Track, dir string) (string, error)
}
