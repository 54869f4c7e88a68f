// spotdl subprocess implementation of [Resolver]
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsync/internal/models"
)

var ErrSpotdl = errors.New("spotdl error")

// audioExtensions are the output formats spotdl can produce.
var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".flac": true,
	".opus": true, ".ogg": true, ".wav": true,
}

// spotdlSong mirrors the entries of a spotdl save file.
type spotdlSong struct {
	Name    string   `json:"name"`
	SongID  string   `json:"song_id"`
	URL     string   `json:"url"`
	Artists []string `json:"artists"`
}

// SpotdlResolver resolves playlist contents and downloads tracks by shelling
// out to the spotdl binary.
type SpotdlResolver struct {
	binary string
	logger *log.Logger
}

// NewSpotdlResolver creates a resolver around the given spotdl binary, or
// "spotdl" from PATH when empty.
func NewSpotdlResolver(binary string, logger *log.Logger) *SpotdlResolver {
	if binary == "" {
		binary = "spotdl"
	}
	return &SpotdlResolver{binary: binary, logger: logger}
}

// ResolveTracks lists the tracks of a playlist URL via `spotdl save`.
func (r *SpotdlResolver) ResolveTracks(ctx context.Context, playlistURL string) ([]models.Track, error) {
	tmp, err := os.CreateTemp("", "spotsync-*.spotdl")
	if err != nil {
		return nil, fmt.Errorf("%w: temp file: %v", ErrSpotdl, err)
	}
	saveFile := tmp.Name()
	tmp.Close()
	defer os.Remove(saveFile)

	cmd := exec.CommandContext(ctx, r.binary, "save", playlistURL, "--save-file", saveFile)
	r.logger.Debug("resolving playlist tracks", "cmd", cmd.String())
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: failed cmd %s: %v: %s", ErrSpotdl, cmd, err, out)
	}

	data, err := os.ReadFile(saveFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read save file: %v", ErrSpotdl, err)
	}

	return parseSaveFile(data)
}

// parseSaveFile decodes a spotdl save file into tracks.
func parseSaveFile(data []byte) ([]models.Track, error) {
	var songs []spotdlSong
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("%w: decode save file: %v", ErrSpotdl, err)
	}

	tracks := make([]models.Track, 0, len(songs))
	for _, song := range songs {
		name := song.Name
		if len(song.Artists) > 0 {
			name = fmt.Sprintf("%s - %s", strings.Join(song.Artists, ", "), song.Name)
		}
		tracks = append(tracks, models.Track{
			Name: name,
			ID:   song.SongID,
			URL:  song.URL,
		})
	}
	return tracks, nil
}

// DownloadTrack downloads a single track into dir via `spotdl download` and
// returns the path of the new audio file.
func (r *SpotdlResolver) DownloadTrack(ctx context.Context, track models.Track, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir: %v", ErrSpotdl, err)
	}

	before, err := audioFiles(dir)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, r.binary, "download", track.URL)
	cmd.Dir = dir
	r.logger.Debug("downloading track", "track", track.Name, "cmd", cmd.String())
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: failed cmd %s: %v: %s", ErrSpotdl, cmd, err, out)
	}

	after, err := audioFiles(dir)
	if err != nil {
		return "", err
	}
	for path := range after {
		if !before[path] {
			return path, nil
		}
	}

	// spotdl skips tracks that already exist on disk, so an unchanged
	// directory still counts as success.
	return "", nil
}

// audioFiles snapshots the audio files directly under dir.
func audioFiles(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read output dir: %v", ErrSpotdl, err)
	}
	files := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files[filepath.Join(dir, entry.Name())] = true
		}
	}
	return files, nil
}
