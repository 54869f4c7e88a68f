package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsync/internal/shared"
	"golang.org/x/time/rate"
)

// newTestSpotifyService builds a service pointed at a test server, bypassing
// the token exchange.
func newTestSpotifyService(baseURL string) *SpotifyService {
	return &SpotifyService{
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		baseURL:    baseURL,
	}
}

func TestSpotifyService(t *testing.T) {
	t.Run("lists playlists across pages", func(t *testing.T) {
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("offset") == "1" {
				fmt.Fprint(w, `{"items":[{"id":"p2","name":"Second","owner":{"id":"u","display_name":"User"},"public":false,"tracks":{"total":3},"images":[],"external_urls":{"spotify":"https://open.spotify.com/playlist/p2"}}],"total":2,"limit":1,"offset":1,"next":null}`)
				return
			}
			next := server.URL + "/users/someone/playlists?limit=1&offset=1"
			fmt.Fprintf(w, `{"items":[{"id":"p1","name":"First","owner":{"id":"u","display_name":"User"},"public":true,"tracks":{"total":10},"images":[{"url":"small.jpg","height":64,"width":64},{"url":"large.jpg","height":640,"width":640}],"external_urls":{"spotify":"https://open.spotify.com/playlist/p1"}}],"total":2,"limit":1,"offset":0,"next":"%s"}`, next)
		}))
		defer server.Close()

		svc := newTestSpotifyService(server.URL)
		playlists, err := svc.ListPlaylists(context.Background(), "someone")
		if err != nil {
			t.Fatalf("ListPlaylists failed: %v", err)
		}
		if len(playlists) != 2 {
			t.Fatalf("Expected 2 playlists, got %d", len(playlists))
		}
		if playlists[0].ID != "p1" || playlists[1].ID != "p2" {
			t.Errorf("Unexpected playlist order: %s, %s", playlists[0].ID, playlists[1].ID)
		}
		if playlists[0].CoverURL != "large.jpg" {
			t.Errorf("Expected largest cover image, got %s", playlists[0].CoverURL)
		}
		if playlists[0].TotalTracks != 10 {
			t.Errorf("Expected 10 tracks, got %d", playlists[0].TotalTracks)
		}
	})

	t.Run("maps 404 to user not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"status":404}}`, http.StatusNotFound)
		}))
		defer server.Close()

		svc := newTestSpotifyService(server.URL)
		_, err := svc.ListPlaylists(context.Background(), "nobody")
		if !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("rejects empty username", func(t *testing.T) {
		svc := newTestSpotifyService("http://unused")
		_, err := svc.ListPlaylists(context.Background(), "")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("Expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("requires credentials", func(t *testing.T) {
		_, err := NewSpotifyService(context.Background(), "", "secret")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("Expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestParseSaveFile(t *testing.T) {
	t.Run("parses songs with artists", func(t *testing.T) {
		data := []byte(`[{"name":"Song One","song_id":"s1","url":"https://open.spotify.com/track/s1","artists":["A","B"]},{"name":"Song Two","song_id":"s2","url":"https://open.spotify.com/track/s2","artists":[]}]`)
		tracks, err := parseSaveFile(data)
		if err != nil {
			t.Fatalf("parseSaveFile failed: %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("Expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].Name != "A, B - Song One" {
			t.Errorf("Unexpected track name: %s", tracks[0].Name)
		}
		if tracks[1].Name != "Song Two" {
			t.Errorf("Unexpected track name: %s", tracks[1].Name)
		}
		if tracks[0].ID != "s1" || tracks[0].URL != "https://open.spotify.com/track/s1" {
			t.Errorf("Unexpected track fields: %+v", tracks[0])
		}
	})

	t.Run("rejects malformed data", func(t *testing.T) {
		_, err := parseSaveFile([]byte("not json"))
		if !errors.Is(err, ErrSpotdl) {
			t.Errorf("Expected ErrSpotdl, got %v", err)
		}
	})
}

func TestAudioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"track.mp3", "cover.jpg", "notes.txt", "other.flac"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.mp3"), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	files, err := audioFiles(dir)
	if err != nil {
		t.Fatalf("audioFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 audio files, got %d", len(files))
	}
	if !files[filepath.Join(dir, "track.mp3")] || !files[filepath.Join(dir, "other.flac")] {
		t.Errorf("Missing expected audio files: %v", files)
	}
}

func TestNewSpotdlResolver(t *testing.T) {
	r := NewSpotdlResolver("", log.New(os.Stderr))
	if r.binary != "spotdl" {
		t.Errorf("Expected default binary spotdl, got %s", r.binary)
	}
	r = NewSpotdlResolver("/usr/local/bin/spotdl", log.New(os.Stderr))
	if r.binary != "/usr/local/bin/spotdl" {
		t.Errorf("Expected configured binary, got %s", r.binary)
	}
}
