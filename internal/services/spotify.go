// Spotify API implementation of [Library]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type simplePlaylistTrack struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Owner        owner               `json:"owner"`
	Public       bool                `json:"public"`
	Tracks       simplePlaylistTrack `json:"tracks"`
	Images       []SpotifyImage      `json:"images"`
	ExternalURLs externalURLs        `json:"external_urls"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

// SpotifyService implements [Library] against the Spotify Web API.
//
// Uses the [clientcredentials] flow: listing public user playlists needs no
// user authorization, only an application id and secret.
type SpotifyService struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyService creates a Spotify client from application credentials.
func NewSpotifyService(ctx context.Context, clientID, clientSecret string) (*SpotifyService, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client id and secret are required", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyService{
		httpClient: config.Client(ctx),
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// SetBaseURL overrides the API base URL. Used by tests.
func (s *SpotifyService) SetBaseURL(base string) {
	s.baseURL = base
}

// ListPlaylists retrieves every playlist for the given user id, following pagination.
func (s *SpotifyService) ListPlaylists(ctx context.Context, username string) ([]models.RemotePlaylist, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", shared.ErrMissingArgument)
	}

	endpoint := fmt.Sprintf("%s/users/%s/playlists?limit=50", s.baseURL, url.PathEscape(username))

	var playlists []models.RemotePlaylist
	for endpoint != "" {
		var page SpotifyPaginatedPlaylists
		if err := s.get(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			playlists = append(playlists, models.RemotePlaylist{
				ID:          item.ID,
				Title:       item.Name,
				Owner:       item.Owner.DisplayName,
				URL:         item.ExternalURLs.Spotify,
				TotalTracks: item.Tracks.Total,
				CoverURL:    largestImage(item.Images),
				Public:      item.Public,
			})
		}

		if page.Next != nil {
			endpoint = *page.Next
		} else {
			endpoint = ""
		}
	}

	return playlists, nil
}

// get performs a rate-limited GET against the Spotify API and decodes the response.
func (s *SpotifyService) get(ctx context.Context, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, endpoint)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", shared.ErrInvalidCredentials, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// largestImage picks the widest cover image, matching what the remote UI shows.
func largestImage(images []SpotifyImage) string {
	best := ""
	bestWidth := -1
	for _, img := range images {
		if img.Width > bestWidth {
			best = img.URL
			bestWidth = img.Width
		}
	}
	return best
}
