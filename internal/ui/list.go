package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotsync/internal/models"
)

var (
	_ list.Item = playlistItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }

func (i playlistItem) Title() string {
	marker := "●"
	if !i.playlist.Enabled {
		marker = "○"
	}
	return fmt.Sprintf("%s %s", marker, i.playlist.Title)
}

func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TotalTracks)
	if i.playlist.Owner != "" {
		desc = fmt.Sprintf("%s • by %s", desc, i.playlist.Owner)
	}
	if !i.playlist.Enabled {
		desc = fmt.Sprintf("%s • disabled", desc)
	}
	return desc
}
