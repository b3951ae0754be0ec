package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/tasks"
)

var (
	_ list.Item = albumItem{}
	_ list.Item = savedAlbumItem{}
)

// albumItem wraps a search result to implement [list.Item], carrying the
// album's resolved saved state for inline display.
type albumItem struct {
	album models.Album
	state tasks.AlbumState
}

func (i albumItem) FilterValue() string { return i.album.Name }
func (i albumItem) Title() string       { return i.album.Name }
func (i albumItem) Description() string {
	desc := i.album.Artist
	switch i.state {
	case tasks.StateAddedListened:
		desc = fmt.Sprintf("%s • listened", desc)
	case tasks.StateAddedUnlistened:
		desc = fmt.Sprintf("%s • in list", desc)
	}
	return desc
}

// savedAlbumItem wraps [models.SavedAlbum] to implement [list.Item].
type savedAlbumItem struct {
	record models.SavedAlbum
}

func (i savedAlbumItem) FilterValue() string { return i.record.AlbumName }
func (i savedAlbumItem) Title() string       { return i.record.AlbumName }
func (i savedAlbumItem) Description() string {
	if i.record.Listened {
		return fmt.Sprintf("%s • listened", i.record.ArtistName)
	}
	return i.record.ArtistName
}
