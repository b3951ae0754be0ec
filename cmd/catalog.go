package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/waxlog/internal/catalog"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
	"github.com/desertthunder/waxlog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// statusMarker resolves an album's saved state for display next to catalog
// results. Resolution is best-effort: without a session the list renders bare.
func (r *Runner) statusMarker(album models.Album) string {
	state, _ := r.orchestrator.State(album.Ref())
	switch state {
	case tasks.StateAddedListened:
		return " [listened]"
	case tasks.StateAddedUnlistened:
		return " [in list]"
	default:
		return ""
	}
}

func (r *Runner) printAlbums(albums []models.Album, status catalog.ParseStatus) {
	for i, album := range albums {
		r.writePlain("%d. %s - %s%s\n", i+1, album.Artist, album.Name, r.statusMarker(album))
	}
	if status == catalog.ParsedFallback {
		r.writePlain("\nSome results were missing identifiers or artwork.\n")
	}
}

// hydrate restores the session and collection so status markers resolve.
func (r *Runner) hydrate(ctx context.Context) {
	r.restoreSession()
	r.attachDocSession()
	if err := r.session.Initialize(ctx); err != nil {
		r.logger.Debugf("collection unavailable: %v", err)
	}
}

// Search searches albums in the catalog.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	r.hydrate(ctx)

	albums, status, err := r.catalog.SearchAlbums(ctx, query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	if len(albums) == 0 {
		return r.writePlain("No albums found for %q\n", query)
	}

	r.printAlbums(albums, status)
	return nil
}

// Album looks up a single album by artist and name, or by stable id.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	r.hydrate(ctx)

	var album *models.Album
	var status catalog.ParseStatus
	var err error

	if id := cmd.String("id"); id != "" {
		album, status, err = r.catalog.AlbumInfoByID(ctx, id)
	} else {
		artist := cmd.StringArg("artist")
		name := cmd.StringArg("name")
		if artist == "" || name == "" {
			return fmt.Errorf("%w: artist and album name are required", shared.ErrMissingArgument)
		}
		album, status, err = r.catalog.AlbumInfo(ctx, artist, name)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlain("%s - %s%s\n", album.Artist, album.Name, r.statusMarker(*album))
	if album.MBID != "" {
		r.writePlain("ID: %s\n", album.MBID)
	}
	if album.URL != "" {
		r.writePlain("URL: %s\n", album.URL)
	}
	if img := album.ImageURL("extralarge"); img != "" {
		r.writePlain("Artwork: %s\n", img)
	}
	if status == catalog.ParsedFallback {
		r.writePlain("Some fields were missing from the catalog record.\n")
	}

	if cmd.Bool("open") && album.URL != "" {
		if err := shared.OpenBrowser(album.URL); err != nil {
			r.logger.Warnf("failed to open browser: %v", err)
		}
	}
	return nil
}

// Artist looks up artist metadata and top albums.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name is required", shared.ErrMissingArgument)
	}

	r.hydrate(ctx)

	artist, err := r.catalog.ArtistInfo(ctx, name)
	if err != nil {
		return err
	}

	albums, status, err := r.catalog.ArtistTopAlbums(ctx, name, int(cmd.Int("limit")))
	if err != nil {
		r.logger.Warnf("top albums unavailable: %v", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"artist": artist, "topAlbums": albums}, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", artist.Name)
	if artist.Listeners != "" {
		r.writePlain("Listeners: %s\n", artist.Listeners)
	}
	if artist.Summary != "" {
		r.writePlain("\n%s\n", artist.Summary)
	}
	if len(albums) > 0 {
		r.writePlainln("Top albums:")
		r.printAlbums(albums, status)
	}
	return nil
}

// Tag lists top albums for a genre tag.
func (r *Runner) Tag(ctx context.Context, cmd *cli.Command) error {
	tag := cmd.StringArg("tag")
	if tag == "" {
		return fmt.Errorf("%w: tag is required", shared.ErrMissingArgument)
	}

	r.hydrate(ctx)

	albums, status, err := r.catalog.TagTopAlbums(ctx, tag, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	if len(albums) == 0 {
		return r.writePlain("No albums found for tag %q\n", tag)
	}

	r.printAlbums(albums, status)
	return nil
}
