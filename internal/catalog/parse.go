package catalog

import "github.com/desertthunder/waxlog/internal/models"

// ParseStatus reports whether a provider record came back fully formed or had
// to be patched up from irregular fields.
type ParseStatus int

const (
	ParsedOk ParseStatus = iota
	ParsedFallback
)

func parseImages(imgs []image) []models.Image {
	var out []models.Image
	for _, img := range imgs {
		if img.URL == "" {
			continue
		}
		out = append(out, models.Image{URL: img.URL, Size: img.Size})
	}
	return out
}

// parseAlbum converts a provider album payload into the domain model. The
// status is ParsedFallback when the record was missing an identifier or
// artwork, so callers can surface partial results differently. Artist MBIDs
// are not required: search responses deliver the artist as a bare string.
func parseAlbum(p albumPayload) (models.Album, ParseStatus) {
	status := ParsedOk

	album := models.Album{
		MBID:   p.MBID,
		Name:   p.Name,
		Artist: p.Artist.Name,
		URL:    p.URL,
		Images: parseImages(p.Images),
	}

	if album.MBID == "" || len(album.Images) == 0 {
		status = ParsedFallback
	}

	return album, status
}

func parseAlbums(list albumList) ([]models.Album, ParseStatus) {
	status := ParsedOk
	albums := make([]models.Album, 0, len(list))
	for _, p := range list {
		album, s := parseAlbum(p)
		if s == ParsedFallback {
			status = ParsedFallback
		}
		albums = append(albums, album)
	}
	return albums, status
}
