package collection

import (
	"github.com/desertthunder/waxlog/internal/match"
	"github.com/desertthunder/waxlog/internal/models"
)

// Resolver answers "is this album in the list?" against the cache. It never
// errors: an unloaded or empty cache resolves everything to not-added.
type Resolver struct {
	cache *Cache
	opts  match.Options
}

func NewResolver(cache *Cache, opts match.Options) *Resolver {
	return &Resolver{cache: cache, opts: opts}
}

// Status resolves an album's saved status by canonical identifier. The first
// matching record wins; later duplicates are ignored until a dedupe sweep
// removes them.
func (r *Resolver) Status(canonicalID string) models.StatusView {
	want := r.opts.NormalizeAlbumID(canonicalID)
	if want == "" {
		return models.StatusView{}
	}

	for _, rec := range r.cache.Records() {
		if r.opts.NormalizeAlbumID(rec.AlbumID) == want {
			return models.StatusView{Added: true, Listened: rec.Listened, RecordID: rec.RecordID}
		}
	}

	return models.StatusView{}
}

// FindByNameAndArtist resolves status by fuzzy name and artist comparison,
// for records saved before stable identifiers were available. Both fields
// must match.
func (r *Resolver) FindByNameAndArtist(name, artist string) models.StatusView {
	for _, rec := range r.cache.Records() {
		if r.opts.Similar(rec.AlbumName, name) && r.opts.Similar(rec.ArtistName, artist) {
			return models.StatusView{Added: true, Listened: rec.Listened, RecordID: rec.RecordID}
		}
	}

	return models.StatusView{}
}

// Resolve checks by canonical identifier first, then falls back to
// name-and-artist matching.
func (r *Resolver) Resolve(canonicalID, name, artist string) models.StatusView {
	if status := r.Status(canonicalID); status.Added {
		return status
	}
	return r.FindByNameAndArtist(name, artist)
}
