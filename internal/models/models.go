// package models defines the data model for the waxlog album tracker
package models

// Image represents a single size variant of an album or artist image.
type Image struct {
	URL  string
	Size string // small, medium, large, extralarge, mega
}

// Album represents a catalog album after boundary normalization.
type Album struct {
	MBID   string // provider identifier, may be empty
	Name   string
	Artist string
	URL    string
	Images []Image
}

// ImageURL returns the URL of the preferred size variant, falling back to the
// last non-empty variant when the preferred size is missing.
func (a Album) ImageURL(preferred string) string {
	fallback := ""
	for _, img := range a.Images {
		if img.URL == "" {
			continue
		}
		if img.Size == preferred {
			return img.URL
		}
		fallback = img.URL
	}
	return fallback
}

// Ref converts a catalog album into an [AlbumRef] for status queries and mutations.
func (a Album) Ref() AlbumRef {
	return AlbumRef{
		RawID:      a.MBID,
		Name:       a.Name,
		ArtistName: a.Artist,
		ImageURL:   a.ImageURL("large"),
	}
}

// Artist represents a catalog artist after boundary normalization.
type Artist struct {
	MBID      string
	Name      string
	URL       string
	Summary   string
	Listeners string // listener count, reported by the provider as a string
	Images    []Image
}

// AlbumRef is a transient reference to an album from any source.
//
// Constructed per query from catalog results or user input; never persisted.
type AlbumRef struct {
	RawID      string // provider identifier, may be empty
	Name       string
	ArtistName string
	ImageURL   string
}

// SavedAlbum represents a persisted user-album association: user OwnerID has
// the album in their collection, flagged listened or not.
type SavedAlbum struct {
	RecordID   string // document store identity
	OwnerID    string
	AlbumID    string // canonical album id
	AlbumName  string
	ArtistName string
	ImageURL   string
	Listened   bool
}

// StatusView reports whether an album is in the user's collection and whether
// it has been listened. Derived per query against the collection cache.
type StatusView struct {
	Added    bool
	Listened bool
	RecordID string // set only when Added
}

// User represents the authenticated account holder as reported by the
// identity service.
type User struct {
	ID            string
	Name          string
	Email         string
	EmailVerified bool
}
