package collection

import (
	"testing"

	"github.com/desertthunder/waxlog/internal/match"
	"github.com/desertthunder/waxlog/internal/models"
)

func TestResolver(t *testing.T) {
	t.Run("Status", func(t *testing.T) {
		t.Run("Empty Cache Resolves To Not Added", func(t *testing.T) {
			resolver := NewResolver(NewCache(), match.Options{})
			status := resolver.Status("kind-of-blue")
			if status.Added || status.Listened || status.RecordID != "" {
				t.Errorf("expected zero status, got %+v", status)
			}
		})

		t.Run("Matches Normalized Identifiers", func(t *testing.T) {
			cache := NewCache()
			cache.Replace([]models.SavedAlbum{
				{RecordID: "rec-1", AlbumID: "kind-of-blue", AlbumName: "Kind of Blue", Listened: true},
			})
			resolver := NewResolver(cache, match.Options{})

			status := resolver.Status("Kind of Blue")
			if !status.Added || !status.Listened || status.RecordID != "rec-1" {
				t.Errorf("expected a listened match, got %+v", status)
			}
		})

		t.Run("First Match Wins Among Duplicates", func(t *testing.T) {
			cache := NewCache()
			cache.Replace([]models.SavedAlbum{
				{RecordID: "rec-1", AlbumID: "thriller", Listened: false},
				{RecordID: "rec-2", AlbumID: "thriller", Listened: true},
			})
			resolver := NewResolver(cache, match.Options{})

			status := resolver.Status("thriller")
			if status.RecordID != "rec-1" || status.Listened {
				t.Errorf("expected the first record to win, got %+v", status)
			}
		})

		t.Run("Empty Identifier Never Matches", func(t *testing.T) {
			cache := NewCache()
			cache.Replace([]models.SavedAlbum{{RecordID: "rec-1", AlbumID: ""}})
			resolver := NewResolver(cache, match.Options{})

			if status := resolver.Status(""); status.Added {
				t.Errorf("expected no match for empty id, got %+v", status)
			}
		})

		t.Run("Honors Suffix Stripping Option", func(t *testing.T) {
			cache := NewCache()
			cache.Replace([]models.SavedAlbum{
				{RecordID: "rec-1", AlbumID: "abbey-road-2", Listened: true},
			})

			strict := NewResolver(cache, match.Options{})
			if status := strict.Status("abbey-road"); status.Added {
				t.Errorf("expected no match without stripping, got %+v", status)
			}

			loose := NewResolver(cache, match.Options{StripIndexSuffix: true})
			if status := loose.Status("abbey-road"); !status.Added {
				t.Errorf("expected a match with stripping, got %+v", status)
			}
		})
	})

	t.Run("FindByNameAndArtist", func(t *testing.T) {
		cache := NewCache()
		cache.Replace([]models.SavedAlbum{
			{RecordID: "rec-1", AlbumName: "Thriller", ArtistName: "Michael Jackson", Listened: true},
		})
		resolver := NewResolver(cache, match.Options{})

		t.Run("Matches Fuzzy Name And Artist", func(t *testing.T) {
			status := resolver.FindByNameAndArtist("Thriller (Remastered)", "michael jackson")
			if !status.Added || status.RecordID != "rec-1" {
				t.Errorf("expected a match, got %+v", status)
			}
		})

		t.Run("Requires Both Fields To Match", func(t *testing.T) {
			if status := resolver.FindByNameAndArtist("Thriller", "Prince"); status.Added {
				t.Errorf("expected no match with a different artist, got %+v", status)
			}
		})
	})

	t.Run("Resolve", func(t *testing.T) {
		t.Run("Falls Back From Identifier To Names", func(t *testing.T) {
			cache := NewCache()
			cache.Replace([]models.SavedAlbum{
				{RecordID: "rec-1", AlbumID: "legacy-record", AlbumName: "Kind of Blue", ArtistName: "Miles Davis"},
			})
			resolver := NewResolver(cache, match.Options{})

			status := resolver.Resolve("kind-of-blue", "Kind of Blue", "Miles Davis")
			if !status.Added || status.RecordID != "rec-1" {
				t.Errorf("expected the name fallback to match, got %+v", status)
			}
		})
	})
}
