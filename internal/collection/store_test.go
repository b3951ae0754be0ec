package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/desertthunder/waxlog/internal/docstore"
	"github.com/desertthunder/waxlog/internal/match"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
	testutil "github.com/desertthunder/waxlog/internal/testing"
)

func newTestStore(mem *testutil.MemStore, pageSize int) *Store {
	return NewStore(mem, "user_albums", NewCache(), match.Options{}, pageSize, nil)
}

func seedAlbum(mem *testutil.MemStore, id, userID, albumID, name, artist string, listened bool) {
	mem.Seed(docstore.Document{ID: id, Fields: map[string]any{
		"userId":     userID,
		"albumId":    albumID,
		"albumName":  name,
		"artistName": artist,
		"listened":   listened,
	}})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("FetchAll", func(t *testing.T) {
		t.Run("Loads Every Page In Order", func(t *testing.T) {
			mem := testutil.NewMemStore()
			for i := 0; i < 150; i++ {
				seedAlbum(mem, fmt.Sprintf("rec-%03d", i), "user-1", fmt.Sprintf("album-id%d", i), fmt.Sprintf("Album %d", i), "Artist", false)
			}

			store := newTestStore(mem, 100)
			if err := store.FetchAll(ctx, "user-1"); err != nil {
				t.Fatalf("expected fetch to succeed, got %v", err)
			}

			records := store.cache.Records()
			if len(records) != 150 {
				t.Fatalf("expected 150 records, got %d", len(records))
			}
			if mem.ListCalls != 2 {
				t.Errorf("expected 2 pages for 150 records at page size 100, got %d", mem.ListCalls)
			}

			seen := make(map[string]bool, len(records))
			for _, rec := range records {
				if seen[rec.RecordID] {
					t.Fatalf("record %s appeared twice", rec.RecordID)
				}
				seen[rec.RecordID] = true
			}
			if records[0].RecordID != "rec-000" || records[149].RecordID != "rec-149" {
				t.Errorf("expected fetch order preserved, got first %s last %s", records[0].RecordID, records[149].RecordID)
			}
		})

		t.Run("Excludes Other Users", func(t *testing.T) {
			mem := testutil.NewMemStore()
			seedAlbum(mem, "rec-1", "user-1", "thriller", "Thriller", "Michael Jackson", false)
			seedAlbum(mem, "rec-2", "user-2", "bad", "Bad", "Michael Jackson", false)

			store := newTestStore(mem, 100)
			if err := store.FetchAll(ctx, "user-1"); err != nil {
				t.Fatalf("expected fetch to succeed, got %v", err)
			}
			if store.cache.Len() != 1 {
				t.Errorf("expected only user-1 records, got %d", store.cache.Len())
			}
		})

		t.Run("A Failed Page Marks The Cache Failed", func(t *testing.T) {
			mem := testutil.NewMemStore()
			mem.ListErr = shared.ErrRemoteUnavailable
			store := newTestStore(mem, 100)
			store.cache.Replace([]models.SavedAlbum{{RecordID: "stale"}})

			if err := store.FetchAll(ctx, "user-1"); !errors.Is(err, shared.ErrRemoteUnavailable) {
				t.Fatalf("expected the fetch error surfaced, got %v", err)
			}

			loaded, loadErr := store.cache.Loaded()
			if loaded || loadErr == nil {
				t.Errorf("expected the cache marked failed, got loaded=%v err=%v", loaded, loadErr)
			}
			if store.cache.Len() != 0 {
				t.Errorf("expected stale records dropped, got %d", store.cache.Len())
			}
		})
	})

	t.Run("Add", func(t *testing.T) {
		ref := models.AlbumRef{RawID: "mb-1", Name: "Thriller", ArtistName: "Michael Jackson", ImageURL: "http://img"}

		t.Run("Creates A Record And Caches It", func(t *testing.T) {
			mem := testutil.NewMemStore()
			store := newTestStore(mem, 100)
			store.cache.Replace(nil)

			record, err := store.Add(ctx, "user-1", ref, false)
			if err != nil {
				t.Fatalf("expected add to succeed, got %v", err)
			}
			if record.AlbumID != "mb-1" || record.Listened {
				t.Errorf("unexpected record: %+v", record)
			}

			docs := mem.Documents()
			if len(docs) != 1 || docs[0].Fields["albumName"] != "Thriller" {
				t.Errorf("unexpected remote documents: %+v", docs)
			}
			if status := store.Resolver().Status("mb-1"); !status.Added {
				t.Errorf("expected the new record resolvable, got %+v", status)
			}
		})

		t.Run("Rejects A Cached Duplicate Without A Remote Write", func(t *testing.T) {
			mem := testutil.NewMemStore()
			store := newTestStore(mem, 100)
			store.cache.Replace([]models.SavedAlbum{{RecordID: "rec-1", AlbumID: "mb-1"}})

			if _, err := store.Add(ctx, "user-1", ref, false); !errors.Is(err, shared.ErrDuplicateAlbum) {
				t.Fatalf("expected ErrDuplicateAlbum, got %v", err)
			}
			if mem.CreateCalls != 0 {
				t.Errorf("expected no remote create, got %d", mem.CreateCalls)
			}
			if store.cache.Len() != 1 {
				t.Errorf("expected collection length unchanged, got %d", store.cache.Len())
			}
		})

		t.Run("Detects A Remote Duplicate The Cache Missed", func(t *testing.T) {
			mem := testutil.NewMemStore()
			seedAlbum(mem, "rec-other", "user-1", "mb-1", "Thriller", "Michael Jackson", true)
			store := newTestStore(mem, 100)
			store.cache.Replace(nil)

			if _, err := store.Add(ctx, "user-1", ref, false); !errors.Is(err, shared.ErrDuplicateAlbum) {
				t.Fatalf("expected ErrDuplicateAlbum, got %v", err)
			}
			if mem.CreateCalls != 0 {
				t.Errorf("expected no remote create, got %d", mem.CreateCalls)
			}
			// the missed record is adopted into the cache
			if status := store.Resolver().Status("mb-1"); !status.Added || !status.Listened {
				t.Errorf("expected the remote record cached, got %+v", status)
			}
		})

		t.Run("Proceeds When The Remote Duplicate Check Fails", func(t *testing.T) {
			mem := testutil.NewMemStore()
			mem.ListErr = shared.ErrRemoteUnavailable
			store := newTestStore(mem, 100)
			store.cache.Replace(nil)

			if _, err := store.Add(ctx, "user-1", ref, false); err != nil {
				t.Fatalf("expected add to succeed despite failed check, got %v", err)
			}
			if mem.CreateCalls != 1 {
				t.Errorf("expected one remote create, got %d", mem.CreateCalls)
			}
		})

		t.Run("A Failed Create Leaves The Cache Untouched", func(t *testing.T) {
			mem := testutil.NewMemStore()
			mem.CreateErr = shared.ErrRemoteUnavailable
			store := newTestStore(mem, 100)
			store.cache.Replace(nil)

			if _, err := store.Add(ctx, "user-1", ref, false); !errors.Is(err, shared.ErrRemoteUnavailable) {
				t.Fatalf("expected the create error surfaced, got %v", err)
			}
			if store.cache.Len() != 0 {
				t.Errorf("expected no phantom cache entry, got %d", store.cache.Len())
			}
		})

		t.Run("Falls Back To Name And Artist For An Unidentified Album", func(t *testing.T) {
			mem := testutil.NewMemStore()
			store := newTestStore(mem, 100)
			store.cache.Replace(nil)

			record, err := store.Add(ctx, "user-1", models.AlbumRef{Name: "Obscure Demo", ArtistName: "Nobody"}, false)
			if err != nil {
				t.Fatalf("expected add to succeed, got %v", err)
			}
			if record.AlbumID != "obscure-demo-nobody" {
				t.Errorf("expected a derived identifier, got %q", record.AlbumID)
			}
		})

		t.Run("Racing Adds Of The Same Album Create One Record", func(t *testing.T) {
			mem := testutil.NewMemStore()
			store := newTestStore(mem, 100)
			store.cache.Replace(nil)

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					store.Add(ctx, "user-1", ref, false)
				}()
			}
			wg.Wait()

			if got := len(mem.Documents()); got != 1 {
				t.Errorf("expected exactly one record, got %d", got)
			}
		})
	})

	t.Run("SetListened", func(t *testing.T) {
		t.Run("Updates Remote Then Cache", func(t *testing.T) {
			mem := testutil.NewMemStore()
			seedAlbum(mem, "rec-1", "user-1", "thriller", "Thriller", "Michael Jackson", false)
			store := newTestStore(mem, 100)
			if err := store.FetchAll(ctx, "user-1"); err != nil {
				t.Fatal(err)
			}

			record, err := store.SetListened(ctx, "rec-1", true)
			if err != nil {
				t.Fatalf("expected update to succeed, got %v", err)
			}
			if !record.Listened {
				t.Errorf("expected listened set, got %+v", record)
			}
			if status := store.Resolver().Status("thriller"); !status.Listened {
				t.Errorf("expected the cache updated, got %+v", status)
			}
		})

		t.Run("A Failed Update Leaves The Cache Untouched", func(t *testing.T) {
			mem := testutil.NewMemStore()
			seedAlbum(mem, "rec-1", "user-1", "thriller", "Thriller", "Michael Jackson", false)
			store := newTestStore(mem, 100)
			if err := store.FetchAll(ctx, "user-1"); err != nil {
				t.Fatal(err)
			}
			mem.UpdateErr = shared.ErrRemoteUnavailable

			if _, err := store.SetListened(ctx, "rec-1", true); !errors.Is(err, shared.ErrRemoteUnavailable) {
				t.Fatalf("expected the update error surfaced, got %v", err)
			}
			if status := store.Resolver().Status("thriller"); status.Listened {
				t.Errorf("expected the cache unchanged, got %+v", status)
			}
		})
	})

	t.Run("Remove", func(t *testing.T) {
		t.Run("Deletes Remote Then Cache", func(t *testing.T) {
			mem := testutil.NewMemStore()
			seedAlbum(mem, "rec-1", "user-1", "thriller", "Thriller", "Michael Jackson", false)
			store := newTestStore(mem, 100)
			if err := store.FetchAll(ctx, "user-1"); err != nil {
				t.Fatal(err)
			}

			if err := store.Remove(ctx, "rec-1"); err != nil {
				t.Fatalf("expected remove to succeed, got %v", err)
			}
			if status := store.Resolver().Status("thriller"); status.Added {
				t.Errorf("expected the album removed, got %+v", status)
			}
			if len(mem.Documents()) != 0 {
				t.Errorf("expected the remote record deleted")
			}
		})

		t.Run("A Failed Delete Leaves The Cache Untouched", func(t *testing.T) {
			mem := testutil.NewMemStore()
			seedAlbum(mem, "rec-1", "user-1", "thriller", "Thriller", "Michael Jackson", false)
			store := newTestStore(mem, 100)
			if err := store.FetchAll(ctx, "user-1"); err != nil {
				t.Fatal(err)
			}
			mem.DeleteErr = shared.ErrRemoteUnavailable

			if err := store.Remove(ctx, "rec-1"); !errors.Is(err, shared.ErrRemoteUnavailable) {
				t.Fatalf("expected the delete error surfaced, got %v", err)
			}
			if store.cache.Len() != 1 {
				t.Errorf("expected the cache unchanged, got %d", store.cache.Len())
			}
		})
	})

	t.Run("Reconcile", func(t *testing.T) {
		t.Run("Keeps The Earliest Of Each Duplicate Group", func(t *testing.T) {
			mem := testutil.NewMemStore()
			seedAlbum(mem, "rec-1", "user-1", "thriller", "Thriller", "Michael Jackson", true)
			seedAlbum(mem, "rec-2", "user-1", "thriller", "Thriller", "Michael Jackson", false)
			seedAlbum(mem, "rec-3", "user-1", "kind-of-blue", "Kind of Blue", "Miles Davis", false)
			store := newTestStore(mem, 100)
			if err := store.FetchAll(ctx, "user-1"); err != nil {
				t.Fatal(err)
			}

			removed, err := store.Reconcile(ctx)
			if err != nil {
				t.Fatalf("expected reconcile to succeed, got %v", err)
			}
			if removed != 1 {
				t.Errorf("expected 1 duplicate removed, got %d", removed)
			}

			status := store.Resolver().Status("thriller")
			if status.RecordID != "rec-1" || !status.Listened {
				t.Errorf("expected the earliest record kept, got %+v", status)
			}
			if store.cache.Len() != 2 {
				t.Errorf("expected 2 records after the sweep, got %d", store.cache.Len())
			}
		})

		t.Run("A Failed Delete Keeps The Duplicate For The Next Sweep", func(t *testing.T) {
			mem := testutil.NewMemStore()
			seedAlbum(mem, "rec-1", "user-1", "thriller", "Thriller", "Michael Jackson", false)
			seedAlbum(mem, "rec-2", "user-1", "thriller", "Thriller", "Michael Jackson", false)
			store := newTestStore(mem, 100)
			if err := store.FetchAll(ctx, "user-1"); err != nil {
				t.Fatal(err)
			}
			mem.DeleteErr = shared.ErrRemoteUnavailable

			removed, err := store.Reconcile(ctx)
			if err != nil {
				t.Fatalf("expected reconcile to report, got %v", err)
			}
			if removed != 0 {
				t.Errorf("expected nothing removed, got %d", removed)
			}
			if store.cache.Len() != 2 {
				t.Errorf("expected both records still cached, got %d", store.cache.Len())
			}
		})
	})
}
