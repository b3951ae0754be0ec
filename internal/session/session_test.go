package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/waxlog/internal/collection"
	"github.com/desertthunder/waxlog/internal/docstore"
	"github.com/desertthunder/waxlog/internal/identity"
	"github.com/desertthunder/waxlog/internal/match"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
	testutil "github.com/desertthunder/waxlog/internal/testing"
)

func newAccountServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/account" {
			json.NewEncoder(w).Encode(map[string]any{
				"$id":   "user-1",
				"name":  "Ada",
				"email": "ada@example.com",
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func newManager(t *testing.T, server *httptest.Server, mem *testutil.MemStore) (*Manager, *collection.Store) {
	t.Helper()
	client := identity.NewClient(server.URL, "proj", server.Client(), nil)
	client.SetSession("secret")
	store := collection.NewStore(mem, "user_albums", collection.NewCache(), match.Options{}, 100, nil)
	return NewManager(client, store, nil), store
}

func TestManager(t *testing.T) {
	ctx := context.Background()

	t.Run("Initialize", func(t *testing.T) {
		t.Run("Restores User And Collection", func(t *testing.T) {
			mem := testutil.NewMemStore()
			mem.Seed(docstore.Document{ID: "rec-1", Fields: map[string]any{
				"userId": "user-1", "albumId": "thriller", "albumName": "Thriller",
			}})

			mgr, store := newManager(t, newAccountServer(t), mem)
			if err := mgr.Initialize(ctx); err != nil {
				t.Fatalf("expected initialize to succeed, got %v", err)
			}

			user := mgr.User()
			if user == nil || user.ID != "user-1" {
				t.Fatalf("expected a restored user, got %+v", user)
			}
			if store.Cache().Len() != 1 {
				t.Errorf("expected the collection hydrated, got %d records", store.Cache().Len())
			}
		})

		t.Run("Stays Logged Out Without A Session", func(t *testing.T) {
			server := newAccountServer(t)
			client := identity.NewClient(server.URL, "proj", server.Client(), nil)
			store := collection.NewStore(testutil.NewMemStore(), "user_albums", collection.NewCache(), match.Options{}, 100, nil)
			mgr := NewManager(client, store, nil)

			if err := mgr.Initialize(ctx); err != nil {
				t.Fatalf("expected a logged-out start, got %v", err)
			}
			if mgr.User() != nil {
				t.Errorf("expected no user, got %+v", mgr.User())
			}
		})
	})

	t.Run("OnLogin", func(t *testing.T) {
		t.Run("A Failed Fetch Keeps The User Logged In", func(t *testing.T) {
			mem := testutil.NewMemStore()
			mem.ListErr = shared.ErrRemoteUnavailable

			mgr, store := newManager(t, newAccountServer(t), mem)
			err := mgr.OnLogin(ctx, &models.User{ID: "user-1", Email: "ada@example.com"})
			if !errors.Is(err, shared.ErrRemoteUnavailable) {
				t.Fatalf("expected the fetch error surfaced, got %v", err)
			}
			if mgr.User() == nil {
				t.Error("expected the user still logged in for a retry")
			}
			if loaded, _ := store.Cache().Loaded(); loaded {
				t.Error("expected the cache marked failed")
			}
		})
	})

	t.Run("OnLogout", func(t *testing.T) {
		t.Run("Clears User And Cache", func(t *testing.T) {
			mem := testutil.NewMemStore()
			mgr, store := newManager(t, newAccountServer(t), mem)
			if err := mgr.Initialize(ctx); err != nil {
				t.Fatal(err)
			}

			mgr.OnLogout()
			if mgr.User() != nil {
				t.Errorf("expected no user, got %+v", mgr.User())
			}
			if loaded, _ := store.Cache().Loaded(); loaded {
				t.Error("expected the cache cleared")
			}
		})
	})

	t.Run("RequireUser", func(t *testing.T) {
		t.Run("Errors When Logged Out", func(t *testing.T) {
			mgr, _ := newManager(t, newAccountServer(t), testutil.NewMemStore())
			if _, err := mgr.RequireUser(); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})
}
