package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/waxlog/internal/shared"
)

func TestQueryEncode(t *testing.T) {
	cases := []struct {
		query Query
		want  string
	}{
		{Equal("userId", "u-1"), `equal("userId", ["u-1"])`},
		{Limit(100), "limit(100)"},
		{CursorAfter("doc-9"), `cursorAfter("doc-9")`},
	}

	for _, c := range cases {
		if got := c.query.Encode(); got != c.want {
			t.Errorf("Encode() = %q, want %q", got, c.want)
		}
	}
}

func TestHTTPStore(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		t.Run("Sends Queries And Decodes Documents", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/databases/music/collections/user_albums/documents" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				if r.Header.Get("X-Appwrite-Project") != "proj" {
					t.Errorf("missing project header")
				}
				if r.Header.Get("X-Appwrite-Session") != "sess-secret" {
					t.Errorf("missing session header")
				}

				queries := r.URL.Query()["queries[]"]
				if len(queries) != 2 {
					t.Fatalf("expected 2 queries, got %d: %v", len(queries), queries)
				}
				if queries[0] != `equal("userId", ["u-1"])` {
					t.Errorf("unexpected first query: %s", queries[0])
				}

				json.NewEncoder(w).Encode(map[string]any{
					"total": 1,
					"documents": []map[string]any{
						{
							"$id":        "doc-1",
							"$createdAt": "2024-01-01T00:00:00Z",
							"userId":     "u-1",
							"albumId":    "abbey-road",
							"listened":   true,
						},
					},
				})
			}))
			defer server.Close()

			store := NewHTTPStore(server.URL, "proj", "music", nil)
			store.SetSession("sess-secret")

			docs, err := store.List(context.Background(), "user_albums", Equal("userId", "u-1"), Limit(100))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(docs) != 1 {
				t.Fatalf("expected 1 document, got %d", len(docs))
			}
			if docs[0].ID != "doc-1" {
				t.Errorf("expected ID doc-1, got %s", docs[0].ID)
			}
			if docs[0].String("albumId") != "abbey-road" {
				t.Errorf("unexpected albumId field: %v", docs[0].Fields["albumId"])
			}
			if !docs[0].Bool("listened") {
				t.Error("expected listened to be true")
			}
			if _, ok := docs[0].Fields["$createdAt"]; ok {
				t.Error("system keys should be stripped from fields")
			}
		})

		t.Run("Maps Status Codes", func(t *testing.T) {
			cases := []struct {
				status int
				want   error
			}{
				{http.StatusUnauthorized, shared.ErrUnauthorized},
				{http.StatusNotFound, shared.ErrRecordNotFound},
				{http.StatusConflict, shared.ErrConflict},
				{http.StatusTooManyRequests, shared.ErrRateLimited},
				{http.StatusInternalServerError, shared.ErrRemoteUnavailable},
			}

			for _, c := range cases {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(c.status)
				}))

				store := NewHTTPStore(server.URL, "proj", "music", nil)
				_, err := store.List(context.Background(), "user_albums")
				if !errors.Is(err, c.want) {
					t.Errorf("status %d: expected %v, got %v", c.status, c.want, err)
				}
				server.Close()
			}
		})

		t.Run("Network Failure Is Remote Unavailable", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close() // refuse connections

			store := NewHTTPStore(server.URL, "proj", "music", nil)
			_, err := store.List(context.Background(), "user_albums")
			if !errors.Is(err, shared.ErrRemoteUnavailable) {
				t.Errorf("expected ErrRemoteUnavailable, got %v", err)
			}
		})
	})

	t.Run("Create", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}

			var body struct {
				DocumentID string         `json:"documentId"`
				Data       map[string]any `json:"data"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.DocumentID == "" {
				t.Error("expected client-minted document ID")
			}
			if body.Data["albumId"] != "abbey-road" {
				t.Errorf("unexpected data: %v", body.Data)
			}

			json.NewEncoder(w).Encode(map[string]any{
				"$id":     body.DocumentID,
				"albumId": body.Data["albumId"],
			})
		}))
		defer server.Close()

		store := NewHTTPStore(server.URL, "proj", "music", nil)
		doc, err := store.Create(context.Background(), "user_albums", map[string]any{"albumId": "abbey-road"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if doc.ID == "" {
			t.Error("expected document ID in response")
		}
	})

	t.Run("Update", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				t.Errorf("expected PATCH, got %s", r.Method)
			}
			if r.URL.Path != "/databases/music/collections/user_albums/documents/doc-1" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}

			json.NewEncoder(w).Encode(map[string]any{"$id": "doc-1", "listened": true})
		}))
		defer server.Close()

		store := NewHTTPStore(server.URL, "proj", "music", nil)
		doc, err := store.Update(context.Background(), "user_albums", "doc-1", map[string]any{"listened": true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !doc.Bool("listened") {
			t.Error("expected updated field in response")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE, got %s", r.Method)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		store := NewHTTPStore(server.URL, "proj", "music", nil)
		if err := store.Delete(context.Background(), "user_albums", "doc-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
