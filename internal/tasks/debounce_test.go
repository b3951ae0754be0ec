package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/waxlog/internal/models"
)

func collectOne(t *testing.T, results <-chan SearchResult, timeout time.Duration) SearchResult {
	t.Helper()
	select {
	case res, ok := <-results:
		if !ok {
			t.Fatal("results channel closed before a result arrived")
		}
		return res
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a search result")
		return SearchResult{}
	}
}

func TestDebouncer(t *testing.T) {
	ctx := context.Background()

	t.Run("Fires Once After Input Settles", func(t *testing.T) {
		var mu sync.Mutex
		var queries []string

		d := NewDebouncer(20*time.Millisecond, func(ctx context.Context, query string) ([]models.Album, error) {
			mu.Lock()
			queries = append(queries, query)
			mu.Unlock()
			return []models.Album{{Name: query}}, nil
		})
		defer d.Stop()

		d.Input(ctx, "t")
		d.Input(ctx, "th")
		d.Input(ctx, "thriller")

		res := collectOne(t, d.Results(), time.Second)
		if res.Query != "thriller" || len(res.Albums) != 1 {
			t.Errorf("unexpected result: %+v", res)
		}

		mu.Lock()
		defer mu.Unlock()
		if len(queries) != 1 || queries[0] != "thriller" {
			t.Errorf("expected a single search for the settled input, got %v", queries)
		}
	})

	t.Run("Drops A Stale Result When Input Moves On", func(t *testing.T) {
		release := make(chan struct{})
		d := NewDebouncer(10*time.Millisecond, func(ctx context.Context, query string) ([]models.Album, error) {
			if query == "slow" {
				<-release
			}
			return []models.Album{{Name: query}}, nil
		})
		defer d.Stop()

		d.Input(ctx, "slow")
		time.Sleep(30 * time.Millisecond) // let the slow search start
		d.Input(ctx, "fast")

		res := collectOne(t, d.Results(), time.Second)
		close(release)

		if res.Query != "fast" {
			t.Fatalf("expected the newer query's result, got %q", res.Query)
		}

		select {
		case late := <-d.Results():
			t.Errorf("expected the stale result dropped, got %+v", late)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("Empty Input Cancels A Pending Search", func(t *testing.T) {
		fired := make(chan struct{}, 1)
		d := NewDebouncer(20*time.Millisecond, func(ctx context.Context, query string) ([]models.Album, error) {
			fired <- struct{}{}
			return nil, nil
		})
		defer d.Stop()

		d.Input(ctx, "thriller")
		d.Input(ctx, "")

		select {
		case <-fired:
			t.Error("expected no search after the query was cleared")
		case <-time.After(60 * time.Millisecond):
		}
	})

	t.Run("Delivers Search Errors", func(t *testing.T) {
		wantErr := errors.New("provider down")
		d := NewDebouncer(10*time.Millisecond, func(ctx context.Context, query string) ([]models.Album, error) {
			return nil, wantErr
		})
		defer d.Stop()

		d.Input(ctx, "thriller")
		res := collectOne(t, d.Results(), time.Second)
		if !errors.Is(res.Err, wantErr) {
			t.Errorf("expected the search error delivered, got %v", res.Err)
		}
	})

	t.Run("Stop Closes The Results Channel", func(t *testing.T) {
		d := NewDebouncer(10*time.Millisecond, func(ctx context.Context, query string) ([]models.Album, error) {
			return nil, nil
		})
		d.Input(ctx, "thriller")
		d.Stop()

		if _, ok := <-d.Results(); ok {
			t.Error("expected the channel closed after Stop")
		}

		// Input after Stop must not panic or fire.
		d.Input(ctx, "late")
	})
}
