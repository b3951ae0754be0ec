package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubConfirmer struct {
	err    error
	userID string
	secret string
	calls  int
}

func (s *stubConfirmer) ConfirmVerification(ctx context.Context, userID, secret string) error {
	s.calls++
	s.userID = userID
	s.secret = secret
	return s.err
}

func TestBasicRouter(t *testing.T) {
	t.Run("Filters By Method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "pong")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("expected pong, got %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for the wrong method, got %d", rec.Code)
		}
	})

	t.Run("Applies Middleware In Registration Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("first"), mw("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("expected first then second, got %v", order)
		}
	})
}

func TestVerificationHandler(t *testing.T) {
	t.Run("Confirms And Delivers The Result", func(t *testing.T) {
		confirmer := &stubConfirmer{}
		handler := NewVerificationHandler(confirmer)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify?userId=user-1&secret=s-42", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if confirmer.userID != "user-1" || confirmer.secret != "s-42" {
			t.Errorf("unexpected confirmation args: %q %q", confirmer.userID, confirmer.secret)
		}

		select {
		case result := <-handler.Result():
			if result.Error() != nil || result.UserID != "user-1" {
				t.Errorf("unexpected result: %+v", result)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for the result")
		}
	})

	t.Run("Rejects A Link Missing Parameters", func(t *testing.T) {
		confirmer := &stubConfirmer{}
		handler := NewVerificationHandler(confirmer)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify?userId=user-1", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if confirmer.calls != 0 {
			t.Errorf("expected no confirmation attempt, got %d", confirmer.calls)
		}
		if result := <-handler.Result(); result.Error() == nil {
			t.Error("expected an error result")
		}
	})

	t.Run("Surfaces Confirmation Failure", func(t *testing.T) {
		wantErr := errors.New("invalid or expired verification link")
		handler := NewVerificationHandler(&stubConfirmer{err: wantErr})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify?userId=user-1&secret=bad", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-handler.Result(); !errors.Is(result.Error(), wantErr) {
			t.Errorf("expected the confirmation error, got %v", result.Error())
		}
	})

	t.Run("Processes Only One Callback", func(t *testing.T) {
		confirmer := &stubConfirmer{}
		handler := NewVerificationHandler(confirmer)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/verify?userId=user-1&secret=s", nil))
		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/verify?userId=user-1&secret=s", nil))

		if second.Code != http.StatusBadRequest || !strings.Contains(second.Body.String(), "already processed") {
			t.Errorf("expected the replay rejected, got %d %q", second.Code, second.Body.String())
		}
		if confirmer.calls != 1 {
			t.Errorf("expected one confirmation, got %d", confirmer.calls)
		}
	})
}
