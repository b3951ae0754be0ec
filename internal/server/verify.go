package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Confirmer completes a verification link's userId/secret pair against the
// identity service.
type Confirmer interface {
	ConfirmVerification(ctx context.Context, userID, secret string) error
}

// VerificationResult contains the outcome of an email verification callback.
type VerificationResult struct {
	UserID string
	err    error
}

func (v *VerificationResult) Error() error {
	return v.err
}

// VerificationHandler handles the redirect from an email verification link.
// Implements the Handler interface for registration with a Router.
type VerificationHandler struct {
	confirmer   Confirmer
	resultChan  chan VerificationResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewVerificationHandler creates a handler that confirms callbacks against
// the given identity client.
func NewVerificationHandler(confirmer Confirmer) *VerificationHandler {
	return &VerificationHandler{
		confirmer:  confirmer,
		resultChan: make(chan VerificationResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *VerificationHandler) Routes() []string {
	return []string{"/verify"}
}

// ServeHTTP handles the verification callback request.
//
// Extracts the userId and secret parameters, confirms them against the
// identity service, and sends the result through the result channel.
func (h *VerificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle the callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	userID := r.URL.Query().Get("userId")
	secret := r.URL.Query().Get("secret")
	if userID == "" || secret == "" {
		err := fmt.Errorf("verification link is missing its userId or secret")
		h.Send(VerificationResult{err: err})
		http.Error(w, "Invalid verification link", http.StatusBadRequest)
		return
	}

	if err := h.confirmer.ConfirmVerification(r.Context(), userID, secret); err != nil {
		h.Send(VerificationResult{err: err})
		http.Error(w, "Verification failed", http.StatusBadRequest)
		return
	}

	h.Send(VerificationResult{UserID: userID})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Email Verified</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #b4637a; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Email Verified</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send sends the verification result through the channel (only once).
func (h *VerificationHandler) Send(result VerificationResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving callback completion.
//
// Channel will receive exactly one result and then be closed.
func (h *VerificationHandler) Result() <-chan VerificationResult {
	return h.resultChan
}
