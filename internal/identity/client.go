// Package identity implements the client for the hosted identity service:
// sessions, account registration, password/email changes, and email
// verification.
//
// The service owns all credential handling; this client validates what it can
// before going to the network and maps the service's coded failures onto the
// shared error taxonomy with user-facing messages.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
)

const minPasswordLength = 8

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Session represents an authenticated session issued by the identity service.
type Session struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
}

// accountResponse is the provider-shaped user object.
type accountResponse struct {
	ID                string `json:"$id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	EmailVerification bool   `json:"emailVerification"`
}

func (a accountResponse) user() *models.User {
	return &models.User{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		EmailVerified: a.EmailVerification,
	}
}

// Client talks to the hosted identity service.
type Client struct {
	baseURL    string
	project    string
	session    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates an identity client for the given endpoint and project.
func NewClient(baseURL, project string, client *http.Client, logger *log.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		project:    project,
		httpClient: client,
		logger:     logger,
	}
}

// SetSession attaches a previously issued session secret to subsequent requests.
func (c *Client) SetSession(secret string) {
	c.session = secret
}

// SessionSecret returns the current session secret, empty when logged out.
func (c *Client) SessionSecret() string {
	return c.session
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.project)
	if c.session != "" {
		req.Header.Set("X-Appwrite-Session", c.session)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, statusError(resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// statusError maps identity service status codes onto the shared taxonomy.
func statusError(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case http.StatusConflict:
		return shared.ErrConflict
	case http.StatusTooManyRequests:
		return shared.ErrRateLimited
	case http.StatusBadRequest:
		return shared.ErrInvalidInput
	default:
		if code >= 500 {
			return shared.ErrRemoteUnavailable
		}
		return shared.ErrAPIRequest
	}
}

// Login creates an email/password session and returns the authenticated user.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var session Session
	_, err := c.doRequest(ctx, http.MethodPost, "/account/sessions/email", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrUnauthorized):
			return nil, fmt.Errorf("%w: invalid email or password", shared.ErrUnauthorized)
		case errors.Is(err, shared.ErrRateLimited):
			return nil, fmt.Errorf("%w: too many attempts, try again later", shared.ErrRateLimited)
		default:
			return nil, fmt.Errorf("login failed: %w", err)
		}
	}

	c.session = session.Secret
	return c.Current(ctx)
}

// Register creates an account, logs in, and sends a verification email.
//
// The verification email is best-effort: its failure is logged, not returned,
// because the account itself was created successfully.
func (c *Client) Register(ctx context.Context, email, password, name, verifyURL string) (*models.User, error) {
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", shared.ErrInvalidInput, minPasswordLength)
	}
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address", shared.ErrInvalidInput)
	}

	_, err := c.doRequest(ctx, http.MethodPost, "/account", map[string]string{
		"userId":   shared.GenerateID(),
		"email":    email,
		"password": password,
		"name":     name,
	}, nil)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrConflict):
			return nil, fmt.Errorf("%w: email already exists", shared.ErrConflict)
		case errors.Is(err, shared.ErrInvalidInput):
			return nil, fmt.Errorf("%w: invalid email or password format", shared.ErrInvalidInput)
		default:
			return nil, fmt.Errorf("registration failed: %w", err)
		}
	}

	user, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if verifyURL != "" {
		if err := c.SendVerification(ctx, verifyURL); err != nil {
			c.logger.Warnf("failed to send verification email: %v", err)
		}
	}

	return user, nil
}

// Current returns the user for the attached session.
func (c *Client) Current(ctx context.Context) (*models.User, error) {
	if c.session == "" {
		return nil, shared.ErrNotAuthenticated
	}

	var account accountResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/account", nil, &account); err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: session expired", shared.ErrNotAuthenticated)
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	return account.user(), nil
}

// Logout deletes the current session. Local session state is cleared even
// when the remote call fails, so the user is never stuck logged in.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/account/sessions/current", nil, nil)
	c.session = ""
	if err != nil {
		c.logger.Warnf("remote logout failed, cleared local session anyway: %v", err)
	}
	return nil
}

// UpdatePassword changes the account password after local validation.
func (c *Client) UpdatePassword(ctx context.Context, newPassword, currentPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters long", shared.ErrInvalidInput, minPasswordLength)
	}
	if newPassword == currentPassword {
		return fmt.Errorf("%w: new password must be different from current password", shared.ErrInvalidInput)
	}

	_, err := c.doRequest(ctx, http.MethodPatch, "/account/password", map[string]string{
		"password":    newPassword,
		"oldPassword": currentPassword,
	}, nil)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrUnauthorized):
			return fmt.Errorf("%w: current password is incorrect", shared.ErrUnauthorized)
		case errors.Is(err, shared.ErrInvalidInput):
			return fmt.Errorf("%w: invalid password format", shared.ErrInvalidInput)
		default:
			return fmt.Errorf("failed to change password: %w", err)
		}
	}

	return nil
}

// UpdateEmail changes the account email after local validation. A fresh
// verification email for the new address is sent best-effort.
func (c *Client) UpdateEmail(ctx context.Context, newEmail, password, verifyURL string) error {
	if newEmail == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	}
	if !emailRe.MatchString(newEmail) {
		return fmt.Errorf("%w: invalid email address", shared.ErrInvalidInput)
	}

	_, err := c.doRequest(ctx, http.MethodPatch, "/account/email", map[string]string{
		"email":    newEmail,
		"password": password,
	}, nil)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrConflict):
			return fmt.Errorf("%w: this email is already in use", shared.ErrConflict)
		case errors.Is(err, shared.ErrUnauthorized):
			return fmt.Errorf("%w: current password is incorrect", shared.ErrUnauthorized)
		default:
			return fmt.Errorf("failed to update email: %w", err)
		}
	}

	if verifyURL != "" {
		if err := c.SendVerification(ctx, verifyURL); err != nil {
			c.logger.Warnf("failed to send verification email: %v", err)
		}
	}

	return nil
}

// SendVerification asks the service to email a verification link pointing at url.
func (c *Client) SendVerification(ctx context.Context, url string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/account/verification", map[string]string{
		"url": url,
	}, nil)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrUnauthorized):
			return fmt.Errorf("%w: you must be logged in to send a verification email", shared.ErrNotAuthenticated)
		case errors.Is(err, shared.ErrRateLimited):
			return fmt.Errorf("%w: too many verification emails sent, wait before trying again", shared.ErrRateLimited)
		default:
			return fmt.Errorf("failed to send verification email: %w", err)
		}
	}

	return nil
}

// ConfirmVerification completes a verification link's userId/secret pair.
func (c *Client) ConfirmVerification(ctx context.Context, userID, secret string) error {
	_, err := c.doRequest(ctx, http.MethodPut, "/account/verification", map[string]string{
		"userId": userID,
		"secret": secret,
	}, nil)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			return fmt.Errorf("%w: invalid or expired verification link", shared.ErrUnauthorized)
		}
		return fmt.Errorf("email verification failed: %w", err)
	}

	return nil
}
