// Hosted document store implementation of [Store].
//
// Speaks the Appwrite-style databases REST API: documents live under
// /databases/{db}/collections/{col}/documents, filters and pagination travel
// as queries[] parameters, and the project/session pair rides in headers.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/waxlog/internal/shared"
)

var _ Store = (*HTTPStore)(nil)

// HTTPStore implements [Store] against the hosted document store API.
type HTTPStore struct {
	baseURL    string
	project    string
	databaseID string
	session    string
	httpClient *http.Client
}

// NewHTTPStore creates a document store client for the given endpoint,
// project, and database.
func NewHTTPStore(baseURL, project, databaseID string, client *http.Client) *HTTPStore {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPStore{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		project:    project,
		databaseID: databaseID,
		httpClient: client,
	}
}

// SetSession attaches the authenticated session secret sent with every request.
func (s *HTTPStore) SetSession(secret string) {
	s.session = secret
}

// documentEnvelope is the provider's document shape: system keys prefixed
// with "$" alongside the user-defined fields.
type documentEnvelope map[string]any

func (e documentEnvelope) document() Document {
	doc := Document{Fields: make(map[string]any)}
	for k, v := range e {
		if k == "$id" {
			doc.ID, _ = v.(string)
			continue
		}
		if strings.HasPrefix(k, "$") {
			continue
		}
		doc.Fields[k] = v
	}
	return doc
}

func (s *HTTPStore) doRequest(ctx context.Context, method, endpoint string, query url.Values, body, result any) error {
	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", s.project)
	if s.session != "" {
		req.Header.Set("X-Appwrite-Session", s.session)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// statusError maps provider status codes onto the shared error taxonomy.
func statusError(code int) error {
	switch {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrUnauthorized, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", shared.ErrRecordNotFound, code)
	case code == http.StatusConflict:
		return fmt.Errorf("%w: status %d", shared.ErrConflict, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", shared.ErrRateLimited, code)
	case code >= 500:
		return fmt.Errorf("%w: status %d", shared.ErrRemoteUnavailable, code)
	default:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, code)
	}
}

func (s *HTTPStore) collectionPath(collectionID string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", s.databaseID, collectionID)
}

// List returns one page of documents matching the queries.
func (s *HTTPStore) List(ctx context.Context, collectionID string, queries ...Query) ([]Document, error) {
	params := url.Values{}
	for _, q := range queries {
		params.Add("queries[]", q.Encode())
	}

	var response struct {
		Total     int                `json:"total"`
		Documents []documentEnvelope `json:"documents"`
	}

	if err := s.doRequest(ctx, http.MethodGet, s.collectionPath(collectionID), params, nil, &response); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(response.Documents))
	for _, env := range response.Documents {
		docs = append(docs, env.document())
	}

	return docs, nil
}

// Create inserts a new document with a client-minted unique ID.
func (s *HTTPStore) Create(ctx context.Context, collectionID string, fields map[string]any) (Document, error) {
	body := map[string]any{
		"documentId": shared.GenerateID(),
		"data":       fields,
	}

	var env documentEnvelope
	if err := s.doRequest(ctx, http.MethodPost, s.collectionPath(collectionID), nil, body, &env); err != nil {
		return Document{}, err
	}

	return env.document(), nil
}

// Update merges fields into an existing document.
func (s *HTTPStore) Update(ctx context.Context, collectionID, id string, fields map[string]any) (Document, error) {
	endpoint := s.collectionPath(collectionID) + "/" + id
	body := map[string]any{"data": fields}

	var env documentEnvelope
	if err := s.doRequest(ctx, http.MethodPatch, endpoint, nil, body, &env); err != nil {
		return Document{}, err
	}

	return env.document(), nil
}

// Delete removes a document by ID.
func (s *HTTPStore) Delete(ctx context.Context, collectionID, id string) error {
	endpoint := s.collectionPath(collectionID) + "/" + id
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil, nil)
}
