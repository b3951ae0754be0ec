// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/waxlog/internal/docstore"
	"github.com/desertthunder/waxlog/internal/shared"
)

// MemStore is an in-memory test double for [docstore.Store]. It honors the
// same equality, limit, and cursor query semantics as the real stores and can
// be scripted to fail per operation.
type MemStore struct {
	mu   sync.Mutex
	docs []docstore.Document

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

var _ docstore.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{}
}

// Seed inserts documents directly, bypassing error scripting.
func (m *MemStore) Seed(docs ...docstore.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, docs...)
}

// Documents returns a copy of the stored documents in insertion order.
func (m *MemStore) Documents() []docstore.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]docstore.Document, len(m.docs))
	copy(out, m.docs)
	return out
}

func (m *MemStore) List(ctx context.Context, collectionID string, queries ...docstore.Query) ([]docstore.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	limit := docstore.DefaultLimit
	after := ""
	var filters []docstore.Query
	for _, q := range queries {
		switch q.Method {
		case "limit":
			if len(q.Values) == 1 {
				if n, ok := q.Values[0].(int); ok {
					limit = n
				}
			}
		case "cursorAfter":
			if len(q.Values) == 1 {
				if id, ok := q.Values[0].(string); ok {
					after = id
				}
			}
		case "equal":
			filters = append(filters, q)
		}
	}

	var out []docstore.Document
	skipping := after != ""
	for _, doc := range m.docs {
		if skipping {
			if doc.ID == after {
				skipping = false
			}
			continue
		}
		if !matchesFilters(doc, filters) {
			continue
		}
		out = append(out, doc)
		if len(out) >= limit {
			break
		}
	}

	return out, nil
}

func matchesFilters(doc docstore.Document, filters []docstore.Query) bool {
	for _, f := range filters {
		if len(f.Values) != 1 {
			return false
		}
		if doc.Fields[f.Field] != f.Values[0] {
			return false
		}
	}
	return true
}

func (m *MemStore) Create(ctx context.Context, collectionID string, fields map[string]any) (docstore.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateErr != nil {
		return docstore.Document{}, m.CreateErr
	}

	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	doc := docstore.Document{ID: shared.GenerateID(), Fields: copied}
	m.docs = append(m.docs, doc)
	return doc, nil
}

func (m *MemStore) Update(ctx context.Context, collectionID, documentID string, fields map[string]any) (docstore.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateErr != nil {
		return docstore.Document{}, m.UpdateErr
	}

	for i := range m.docs {
		if m.docs[i].ID == documentID {
			for k, v := range fields {
				m.docs[i].Fields[k] = v
			}
			return m.docs[i], nil
		}
	}

	return docstore.Document{}, shared.ErrRecordNotFound
}

func (m *MemStore) Delete(ctx context.Context, collectionID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	for i := range m.docs {
		if m.docs[i].ID == documentID {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return nil
		}
	}

	return shared.ErrRecordNotFound
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
