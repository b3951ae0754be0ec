// Package docstore provides clients for the hosted document store that
// persists user-album records.
//
// The [Store] interface mirrors the hosted service's surface: list with
// equality filters and cursor pagination, create, update, delete. Two
// implementations exist: [HTTPStore] talks to the hosted service, [LocalStore]
// keeps the same contract on a local SQLite database for development and
// integration tests.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultLimit is the page size applied when a List call carries no Limit
// query, matching the hosted service's default.
const DefaultLimit = 25

// Document is a stored record: an opaque identity plus a bag of fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// String returns the named field as a string, or "" when absent or not a string.
func (d Document) String(key string) string {
	v, _ := d.Fields[key].(string)
	return v
}

// Bool returns the named field as a bool, or false when absent or not a bool.
func (d Document) Bool(key string) bool {
	v, _ := d.Fields[key].(bool)
	return v
}

// Query is a single predicate for [Store.List]: an equality filter or a
// pagination directive.
type Query struct {
	Method string
	Field  string
	Values []any
}

// Equal filters documents whose field equals value.
func Equal(field string, value any) Query {
	return Query{Method: "equal", Field: field, Values: []any{value}}
}

// Limit caps the number of documents returned in one page.
func Limit(n int) Query {
	return Query{Method: "limit", Values: []any{n}}
}

// CursorAfter returns documents strictly after the document with the given ID
// in the store's stable order.
func CursorAfter(id string) Query {
	return Query{Method: "cursorAfter", Values: []any{id}}
}

// Encode renders the query in the wire format the hosted service expects,
// e.g. `equal("userId", ["abc"])` or `limit(100)`.
func (q Query) Encode() string {
	switch q.Method {
	case "equal":
		vals, _ := json.Marshal(q.Values)
		return fmt.Sprintf(`equal(%q, %s)`, q.Field, vals)
	case "limit":
		return fmt.Sprintf("limit(%v)", q.Values[0])
	case "cursorAfter":
		return fmt.Sprintf("cursorAfter(%q)", q.Values[0])
	default:
		return q.Method
	}
}

// Store is the document store contract consumed by the collection layer.
type Store interface {
	// List returns one page of documents matching the queries, in the store's
	// stable order. A page shorter than the requested limit signals the end of
	// the collection.
	List(ctx context.Context, collectionID string, queries ...Query) ([]Document, error)

	// Create inserts a new document with a freshly minted ID and returns it.
	Create(ctx context.Context, collectionID string, fields map[string]any) (Document, error)

	// Update merges fields into an existing document and returns the result.
	Update(ctx context.Context, collectionID, id string, fields map[string]any) (Document, error)

	// Delete removes a document by ID.
	Delete(ctx context.Context, collectionID, id string) error
}
