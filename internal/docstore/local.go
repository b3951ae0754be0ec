// SQLite-backed implementation of [Store].
//
// Keeps the hosted store's contract (opaque IDs, field bags, stable order,
// cursor pagination) on a local database so the client can run without the
// hosted service, and so tests can exercise real pagination.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/waxlog/internal/shared"
)

var _ Store = (*LocalStore)(nil)

// LocalStore implements [Store] on a SQLite database.
//
// Documents are stored as JSON field bags; equality filters use json_extract.
// A monotone sequence column provides the stable order cursor pagination
// needs.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore creates a LocalStore on an open database. The documents
// schema must already be migrated (see shared.RunMigrations).
func NewLocalStore(db *sql.DB) *LocalStore {
	return &LocalStore{db: db}
}

// nextSequence atomically increments and returns the next document sequence number.
func (s *LocalStore) nextSequence() (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE documents_sequence SET value = value + 1 WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow("SELECT value FROM documents_sequence WHERE id = 1").Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// List returns one page of documents matching the queries, ordered by insertion.
func (s *LocalStore) List(ctx context.Context, collectionID string, queries ...Query) ([]Document, error) {
	where := "collection_id = ?"
	args := []any{collectionID}
	limit := DefaultLimit

	for _, q := range queries {
		switch q.Method {
		case "equal":
			where += fmt.Sprintf(" AND json_extract(data, '$.%s') = ?", q.Field)
			args = append(args, q.Values[0])
		case "limit":
			if n, ok := q.Values[0].(int); ok && n > 0 {
				limit = n
			}
		case "cursorAfter":
			where += " AND sequence > (SELECT sequence FROM documents WHERE id = ?)"
			args = append(args, q.Values[0])
		default:
			return nil, fmt.Errorf("%w: unsupported query method %q", shared.ErrInvalidArgument, q.Method)
		}
	}

	query := fmt.Sprintf(`
		SELECT id, data FROM documents
		WHERE %s
		ORDER BY sequence
		LIMIT ?
	`, where)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id   string
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		fields := make(map[string]any)
		if err := json.Unmarshal([]byte(data), &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}

		docs = append(docs, Document{ID: id, Fields: fields})
	}

	return docs, rows.Err()
}

// Create inserts a new document with a generated ID and the next sequence number.
func (s *LocalStore) Create(ctx context.Context, collectionID string, fields map[string]any) (Document, error) {
	sequence, err := s.nextSequence()
	if err != nil {
		return Document{}, err
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode document: %w", err)
	}

	id := shared.GenerateID()
	query := `
		INSERT INTO documents (id, collection_id, sequence, data) VALUES (?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, id, collectionID, sequence, string(data)); err != nil {
		return Document{}, fmt.Errorf("failed to insert document: %w", err)
	}

	return Document{ID: id, Fields: fields}, nil
}

// Update merges fields into an existing document.
func (s *LocalStore) Update(ctx context.Context, collectionID, id string, fields map[string]any) (Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE id = ? AND collection_id = ?", id, collectionID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return Document{}, fmt.Errorf("%w: %s", shared.ErrRecordNotFound, id)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to query document: %w", err)
	}

	merged := make(map[string]any)
	if err := json.Unmarshal([]byte(data), &merged); err != nil {
		return Document{}, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	for k, v := range fields {
		merged[k] = v
	}

	encoded, err := json.Marshal(merged)
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode document: %w", err)
	}

	query := `
		UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND collection_id = ?
	`
	if _, err := s.db.ExecContext(ctx, query, string(encoded), id, collectionID); err != nil {
		return Document{}, fmt.Errorf("failed to update document: %w", err)
	}

	return Document{ID: id, Fields: merged}, nil
}

// Delete removes a document by ID.
func (s *LocalStore) Delete(ctx context.Context, collectionID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = ? AND collection_id = ?", id, collectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRecordNotFound, id)
	}

	return nil
}
