package collection

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waxlog/internal/docstore"
	"github.com/desertthunder/waxlog/internal/match"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
)

const defaultPageSize = 100

// field names in the remote collection's documents
const (
	fieldUserID     = "userId"
	fieldAlbumID    = "albumId"
	fieldAlbumName  = "albumName"
	fieldArtistName = "artistName"
	fieldImage      = "image"
	fieldListened   = "listened"
)

// keyedMutex serializes mutations per album so two rapid toggles on the same
// album cannot interleave, while different albums proceed concurrently.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	if _, ok := k.locks[key]; !ok {
		k.locks[key] = &sync.Mutex{}
	}
	return k.locks[key]
}

// Store keeps the cache and the remote collection in sync. Mutations go
// remote-first: the cache is only updated after the document store accepts
// the change, so a failed call never leaves phantom local state.
type Store struct {
	docs         docstore.Store
	collectionID string
	cache        *Cache
	opts         match.Options
	logger       *log.Logger
	locks        keyedMutex
	pageSize     int
}

func NewStore(docs docstore.Store, collectionID string, cache *Cache, opts match.Options, pageSize int, logger *log.Logger) *Store {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Store{
		docs:         docs,
		collectionID: collectionID,
		cache:        cache,
		opts:         opts,
		logger:       logger,
		pageSize:     pageSize,
	}
}

// Resolver returns a resolver bound to this store's cache and matching options.
func (s *Store) Resolver() *Resolver {
	return NewResolver(s.cache, s.opts)
}

// Cache returns the backing cache.
func (s *Store) Cache() *Cache {
	return s.cache
}

func recordFromDocument(doc docstore.Document) models.SavedAlbum {
	return models.SavedAlbum{
		RecordID:   doc.ID,
		OwnerID:    doc.String(fieldUserID),
		AlbumID:    doc.String(fieldAlbumID),
		AlbumName:  doc.String(fieldAlbumName),
		ArtistName: doc.String(fieldArtistName),
		ImageURL:   doc.String(fieldImage),
		Listened:   doc.Bool(fieldListened),
	}
}

// FetchAll loads the user's complete collection into the cache, following
// pagination cursors until a short page. Any page failure marks the cache
// failed and returns the error: a partial collection would make the resolver
// report saved albums as missing.
func (s *Store) FetchAll(ctx context.Context, userID string) error {
	var records []models.SavedAlbum
	cursor := ""

	for {
		queries := []docstore.Query{
			docstore.Equal(fieldUserID, userID),
			docstore.Limit(s.pageSize),
		}
		if cursor != "" {
			queries = append(queries, docstore.CursorAfter(cursor))
		}

		docs, err := s.docs.List(ctx, s.collectionID, queries...)
		if err != nil {
			err = fmt.Errorf("failed to fetch collection: %w", err)
			s.cache.Fail(err)
			return err
		}

		for _, doc := range docs {
			records = append(records, recordFromDocument(doc))
		}

		if len(docs) < s.pageSize {
			break
		}
		cursor = docs[len(docs)-1].ID
	}

	s.cache.Replace(records)
	s.logger.Debugf("fetched %d collection records", len(records))
	return nil
}

// Add saves an album to the user's list. The duplicate check runs against the
// cache and then against the remote store, under a per-album lock, so racing
// adds of the same album produce a single record.
func (s *Store) Add(ctx context.Context, userID string, ref models.AlbumRef, listened bool) (models.SavedAlbum, error) {
	albumID := match.CanonicalAlbumID(ref.RawID, ref.Name, ref.ArtistName)
	if albumID == "" {
		return models.SavedAlbum{}, fmt.Errorf("%w: album has no usable identifier", shared.ErrInvalidInput)
	}

	lock := s.locks.get(albumID)
	lock.Lock()
	defer lock.Unlock()

	if status := s.Resolver().Status(albumID); status.Added {
		return models.SavedAlbum{}, fmt.Errorf("%w: %s", shared.ErrDuplicateAlbum, ref.Name)
	}

	// The cache can lag behind another device's writes, so double-check the
	// remote store. Best-effort: a failed check falls through to the create.
	docs, err := s.docs.List(ctx, s.collectionID,
		docstore.Equal(fieldUserID, userID),
		docstore.Equal(fieldAlbumID, albumID),
		docstore.Limit(1),
	)
	if err != nil {
		s.logger.Warnf("remote duplicate check failed, proceeding with create: %v", err)
	} else if len(docs) > 0 {
		record := recordFromDocument(docs[0])
		s.cache.Append(record)
		return models.SavedAlbum{}, fmt.Errorf("%w: %s", shared.ErrDuplicateAlbum, ref.Name)
	}

	doc, err := s.docs.Create(ctx, s.collectionID, map[string]any{
		fieldUserID:     userID,
		fieldAlbumID:    albumID,
		fieldAlbumName:  ref.Name,
		fieldArtistName: ref.ArtistName,
		fieldImage:      ref.ImageURL,
		fieldListened:   listened,
	})
	if err != nil {
		return models.SavedAlbum{}, fmt.Errorf("failed to save album: %w", err)
	}

	record := recordFromDocument(doc)
	s.cache.Append(record)
	return record, nil
}

// SetListened updates a record's listened flag, remote-first.
func (s *Store) SetListened(ctx context.Context, recordID string, listened bool) (models.SavedAlbum, error) {
	doc, err := s.docs.Update(ctx, s.collectionID, recordID, map[string]any{
		fieldListened: listened,
	})
	if err != nil {
		return models.SavedAlbum{}, fmt.Errorf("failed to update album: %w", err)
	}

	record := recordFromDocument(doc)
	if !s.cache.Update(recordID, record) {
		s.cache.Append(record)
	}
	return record, nil
}

// Remove deletes a record, remote-first.
func (s *Store) Remove(ctx context.Context, recordID string) error {
	if err := s.docs.Delete(ctx, s.collectionID, recordID); err != nil {
		return fmt.Errorf("failed to remove album: %w", err)
	}

	s.cache.Remove(recordID)
	return nil
}

// Reconcile removes duplicate records that share a normalized album id,
// keeping the earliest of each group. Deletions go remote-first; a failed
// deletion leaves that duplicate in place for the next sweep. It returns the
// number of records removed.
func (s *Store) Reconcile(ctx context.Context) (int, error) {
	seen := make(map[string]bool)
	var duplicates []models.SavedAlbum

	for _, rec := range s.cache.Records() {
		id := s.opts.NormalizeAlbumID(rec.AlbumID)
		if id == "" {
			continue
		}
		if seen[id] {
			duplicates = append(duplicates, rec)
			continue
		}
		seen[id] = true
	}

	removed := 0
	for _, rec := range duplicates {
		if err := s.docs.Delete(ctx, s.collectionID, rec.RecordID); err != nil {
			s.logger.Warnf("failed to remove duplicate record %s: %v", rec.RecordID, err)
			continue
		}
		s.cache.Remove(rec.RecordID)
		removed++
	}

	if removed > 0 {
		s.logger.Infof("removed %d duplicate records", removed)
	}
	return removed, nil
}
