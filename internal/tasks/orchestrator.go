package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waxlog/internal/collection"
	"github.com/desertthunder/waxlog/internal/match"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
)

// AlbumState is an album's resolved position in the user's list.
type AlbumState int

const (
	StateUnknown AlbumState = iota
	StateAddedUnlistened
	StateAddedListened
)

func (s AlbumState) String() string {
	switch s {
	case StateAddedUnlistened:
		return "added"
	case StateAddedListened:
		return "listened"
	default:
		return "unknown"
	}
}

// Outcome classifies what a transition actually did.
type Outcome int

const (
	OutcomeNoChange Outcome = iota
	OutcomeCreated
	OutcomeUpdated
	OutcomeRemoved
)

// Result reports a completed transition.
type Result struct {
	Outcome Outcome
	Record  models.SavedAlbum
	Message string
}

// Orchestrator resolves an album's current state before every mutation and
// issues only the store calls the transition needs.
type Orchestrator struct {
	store  *collection.Store
	logger *log.Logger
}

func NewOrchestrator(store *collection.Store, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Orchestrator{store: store, logger: logger}
}

// State resolves the album's saved status: by canonical identifier first,
// then by fuzzy name-and-artist for records predating stable identifiers.
func (o *Orchestrator) State(ref models.AlbumRef) (AlbumState, models.StatusView) {
	canonicalID := match.CanonicalAlbumID(ref.RawID, ref.Name, ref.ArtistName)
	status := o.store.Resolver().Resolve(canonicalID, ref.Name, ref.ArtistName)
	switch {
	case !status.Added:
		return StateUnknown, status
	case status.Listened:
		return StateAddedListened, status
	default:
		return StateAddedUnlistened, status
	}
}

// MarkAdded saves the album as unlistened. Already-saved albums are a no-op.
func (o *Orchestrator) MarkAdded(ctx context.Context, userID string, ref models.AlbumRef) (Result, error) {
	state, _ := o.State(ref)
	if state != StateUnknown {
		return Result{Outcome: OutcomeNoChange, Message: fmt.Sprintf("%s is already in your list", ref.Name)}, nil
	}

	record, err := o.store.Add(ctx, userID, ref, false)
	if err != nil {
		return Result{}, err
	}

	o.logger.Debugf("added %s (%s)", ref.Name, record.AlbumID)
	return Result{Outcome: OutcomeCreated, Record: record, Message: fmt.Sprintf("added %s", ref.Name)}, nil
}

// MarkListened records the album as listened. An album not yet in the list is
// saved directly with the flag set, skipping the intermediate unlistened state.
func (o *Orchestrator) MarkListened(ctx context.Context, userID string, ref models.AlbumRef) (Result, error) {
	state, status := o.State(ref)
	switch state {
	case StateAddedListened:
		return Result{Outcome: OutcomeNoChange, Message: fmt.Sprintf("%s is already marked listened", ref.Name)}, nil

	case StateAddedUnlistened:
		record, err := o.store.SetListened(ctx, status.RecordID, true)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeUpdated, Record: record, Message: fmt.Sprintf("marked %s listened", ref.Name)}, nil

	default:
		record, err := o.store.Add(ctx, userID, ref, true)
		if err != nil {
			return Result{}, err
		}
		o.logger.Debugf("added %s as listened (%s)", ref.Name, record.AlbumID)
		return Result{Outcome: OutcomeCreated, Record: record, Message: fmt.Sprintf("added %s as listened", ref.Name)}, nil
	}
}

// MarkUnlistened clears the listened flag. Albums not in the list, or already
// unlistened, are a no-op.
func (o *Orchestrator) MarkUnlistened(ctx context.Context, ref models.AlbumRef) (Result, error) {
	state, status := o.State(ref)
	switch state {
	case StateUnknown:
		return Result{Outcome: OutcomeNoChange, Message: fmt.Sprintf("%s is not in your list", ref.Name)}, nil

	case StateAddedUnlistened:
		return Result{Outcome: OutcomeNoChange, Message: fmt.Sprintf("%s is not marked listened", ref.Name)}, nil

	default:
		record, err := o.store.SetListened(ctx, status.RecordID, false)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeUpdated, Record: record, Message: fmt.Sprintf("marked %s unlistened", ref.Name)}, nil
	}
}

// Remove drops the album from the list. Albums not in the list are a no-op.
func (o *Orchestrator) Remove(ctx context.Context, ref models.AlbumRef) (Result, error) {
	state, status := o.State(ref)
	if state == StateUnknown {
		return Result{Outcome: OutcomeNoChange, Message: fmt.Sprintf("%s is not in your list", ref.Name)}, nil
	}

	if err := o.store.Remove(ctx, status.RecordID); err != nil {
		return Result{}, err
	}

	o.logger.Debugf("removed %s", ref.Name)
	return Result{Outcome: OutcomeRemoved, Message: fmt.Sprintf("removed %s", ref.Name)}, nil
}
