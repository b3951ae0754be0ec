package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/waxlog/internal/formatter"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
	"github.com/desertthunder/waxlog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// resolveRef builds an album reference from command input. An explicit --id
// is taken as-is; otherwise the artist/name pair is looked up in the catalog
// so saved records carry real metadata and artwork.
func (r *Runner) resolveRef(ctx context.Context, cmd *cli.Command) (models.AlbumRef, error) {
	artist := cmd.StringArg("artist")
	name := cmd.StringArg("name")

	if id := cmd.String("id"); id != "" {
		if album, _, err := r.catalog.AlbumInfoByID(ctx, id); err == nil {
			return album.Ref(), nil
		}
		return models.AlbumRef{RawID: id, Name: name, ArtistName: artist}, nil
	}

	if artist == "" || name == "" {
		return models.AlbumRef{}, fmt.Errorf("%w: artist and album name are required (or pass --id)", shared.ErrMissingArgument)
	}

	album, _, err := r.catalog.AlbumInfo(ctx, artist, name)
	if err != nil {
		r.logger.Warnf("catalog lookup failed, saving with provided names: %v", err)
		return models.AlbumRef{Name: name, ArtistName: artist}, nil
	}
	return album.Ref(), nil
}

// requireSession hydrates the session and fails when no user is logged in.
func (r *Runner) requireSession(ctx context.Context) (*models.User, error) {
	r.hydrate(ctx)
	return r.session.RequireUser()
}

// reportResult prints a transition outcome.
func (r *Runner) reportResult(result tasks.Result) error {
	switch result.Outcome {
	case tasks.OutcomeNoChange:
		return r.writePlain("%s\n", result.Message)
	default:
		return r.writePlain("✓ %s\n", result.Message)
	}
}

// ListShow prints the saved album list.
func (r *Runner) ListShow(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	records := r.store.Cache().Records()
	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		return r.writePlain("Your list is empty.\n")
	}

	listened := 0
	for i, rec := range records {
		marker := " "
		if rec.Listened {
			marker = "x"
			listened++
		}
		r.writePlain("%3d. [%s] %s - %s\n", i+1, marker, rec.ArtistName, rec.AlbumName)
	}
	r.writePlain("\n%d albums, %d listened\n", len(records), listened)
	return nil
}

// ListAdd adds an album to the list.
func (r *Runner) ListAdd(ctx context.Context, cmd *cli.Command) error {
	user, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	ref, err := r.resolveRef(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := r.orchestrator.MarkAdded(ctx, user.ID, ref)
	if err != nil {
		return err
	}
	return r.reportResult(result)
}

// ListListen marks an album listened, adding it first when needed.
func (r *Runner) ListListen(ctx context.Context, cmd *cli.Command) error {
	user, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	ref, err := r.resolveRef(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := r.orchestrator.MarkListened(ctx, user.ID, ref)
	if err != nil {
		return err
	}
	return r.reportResult(result)
}

// ListUnlisten clears an album's listened flag.
func (r *Runner) ListUnlisten(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	ref, err := r.resolveRef(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := r.orchestrator.MarkUnlistened(ctx, ref)
	if err != nil {
		return err
	}
	return r.reportResult(result)
}

// ListRemove removes an album from the list.
func (r *Runner) ListRemove(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	ref, err := r.resolveRef(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := r.orchestrator.Remove(ctx, ref)
	if err != nil {
		return err
	}
	return r.reportResult(result)
}

// ListSync refetches the full collection from the document store.
func (r *Runner) ListSync(ctx context.Context, cmd *cli.Command) error {
	user, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	if err := r.store.FetchAll(ctx, user.ID); err != nil {
		return err
	}

	return r.writePlain("✓ Synced %d albums\n", r.store.Cache().Len())
}

// ListDedupe removes duplicate records, keeping the earliest of each group.
func (r *Runner) ListDedupe(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	removed, err := r.store.Reconcile(ctx)
	if err != nil {
		return err
	}

	if removed == 0 {
		return r.writePlain("No duplicates found.\n")
	}
	return r.writePlain("✓ Removed %d duplicate records\n", removed)
}

// ListExport writes the collection to a file.
func (r *Runner) ListExport(ctx context.Context, cmd *cli.Command) error {
	user, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	path := cmd.String("output")
	title := fmt.Sprintf("Albums - %s", user.Name)
	if err := formatter.WriteExport(r.store.Cache().Records(), path, cmd.String("format"), title); err != nil {
		return err
	}

	return r.writePlain("✓ Exported %d albums to %s\n", r.store.Cache().Len(), path)
}
