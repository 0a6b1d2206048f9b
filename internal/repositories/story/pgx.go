package story

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/repositories"
	"github.com/orgball2608/vibestream/pkg/logger"
)

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("StoryRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func (p *Pgx) Create(ctx context.Context, item domain.StoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query, args, err := repositories.SqBuilder.
		Insert("stories").
		Columns(
			"id",
			"author_id",
			"author_handle",
			"avatar_url",
			"media_url",
			"media_key",
			"is_video",
			"posted_at",
		).Values(
		item.ID,
		item.AuthorID,
		item.AuthorHandle,
		item.AvatarRef,
		item.MediaRef,
		item.MediaKey,
		item.IsVideo,
		item.PostedAt,
	).ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		return errors.Join(err, ErrCannotCreate)
	}

	return nil
}

// ListActive returns stories posted after since, grouped by author and oldest first.
func (p *Pgx) ListActive(ctx context.Context, since time.Time) ([]domain.StoryItem, error) {
	return p.list(ctx, sq.Gt{"posted_at": since})
}

func (p *Pgx) GetByAuthor(ctx context.Context, authorID uuid.UUID, since time.Time) ([]domain.StoryItem, error) {
	items, err := p.list(ctx, sq.And{sq.Eq{"author_id": authorID}, sq.Gt{"posted_at": since}})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items, nil
}

func (p *Pgx) list(ctx context.Context, where sq.Sqlizer) ([]domain.StoryItem, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "author_id", "author_handle", "avatar_url", "media_url", "media_key", "is_video", "posted_at").
		From("stories").
		Where(where).
		OrderBy("author_handle ASC", "posted_at ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StoryItem, error) {
		var item domain.StoryItem
		err := row.Scan(
			&item.ID,
			&item.AuthorID,
			&item.AuthorHandle,
			&item.AvatarRef,
			&item.MediaRef,
			&item.MediaKey,
			&item.IsVideo,
			&item.PostedAt,
		)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan stories: %w", err)
	}

	return items, nil
}

// CleanupOldRecords deletes stories posted before cutoff and returns the
// media keys of the removed rows.
func (p *Pgx) CleanupOldRecords(ctx context.Context, cutoff time.Time) ([]string, error) {
	query, args, err := repositories.SqBuilder.
		Delete("stories").
		Where(sq.Lt{"posted_at": cutoff}).
		Suffix("RETURNING media_key").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete stories: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect deleted stories: %w", err)
	}

	p.logger.Debug("Old stories removed", "rows", len(keys), "cutoff", cutoff)
	return keys, nil
}
