package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/repositories"
	"github.com/orgball2608/vibestream/pkg/logger"
)

const (
	table            = "profiles"
	userIDConstraint = "profiles_user_id_key"
)

var columns = []string{"id", "user_id", "username", "display_name", "bio", "avatar_url", "created_at", "updated_at"}

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("ProfileRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *PgxRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From(table).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var one int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PgxRepository) UsernameTaken(ctx context.Context, username string, excludeUserID uuid.UUID) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From(table).
		Where(sq.Eq{"username": username}).
		Where(sq.NotEq{"user_id": excludeUserID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var one int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PgxRepository) Create(ctx context.Context, profile domain.Profile) (*domain.Profile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns(columns...).
		Values(
			profile.ID,
			profile.UserID,
			nullable(profile.Username),
			profile.DisplayName,
			profile.Bio,
			profile.AvatarRef,
			profile.CreatedAt,
			profile.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	created, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, r.mapWriteError(err)
	}

	r.logger.Debug("Profile created", "user_id", created.UserID)
	return created, nil
}

func (r *PgxRepository) Update(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch, updatedAt time.Time) error {
	builder := repositories.SqBuilder.
		Update(table).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"user_id": userID})

	if patch.Username != nil {
		builder = builder.Set("username", nullable(*patch.Username))
	}
	if patch.DisplayName != nil {
		builder = builder.Set("display_name", *patch.DisplayName)
	}
	if patch.Bio != nil {
		builder = builder.Set("bio", *patch.Bio)
	}
	if patch.AvatarRef != nil {
		builder = builder.Set("avatar_url", *patch.AvatarRef)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return r.mapWriteError(err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PgxRepository) mapWriteError(err error) error {
	if !repositories.IsUniqueViolation(err) {
		return err
	}
	if repositories.ConstraintName(err) == userIDConstraint {
		return ErrAlreadyExists
	}
	return ErrUsernameTaken
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		profile  domain.Profile
		username *string
	)
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&username,
		&profile.DisplayName,
		&profile.Bio,
		&profile.AvatarRef,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if username != nil {
		profile.Username = *username
	}
	return &profile, nil
}

// Blank usernames are stored as NULL so the unique index ignores them.
func nullable(username string) *string {
	if username == "" {
		return nil
	}
	return &username
}
