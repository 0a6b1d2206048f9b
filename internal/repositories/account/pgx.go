package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/repositories"
	"github.com/orgball2608/vibestream/pkg/logger"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("AccountRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Create(ctx context.Context, account domain.Account) error {
	meta, err := json.Marshal(account.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode account metadata: %w", err)
	}

	query, args, err := repositories.SqBuilder.
		Insert("auth_users").
		Columns("id", "email", "password_hash", "metadata", "created_at").
		Values(account.ID, normalizeEmail(account.Email), account.PasswordHash, meta, account.CreatedAt).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PgxRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, sq.Eq{"email": normalizeEmail(email)})
}

func (r *PgxRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *PgxRepository) getOne(ctx context.Context, where sq.Eq) (*domain.Account, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "email", "password_hash", "metadata", "created_at").
		From("auth_users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var (
		account domain.Account
		meta    []byte
	)
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&meta,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &account.Metadata); err != nil {
			r.logger.Warn("Ignoring malformed account metadata", "account_id", account.ID, "error", err)
		}
	}

	return &account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
