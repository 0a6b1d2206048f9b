package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/domain"
)

var (
	ErrNotFound      = errors.New("account not found")
	ErrAlreadyExists = errors.New("account already exists")
)

//go:generate go run go.uber.org/mock/mockgen -source=account.go -destination=mocks/mock.go
type Repository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}
