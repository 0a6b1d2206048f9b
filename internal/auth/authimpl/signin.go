package authimpl

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/auth"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/repositories/account"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

func (p *Provider) SignUp(ctx context.Context, email, password string, meta domain.UserMetadata) (*domain.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, auth.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc := domain.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Metadata:     meta,
		CreatedAt:    p.clock.Now(),
	}
	if err := p.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, account.ErrAlreadyExists) {
			return nil, auth.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	p.logger.Info("Account created", "user_id", acc.ID)
	return p.startSession(acc)
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	if !p.limiter.Allow(email) {
		p.logger.Warn("Sign-in throttled", "email", email)
		return nil, auth.ErrTooManyAttempts
	}

	acc, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return p.startSession(*acc)
}

func (p *Provider) startSession(acc domain.Account) (*domain.Session, error) {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	sess, err := p.issueToken(acc.ID, acc.Email, acc.Metadata)
	if err != nil {
		return nil, err
	}

	p.setCurrent(auth.EventSignedIn, sess)
	return copySession(sess), nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	p.setCurrent(auth.EventSignedOut, nil)
	return nil
}

// RefreshSession re-issues the current token with a fresh expiry.
func (p *Provider) RefreshSession(ctx context.Context) (*domain.Session, error) {
	if _, err := p.GetSession(ctx); err != nil {
		return nil, err
	}

	p.opMu.Lock()
	defer p.opMu.Unlock()

	p.mu.Lock()
	current := copySession(p.current)
	p.mu.Unlock()

	if current == nil {
		return nil, auth.ErrNoSession
	}

	sess, err := p.issueToken(current.UserID, current.Email, current.Metadata)
	if err != nil {
		return nil, err
	}

	p.setCurrent(auth.EventTokenRefreshed, sess)
	return copySession(sess), nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", auth.ErrInvalidEmail
	}
	return email, nil
}
