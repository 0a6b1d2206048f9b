package session

import (
	"context"
	"strings"

	"github.com/orgball2608/vibestream/internal/domain"
)

// SignUp registers a new account. The provider's SIGNED_IN event provisions the profile.
func (s *Store) SignUp(ctx context.Context, email, password, fullName, username string) error {
	meta := domain.UserMetadata{
		Username: strings.TrimSpace(username),
		FullName: strings.TrimSpace(fullName),
	}
	_, err := s.auth.SignUp(ctx, email, password, meta)
	return err
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	_, err := s.auth.SignIn(ctx, email, password)
	return err
}

func (s *Store) SignOut(ctx context.Context) error {
	return s.auth.SignOut(ctx)
}
