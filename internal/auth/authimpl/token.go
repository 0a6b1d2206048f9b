package authimpl

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/domain"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Email    string              `json:"email"`
	Metadata domain.UserMetadata `json:"user_metadata"`
}

func (p *Provider) issueToken(userID uuid.UUID, email string, meta domain.UserMetadata) (*domain.Session, error) {
	now := p.clock.Now()
	expiresAt := now.Add(p.tokenTTL)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Email:    email,
		Metadata: meta,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &domain.Session{
		UserID:      userID,
		Email:       email,
		AccessToken: signed,
		ExpiresAt:   claims.ExpiresAt.Time,
		Metadata:    meta,
	}, nil
}

func (p *Provider) parseToken(token string) (*domain.Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("parse session subject: %w", err)
	}

	return &domain.Session{
		UserID:      userID,
		Email:       claims.Email,
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Metadata:    claims.Metadata,
	}, nil
}
