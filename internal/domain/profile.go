package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Profile is a user's public identity. The store holds the record of truth.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarRef   string    `json:"avatar_ref"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfilePatch is a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarRef   *string `json:"avatar_ref,omitempty"`
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Username == nil && p.DisplayName == nil && p.Bio == nil && p.AvatarRef == nil
}

// Apply returns a copy of the profile with the patch merged in.
func (p Profile) Apply(patch ProfilePatch, updatedAt time.Time) Profile {
	p.Username = lo.FromPtrOr(patch.Username, p.Username)
	p.DisplayName = lo.FromPtrOr(patch.DisplayName, p.DisplayName)
	p.Bio = lo.FromPtrOr(patch.Bio, p.Bio)
	p.AvatarRef = lo.FromPtrOr(patch.AvatarRef, p.AvatarRef)
	p.UpdatedAt = updatedAt
	return p
}

// DefaultProfile is the blank profile provisioned for a new session.
func DefaultProfile(userID uuid.UUID, meta UserMetadata, now time.Time) Profile {
	return Profile{
		ID:          uuid.New(),
		UserID:      userID,
		Username:    meta.Username,
		DisplayName: meta.FullName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
