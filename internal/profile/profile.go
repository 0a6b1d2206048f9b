// Package profile validates and normalizes profile edits.
package profile

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/pkg/errors"
)

const (
	maxDisplayNameLength = 64
	maxBioLength         = 150
)

var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9._-]{2,31}$`)

// CanonicalUsername lowercases and validates a username. Blank input stays blank.
func CanonicalUsername(input string) (string, error) {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "@"))
	if input == "" {
		return "", nil
	}

	var builder strings.Builder
	builder.Grow(len(input))
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if ch > 0x7f {
			return "", errors.InvalidInput("username must be ASCII")
		}
		if ch >= 'A' && ch <= 'Z' {
			ch = ch - 'A' + 'a'
		}
		builder.WriteByte(ch)
	}

	canonical := builder.String()
	if !usernamePattern.MatchString(canonical) {
		return "", errors.InvalidInput("username must be 3-32 characters of a-z, 0-9, '.', '_' or '-' and start with a letter")
	}
	return canonical, nil
}

// NormalizePatch trims every present field and enforces the length limits.
func NormalizePatch(patch domain.ProfilePatch) (domain.ProfilePatch, error) {
	out := domain.ProfilePatch{}

	if patch.Username != nil {
		username, err := CanonicalUsername(*patch.Username)
		if err != nil {
			return domain.ProfilePatch{}, err
		}
		out.Username = &username
	}

	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if utf8.RuneCountInString(name) > maxDisplayNameLength {
			return domain.ProfilePatch{}, errors.InvalidInput(fmt.Sprintf("display name must be at most %d characters", maxDisplayNameLength))
		}
		out.DisplayName = &name
	}

	if patch.Bio != nil {
		bio := strings.TrimSpace(*patch.Bio)
		if utf8.RuneCountInString(bio) > maxBioLength {
			return domain.ProfilePatch{}, errors.InvalidInput(fmt.Sprintf("bio must be at most %d characters", maxBioLength))
		}
		out.Bio = &bio
	}

	if patch.AvatarRef != nil {
		ref := strings.TrimSpace(*patch.AvatarRef)
		out.AvatarRef = &ref
	}

	return out, nil
}
