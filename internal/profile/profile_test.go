package profile

import (
	"strings"
	"testing"

	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/pkg/errors"
	"github.com/samber/lo"
)

func TestCanonicalUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "lowercases", input: "  Alice_01 ", want: "alice_01"},
		{name: "strips at sign", input: "@bob.smith", want: "bob.smith"},
		{name: "blank stays blank", input: "   ", want: ""},
		{name: "too short", input: "ab", wantErr: true},
		{name: "leading digit", input: "1alice", wantErr: true},
		{name: "non ascii", input: "zoë", wantErr: true},
		{name: "too long", input: "a" + strings.Repeat("b", 32), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalUsername(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Fatalf("err = %v, want invalid input", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("canonicalize: %v", err)
			}
			if got != tt.want {
				t.Fatalf("username = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizePatch_TrimsPresentFields(t *testing.T) {
	got, err := NormalizePatch(domain.ProfilePatch{
		Username:    lo.ToPtr("Creator"),
		DisplayName: lo.ToPtr("  The Creator "),
		Bio:         lo.ToPtr(" hello "),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if *got.Username != "creator" {
		t.Fatalf("username = %q, want creator", *got.Username)
	}
	if *got.DisplayName != "The Creator" {
		t.Fatalf("display name = %q, want The Creator", *got.DisplayName)
	}
	if *got.Bio != "hello" {
		t.Fatalf("bio = %q, want hello", *got.Bio)
	}
	if got.AvatarRef != nil {
		t.Fatal("avatar ref should stay absent")
	}
}

func TestNormalizePatch_BioTooLong(t *testing.T) {
	_, err := NormalizePatch(domain.ProfilePatch{Bio: lo.ToPtr(strings.Repeat("x", maxBioLength+1))})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Fatalf("code = %q, want %q", errors.GetCode(err), errors.CodeInvalidInput)
	}
}
