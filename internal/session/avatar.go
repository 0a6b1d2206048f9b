package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/vibestream/internal/objectstore"
	"github.com/orgball2608/vibestream/pkg/errors"
)

// UploadAvatar stores the image under a per-user key and returns its public URL.
// The stored extension follows the validated content type, not fileName.
// The profile row is left untouched; callers pass the URL to UpdateProfile.
func (s *Store) UploadAvatar(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	sess, _ := s.current()
	if !sess.IsAuthenticated() {
		return "", errors.Unauthenticated()
	}

	if len(data) == 0 {
		return "", errors.InvalidFile("file is empty")
	}
	if int64(len(data)) > s.maxAvatarSize {
		return "", errors.InvalidFile(fmt.Sprintf("file must be at most %d MiB", s.maxAvatarSize>>20))
	}
	mediaType, ext, ok := objectstore.MediaType(contentType)
	if !ok || !strings.HasPrefix(mediaType, "image/") {
		return "", errors.InvalidFile("file must be a JPEG, PNG, GIF or WebP image")
	}

	key := fmt.Sprintf("%s/avatar-%d%s", sess.UserID, s.clock.Now().UnixMilli(), ext)

	err := s.objects.Upload(ctx, s.avatarBucket, key, data, objectstore.UploadOptions{
		ContentType: mediaType,
		Overwrite:   true,
	})
	if err != nil {
		s.logger.Error("Avatar upload failed", "user_id", sess.UserID, "key", key, "error", err)
		return "", errors.UploadFailed(err)
	}

	url := s.objects.PublicURL(s.avatarBucket, key)
	s.logger.Info("Avatar uploaded", "user_id", sess.UserID, "key", key, "file_name", fileName)
	return url, nil
}
