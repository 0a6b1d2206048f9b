package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/orgball2608/vibestream/pkg/logger"
	"github.com/orgball2608/vibestream/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// FSStorage keeps each bucket as a directory below Root.
type FSStorage struct {
	root    string
	baseURL string
	logger  logger.Logger
	retry   retry.Config
}

func New(opts Opts) *FSStorage {
	return NewFSStorage(opts.Config.Storage.Root, opts.Config.Storage.PublicBaseURL, opts.Logger)
}

func NewFSStorage(root, publicBaseURL string, log logger.Logger) *FSStorage {
	return &FSStorage{
		root:    root,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:  log.WithComponent("ObjectStore"),
		retry:   uploadRetryConfig(),
	}
}

func uploadRetryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.Permanent = func(err error) bool {
		return errors.Is(err, ErrObjectExists) || errors.Is(err, ErrInvalidKey) || errors.Is(err, fs.ErrPermission)
	}
	return cfg
}

var _ Storage = (*FSStorage)(nil)

func (s *FSStorage) Upload(ctx context.Context, bucket, key string, data []byte, opts UploadOptions) error {
	target, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}

	err = retry.Do(ctx, s.logger, "object upload", func() error {
		if !opts.Overwrite {
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf("%w: %s/%s", ErrObjectExists, bucket, key)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to stat object: %w", err)
			}
		}
		return writeAtomic(target, data)
	}, s.retry)
	if err != nil {
		if errors.Is(err, ErrObjectExists) {
			return err
		}
		return fmt.Errorf("failed to write object %s/%s: %w", bucket, key, err)
	}

	s.logger.Info("Object stored", "bucket", bucket, "key", key, "size", len(data), "content_type", opts.ContentType)

	if thumb, ok := thumbnail(data, opts.ContentType); ok {
		thumbTarget, err := s.resolve(bucket, ThumbnailKey(key))
		if err == nil {
			err = writeAtomic(thumbTarget, thumb)
		}
		if err != nil {
			s.logger.Warn("Failed to store thumbnail", "bucket", bucket, "key", key, "error", err)
		}
	}

	return nil
}

// Delete removes an object and its thumbnail. Missing objects are not an error.
func (s *FSStorage) Delete(ctx context.Context, bucket, key string) error {
	target, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}
	thumbTarget, err := s.resolve(bucket, ThumbnailKey(key))
	if err != nil {
		return err
	}

	for _, p := range []string{target, thumbTarget} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete object %s/%s: %w", bucket, key, err)
		}
	}

	s.logger.Debug("Object deleted", "bucket", bucket, "key", key)
	return nil
}

func (s *FSStorage) PublicURL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

// Root is the directory served under the public base URL.
func (s *FSStorage) Root() string {
	return s.root
}

func (s *FSStorage) resolve(bucket, key string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == ".." {
		return "", fmt.Errorf("%w: bucket %q", ErrInvalidKey, bucket)
	}
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, `\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// ThumbnailKey is the key of the downscaled variant stored next to key.
func ThumbnailKey(key string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "_thumb" + ext
}

func writeAtomic(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
