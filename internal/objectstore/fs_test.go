package objectstore

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/orgball2608/vibestream/pkg/logger"
)

func newTestStorage(t *testing.T) *FSStorage {
	t.Helper()
	return NewFSStorage(t.TempDir(), "http://cdn.local/storage/", logger.NewNop())
}

func TestFSStorage_UploadWritesObject(t *testing.T) {
	s := newTestStorage(t)

	err := s.Upload(context.Background(), "avatars", "user-1/avatar.txt", []byte("hello"), UploadOptions{ContentType: "text/plain"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(s.Root(), "avatars", "user-1", "avatar.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("content = %q, want hello", got)
	}
}

func TestFSStorage_OverwriteRequiresFlag(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.Upload(ctx, "avatars", "a.txt", []byte("v1"), UploadOptions{}); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if err := s.Upload(ctx, "avatars", "a.txt", []byte("v2"), UploadOptions{}); !errors.Is(err, ErrObjectExists) {
		t.Fatalf("err = %v, want ErrObjectExists", err)
	}
	if err := s.Upload(ctx, "avatars", "a.txt", []byte("v2"), UploadOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, _ := os.ReadFile(filepath.Join(s.Root(), "avatars", "a.txt"))
	if string(got) != "v2" {
		t.Fatalf("content = %q, want v2", got)
	}
}

func TestFSStorage_RejectsTraversal(t *testing.T) {
	s := newTestStorage(t)

	for _, key := range []string{"", "/", `..\evil`} {
		if err := s.Upload(context.Background(), "avatars", key, []byte("x"), UploadOptions{}); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("key %q: err = %v, want ErrInvalidKey", key, err)
		}
	}
	if err := s.Upload(context.Background(), "../etc", "x", []byte("x"), UploadOptions{}); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("bucket traversal: err = %v, want ErrInvalidKey", err)
	}

	// dot segments are cleaned inside the bucket
	if err := s.Upload(context.Background(), "avatars", "../../x.txt", []byte("x"), UploadOptions{}); err != nil {
		t.Fatalf("cleaned key: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "avatars", "x.txt")); err != nil {
		t.Fatalf("expected object inside bucket: %v", err)
	}
}

func TestFSStorage_PNGGetsThumbnail(t *testing.T) {
	s := newTestStorage(t)

	img := image.NewRGBA(image.Rect(0, 0, 512, 256))
	for x := 0; x < 512; x++ {
		img.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}

	if err := s.Upload(context.Background(), "avatars", "u/pic.png", buf.Bytes(), UploadOptions{ContentType: "image/png"}); err != nil {
		t.Fatalf("upload: %v", err)
	}

	f, err := os.Open(filepath.Join(s.Root(), "avatars", "u", "pic_thumb.png"))
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if cfg.Width != thumbnailSize || cfg.Height != thumbnailSize/2 {
		t.Fatalf("thumbnail = %dx%d, want %dx%d", cfg.Width, cfg.Height, thumbnailSize, thumbnailSize/2)
	}
}

func TestFSStorage_PublicURL(t *testing.T) {
	s := newTestStorage(t)

	got := s.PublicURL("avatars", "user 1/avatar.png")
	want := "http://cdn.local/storage/avatars/user%201/avatar.png"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestFSStorage_DeleteRemovesObjectAndThumbnail(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := s.Upload(ctx, "stories", "u/story-1.png", buf.Bytes(), UploadOptions{ContentType: "image/png"}); err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := s.Delete(ctx, "stories", "u/story-1.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, name := range []string{"story-1.png", "story-1_thumb.png"} {
		if _, err := os.Stat(filepath.Join(s.Root(), "stories", "u", name)); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s still present: %v", name, err)
		}
	}

	if err := s.Delete(ctx, "stories", "u/story-1.png"); err != nil {
		t.Fatalf("deleting a missing object: %v", err)
	}
	if err := s.Delete(ctx, "../etc", "x"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("err = %v, want ErrInvalidKey", err)
	}
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantExt string
		ok      bool
	}{
		{"image/png", "image/png", ".png", true},
		{"IMAGE/JPEG; charset=binary", "image/jpeg", ".jpg", true},
		{"video/quicktime", "video/quicktime", ".mov", true},
		{"image/svg+xml", "", "", false},
		{"text/html", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		got, ext, ok := MediaType(tt.in)
		if got != tt.want || ext != tt.wantExt || ok != tt.ok {
			t.Errorf("MediaType(%q) = %q, %q, %v; want %q, %q, %v", tt.in, got, ext, ok, tt.want, tt.wantExt, tt.ok)
		}
	}
}
