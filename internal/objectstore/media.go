package objectstore

import (
	"mime"
	"strings"
)

// mediaExtensions lists the upload types accepted for user media and the
// extension each is stored under. Stored extensions always come from here,
// never from the client file name.
var mediaExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

// MediaType normalizes contentType and returns the extension objects of that
// type are stored under. ok is false for anything outside the accepted set.
func MediaType(contentType string) (mediaType, ext string, ok bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", "", false
	}
	mediaType = strings.ToLower(mediaType)
	ext, ok = mediaExtensions[mediaType]
	if !ok {
		return "", "", false
	}
	return mediaType, ext, true
}
