// Package media classifies media references by URL and MIME type.
package media

import "strings"

// Type classifies the kind of media a value refers to.
type Type string

const (
	TypeImage Type = "image"
	TypeAudio Type = "audio"
	TypeVideo Type = "video"
	TypeFile  Type = "file"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

// IsImageURL reports whether url is an http(s) URL referring to an image,
// judged by a known image extension appearing anywhere in the URL (query
// strings included).
func IsImageURL(url string) bool {
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

// TypeForMime infers the media type from a MIME type string.
func TypeForMime(mime string) Type {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return TypeImage
	case strings.HasPrefix(mime, "audio/"):
		return TypeAudio
	case strings.HasPrefix(mime, "video/"):
		return TypeVideo
	default:
		return TypeFile
	}
}
