package library

import (
	"mime"
	"path/filepath"
	"slices"
	"strings"
)

// SupportedMediaTypes are the audio types the importer queues.
var SupportedMediaTypes = []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/x-wav"}

var audioExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".mpga": "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".wav":  "audio/x-wav",
}

// MediaType guesses the media type of path from its extension. Unknown extensions return "".
func MediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioExtensions[ext]; ok {
		return t
	}

	t, _, _ := strings.Cut(mime.TypeByExtension(ext), ";")
	return strings.TrimSpace(t)
}

// IsSupported reports whether path has a supported audio media type.
func IsSupported(path string) bool {
	return slices.Contains(SupportedMediaTypes, MediaType(path))
}
