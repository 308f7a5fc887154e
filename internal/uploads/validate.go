package uploads

import (
	"mime"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxUploadBytes is the fixed upload ceiling (10 MiB).
const MaxUploadBytes = 10 << 20

// emailRegex is intentionally loose: a local part, an "@", and a domain with a
// dot. It matches what the web client validates against.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the email passes the two-part format check.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var allowedMediaTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
}

// AllowedMediaType reports whether the declared type is one of PDF, JPEG, PNG.
func AllowedMediaType(mediaType string) bool {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	_, ok := allowedMediaTypes[clean]
	return ok
}

// DeclaredMediaType resolves the media type for a multipart file, falling back
// to the file extension when the part carries no Content-Type header.
func DeclaredMediaType(headerType, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(headerType, ";")[0]))
	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); byExt != "" {
		return strings.Split(byExt, ";")[0]
	}
	return clean
}
