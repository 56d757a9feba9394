package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
)

// Cache stores fetched documents by key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
	Clear() error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Key derives a file-safe cache key from a URL: the last path segment
// followed by a short hash of the full URL
func Key(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	suffix := hex.EncodeToString(hash[:4])

	slug := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		slug = path.Base(parsed.Path)
		if slug == "/" || slug == "." {
			slug = parsed.Host
		}
	}
	slug = unsafeChars.ReplaceAllString(slug, "_")
	if len(slug) > 80 {
		slug = slug[:80]
	}

	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
