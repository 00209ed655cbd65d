package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/OW-Research/llmsgen/internal/utils"
)

// GenerateKey generates a cache key from a URL. The key is a SHA256 hash
// of the normalized URL so equivalent spellings share an entry.
func GenerateKey(rawURL string) string {
	normalized, err := utils.NormalizeURL(rawURL)
	if err != nil {
		normalized = rawURL
	}
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix, rawURL string) string {
	return prefix + ":" + GenerateKey(rawURL)
}

// PrefixPage is the key prefix for cached documentation pages
const PrefixPage = "page"

// PageKey generates a cache key for a documentation page
func PageKey(url string) string {
	return GenerateKeyWithPrefix(PrefixPage, url)
}
