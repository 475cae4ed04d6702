package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SlugKey returns a fixed-length key for a slug. Slugs derived from long titles can be
// arbitrarily long; keys stay 32 hex characters.
func SlugKey(slug string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(slug)))
	return hex.EncodeToString(sum[:16])
}
