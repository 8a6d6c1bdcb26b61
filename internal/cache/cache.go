package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/lexplain/lexplain/internal/model"
)

// Cache stores completed clause rewrites so identical clauses are not
// rewritten twice
type Cache interface {
	Get(key string) (model.Simplification, bool)
	Set(key string, value model.Simplification, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for one clause rewrite. The key covers the
// clause text, the target level and the language tag, so the same clause
// requested at a different level never collides.
func Key(text, targetLevel, language string) string {
	hash := sha256.Sum256([]byte(targetLevel + "\x00" + language + "\x00" + text))
	return "lexplain:v1:" + hex.EncodeToString(hash[:])
}
