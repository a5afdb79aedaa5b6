package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "kind:<digest>" over the JSON encoding of each part.
// Parts are encoded one per line, so ("ab", "c") and ("a", "bc") differ.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, part := range parts {
		_ = enc.Encode(part)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
