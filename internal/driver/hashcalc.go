package driver

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest is a SHA-256 value.
type Digest [32]byte

// cacheKey: H(schema || content || oracle). Смена оракула или формата
// записи даёт новый ключ.
func cacheKey(content [32]byte, oracleName string) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	_, _ = h.Write(schema[:])
	_, _ = h.Write(content[:])
	_, _ = h.Write([]byte(oracleName))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
