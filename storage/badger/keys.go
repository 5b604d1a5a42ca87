package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/newsvec/core"
)

// Key prefixes for different data types
const (
	articlePrefix     = "artrec"
	unprocessedPrefix = "artunp"
)

// makeArticleKey generates a key for an article by ID.
func makeArticleKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", articlePrefix, id))
}

// articleScanPrefix returns the prefix that matches all article records.
func articleScanPrefix() []byte {
	return []byte(articlePrefix + ":")
}

// makeUnprocessedKey generates a composite key for the unprocessed index.
// Format: prefix:createdAt:id
func makeUnprocessedKey(createdAt time.Time, id core.ID) []byte {
	prefix := unprocessedPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// unprocessedScanPrefix returns the prefix that matches the whole
// unprocessed index. Iterating it yields articles in CreatedAt order.
func unprocessedScanPrefix() []byte {
	return []byte(unprocessedPrefix + ":")
}
