package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/skumatch/core"
)

// Key prefixes for different data types
const (
	itemRecordPrefix    = "catitm"
	mappingRecordPrefix = "maphist"
	quoteRecordPrefix   = "quorec"
	quoteIDSeq          = "quorecseq"
)

// makeItemKey generates a key for a catalog item by SKU.
func makeItemKey(sku string) []byte {
	return []byte(fmt.Sprintf("%s:%s", itemRecordPrefix, sku))
}

// makeMappingKey generates a composite key for a mapping record.
// Format: prefix:requirementID:sku where requirementID is the content hash
// of the normalized requirement text, written in BigEndian order so all
// mappings for a requirement share a scannable prefix.
func makeMappingKey(requirementID core.ID, sku string) []byte {
	prefix := mappingRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 9 + len(sku) // 8 bytes for requirementID + separator
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(requirementID))
	offset += 8
	buf[offset] = ':'
	offset++
	copy(buf[offset:], sku)
	return buf
}

// makePartialMappingKey generates a partial key for scanning all mappings of
// a requirement.
func makePartialMappingKey(requirementID core.ID) []byte {
	prefix := mappingRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 9 // 8 bytes for requirementID + separator
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(requirementID))
	offset += 8
	buf[offset] = ':'
	return buf
}

// makeQuoteKey generates a composite key for a quote record.
// Format: prefix:sku:id with the ID in BigEndian order so reverse
// iteration within a SKU prefix yields newest quotes first.
func makeQuoteKey(sku string, id core.ID) []byte {
	prefix := quoteRecordPrefix + ":" + sku + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialQuoteKey generates a partial key for scanning a SKU's quotes.
func makePartialQuoteKey(sku string) []byte {
	return []byte(quoteRecordPrefix + ":" + sku + ":")
}
