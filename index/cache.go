package index

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage"
)

// Cache file layout: a varint entry count followed by length-prefixed
// CatalogItem records in the storage wire format.

// WriteCacheFile persists items to path. The file is written to a temp
// sibling and renamed, so readers never see a half-written cache.
func WriteCacheFile(path string, items []*core.CatalogItem) error {
	count := core.ID(len(items))

	size := core.IDMUS.Size(count)
	payloads := make([][]byte, len(items))
	for i, item := range items {
		payloads[i] = storage.MarshalCatalogItem(item)
		size += core.IDMUS.Size(core.ID(len(payloads[i]))) + len(payloads[i])
	}

	buf := make([]byte, size)
	n := core.IDMUS.Marshal(count, buf)
	for _, payload := range payloads {
		n += core.IDMUS.Marshal(core.ID(len(payload)), buf[n:])
		n += copy(buf[n:], payload)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// LoadCacheFile reads a cache file written by WriteCacheFile.
// Returns ErrCacheCorrupt when the file cannot be decoded.
func LoadCacheFile(path string) ([]*core.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	count, n, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
	}

	items := make([]*core.CatalogItem, 0, count)
	for i := core.ID(0); i < count; i++ {
		length, m, err := core.IDMUS.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
		}
		n += m
		if core.ID(len(data)-n) < length {
			return nil, fmt.Errorf("%w: truncated entry %d", ErrCacheCorrupt, i)
		}

		item, err := storage.UnmarshalCatalogItem(data[n : n+int(length)])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
		}
		n += int(length)
		items = append(items, item)
	}

	return items, nil
}
