// Package cache provides file-based caching of parsed module
// descriptors, keyed by path and invalidated by content hash.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sweepr/sweepr/pkg/models"
	"github.com/zeebo/blake3"
)

// Cache stores one entry per source file under a directory.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry wraps a cached descriptor with the source hash it was built
// from and the time it was written.
type Entry struct {
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// New creates a new cache instance. A disabled cache is a no-op.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// HashFile computes a BLAKE3 hash of a file's contents.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GetDescriptor returns the cached descriptor for a file if the stored
// hash matches the current source hash and the entry is not expired.
func (c *Cache) GetDescriptor(path, hash string) (*models.ModuleDescriptor, bool) {
	if !c.enabled {
		return nil, false
	}

	data, err := os.ReadFile(c.keyPath(path))
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Hash != hash {
		return nil, false
	}
	if time.Since(entry.Timestamp) > c.ttl {
		os.Remove(c.keyPath(path))
		return nil, false
	}

	var desc models.ModuleDescriptor
	if err := json.Unmarshal(entry.Data, &desc); err != nil {
		return nil, false
	}
	return &desc, true
}

// SetDescriptor stores a descriptor keyed by file path and source hash.
func (c *Cache) SetDescriptor(path, hash string, desc *models.ModuleDescriptor) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(desc)
	if err != nil {
		return err
	}

	entry := Entry{
		Hash:      hash,
		Timestamp: time.Now(),
		Data:      data,
	}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(path), entryData, 0600)
}

// Invalidate removes the entry for a file.
func (c *Cache) Invalidate(path string) error {
	if !c.enabled {
		return nil
	}
	return os.Remove(c.keyPath(path))
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath converts a file path to a cache entry path. The key is hashed
// so path separators and long paths never leak into filenames.
func (c *Cache) keyPath(key string) string {
	hash := blake3.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}

// Stats summarizes the cache directory contents.
type Stats struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
