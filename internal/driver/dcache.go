package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"architect/internal/project"
)

// Current schema version - increment when DiskPayload or key layout changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores translated units by cache key. Thread-safe.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached translation.
type DiskPayload struct {
	Schema uint16
	Entity string
	Key    project.Digest
	Text   []byte
	Stored time.Time
}

// OpenDiskCache opens (creating if needed) the cache rooted at dir,
// normally project.Manifest.CacheDir().
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "units", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	payload.Key = key
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry, or one written by another schema
// version or under another key, is a miss rather than an error.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Key != key {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll removes every cached unit.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	units := filepath.Join(c.dir, "units")
	// переименуем каталог, чтобы параллельный Get не увидел половину
	old := units + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(units, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// cacheKeyInput is hashed to form a cache key; field order is part of the
// key layout.
type cacheKeyInput struct {
	Schema  uint16
	Tool    string
	Options Options
	Decl    project.EntityDecl
}

// CacheKey derives the cache key of a manifest entity: the tool version,
// the emit options and the declaration itself.
func CacheKey(toolVersion string, opts Options, decl project.EntityDecl) (project.Digest, error) {
	data, err := msgpack.Marshal(cacheKeyInput{
		Schema:  diskCacheSchemaVersion,
		Tool:    toolVersion,
		Options: opts,
		Decl:    decl,
	})
	if err != nil {
		return project.Digest{}, fmt.Errorf("cache key for %s: %w", decl.Name, err)
	}
	return project.Sum(data), nil
}
