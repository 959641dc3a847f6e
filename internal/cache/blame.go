// Package cache provides the persistent blame cache. Attribution for an
// unchanged repository state never changes, so per-file author lists are
// kept in a bbolt file keyed by repo@commit and replayed on later runs.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

// BlameCache stores per-line author addresses under one bucket per
// repository state, with the file path as key. A small in-memory layer
// fronts the file so long-running processes skip repeat reads.
type BlameCache struct {
	db     *bolt.DB
	mem    *gocache.Cache
	logger *logrus.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats summarizes cache effectiveness for one process lifetime.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Open opens (creating if needed) the cache file at path. The lock timeout
// keeps a second concurrent run from blocking forever on the file lock.
func Open(path string, logger *logrus.Logger) (*BlameCache, error) {
	if logger == nil {
		logger = logrus.New()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open blame cache: %w", err)
	}

	return &BlameCache{
		db:     db,
		mem:    gocache.New(5*time.Minute, 10*time.Minute),
		logger: logger,
	}, nil
}

// Get returns the cached author addresses for path at the given repository
// state. Corrupt entries count as misses.
func (c *BlameCache) Get(stateKey, path string) ([]string, bool) {
	memKey := stateKey + "\x00" + path
	if cached, found := c.mem.Get(memKey); found {
		c.hits.Add(1)
		return cached.([]string), true
	}

	var addrs []string
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(stateKey))
		if bucket == nil {
			return bolt.ErrBucketNotFound
		}
		data := bucket.Get([]byte(path))
		if data == nil {
			return bolt.ErrBucketNotFound
		}
		return json.Unmarshal(data, &addrs)
	})
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}

	c.mem.Set(memKey, addrs, gocache.DefaultExpiration)
	c.hits.Add(1)
	return addrs, true
}

// Put stores the author addresses for path at the given repository state.
func (c *BlameCache) Put(stateKey, path string, addrs []string) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(stateKey))
		if err != nil {
			return err
		}
		data, err := json.Marshal(addrs)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(path), data)
	})
	if err != nil {
		return fmt.Errorf("cache %s: %w", path, err)
	}

	c.mem.Set(stateKey+"\x00"+path, addrs, gocache.DefaultExpiration)
	return nil
}

// Stats returns hit and miss counts since Open.
func (c *BlameCache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Close closes the underlying file.
func (c *BlameCache) Close() error {
	return c.db.Close()
}
