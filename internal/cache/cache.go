// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache stores finished reports in a bbolt file keyed by the inputs
// that produced them. Entries older than the TTL are ignored.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/bartekus/omnilens/internal/logging"
)

const bucketName = "reports"

// DefaultTTL is how long an entry stays valid.
const DefaultTTL = 24 * time.Hour

type entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// Cache is a bbolt-backed key/value store of JSON payloads.
type Cache struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
	log logrus.FieldLogger
}

// Open opens or creates the cache file at path. A zero ttl means DefaultTTL.
func Open(path string, ttl time.Duration, log logrus.FieldLogger) (*Cache, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logging.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	return &Cache{
		db:  db,
		ttl: ttl,
		now: time.Now,
		log: log.WithField("component", "cache"),
	}, nil
}

// Path returns the location of the cache file.
func (c *Cache) Path() string { return c.db.Path() }

// Key hashes the parts into a short stable key.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])[:16]
}

// Get decodes the entry for key into v. It reports false for a missing or
// expired entry.
func (c *Cache) Get(key string, v any) (bool, error) {
	var e entry
	found := false
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return nil
		}
		data := bucket.Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if c.now().Sub(e.StoredAt) >= c.ttl {
		c.log.WithField("key", key).Debug("cache entry expired")
		return false, nil
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	c.log.WithField("key", key).Debug("cache hit")
	return true, nil
}

// Put stores v under key.
func (c *Cache) Put(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	data, err := json.Marshal(entry{StoredAt: c.now(), Payload: payload})
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), data)
	})
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() (int, error) {
	n := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket([]byte(bucketName)); bucket != nil {
			n = bucket.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// Clear removes every entry and returns how many there were.
func (c *Cache) Clear() (int, error) {
	n, err := c.Len()
	if err != nil {
		return 0, err
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(bucketName)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(bucketName))
	})
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return n, nil
}

// Close releases the underlying file.
func (c *Cache) Close() error {
	return c.db.Close()
}
