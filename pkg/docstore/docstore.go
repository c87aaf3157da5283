// Package docstore keeps JSON documents in bbolt buckets. Accounts and
// profiles share one database file.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// ErrNotFound is returned when a key is absent.
var ErrNotFound = errors.New("docstore: not found")

// DB wraps a bbolt database.
type DB struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the database at path and ensures buckets
// exist.
func Open(path string, buckets ...string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("docstore: ensure dir: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("docstore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("docstore: create buckets: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the database file.
func (d *DB) Close() error {
	return d.db.Close()
}

// Update runs fn in a read-write transaction.
func (d *DB) Update(fn func(tx *Tx) error) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		return fn(&Tx{tx: tx})
	})
}

// View runs fn in a read-only transaction.
func (d *DB) View(fn func(tx *Tx) error) error {
	return d.db.View(func(tx *bbolt.Tx) error {
		return fn(&Tx{tx: tx})
	})
}

// Tx is a transaction scoped to JSON documents.
type Tx struct {
	tx *bbolt.Tx
}

func (t *Tx) bucket(name string) (*bbolt.Bucket, error) {
	if t.tx.Writable() {
		return t.tx.CreateBucketIfNotExists([]byte(name))
	}
	b := t.tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("docstore: bucket %s not found", name)
	}
	return b, nil
}

// Raw returns the stored value of key, or nil.
func (t *Tx) Raw(bucket, key string) ([]byte, error) {
	b, err := t.bucket(bucket)
	if err != nil {
		return nil, err
	}
	return b.Get([]byte(key)), nil
}

// PutRaw stores value under key.
func (t *Tx) PutRaw(bucket, key string, value []byte) error {
	b, err := t.bucket(bucket)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), value)
}

// Delete removes key.
func (t *Tx) Delete(bucket, key string) error {
	b, err := t.bucket(bucket)
	if err != nil {
		return err
	}
	return b.Delete([]byte(key))
}

// Put stores value as JSON under key.
func Put[T any](t *Tx, bucket, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.PutRaw(bucket, key, data)
}

// Get decodes key. A missing key returns ErrNotFound.
func Get[T any](t *Tx, bucket, key string) (*T, error) {
	v, err := t.Raw(bucket, key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List decodes every document of bucket in key order.
func List[T any](t *Tx, bucket string) ([]T, error) {
	b, err := t.bucket(bucket)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	err = b.ForEach(func(k, v []byte) error {
		var doc T
		if err := json.Unmarshal(v, &doc); err != nil {
			return fmt.Errorf("docstore: decode %s/%s: %w", bucket, k, err)
		}
		out = append(out, doc)
		return nil
	})
	return out, err
}
