package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// ErrNotFound is returned by Read when a slot has never been written.
var ErrNotFound = errors.New("store: slot not found")

// Slots is a named key-value store. Keys are dotted names such as
// "tasks" or "tasks.<uid>"; the first segment groups slots on disk.
type Slots interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Erase(key string) error
	Keys(ctx context.Context, prefix string) []string
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates Slots backed by diskv under cfg's base path.
func Load(cfg Config) (Slots, error) {
	if cfg == nil {
		return nil, errors.New("store: config required")
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &slots{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
	}), basePath: basePath}, nil
}

type slots struct {
	d        *diskv.Diskv
	basePath string
}

func (s *slots) Read(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if !s.d.Has(key) {
		return nil, ErrNotFound
	}
	// Direct read: other processes write the same slots.
	rc, err := s.d.ReadStream(key, true)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	defer rc.Close()
	val, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return val, nil
}

func (s *slots) Write(key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (s *slots) Erase(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func (s *slots) Keys(ctx context.Context, prefix string) []string {
	keys := make([]string, 0)
	for key := range s.d.Keys(ctx.Done()) {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ReadJSON decodes slot key into v. A missing slot leaves v untouched and
// returns ErrNotFound.
func ReadJSON(s Slots, key string, v interface{}) error {
	data, err := s.Read(key)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: decode %s: %w", key, err)
	}
	return nil
}

// WriteJSON encodes v into slot key.
func WriteJSON(s Slots, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return s.Write(key, data)
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("store: slot key required")
	}
	return nil
}

// keyToPathTransform stores "tasks.u1" as <base>/<b64 "tasks">/<b64 "tasks.u1">.
func keyToPathTransform(key string) *diskv.PathKey {
	group := key
	if i := strings.Index(key, "."); i >= 0 {
		group = key[:i]
	}
	return &diskv.PathKey{
		Path:     []string{encode(group)},
		FileName: encode(key),
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return decode(pathKey.FileName)
}

func encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decode(s string) string {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(b)
}
