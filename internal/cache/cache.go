package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/spf13/afero"
)

const (
	cacheVersion     = 1
	DefaultTTL       = 30 * 24 * time.Hour
	cacheDirName     = "residences"
	sessionCacheName = "sessions"
	memoryEntries    = 32
	entryExt         = ".bin"
)

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrCacheExpired = errors.New("cache expired")
	ErrCacheCorrupt = errors.New("cache corrupt")
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// SessionEntry is where a document was left: the section on screen and the
// scroll offset inside it.
type SessionEntry struct {
	Version   uint8
	Source    string
	Section   string
	Offset    float64
	CreatedAt int64
	ExpiresAt int64
}

type SessionCache struct {
	fs       afero.Fs
	basePath string
	ttl      time.Duration
	mem      *lru.Cache
	now      func() time.Time
}

// New stores sessions under dir on fs. an empty dir keeps them in memory only.
func New(fs afero.Fs, dir string, ttl time.Duration) (*SessionCache, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	mem, err := lru.New(memoryEntries)
	if err != nil {
		return nil, err
	}

	if dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir: %w", err)
		}
	}

	return &SessionCache{
		fs:       fs,
		basePath: dir,
		ttl:      ttl,
		mem:      mem,
		now:      time.Now,
	}, nil
}

// NewDefault opens the cache under the user's cache directory, falling back
// to a memory-only cache when that directory is unusable.
func NewDefault() *SessionCache {
	dir, err := DefaultDir()
	if err == nil {
		if c, err := New(afero.NewOsFs(), dir, DefaultTTL); err == nil {
			return c
		}
	}
	c, _ := New(afero.NewMemMapFs(), "", DefaultTTL)
	return c
}

func DefaultDir() (string, error) {
	// xdg cache home takes priority
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, cacheDirName, sessionCacheName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cache", cacheDirName, sessionCacheName), nil
}

func (c *SessionCache) Path() string {
	return c.basePath
}

func generateKey(source string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(source)))
	return hex.EncodeToString(hash[:12])
}

func (c *SessionCache) filePath(key string) string {
	if c.basePath == "" {
		return ""
	}
	return filepath.Join(c.basePath, key+entryExt)
}

func (c *SessionCache) Get(source string) (*SessionEntry, error) {
	if source == "" {
		return nil, ErrCacheMiss
	}

	key := generateKey(source)
	now := c.now().Unix()

	if v, ok := c.mem.Get(key); ok {
		entry := v.(*SessionEntry)
		if entry.ExpiresAt > now {
			return entry, nil
		}
		c.mem.Remove(key)
	}

	if c.basePath == "" {
		return nil, ErrCacheMiss
	}

	path := c.filePath(key)
	entry, err := c.readFromDisk(path)
	if err != nil {
		return nil, err
	}

	if entry.ExpiresAt <= now {
		_ = c.fs.Remove(path)
		return nil, ErrCacheExpired
	}

	c.mem.Add(key, entry)
	return entry, nil
}

func (c *SessionCache) Set(entry *SessionEntry) error {
	if entry == nil || entry.Source == "" {
		return ErrInvalidEntry
	}

	key := generateKey(entry.Source)

	now := c.now()
	entry.Version = cacheVersion
	entry.CreatedAt = now.Unix()
	entry.ExpiresAt = now.Add(c.ttl).Unix()

	c.mem.Add(key, entry)

	if c.basePath == "" {
		return nil
	}
	return c.writeToDisk(c.filePath(key), entry)
}

func (c *SessionCache) Delete(source string) error {
	if source == "" {
		return ErrInvalidEntry
	}

	key := generateKey(source)
	c.mem.Remove(key)

	if c.basePath == "" {
		return nil
	}

	err := c.fs.Remove(c.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *SessionCache) Clear() error {
	c.mem.Purge()

	names, err := c.entryFiles()
	if err != nil {
		return err
	}
	for _, name := range names {
		_ = c.fs.Remove(filepath.Join(c.basePath, name))
	}
	return nil
}

// Prune removes expired and unreadable entries and reports how many went.
func (c *SessionCache) Prune() (int, error) {
	names, err := c.entryFiles()
	if err != nil {
		return 0, err
	}

	pruned := 0
	now := c.now().Unix()
	for _, name := range names {
		path := filepath.Join(c.basePath, name)
		entry, err := c.readFromDisk(path)
		if err != nil || entry.ExpiresAt <= now {
			_ = c.fs.Remove(path)
			c.mem.Remove(strings.TrimSuffix(name, entryExt))
			pruned++
		}
	}
	return pruned, nil
}

func (c *SessionCache) Stats() (count int, sizeBytes int64, err error) {
	if c.basePath == "" {
		return c.mem.Len(), 0, nil
	}

	infos, err := afero.ReadDir(c.fs, c.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), entryExt) {
			continue
		}
		count++
		sizeBytes += info.Size()
	}
	return count, sizeBytes, nil
}

func (c *SessionCache) ListAll() ([]*SessionEntry, error) {
	if c.basePath == "" {
		var out []*SessionEntry
		for _, key := range c.mem.Keys() {
			if v, ok := c.mem.Peek(key); ok {
				out = append(out, v.(*SessionEntry))
			}
		}
		return out, nil
	}

	names, err := c.entryFiles()
	if err != nil {
		return nil, err
	}

	var result []*SessionEntry
	for _, name := range names {
		entry, err := c.readFromDisk(filepath.Join(c.basePath, name))
		if err != nil {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (c *SessionCache) entryFiles() ([]string, error) {
	if c.basePath == "" {
		return nil, nil
	}

	infos, err := afero.ReadDir(c.fs, c.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(info.Name(), entryExt) {
			names = append(names, info.Name())
		}
	}
	return names, nil
}

func (c *SessionCache) readFromDisk(path string) (*SessionEntry, error) {
	file, err := c.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	defer file.Close()

	var entry SessionEntry
	if err := gob.NewDecoder(file).Decode(&entry); err != nil {
		return nil, ErrCacheCorrupt
	}

	// version mismatch means stale format
	if entry.Version != cacheVersion {
		_ = c.fs.Remove(path)
		return nil, ErrCacheCorrupt
	}

	return &entry, nil
}

func (c *SessionCache) writeToDisk(path string, entry *SessionEntry) error {
	// write to temp file first, then rename for atomicity
	tmpPath := path + ".tmp"

	file, err := c.fs.Create(tmpPath)
	if err != nil {
		return err
	}

	if err := gob.NewEncoder(file).Encode(entry); err != nil {
		file.Close()
		_ = c.fs.Remove(tmpPath)
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		_ = c.fs.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		_ = c.fs.Remove(tmpPath)
		return err
	}

	return c.fs.Rename(tmpPath, path)
}
