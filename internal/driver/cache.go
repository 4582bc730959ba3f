package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"enumflags/internal/project"
	"enumflags/internal/source"
	"enumflags/internal/version"
)

// Schema version of CachePayload; bump when the layout changes.
const cacheSchemaVersion uint16 = 1

// DiskCache stores generated files keyed by input content, defaults and tool
// version. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is one cached generation. Only clean runs, without any
// diagnostic, are stored.
type CachePayload struct {
	Schema  uint16
	Version string
	Path    string
	Package string
	Units   int
	Output  []byte
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app>, or ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses dir as the cache root.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

// CacheKey digests everything that determines the generated output.
func CacheKey(file *source.File, m *project.Manifest) project.Digest {
	g := m.Generate
	return project.Combine(file.Hash,
		[]byte(version.Version),
		[]byte(g.Package),
		[]byte(g.Empty),
		[]byte(fmt.Sprint(g.Bits)),
		[]byte(filepath.ToSlash(file.Path)),
	)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "gen", key.String()+".mp")
}

// Put writes payload atomically.
func (c *DiskCache) Put(key project.Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	payload.Schema = cacheSchemaVersion
	payload.Version = version.Version
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload; ok is false on a miss or a stale schema.
func (c *DiskCache) Get(key project.Digest, out *CachePayload) (bool, error) {
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
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchemaVersion || out.Version != version.Version {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "gen"))
}
