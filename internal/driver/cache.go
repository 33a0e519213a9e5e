package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// cacheSchema is bumped whenever ResultPayload changes shape; entries with
// another schema read as misses.
const cacheSchema uint16 = 1

// Digest keys cache entries.
type Digest = [32]byte

// DiskCache remembers files that produced no findings, keyed by content,
// configuration, recipe set and tool version. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// ResultPayload is the cached outcome for one file.
type ResultPayload struct {
	Schema   uint16   `msgpack:"schema"`
	Path     string   `msgpack:"path"`
	FileHash Digest   `msgpack:"file_hash"`
	Recipes  []string `msgpack:"recipes"`
	// Clean means the last run reported nothing and changed nothing.
	Clean bool `msgpack:"clean"`
}

// OpenDiskCache opens the cache for app under the user cache directory
// ($XDG_CACHE_HOME or ~/.cache on Linux).
func OpenDiskCache(app string) (*DiskCache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("no user cache dir: %w", err)
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) results() string { return filepath.Join(c.dir, "results") }

// entry shards by the first key byte so no directory grows too large.
func (c *DiskCache) entry(key Digest) string {
	name := hex.EncodeToString(key[:])
	return filepath.Join(c.results(), name[:2], name+".mp")
}

// Put stores payload under key. The file is written to a temp name and
// renamed, so readers never see a partial entry.
func (c *DiskCache) Put(key Digest, payload *ResultPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = cacheSchema
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	dst := c.entry(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(dst), "tmp-*")
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	err = errors.Join(err, f.Close())
	if err == nil {
		err = os.Rename(f.Name(), dst)
	}
	if err != nil {
		_ = os.Remove(f.Name())
	}
	return err
}

// Get loads the entry for key into out. Missing entries and entries of
// another schema report false without an error.
func (c *DiskCache) Get(key Digest, out *ResultPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.entry(key))
	c.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return out.Schema == cacheSchema, nil
}

// DropAll removes every entry and returns how many there were.
func (c *DiskCache) DropAll() (int, error) {
	if c == nil {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	err := filepath.WalkDir(c.results(), func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && filepath.Ext(d.Name()) == ".mp" {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(c.results()); err != nil {
		return 0, err
	}
	return n, nil
}

// combineDigest hashes content, config, recipe names and version together.
// Names are NUL-terminated so that ["ab","c"] and ["a","bc"] differ.
func combineDigest(content, config Digest, recipes []string, ver string) Digest {
	h := sha256.New()
	h.Write(content[:])
	h.Write(config[:])
	for _, name := range recipes {
		h.Write(append([]byte(name), 0))
	}
	h.Write([]byte(ver))
	return Digest(h.Sum(nil))
}
