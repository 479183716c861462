// Package stamp remembers which header and policy produced each binding file.
package stamp

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"
)

// schemaVersion is bumped whenever the on-disk layout changes.
const schemaVersion uint16 = 1

// DefaultPath is the cache location relative to the project root.
const DefaultPath = ".nxsdl/stamps.mp"

// Digest is a sha256 sum.
type Digest [32]byte

// Stamp records the inputs of one generated output.
type Stamp struct {
	Header Digest
	Policy Digest
	Output Digest
}

type diskFile struct {
	Schema  uint16
	Entries map[string]Stamp
}

// Cache is a msgpack-backed stamp store keyed by output path.
// Safe for concurrent use.
//
// Keys are slash separated and NFC normalized, so a path read back from a
// filesystem that decomposes names still finds its entry.
type Cache struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Stamp
	dirty   bool
}

// Open loads the cache at path. A missing file or an unknown schema yields an
// empty cache.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]Stamp)}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	var disk diskFile
	if err := msgpack.NewDecoder(f).Decode(&disk); err != nil {
		return nil, fmt.Errorf("%s: failed to decode stamps: %w", path, err)
	}
	if disk.Schema != schemaVersion {
		return c, nil
	}
	for k, v := range disk.Entries {
		c.entries[key(k)] = v
	}
	return c, nil
}

// Path returns the file backing the cache.
func (c *Cache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Lookup returns the stamp recorded for output.
func (c *Cache) Lookup(output string) (Stamp, bool) {
	if c == nil {
		return Stamp{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[key(output)]
	return s, ok
}

// Record stores s for output.
func (c *Cache) Record(output string, s Stamp) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(output)] = s
	c.dirty = true
}

// Forget drops the stamp for output.
func (c *Cache) Forget(output string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(output)
	if _, ok := c.entries[k]; ok {
		delete(c.entries, k)
		c.dirty = true
	}
}

func key(output string) string {
	return norm.NFC.String(filepath.ToSlash(output))
}

// Save writes the cache atomically if anything changed.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = os.Remove(tmp)
	}()
	disk := diskFile{Schema: schemaVersion, Entries: c.entries}
	if err := msgpack.NewEncoder(f).Encode(&disk); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// DigestFile hashes the contents of path.
func DigestFile(path string) (Digest, error) {
	var d Digest
	f, err := os.Open(path)
	if err != nil {
		return d, err
	}
	defer func() {
		_ = f.Close()
	}()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return d, err
	}
	copy(d[:], h.Sum(nil))
	return d, nil
}

// DigestStrings hashes parts with a separator so that ("ab","c") and
// ("a","bc") differ.
func DigestStrings(parts ...string) Digest {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
