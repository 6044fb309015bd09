package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"deadend/internal/block"
	"deadend/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты поиска на диске по ключу содержимого и оракула.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedBlock is one invalid block: its span and the lines that were still
// visible when the search ended.
type CachedBlock struct {
	Start   uint32
	End     uint32
	Visible []uint32
}

// DiskPayload stores the outcome of one search.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path      string
	Oracle    string
	Calls     uint32
	Blocks    []CachedBlock
	CheckedAt int64 // unix seconds
}

// OpenDiskCache opens a cache rooted at dir. An empty dir selects
// $XDG_CACHE_HOME/deadend (or ~/.cache/deadend).
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "deadend")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "results", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
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

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Payloads of
// another schema count as a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
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
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// blocksToPayload converts search output for caching
func blocksToPayload(path, oracleName string, calls int, blocks []*block.Block) (*DiskPayload, error) {
	payload := &DiskPayload{
		Schema:    diskCacheSchemaVersion,
		Path:      path,
		Oracle:    oracleName,
		CheckedAt: time.Now().Unix(),
	}
	var err error
	if payload.Calls, err = safecast.Conv[uint32](calls); err != nil {
		return nil, err
	}
	for _, b := range blocks {
		var cb CachedBlock
		if cb.Start, err = safecast.Conv[uint32](b.Start()); err != nil {
			return nil, err
		}
		if cb.End, err = safecast.Conv[uint32](b.End()); err != nil {
			return nil, err
		}
		for _, l := range b.VisibleLines() {
			n, err := safecast.Conv[uint32](l.Number)
			if err != nil {
				return nil, err
			}
			cb.Visible = append(cb.Visible, n)
		}
		payload.Blocks = append(payload.Blocks, cb)
	}
	return payload, nil
}

// payloadToBlocks восстанавливает блоки и видимость строк. Записи, не
// совпадающие с документом, отвергаются.
func payloadToBlocks(payload *DiskPayload, lines []*source.Line) ([]*block.Block, bool) {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	visible := make(map[int]bool)
	spans := make([]source.Span, 0, len(payload.Blocks))
	for _, cb := range payload.Blocks {
		start, end := int(cb.Start), int(cb.End)
		if start < 1 || end > len(lines) || start > end {
			return nil, false
		}
		spans = append(spans, source.Span{Start: start, End: end})
		for _, n := range cb.Visible {
			visible[int(n)] = true
		}
	}

	for _, l := range lines {
		if visible[l.Number] {
			l.MarkVisible()
		} else {
			l.MarkInvisible()
		}
	}
	blocks := make([]*block.Block, 0, len(spans))
	for _, s := range spans {
		blocks = append(blocks, block.New(lines[s.Start-1:s.End]))
	}
	return blocks, true
}
