package mcpserver

import (
	"container/list"
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/apiparser/result"
	"github.com/erraggy/apiparser/strategy"
)

// cacheKey identifies one parse: the document source and the mode it was
// parsed with.
type cacheKey struct {
	source string
	mode   strategy.Mode
}

// fileStamp records the size and modification time of a file a result was
// built from. A file that could not be stat'ed is stamped with -1 for both.
type fileStamp struct {
	path    string
	size    int64
	modTime int64
}

func stampFile(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{path: path, size: -1, modTime: -1}
	}
	return fileStamp{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
}

type cachedResult struct {
	key       cacheKey
	res       *result.Result
	files     []fileStamp
	expiresAt time.Time
}

// current reports whether none of the files the result was built from has
// changed on disk.
func (e *cachedResult) current() bool {
	for _, f := range e.files {
		if stampFile(f.path) != f {
			return false
		}
	}
	return true
}

// resultCache holds parse results for repeated tool calls on the same
// document. An entry is dropped when its TTL passes, when any file it was
// built from changes, or when it is the least recently used entry and the
// cache is full.
type resultCache struct {
	mu       sync.Mutex
	maxSize  int
	order    *list.List // of *cachedResult, most recently used first
	entries  map[cacheKey]*list.Element
	sweeping atomic.Bool
}

func newResultCache(maxSize int) *resultCache {
	return &resultCache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[cacheKey]*list.Element),
	}
}

var parseResults = newResultCache(cfg.CacheMaxSize)

// get returns the cached result for key, or nil when there is none or it
// is no longer current.
func (c *resultCache) get(key cacheKey) *result.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil
	}
	e := el.Value.(*cachedResult)
	if time.Now().After(e.expiresAt) || !e.current() {
		c.remove(el)
		return nil
	}
	c.order.MoveToFront(el)
	return e.res
}

// put stores res under key with the stamps of the files it was built from.
func (c *resultCache) put(key cacheKey, res *result.Result, files []fileStamp, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &cachedResult{key: key, res: res, files: files, expiresAt: time.Now().Add(ttl)}
	if el, ok := c.entries[key]; ok {
		el.Value = e
		c.order.MoveToFront(el)
		return
	}
	for c.order.Len() > 0 && c.order.Len() >= c.maxSize {
		c.remove(c.order.Back())
	}
	c.entries[key] = c.order.PushFront(e)
}

// remove drops el. Callers hold c.mu.
func (c *resultCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*cachedResult).key)
}

// sweep drops every expired entry. Files are not stat'ed here; changed
// files are noticed by get.
func (c *resultCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if now.After(el.Value.(*cachedResult).expiresAt) {
			c.remove(el)
		}
		el = next
	}
}

// startSweeper sweeps the cache every interval until ctx is done. Only the
// first call starts a sweeper.
func (c *resultCache) startSweeper(ctx context.Context, interval time.Duration) {
	if !c.sweeping.CompareAndSwap(false, true) {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer c.sweeping.Store(false)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset empties the cache.
func (c *resultCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.entries)
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
