package loader

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/peterbourgon/diskv/v3"
)

const cacheSizeMax = 4 << 20

// responseCache keeps the last good body of every URL source so a later
// fetch failure can still serve the page.
type responseCache struct {
	d *diskv.Diskv
}

func newResponseCache(dir string) *responseCache {
	if dir == "" {
		return nil
	}
	return &responseCache{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    shardTransform,
		CacheSizeMax: cacheSizeMax,
	})}
}

// shardTransform spreads keys over 256 directories.
func shardTransform(key string) []string {
	if len(key) < 2 {
		return []string{}
	}
	return []string{key[:2]}
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (c *responseCache) get(url string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	key := cacheKey(url)
	if !c.d.Has(key) {
		return nil, false
	}
	data, err := c.d.Read(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *responseCache) put(url string, data []byte) error {
	if c == nil {
		return nil
	}
	return c.d.Write(cacheKey(url), data)
}
