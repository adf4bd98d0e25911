package service

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zzenonn/zhost/internal/domain"
)

// ObjectCache holds fetched objects by FetchKey. Implementations are safe for
// concurrent use.
type ObjectCache interface {
	Get(key domain.FetchKey) (domain.ObjectContent, bool)
	Add(key domain.FetchKey, content domain.ObjectContent)
	Len() int
}

// NewObjectCache returns an LRU cache bounded to size entries. A size of zero
// or less disables caching entirely.
func NewObjectCache(size int) ObjectCache {
	if size <= 0 {
		return noCache{}
	}
	cache, err := lru.New[domain.FetchKey, domain.ObjectContent](size)
	if err != nil {
		// lru.New only errors on non-positive size which we guard above.
		return noCache{}
	}
	return &lruObjectCache{cache: cache}
}

type lruObjectCache struct {
	cache *lru.Cache[domain.FetchKey, domain.ObjectContent]
}

func (c *lruObjectCache) Get(key domain.FetchKey) (domain.ObjectContent, bool) {
	return c.cache.Get(key)
}

func (c *lruObjectCache) Add(key domain.FetchKey, content domain.ObjectContent) {
	c.cache.Add(key, content)
}

func (c *lruObjectCache) Len() int {
	return c.cache.Len()
}

type noCache struct{}

func (noCache) Get(domain.FetchKey) (domain.ObjectContent, bool) { return domain.ObjectContent{}, false }
func (noCache) Add(domain.FetchKey, domain.ObjectContent)        {}
func (noCache) Len() int                                         { return 0 }
