package swr

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync"
)

const shards = 64

// KeyedFetcher produces a value for an identifier.
type KeyedFetcher[K any, V any] func(ctx context.Context, id K) (Fetched[V], error)

type bucket[V any] struct {
	sync.RWMutex
	data map[string]*Single[V]
}

// Keyed maintains an independent Single cache for every distinct key.
//
// Caches are created on first access and retained for the lifetime of Keyed instance.
// Please use NewKeyed to create instance.
type Keyed[K any, V any] struct {
	fetch   KeyedFetcher[K, V]
	keyFunc func(id K) string
	config  Config

	buckets [shards]bucket[V]
	items   xsync.Counter
}

// NewKeyed creates a Keyed cache instance.
func NewKeyed[K any, V any](fetch KeyedFetcher[K, V], options ...func(cfg *KeyedConfig[K])) *Keyed[K, V] {
	cfg := KeyedConfig[K]{}
	for _, option := range options {
		option(&cfg)
	}

	if cfg.KeyFunc == nil {
		cfg.KeyFunc = DefaultKey[K]
	}

	cfg.Config.prepare()

	c := &Keyed[K, V]{
		fetch:   fetch,
		keyFunc: cfg.KeyFunc,
		config:  cfg.Config,
	}

	for i := 0; i < shards; i++ {
		c.buckets[i].data = make(map[string]*Single[V])
	}

	return c
}

// Get returns value for identifier from its cache, see Single.Get.
func (c *Keyed[K, V]) Get(ctx context.Context, id K, forceFresh bool) (Result[V], error) {
	return c.single(ctx, id).Get(ctx, forceFresh)
}

// Len returns number of distinct keys seen.
func (c *Keyed[K, V]) Len() int {
	return int(c.items.Value())
}

// ExpireAll marks all cached values as stale, they will be served once more while refreshing.
func (c *Keyed[K, V]) ExpireAll(ctx context.Context) {
	cnt := 0

	for i := range c.buckets {
		b := &c.buckets[i]

		b.RLock()
		for _, s := range b.data {
			s.mu.Lock()
			if s.expire() {
				cnt++
			}
			s.mu.Unlock()
		}
		b.RUnlock()
	}

	c.config.Logger.Important(ctx, "expired all cached values",
		"name", c.config.Name,
		"count", cnt,
	)
}

func (c *Keyed[K, V]) single(ctx context.Context, id K) *Single[V] {
	key := c.keyFunc(id)
	b := &c.buckets[xxhash.Sum64String(key)%shards]

	b.RLock()
	s, found := b.data[key]
	b.RUnlock()

	if found {
		return s
	}

	b.Lock()
	defer b.Unlock()

	if s, found = b.data[key]; found {
		return s
	}

	s = newSingle(func(ctx context.Context) (Fetched[V], error) {
		return c.fetch(ctx, id)
	}, key, c.config)
	b.data[key] = s

	c.items.Inc()
	c.config.Stats.Set(ctx, MetricItems, float64(c.items.Value()), "name", c.config.Name)
	c.config.Logger.Debug(ctx, "created cache for key", "name", c.config.Name, "key", key)

	return s
}
