package swr

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Fetched is a result of fetcher.
type Fetched[V any] struct {
	Value V

	// MaxAge is a duration after which value becomes stale.
	// DefaultMaxAge (zero) means Config.DefaultMaxAge, AlwaysStale marks value stale right away.
	MaxAge time.Duration
}

// Result is a value served by cache.
type Result[V any] struct {
	Value V

	// Stale is true if value has outlived its max age, refresh is already started in background.
	Stale bool
}

// Fetcher produces a value for cache.
type Fetcher[V any] func(ctx context.Context) (Fetched[V], error)

// entry is a value that has completed fetching.
type entry[V any] struct {
	value     V
	fetchedAt time.Time
	maxAge    time.Duration
	expired   bool
}

// flight is an active fetch shared by all of its waiters.
type flight[V any] struct {
	done chan struct{}
	res  Result[V]
	err  error
}

// Single serves latest known value of one resource and refreshes it in background once it is stale.
//
// Please use NewSingle to create instance.
type Single[V any] struct {
	fetch  Fetcher[V]
	key    string
	config Config

	mu     sync.Mutex // Securing entry and flight.
	entry  *entry[V]
	flight *flight[V]
}

// NewSingle creates a Single cache instance.
//
// At most one fetch is active at any time, concurrent callers share its result.
func NewSingle[V any](fetch Fetcher[V], options ...func(cfg *Config)) *Single[V] {
	cfg := Config{}
	for _, option := range options {
		option(&cfg)
	}

	return newSingle(fetch, "", cfg)
}

func newSingle[V any](fetch Fetcher[V], key string, cfg Config) *Single[V] {
	cfg.prepare()

	return &Single[V]{
		fetch:  fetch,
		key:    key,
		config: cfg,
	}
}

// Get returns cached value or waits for a fetch.
//
// Fresh cached value is returned as is. Stale cached value is returned with Result.Stale
// and a background refresh is started, the caller does not wait for it. Without cached
// value the caller waits for an active fetch, starting one if there is none.
//
// With forceFresh (or context made with cache.WithSkipRead) fetcher is invoked directly
// and cached state is neither read nor updated.
func (s *Single[V]) Get(ctx context.Context, forceFresh bool) (Result[V], error) {
	if isForceFresh(ctx, forceFresh) {
		return s.getFresh(ctx)
	}

	s.mu.Lock()

	if e := s.entry; e != nil {
		if !s.isStale(e) {
			s.mu.Unlock()
			s.config.Stats.Add(ctx, MetricHit, 1, "name", s.config.Name)

			return Result[V]{Value: e.value}, nil
		}

		s.startFetch(ctx)
		s.mu.Unlock()

		s.config.Stats.Add(ctx, MetricStale, 1, "name", s.config.Name)
		s.config.Logger.Debug(ctx, "serving stale value, refreshing in background",
			"name", s.config.Name,
			"key", s.key,
			"fetchedAt", e.fetchedAt)

		return Result[V]{Value: e.value, Stale: true}, nil
	}

	fl := s.flight
	if fl != nil {
		s.mu.Unlock()
		s.config.Stats.Add(ctx, MetricWait, 1, "name", s.config.Name)
		s.config.Logger.Debug(ctx, "waiting for active fetch", "name", s.config.Name, "key", s.key)
	} else {
		fl = s.startFetch(ctx)
		s.mu.Unlock()
		s.config.Stats.Add(ctx, MetricMiss, 1, "name", s.config.Name)
	}

	return s.wait(ctx, fl)
}

// Peek returns cached value without starting a fetch.
//
// False is returned if there is no value, for example when a fetch is active.
func (s *Single[V]) Peek() (Result[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry == nil {
		return Result[V]{}, false
	}

	return Result[V]{Value: s.entry.value, Stale: s.isStale(s.entry)}, true
}

// ExpireAll marks cached value as stale, it will be served once more while refreshing.
func (s *Single[V]) ExpireAll(ctx context.Context) {
	s.mu.Lock()
	expired := s.expire()
	s.mu.Unlock()

	if expired {
		s.config.Logger.Important(ctx, "expired cached value", "name", s.config.Name, "key", s.key)
	}
}

// expire marks entry stale, must be called with mu held.
func (s *Single[V]) expire() bool {
	if s.entry == nil {
		return false
	}

	s.entry.expired = true

	return true
}

func (s *Single[V]) isStale(e *entry[V]) bool {
	return e.expired || s.config.Clock.Since(e.fetchedAt) > e.maxAge
}

func (s *Single[V]) getFresh(ctx context.Context) (Result[V], error) {
	s.config.Stats.Add(ctx, MetricForceFresh, 1, "name", s.config.Name)
	s.config.Stats.Add(ctx, MetricFetch, 1, "name", s.config.Name)

	f, err := s.fetch(ctx)
	if err != nil {
		s.config.Stats.Add(ctx, MetricFetchFailed, 1, "name", s.config.Name)

		return Result[V]{}, err
	}

	return Result[V]{Value: f.Value}, nil
}

// startFetch clears cached value and runs fetcher in background, must be called with mu held.
func (s *Single[V]) startFetch(ctx context.Context) *flight[V] {
	fl := &flight[V]{done: make(chan struct{})}

	s.entry = nil
	s.flight = fl

	s.config.Stats.Add(ctx, MetricFetch, 1, "name", s.config.Name)

	go s.run(detachedContext{ctx}, fl)

	return fl
}

func (s *Single[V]) run(ctx context.Context, fl *flight[V]) {
	var (
		f   Fetched[V]
		err error
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrFetchPanicked, r)
		}

		s.mu.Lock()
		if s.flight == fl {
			s.flight = nil
		}

		if err == nil {
			maxAge := f.MaxAge
			if maxAge == DefaultMaxAge {
				maxAge = s.config.DefaultMaxAge
			}

			s.entry = &entry[V]{
				value:     f.Value,
				fetchedAt: s.config.Clock.Now(),
				maxAge:    maxAge,
			}
			fl.res = Result[V]{Value: f.Value}
		} else {
			fl.err = err
		}
		s.mu.Unlock()

		if err != nil {
			s.config.Stats.Add(ctx, MetricFetchFailed, 1, "name", s.config.Name)
		}

		close(fl.done)

		s.config.Logger.Debug(ctx, "fetch finished",
			"name", s.config.Name,
			"key", s.key,
			"error", err)
	}()

	s.config.Logger.Debug(ctx, "fetching value", "name", s.config.Name, "key", s.key)

	f, err = s.fetch(ctx)
}

func (s *Single[V]) wait(ctx context.Context, fl *flight[V]) (Result[V], error) {
	// Finished fetch wins over ended context.
	select {
	case <-fl.done:
		return fl.res, fl.err
	default:
	}

	select {
	case <-fl.done:
		return fl.res, fl.err
	case <-ctx.Done():
		return Result[V]{}, ctx.Err()
	}
}
