package swr

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

const (
	// DefaultMaxAge in Fetched indicates max age was not specified by fetcher, Config.DefaultMaxAge is used.
	DefaultMaxAge = time.Duration(0)

	// AlwaysStale in Fetched indicates value becomes stale right after it was fetched.
	AlwaysStale = time.Duration(-1)
)

// Config controls cache instance.
type Config struct {
	// Name is added to logs and stats.
	Name string

	// Logger collects messages with context, can be nil.
	Logger ctxd.Logger

	// Stats tracks stats, can be nil.
	Stats stats.Tracker

	// DefaultMaxAge is applied to fetched values that do not specify own max age, default 1s.
	DefaultMaxAge time.Duration

	// Clock is a source of time to measure value age, wall clock by default.
	Clock clock.Clock
}

// Use is a functional option to apply configuration.
func (c Config) Use(cfg *Config) {
	*cfg = c
}

func (c *Config) prepare() {
	if c.DefaultMaxAge == 0 {
		c.DefaultMaxAge = time.Second
	}

	if c.Logger == nil {
		c.Logger = ctxd.NoOpLogger{}
	}

	if c.Stats == nil {
		c.Stats = stats.NoOp{}
	}

	if c.Clock == nil {
		c.Clock = clock.New()
	}
}

// KeyedConfig controls Keyed cache instance.
type KeyedConfig[K any] struct {
	Config

	// KeyFunc derives cache key from identifier, DefaultKey is used if nil.
	//
	// Identifiers with same key share cached value and active fetch.
	KeyFunc func(id K) string
}

// Use is a functional option to apply configuration.
func (c KeyedConfig[K]) Use(cfg *KeyedConfig[K]) {
	*cfg = c
}
