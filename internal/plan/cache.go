package plan

import (
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"caster/internal/mapping"
)

// Observer is notified of every plan compiled, with the time it took.
type Observer func(pair mapping.TypePair, took time.Duration)

// Cache holds one plan per type pair. Concurrent requests for a missing
// pair share a single compilation; failures are not cached.
type Cache struct {
	entries sync.Map // mapping.TypePair -> *Plan
	flight  singleflight.Group
	ids     sync.Map // reflect.Type -> uint64
	nextID  atomic.Uint64
	compile func(mapping.TypePair) (*Plan, error)
	observe Observer
	size    atomic.Int64
}

// NewCache creates a cache compiling missing plans with compile.
func NewCache(compile func(mapping.TypePair) (*Plan, error), observe Observer) *Cache {
	return &Cache{compile: compile, observe: observe}
}

// Load returns the cached plan of pair.
func (c *Cache) Load(pair mapping.TypePair) (*Plan, bool) {
	v, ok := c.entries.Load(pair)
	if !ok {
		return nil, false
	}

	return v.(*Plan), true
}

// GetOrCompile returns the plan of pair, compiling it on first use.
func (c *Cache) GetOrCompile(pair mapping.TypePair) (*Plan, error) {
	if p, ok := c.Load(pair); ok {
		return p, nil
	}

	v, err, _ := c.flight.Do(c.key(pair), func() (any, error) {
		if p, ok := c.Load(pair); ok {
			return p, nil
		}

		start := time.Now()

		p, err := c.compile(pair)
		if err != nil {
			return nil, err
		}

		c.entries.Store(pair, p)
		c.size.Add(1)

		if c.observe != nil {
			c.observe(pair, time.Since(start))
		}

		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Plan), nil
}

// Len is the number of cached plans.
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// key names pair for the flight group. Types are interned to small ids so
// two distinct types sharing a name never collide.
func (c *Cache) key(pair mapping.TypePair) string {
	return strconv.FormatUint(c.id(pair.Source), 36) + ":" + strconv.FormatUint(c.id(pair.Destination), 36)
}

func (c *Cache) id(t reflect.Type) uint64 {
	if v, ok := c.ids.Load(t); ok {
		return v.(uint64)
	}

	v, _ := c.ids.LoadOrStore(t, c.nextID.Add(1))

	return v.(uint64)
}
