package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
)

const maxCacheEntries = 512

// Compiled pairs a validator with the default values of the same schema.
// A Compiled is shared between callers; Schema and Validator must not be modified.
type Compiled struct {
	Schema    Schema
	Validator *Validator
	defaults  map[string]any
}

// Defaults returns a fresh copy of the schema's default values.
func (c *Compiled) Defaults() map[string]any {
	return maps.Clone(c.defaults)
}

// Cache memoizes compiled schemas by value, so equal field lists that arrive
// on different requests reuse one validator.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Compiled
}

// NewCache creates an empty Cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Compiled)}
}

// Get returns the compiled form of s, building it on first use.
// Compile errors are not cached.
func (c *Cache) Get(s Schema) (*Compiled, error) {
	key, err := cacheKey(s)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if compiled, ok := c.entries[key]; ok {
		return compiled, nil
	}

	validator, err := Compile(s)
	if err != nil {
		return nil, err
	}
	compiled := &Compiled{
		Schema:    validator.Fields(),
		Validator: validator,
		defaults:  Defaults(s),
	}

	if len(c.entries) >= maxCacheEntries {
		c.entries = make(map[string]*Compiled)
	}
	c.entries[key] = compiled
	return compiled, nil
}

// Len returns the number of memoized schemas.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cacheKey(s Schema) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode schema: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
