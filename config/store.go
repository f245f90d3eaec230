package config

import (
	"context"
	"slices"
	"strings"
	"sync"
)

type ConfigStore interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context, key string) map[string]string
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) bool
	Keys(ctx context.Context) []string
}

type ConfigStoreNew func(context.Context) (ConfigStore, error)

var DefaultConfigStore ConfigStoreNew = NewConfigStore

func NewConfigStore(ctx context.Context) (ConfigStore, error) {
	return &ConfigStoreImpl{
		store: make(map[string]string),
	}, nil
}

// ConfigStoreImpl keeps the flattened tree, keys are upper case and joined by CONFIG_TREE_SEPARATOR
type ConfigStoreImpl struct {
	mu    sync.RWMutex
	store map[string]string
}

func normalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// matchesKey reports whether storeKey is key itself or lies below it in the tree
func matchesKey(storeKey string, key string) bool {
	if key == "" {
		return true
	}
	return storeKey == key || strings.HasPrefix(storeKey, key+CONFIG_TREE_SEPARATOR)
}

func (c *ConfigStoreImpl) Has(ctx context.Context, key string) bool {
	key = normalizeKey(key)
	if err := IsValidKey(key); err != nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k := range c.store {
		if err := ctx.Err(); err != nil {
			// context Cancelled
			return false
		}
		if matchesKey(k, key) {
			return true
		}
	}
	return false
}

func (c *ConfigStoreImpl) Get(ctx context.Context, key string) (string, error) {
	key = normalizeKey(key)
	if err := IsValidKey(key); err != nil {
		return "", err
	}
	c.mu.RLock()
	value, ok := c.store[key]
	c.mu.RUnlock()
	if ok {
		return value, nil
	}
	if c.Has(ctx, key) {
		return "", &ErrKeyAmbiguous{key: key}
	}
	return "", &ErrKeyNotFound{key: key}
}

// GetAll returns all values at or below the given key, indexed by the key suffix
// (the part of the key after key+CONFIG_TREE_SEPARATOR). A value stored at the key
// itself is indexed by an empty string. If nothing matches, nil is returned.
func (c *ConfigStoreImpl) GetAll(ctx context.Context, key string) map[string]string {
	key = normalizeKey(key)
	values := make(map[string]string)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.store {
		if err := ctx.Err(); err != nil {
			// context Cancelled, return what we have
			return values
		}
		if !matchesKey(k, key) {
			continue
		}
		trimKey := strings.TrimPrefix(k, key)
		trimKey = strings.TrimPrefix(trimKey, CONFIG_TREE_SEPARATOR)
		values[trimKey] = v
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// Set stores value under key, an empty value deletes the key
func (c *ConfigStoreImpl) Set(ctx context.Context, key string, value string) error {
	key = normalizeKey(key)
	if err := IsValidKey(key); err != nil {
		return err
	}
	if value == "" {
		return c.Delete(ctx, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

// Delete removes key and everything below it
func (c *ConfigStoreImpl) Delete(ctx context.Context, key string) error {
	key = normalizeKey(key)
	if err := IsValidKey(key); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.store {
		if matchesKey(k, key) {
			delete(c.store, k)
		}
	}
	return nil
}

func (c *ConfigStoreImpl) Keys(ctx context.Context) []string {
	keys := []string{}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for key := range c.store {
		if err := ctx.Err(); err != nil {
			// context Cancelled, return what we have
			return keys
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
