package config

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	CONFIG_TREE_SEPARATOR = "/"
	KEY_ALLOWED_CHARS     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-."
)

// Config is a tree of string values addressed by keys like "LOGGER/PREFIX".
type Config struct {
	store ConfigStore
}

func New(ctx context.Context) (*Config, error) {
	store, err := DefaultConfigStore(ctx)
	if err != nil {
		return nil, err
	}
	return &Config{store: store}, nil
}

func WithInitialValues(ctx context.Context, initialValues map[string]interface{}) (*Config, error) {
	cfg, err := New(ctx)
	if err != nil {
		return nil, err
	}
	for key, value := range flattenMap(initialValues) {
		if err := cfg.Set(ctx, key, value, true); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithInitialValuesAndOptions creates a config from defaults and overwrites them with options.
// A nil options config yields the defaults.
func WithInitialValuesAndOptions(ctx context.Context, defaults map[string]interface{}, options *Config) (*Config, error) {
	cfg, err := WithInitialValues(ctx, defaults)
	if err != nil {
		return nil, err
	}
	if options == nil {
		return cfg, nil
	}
	if err := cfg.Merge(ctx, options, true); err != nil {
		return nil, err
	}
	return cfg, nil
}

func IsValidKey(key string) error {
	if key == "" {
		return &ErrKeyInvalid{key: key, nested: errors.New("empty key")}
	}
	for _, segment := range strings.Split(key, CONFIG_TREE_SEPARATOR) {
		if segment == "" {
			return &ErrKeyInvalid{key: key, nested: errors.New("empty segment")}
		}
		for _, char := range segment {
			if !strings.ContainsRune(KEY_ALLOWED_CHARS, char) {
				return &ErrKeyInvalid{key: key, nested: &KeyCharInvalid{key: key, char: char}}
			}
		}
	}
	return nil
}

func (c *Config) Get(ctx context.Context, key string) (string, error) {
	return c.store.Get(ctx, key)
}

// GetConfig returns a copy of the subtree below key
func (c *Config) GetConfig(ctx context.Context, key string) (*Config, error) {
	values := c.store.GetAll(ctx, key)
	if values == nil {
		return nil, &ErrKeyNotFound{key: normalizeKey(key)}
	}
	sub, err := New(ctx)
	if err != nil {
		return nil, err
	}
	for subKey, value := range values {
		if subKey == "" {
			// value stored at the key itself, not part of the subtree
			continue
		}
		if err := sub.store.Set(ctx, subKey, value); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// Set stores value under key. Nested configs and maps are stored below key,
// a nil value removes key. Without force an existing key is not overwritten.
func (c *Config) Set(ctx context.Context, key string, value interface{}, force bool) error {
	key = normalizeKey(key)
	if err := IsValidKey(key); err != nil {
		return err
	}
	switch val := value.(type) {
	case nil:
		return c.store.Delete(ctx, key)
	case *Config:
		for subKey, subValue := range val.GetMap(ctx) {
			if err := c.Set(ctx, key+CONFIG_TREE_SEPARATOR+subKey, subValue, force); err != nil {
				return err
			}
		}
		return nil
	case map[string]string:
		for subKey, subValue := range val {
			if err := c.Set(ctx, key+CONFIG_TREE_SEPARATOR+subKey, subValue, force); err != nil {
				return err
			}
		}
		return nil
	case map[string]interface{}:
		for subKey, subValue := range flattenMap(val) {
			if err := c.Set(ctx, key+CONFIG_TREE_SEPARATOR+subKey, subValue, force); err != nil {
				return err
			}
		}
		return nil
	}
	if !force && c.store.Has(ctx, key) {
		return &ErrKeyInStore{key: key}
	}
	raw := fmt.Sprint(value)
	if raw == "" {
		return &ErrKeyValueInvalid{key: key, value: value}
	}
	return c.store.Set(ctx, key, raw)
}

func (c *Config) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

func (c *Config) Has(ctx context.Context, key string) bool {
	return c.store.Has(ctx, key)
}

func (c *Config) Keys(ctx context.Context) []string {
	return c.store.Keys(ctx)
}

// GetMap returns the flattened tree
func (c *Config) GetMap(ctx context.Context) map[string]string {
	values := c.store.GetAll(ctx, "")
	if values == nil {
		return make(map[string]string)
	}
	return values
}

func (c *Config) Merge(ctx context.Context, other *Config, overwrite bool) error {
	if other == nil {
		return nil
	}
	for key, value := range other.GetMap(ctx) {
		if err := c.Set(ctx, key, value, overwrite); err != nil {
			return errors.Join(ErrMergeFailed, err)
		}
	}
	return nil
}

func (c *Config) Copy(ctx context.Context) (*Config, error) {
	cfg, err := New(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Merge(ctx, c, true); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CompareMap checks that every key of cmp is present, and with valueCompare also equal
func (c *Config) CompareMap(ctx context.Context, cmp map[string]interface{}, valueCompare bool) error {
	var errs []error
	for key, expected := range flattenMap(cmp) {
		actual, err := c.Get(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if valueCompare && actual != fmt.Sprint(expected) {
			errs = append(errs, &ErrValueMismatch{key: normalizeKey(key), expected: expected, actual: actual})
		}
	}
	return errors.Join(errs...)
}

// Sprint renders the config as an indented tree
func (c *Config) Sprint(ctx context.Context) string {
	var builder strings.Builder
	printTree(&builder, nestMap(c.GetMap(ctx)), 0)
	return builder.String()
}

func printTree(builder *strings.Builder, tree map[string]interface{}, depth int) {
	keys := make([]string, 0, len(tree))
	for key := range tree {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	indent := strings.Repeat("  ", depth)
	for _, key := range keys {
		switch value := tree[key].(type) {
		case map[string]interface{}:
			builder.WriteString(indent + key + ":\n")
			printTree(builder, value, depth+1)
		default:
			builder.WriteString(fmt.Sprintf("%s%s: %v\n", indent, key, value))
		}
	}
}

// flattenMap turns nested maps into separator joined keys
func flattenMap(values map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{}, len(values))
	for key, value := range values {
		switch nested := value.(type) {
		case map[string]interface{}:
			for subKey, subValue := range flattenMap(nested) {
				flat[key+CONFIG_TREE_SEPARATOR+subKey] = subValue
			}
		case map[string]string:
			for subKey, subValue := range nested {
				flat[key+CONFIG_TREE_SEPARATOR+subKey] = subValue
			}
		default:
			flat[key] = value
		}
	}
	return flat
}

// nestMap is the inverse of flattenMap. A key holding a value and a subtree keeps the subtree.
func nestMap(flat map[string]string) map[string]interface{} {
	tree := make(map[string]interface{})
	for key, value := range flat {
		segments := strings.Split(key, CONFIG_TREE_SEPARATOR)
		node := tree
		for _, segment := range segments[:len(segments)-1] {
			child, ok := node[segment].(map[string]interface{})
			if !ok {
				child = make(map[string]interface{})
				node[segment] = child
			}
			node = child
		}
		leaf := segments[len(segments)-1]
		if _, isTree := node[leaf].(map[string]interface{}); !isTree {
			node[leaf] = value
		}
	}
	return tree
}
