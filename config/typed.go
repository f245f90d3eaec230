package config

import (
	"context"
	"strconv"
	"strings"
	"time"
)

func (c *Config) GetInt(ctx context.Context, key string) (int, error) {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ErrFieldType{key: normalizeKey(key), kind: "int"}
	}
	return value, nil
}

func (c *Config) GetFloat(ctx context.Context, key string) (float64, error) {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ErrFieldType{key: normalizeKey(key), kind: "float"}
	}
	return value, nil
}

func (c *Config) GetBool(ctx context.Context, key string) (bool, error) {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	value, ok := resolveStringBool(raw)
	if !ok {
		return false, &ErrFieldType{key: normalizeKey(key), kind: "bool"}
	}
	return value, nil
}

// GetDuration accepts duration strings like "5s", plain integers are read as milliseconds
func (c *Config) GetDuration(ctx context.Context, key string) (time.Duration, error) {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	raw = strings.TrimSpace(raw)
	if millis, err := strconv.Atoi(raw); err == nil {
		return time.Duration(millis) * time.Millisecond, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ErrFieldType{key: normalizeKey(key), kind: "duration"}
	}
	return value, nil
}

func resolveStringBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "on", "active", "enabled":
		return true, true
	case "false", "0", "no", "n", "off", "inactive", "disabled":
		return false, true
	}
	return false, false
}
