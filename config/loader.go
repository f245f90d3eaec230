package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ENV_SEPARATOR = "_"
	FILE_SUFFIX   = CONFIG_TREE_SEPARATOR + "FILE"
)

type ConfigLoader struct{}

// LoadConfig builds a config from environment prefixes and yaml files, files are applied first
func LoadConfig(ctx context.Context, envPrefixes []string, files []string) (*Config, error) {
	if len(envPrefixes) == 0 && len(files) == 0 {
		return nil, ErrNoConfigSource
	}
	cfg, err := New(ctx)
	if err != nil {
		return nil, err
	}
	loader := ConfigLoader{}
	for _, file := range files {
		if err := loader.LoadFile(ctx, cfg.store, file); err != nil {
			return nil, err
		}
	}
	if err := loader.LoadEnv(ctx, cfg.store, envPrefixes); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv copies variables named PREFIX_A_B into key A/B. A key ending in _FILE
// is replaced by the key without the suffix, holding the content of the named file.
func (l *ConfigLoader) LoadEnv(ctx context.Context, store ConfigStore, prefixes []string) error {
	var errs []error
	for _, env := range os.Environ() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, value, found := strings.Cut(env, "=")
		if !found {
			continue
		}
		for _, prefix := range prefixes {
			prefix = strings.ToUpper(strings.TrimSuffix(prefix, ENV_SEPARATOR)) + ENV_SEPARATOR
			if !strings.HasPrefix(strings.ToUpper(name), prefix) {
				continue
			}
			key, value, err := parseEnvVar(name[len(prefix):], value)
			if err != nil {
				errs = append(errs, &ErrLoadSource{source: name, nested: err})
				continue
			}
			if err := store.Set(ctx, key, value); err != nil {
				errs = append(errs, &ErrLoadSource{source: name, nested: err})
			}
		}
	}
	return errors.Join(errs...)
}

func parseEnvVar(name string, value string) (string, string, error) {
	key := strings.ToUpper(strings.ReplaceAll(name, ENV_SEPARATOR, CONFIG_TREE_SEPARATOR))
	if !strings.HasSuffix(key, FILE_SUFFIX) {
		return key, value, nil
	}
	content, err := os.ReadFile(filepath.Clean(value))
	if err != nil {
		return "", "", err
	}
	return strings.TrimSuffix(key, FILE_SUFFIX), strings.TrimSpace(string(content)), nil
}

// LoadFile reads a yaml document into the store, nested mappings become nested keys
func (l *ConfigLoader) LoadFile(ctx context.Context, store ConfigStore, path string) error {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return &ErrLoadSource{source: path, nested: err}
	}
	values := make(map[string]interface{})
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return &ErrLoadSource{source: path, nested: err}
	}
	for key, value := range flattenMap(values) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if value == nil {
			continue
		}
		if err := store.Set(ctx, key, fmt.Sprint(value)); err != nil {
			return &ErrLoadSource{source: path, nested: err}
		}
	}
	return nil
}
