package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DumpToFile writes the config as "env" (KEY_SUB=value), "txt" (the Sprint tree) or "yaml"
func (c *Config) DumpToFile(ctx context.Context, format string, outFile string) error {
	var content []byte
	switch strings.ToLower(format) {
	case "env":
		var builder strings.Builder
		for _, key := range c.Keys(ctx) {
			value, err := c.Get(ctx, key)
			if err != nil {
				return &ErrDumpToFile{file: outFile, reason: err}
			}
			envKey := strings.ReplaceAll(key, CONFIG_TREE_SEPARATOR, ENV_SEPARATOR)
			builder.WriteString(fmt.Sprintf("%s=%s\n", envKey, value))
		}
		content = []byte(builder.String())
	case "txt":
		content = []byte(c.Sprint(ctx))
	case "yaml", "yml":
		raw, err := yaml.Marshal(nestMap(c.GetMap(ctx)))
		if err != nil {
			return &ErrDumpToFile{file: outFile, reason: err}
		}
		content = raw
	default:
		return &ErrDumpToFile{file: outFile, reason: errors.New("unknown format " + format)}
	}
	if err := os.WriteFile(outFile, content, 0o644); err != nil {
		return &ErrDumpToFile{file: outFile, reason: err}
	}
	return nil
}
