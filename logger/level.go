package logger

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

var (
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// resolveLogLevel accepts level names or the numeric ranges 0-99 debug, 100-199 info,
// 200-299 warn and 300-399 error.
func resolveLogLevel(raw string) (zapcore.Level, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if number, err := strconv.Atoi(raw); err == nil {
		return resolveLogLevelInt(number)
	}
	switch raw {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "INFO", "":
		return zapcore.InfoLevel, nil
	case "WARN", "WARNING":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, ErrInvalidLogLevel
	}
}

func resolveLogLevelInt(level int) (zapcore.Level, error) {
	switch {
	case level < 0:
		return zapcore.InfoLevel, ErrInvalidLogLevel
	case level < 100:
		return zapcore.DebugLevel, nil
	case level < 200:
		return zapcore.InfoLevel, nil
	case level < 300:
		return zapcore.WarnLevel, nil
	case level < 400:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, ErrInvalidLogLevel
	}
}
