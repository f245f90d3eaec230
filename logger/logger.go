// Package logger wraps zap behind a small context aware interface configured from a config tree.
package logger

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/myLogic207/godeque/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ErrInitConfig = errors.New("error initializing config")
	ErrSetLogger  = errors.New("error setting logger")

	invalidPrefixCharacters = " \t\n\r\v\f:=#\\\"'`/.,;!@$%^&*()+|[]{}<>?~"

	defaultLogConfig = map[string]interface{}{
		"PREFIX":   "LOGGER",
		"LEVEL":    "DEBUG",
		"ENCODING": "console",
		"WRITERS": map[string]interface{}{
			"STDOUT": true,
			"FILE": map[string]interface{}{
				"ACTIVE": false,
			},
		},
	}
)

// Logger methods take key value pairs after the message, like zap's sugared Infow.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
	SetLevel(level string) error
	Named(name string) Logger
	Shutdown(ctx context.Context) error
}

type logger struct {
	config  *config.Config
	level   zap.AtomicLevel
	sugar   *zap.SugaredLogger
	logFile *LogFile
}

func Init(ctx context.Context, configOptions *config.Config) (Logger, error) {
	cfg, err := config.WithInitialValuesAndOptions(ctx, defaultLogConfig, configOptions)
	if err != nil {
		return nil, errors.Join(ErrInitConfig, err)
	}
	rawLevel, _ := cfg.Get(ctx, "LEVEL")
	level, err := resolveLogLevel(rawLevel)
	if err != nil {
		return nil, errors.Join(ErrInitConfig, err)
	}
	wrapper := &logger{
		config: cfg,
		level:  zap.NewAtomicLevelAt(level),
	}
	if err := wrapper.setLogger(ctx); err != nil {
		return nil, err
	}
	return wrapper, nil
}

// Nop returns a logger that discards everything
func Nop() Logger {
	return &logger{
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
		sugar: zap.NewNop().Sugar(),
	}
}

func (l *logger) setLogger(ctx context.Context) error {
	encoder, err := l.encoder(ctx)
	if err != nil {
		return errors.Join(ErrSetLogger, err)
	}
	var cores []zapcore.Core
	if stdout, err := l.config.GetBool(ctx, "WRITERS/STDOUT"); err != nil {
		return errors.Join(ErrSetLogger, err)
	} else if stdout {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), l.level))
	}

	logFile, err := l.openLogFile(ctx)
	if err != nil && !errors.Is(err, ErrFileNotActive) {
		return errors.Join(ErrSetLogger, err)
	} else if err == nil {
		l.logFile = logFile
		cores = append(cores, zapcore.NewCore(encoder, logFile, l.level))
	}

	prefix, _ := l.config.Get(ctx, "PREFIX")
	l.sugar = zap.New(zapcore.NewTee(cores...)).Named(formatPrefix(prefix)).Sugar()
	return nil
}

func (l *logger) encoder(ctx context.Context) (zapcore.Encoder, error) {
	encoding, _ := l.config.Get(ctx, "ENCODING")
	switch strings.ToLower(encoding) {
	case "json":
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), nil
	case "console":
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), nil
	default:
		return nil, errors.New("unknown encoding " + encoding)
	}
}

func (l *logger) openLogFile(ctx context.Context) (*LogFile, error) {
	fileOptions, err := l.config.GetConfig(ctx, "WRITERS/FILE")
	if err != nil {
		return nil, ErrFileNotActive
	}
	if active, err := fileOptions.GetBool(ctx, "ACTIVE"); err != nil || !active {
		return nil, ErrFileNotActive
	}
	// a custom logger prefix names the file unless the file has its own
	if prefix, _ := l.config.Get(ctx, "PREFIX"); prefix != defaultLogConfig["PREFIX"] && !fileOptions.Has(ctx, "PREFIX") {
		if err := fileOptions.Set(ctx, "PREFIX", prefix, true); err != nil {
			return nil, err
		}
	}
	return NewLogFile(ctx, fileOptions)
}

func (l *logger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.sugar.Debugw(msg, args...)
}

func (l *logger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.sugar.Infow(msg, args...)
}

func (l *logger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.sugar.Warnw(msg, args...)
}

func (l *logger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.sugar.Errorw(msg, args...)
}

func (l *logger) SetLevel(rawLevel string) error {
	level, err := resolveLogLevel(rawLevel)
	if err != nil {
		return err
	}
	l.level.SetLevel(level)
	return nil
}

// Named returns a child logger sharing writers and level
func (l *logger) Named(name string) Logger {
	return &logger{
		config: l.config,
		level:  l.level,
		sugar:  l.sugar.Named(formatPrefix(name)),
	}
}

// Shutdown flushes the log file and closes it. Child loggers never own the file.
func (l *logger) Shutdown(ctx context.Context) error {
	if l.logFile == nil {
		return nil
	}
	l.sugar.Debugw("shutting down logger")
	if err := l.logFile.Sync(); err != nil {
		return err
	}
	err := l.logFile.Close(ctx)
	l.logFile = nil
	return err
}

func formatPrefix(rawPrefix string) string {
	return strings.Map(func(char rune) rune {
		if strings.ContainsRune(invalidPrefixCharacters, char) {
			return '-'
		}
		return char
	}, strings.ToUpper(strings.TrimSpace(rawPrefix)))
}
