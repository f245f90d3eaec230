package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/myLogic207/godeque/config"
)

var (
	ErrOpenLogFile   = errors.New("error opening log file")
	ErrRotateFile    = errors.New("error rotating log file")
	ErrFileNotActive = errors.New("log file is not active")
	ErrFileInUse     = errors.New("log file is already in use")

	defaultLogFileConfig = map[string]interface{}{
		"PREFIX":       "service",
		"ACTIVE":       true,
		"ROTATING":     true,
		"ROTATEFORMAT": "$prefix.$date.$time.$suffix",
		"FOLDER":       "/var/log",
		"SUFFIX":       "log",
		"FILENAME":     "$prefix.$suffix",
	}
)

const maxRotateAttempts = 100

// LogFile is a zap write syncer that renames its file on close when rotating.
type LogFile struct {
	mu     sync.Mutex
	file   *os.File
	config *config.Config
}

func NewLogFile(ctx context.Context, options *config.Config) (*LogFile, error) {
	cfg, err := config.WithInitialValuesAndOptions(ctx, defaultLogFileConfig, options)
	if err != nil {
		return nil, errors.Join(ErrInitConfig, err)
	}
	if active, err := cfg.GetBool(ctx, "ACTIVE"); err != nil || !active {
		return nil, ErrFileNotActive
	}
	logFile := &LogFile{
		config: cfg,
	}
	if err := logFile.open(ctx); err != nil {
		return nil, errors.Join(ErrOpenLogFile, err)
	}
	return logFile, nil
}

func (l *LogFile) open(ctx context.Context) error {
	rawFilename, _ := l.config.Get(ctx, "FILENAME")
	fullPath, err := l.assemblePath(ctx, rawFilename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	if err := l.prepExisting(ctx, fullPath); err != nil {
		return err
	}
	l.file, err = os.OpenFile(fullPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	return err
}

// prepExisting moves a non empty leftover file out of the way when rotating
func (l *LogFile) prepExisting(ctx context.Context, fullPath string) error {
	info, err := os.Stat(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	if info.Size() == 0 {
		return os.Remove(fullPath)
	}
	if rotating, _ := l.config.GetBool(ctx, "ROTATING"); rotating {
		// append to the old file when it cannot be moved
		_ = l.moveToRotated(ctx, fullPath)
	}
	return nil
}

func (l *LogFile) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

func (l *LogFile) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return 0, ErrFileNotActive
	}
	return l.file.Write(p)
}

func (l *LogFile) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	return l.file.Sync()
}

// Close flushes and closes the file, a rotating file is renamed after ROTATEFORMAT
func (l *LogFile) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	name := l.file.Name()
	if err := l.closeFile(); err != nil {
		return err
	}
	if rotating, _ := l.config.GetBool(ctx, "ROTATING"); !rotating {
		return nil
	}
	return l.moveToRotated(ctx, name)
}

// RotateFile moves the current file away and continues in a fresh one
func (l *LogFile) RotateFile(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return errors.Join(ErrRotateFile, ErrFileNotActive)
	}
	name := l.file.Name()
	if err := l.closeFile(); err != nil {
		return err
	}
	if err := l.moveToRotated(ctx, name); err != nil {
		return err
	}
	return l.open(ctx)
}

func (l *LogFile) closeFile() error {
	if err := l.file.Sync(); err != nil {
		return err
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *LogFile) moveToRotated(ctx context.Context, oldName string) error {
	rotateFormat, _ := l.config.Get(ctx, "ROTATEFORMAT")
	rotateName, err := l.assemblePath(ctx, rotateFormat)
	if err != nil {
		return errors.Join(ErrRotateFile, err)
	}
	if _, err := os.Stat(rotateName); err == nil {
		suffix, _ := l.config.Get(ctx, "SUFFIX")
		base := strings.TrimSuffix(rotateName, "."+suffix)
		found := false
		for i := 0; i < maxRotateAttempts; i++ {
			candidate := fmt.Sprintf("%s.%d.%s", base, i, suffix)
			if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
				rotateName = candidate
				found = true
				break
			}
		}
		if !found {
			return errors.Join(ErrRotateFile, ErrFileInUse)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return errors.Join(ErrRotateFile, err)
	}
	if err := os.Rename(oldName, rotateName); err != nil {
		return errors.Join(ErrRotateFile, err)
	}
	return nil
}

func (l *LogFile) formatFilename(ctx context.Context, format string) string {
	now := time.Now()
	parts := strings.Split(format, ".")
	for i, part := range parts {
		switch part {
		case "$prefix":
			prefix, _ := l.config.Get(ctx, "PREFIX")
			parts[i] = strings.ToLower(strings.ReplaceAll(prefix, " ", "_"))
		case "$suffix":
			parts[i], _ = l.config.Get(ctx, "SUFFIX")
		case "$date":
			parts[i] = now.Format("2006-01-02")
		case "$time":
			parts[i] = now.Format("15-04-05")
		}
	}
	return strings.Join(parts, ".")
}

func (l *LogFile) assemblePath(ctx context.Context, raw string) (string, error) {
	if strings.Contains(raw, "$") {
		raw = l.formatFilename(ctx, raw)
	} else {
		raw = filepath.Base(raw)
	}
	if raw == "" || raw == "." {
		return "", errors.New("empty filename")
	}
	folder, _ := l.config.Get(ctx, "FOLDER")
	return filepath.Abs(filepath.Join(folder, raw))
}
