// Package log routes logrus entries into per-module rotating files.
package log

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bytom/escrow/config"
)

const (
	defaultModule = "general"
	maxAge        = 7 * 24 * time.Hour
)

var defaultFormatter = &logrus.TextFormatter{DisableColors: true}

// InitLogFile sets the level from config and mirrors every entry into a
// file per module under the log dir.
func InitLogFile(config *config.Config) error {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "log_level %q", config.LogLevel)
	}

	logrus.SetLevel(level)
	logrus.AddHook(NewModuleHook(config.LogDir(), time.Duration(config.LogRotationHours)*time.Hour))
	return nil
}

// ModuleHook writes entries to <dir>/<module>.<date>, one writer per
// module. A zero rotation keeps one file per module.
type ModuleHook struct {
	logPath  string
	rotation time.Duration

	lock    sync.Mutex
	writers map[string]io.Writer
}

func NewModuleHook(logPath string, rotation time.Duration) *ModuleHook {
	return &ModuleHook{
		logPath:  logPath,
		rotation: rotation,
		writers:  make(map[string]io.Writer),
	}
}

func (hook *ModuleHook) writer(module string) (io.Writer, error) {
	if w, ok := hook.writers[module]; ok {
		return w, nil
	}

	logPath := filepath.Join(hook.logPath, module)
	options := []rotatelogs.Option{rotatelogs.WithMaxAge(maxAge)}
	pattern := logPath + ".log"
	if hook.rotation > 0 {
		pattern = logPath + ".%Y%m%d%H"
		options = append(options, rotatelogs.WithRotationTime(hook.rotation), rotatelogs.WithLinkName(logPath))
	}

	w, err := rotatelogs.New(pattern, options...)
	if err != nil {
		return nil, err
	}

	hook.writers[module] = w
	return w, nil
}

// Write a log line to the module's file.
func (hook *ModuleHook) ioWrite(entry *logrus.Entry) error {
	module := defaultModule
	if data, ok := entry.Data["module"].(string); ok {
		module = data
	}

	writer, err := hook.writer(module)
	if err != nil {
		return err
	}

	msg, err := defaultFormatter.Format(entry)
	if err != nil {
		return err
	}

	_, err = writer.Write(msg)
	return err
}

func (hook *ModuleHook) Fire(entry *logrus.Entry) error {
	hook.lock.Lock()
	defer hook.lock.Unlock()
	return hook.ioWrite(entry)
}

// Levels returns configured log levels.
func (hook *ModuleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
