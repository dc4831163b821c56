package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Components logs are emitted for. Each package obtains its logger with
// logger.GetLogger(<component>).
var Components = []string{"server", "store", "engine", "config", "client"}

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// kvLogger implements the ILogger interface on top of a zap sugared logger
type kvLogger struct {
	name  string
	mu    sync.RWMutex
	level logger.LogLevel
	sugar *zap.SugaredLogger
}

func (l *kvLogger) SetLevel(level logger.LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *kvLogger) enabled(level logger.LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level >= level
}

func (l *kvLogger) Debugf(format string, args ...interface{}) {
	if l.enabled(logger.DEBUG) {
		l.sugar.Debug(l.line(format, args...))
	}
}

func (l *kvLogger) Infof(format string, args ...interface{}) {
	if l.enabled(logger.INFO) {
		l.sugar.Info(l.line(format, args...))
	}
}

func (l *kvLogger) Warningf(format string, args ...interface{}) {
	if l.enabled(logger.WARNING) {
		l.sugar.Warn(l.line(format, args...))
	}
}

func (l *kvLogger) Errorf(format string, args ...interface{}) {
	if l.enabled(logger.ERROR) {
		l.sugar.Error(l.line(format, args...))
	}
}

func (l *kvLogger) Panicf(format string, args ...interface{}) {
	l.sugar.Panic(l.line(format, args...))
}

// line prefixes the message with the padded component name
func (l *kvLogger) line(format string, args ...interface{}) string {
	return fmt.Sprintf("%-8s | %s", l.name, fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// newCore builds the console core shared by all component loggers.
// Level filtering happens per component, so the core accepts everything.
func newCore(w io.Writer) zapcore.Core {
	encCfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " | ",
	}
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)
}

// NewLoggerFactory returns a dragonboat logger factory writing to w.
func NewLoggerFactory(w io.Writer) logger.Factory {
	base := zap.New(newCore(w))
	return func(pkgName string) logger.ILogger {
		return &kvLogger{
			name:  pkgName,
			level: logger.INFO,
			sugar: base.Sugar(),
		}
	}
}

// CreateLogger is the default factory, writing to stdout.
func CreateLogger(pkgName string) logger.ILogger {
	return NewLoggerFactory(os.Stdout)(pkgName)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the zap backed factory and sets the level of every component logger.
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	// Set as the global logger factory for Dragonboat
	logger.SetLoggerFactory(CreateLogger)

	for _, name := range Components {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
