package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Controller owns the process logging state: the current minimum level and the
// current destination (console or an appendable log file). Both can be
// switched at runtime, which the config store does when a loaded file carries
// LogLevel or LogFile keys.
type Controller struct {
	mu     sync.Mutex
	level  zap.AtomicLevel
	dest   string // "" means console (stderr)
	file   *os.File
	logger *zap.Logger
}

// New creates a controller logging at the given level to the given
// destination. An empty level defaults to warn, matching quiet cron operation.
// An empty destination logs to stderr; anything else is treated as a file path
// opened for append.
func New(level, dest string) (*Controller, error) {
	if level == "" {
		level = "warn"
	}

	parsed, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		level: zap.NewAtomicLevelAt(parsed),
	}

	if err := c.open(dest); err != nil {
		return nil, err
	}

	return c, nil
}

// NewNop returns a controller whose logger discards everything. Useful in
// tests that exercise components requiring a controller.
func NewNop() *Controller {
	return &Controller{
		level:  zap.NewAtomicLevelAt(zapcore.WarnLevel),
		logger: zap.NewNop(),
	}
}

// ParseLevel maps a level name to a zap level. The numeric aliases 10..50 are
// accepted so older config files keep working. critical occupies zap's DPanic
// slot and renders as CRITICAL.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "10":
		return zapcore.DebugLevel, nil
	case "info", "20":
		return zapcore.InfoLevel, nil
	case "warn", "warning", "30":
		return zapcore.WarnLevel, nil
	case "error", "40":
		return zapcore.ErrorLevel, nil
	case "critical", "50":
		return zapcore.DPanicLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// encodeLevel is the capital level encoder except that the DPanic slot, which
// this package repurposes for critical, prints CRITICAL.
func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == zapcore.DPanicLevel {
		enc.AppendString("CRITICAL")
		return
	}
	enc.AppendString(l.CapitalString())
}

// open builds a logger writing to dest and installs it on the controller.
// Callers must hold c.mu or have exclusive access.
func (c *Controller) open(dest string) error {
	var sink zapcore.WriteSyncer

	if dest == "" {
		sink = zapcore.Lock(os.Stderr)
	} else {
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", dest, err)
		}
		sink = zapcore.Lock(f)
		c.file = f
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = encodeLevel

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, c.level)
	c.logger = zap.New(core)
	c.dest = dest
	return nil
}

// SetLevel switches the minimum level. Re-applying the current level is a
// no-op. Returns an error for unknown level names.
func (c *Controller) SetLevel(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	c.level.SetLevel(parsed)
	return nil
}

// Level reports the current minimum level.
func (c *Controller) Level() zapcore.Level {
	return c.level.Level()
}

// SetDestination switches the log destination. Switching to the destination
// already in use is a no-op. Switching from a file back to the console is not
// supported: short-lived scripts have no safe point to detach from a log
// file, so this reports an error the caller should treat as fatal.
func (c *Controller) SetDestination(dest string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dest == c.dest {
		return nil
	}
	if dest == "" && c.dest != "" {
		return fmt.Errorf("switching log destination from file %s to console is not supported", c.dest)
	}

	old := c.file
	c.file = nil
	if err := c.open(dest); err != nil {
		c.file = old
		return err
	}
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Destination returns the active destination path, or "" for console.
func (c *Controller) Destination() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dest
}

// Logger returns the current zap logger. The returned logger stays valid
// across SetLevel calls but not across SetDestination; components that must
// follow destination switches should keep the controller and call Logger per
// use.
func (c *Controller) Logger() *zap.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logger
}

// Debug logs at debug level.
func (c *Controller) Debug(msg string, fields ...zap.Field) {
	c.Logger().Debug(msg, fields...)
}

// Info logs at info level.
func (c *Controller) Info(msg string, fields ...zap.Field) {
	c.Logger().Info(msg, fields...)
}

// Warn logs at warn level.
func (c *Controller) Warn(msg string, fields ...zap.Field) {
	c.Logger().Warn(msg, fields...)
}

// Error logs at error level.
func (c *Controller) Error(msg string, fields ...zap.Field) {
	c.Logger().Error(msg, fields...)
}

// Critical logs at the highest severity without terminating the process.
func (c *Controller) Critical(msg string, fields ...zap.Field) {
	c.Logger().Log(zapcore.DPanicLevel, msg, fields...)
}

// Sync flushes any buffered log entries.
func (c *Controller) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
