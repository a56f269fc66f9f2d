package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opsmith/scriptkit/internal/logging"
)

// Reserved keys consumed by the store and its collaborators. Every other key
// is opaque payload for the calling tool.
const (
	KeyLogLevel  = "LogLevel"
	KeyLogFile   = "LogFile"
	KeyDontEmail = "DontEmail"
	KeyDontNotif = "DontNotif"
)

// maxImportDepth bounds import recursion so a cycle between config files
// fails with an error instead of hanging the tool.
const maxImportDepth = 10

// Store holds the typed key/value table parsed from a config file and its
// imports. Values are int, bool, or string. The table is mutated only by
// Load; a failed Load leaves it untouched.
type Store struct {
	baseDir     string
	log         *logging.Controller
	table       map[string]any
	mtimes      map[string]time.Time
	initialized bool
}

// LoadOptions control a single Load call.
type LoadOptions struct {
	// LogLevel is the minimum level applied when logging is initialized on
	// the first Load, so load-time diagnostics are visible. Empty means warn.
	LogLevel string

	// LogFile is an explicit log destination applied on the first Load.
	// Empty means console.
	LogFile string

	// LogFileWins prevents a LogFile key in the config file from overriding
	// the destination requested here.
	LogFileWins bool

	// Flush clears the table before a reload instead of merging over it.
	Flush bool

	// Force ignores the cached modification timestamp and always reloads.
	Force bool
}

// New creates an empty store. Relative config paths passed to Load are
// resolved against baseDir, typically the directory of the running
// executable, so invocation from cron with an arbitrary working directory
// behaves the same as an interactive run.
func New(baseDir string, ctl *logging.Controller) *Store {
	return &Store{
		baseDir: baseDir,
		log:     ctl,
		table:   make(map[string]any),
		mtimes:  make(map[string]time.Time),
	}
}

// Load reads the config file at path into the table. It returns true when the
// table was (re)loaded and false when the call was skipped because the file's
// modification time is unchanged since the last successful load — callers may
// poll Load cheaply and act only on true.
//
// Parsing happens into a staging table that is committed only on full
// success, so a failed load (including a failed nested import) never mutates
// the live table.
func (s *Store) Load(path string, opts LoadOptions) (bool, error) {
	if !s.initialized {
		if err := s.initLogging(opts); err != nil {
			return false, err
		}
		s.initialized = true
	}

	resolved := s.resolve(path, s.baseDir)

	if opts.Force {
		s.mtimes = make(map[string]time.Time)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return false, pathError(resolved, fmt.Errorf("config file not found: %w", err))
	}

	if last, ok := s.mtimes[resolved]; ok && info.ModTime().Equal(last) {
		s.log.Debug("config unchanged, skipping reload", zap.String("path", resolved))
		return false, nil
	}

	staging := make(map[string]any)
	if err := s.parseFile(resolved, staging, 0); err != nil {
		return false, err
	}

	if opts.Flush || opts.Force {
		s.table = staging
	} else {
		for k, v := range staging {
			s.table[k] = v
		}
	}
	s.mtimes[resolved] = info.ModTime()

	if err := s.applyLogging(opts); err != nil {
		return true, err
	}

	s.log.Info("config loaded",
		zap.String("path", resolved),
		zap.Int("keys", len(s.table)),
	)
	return true, nil
}

// initLogging applies the requested load-phase level and destination before
// any file I/O happens.
func (s *Store) initLogging(opts LoadOptions) error {
	level := opts.LogLevel
	if level == "" {
		level = "warn"
	}
	if err := s.log.SetLevel(level); err != nil {
		return keyError(KeyLogLevel, err)
	}
	if opts.LogFile != "" {
		if err := s.log.SetDestination(opts.LogFile); err != nil {
			return keyError(KeyLogFile, err)
		}
	}
	return nil
}

// applyLogging re-derives the logging configuration from the freshly loaded
// table. Re-applying an unchanged level or destination is a no-op inside the
// controller.
func (s *Store) applyLogging(opts LoadOptions) error {
	if !opts.LogFileWins {
		if raw, ok := s.table[KeyLogFile]; ok {
			dest, isStr := raw.(string)
			if !isStr {
				return keyError(KeyLogFile, fmt.Errorf("expected a path, got %v", raw))
			}
			if err := s.log.SetDestination(s.resolve(dest, s.baseDir)); err != nil {
				return keyError(KeyLogFile, err)
			}
		}
	}

	if raw, ok := s.table[KeyLogLevel]; ok {
		if err := s.log.SetLevel(fmt.Sprint(raw)); err != nil {
			return keyError(KeyLogLevel, err)
		}
	}
	return nil
}

// parseFile parses one config file into dst, recursing into import
// directives. Import failures propagate so the whole load fails.
func (s *Store) parseFile(path string, dst map[string]any, depth int) error {
	if depth > maxImportDepth {
		return pathError(path, fmt.Errorf("import depth exceeds %d, likely an import cycle", maxImportDepth))
	}

	f, err := os.Open(path)
	if err != nil {
		return pathError(path, err)
	}
	defer f.Close()

	s.log.Debug("parsing config file", zap.String("path", path))

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if target, ok := importTarget(line); ok {
			if target == "" {
				return pathError(path, fmt.Errorf("line %d: import directive without a target", lineNo))
			}
			imported := s.resolve(target, filepath.Dir(path))
			if err := s.parseFile(imported, dst, depth+1); err != nil {
				return err
			}
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			s.log.Warn("skipping malformed config line",
				zap.String("path", path),
				zap.Int("line", lineNo),
				zap.String("content", line),
			)
			continue
		}

		dst[key] = coerce(value)
		s.log.Debug("loaded key",
			zap.String("key", key),
			zap.Any("value", dst[key]),
		)
	}

	if err := scanner.Err(); err != nil {
		return pathError(path, err)
	}
	return nil
}

// importTarget reports whether line is an import directive and returns the
// target path. The keyword is matched case-insensitively.
func importTarget(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "import") {
		return "", false
	}
	return strings.TrimSpace(line[len(fields[0]):]), true
}

// splitKeyValue splits a directive into key and value. The key is the first
// token delimited by a run of whitespace, ':' or '=' characters; the rest of
// the line is the value.
func splitKeyValue(line string) (key, value string, ok bool) {
	i := strings.IndexAny(line, " \t:=")
	if i <= 0 {
		return "", "", false
	}
	key = line[:i]
	value = strings.TrimSpace(strings.TrimLeft(line[i:], " \t:="))
	if value == "" {
		return "", "", false
	}
	return key, value, true
}

// coerce converts a raw value string to its typed form. The order is a
// compatibility contract with existing config files: integer first, then
// boolean, then the trimmed string.
func coerce(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

// resolve turns a possibly-relative path into an absolute one against dir.
func (s *Store) resolve(path, dir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// BaseDir returns the directory relative paths are resolved against.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Log returns the logging controller the store drives.
func (s *Store) Log() *logging.Controller {
	return s.log
}

// Len reports the number of keys in the table.
func (s *Store) Len() int {
	return len(s.table)
}

// Get returns the value for key, which is an int, bool, or string depending
// on how the config line coerced. A missing key is a ConfigError.
func (s *Store) Get(key string) (any, error) {
	v, ok := s.table[key]
	if !ok {
		return nil, keyError(key, ErrKeyMissing)
	}
	return v, nil
}

// GetDefault returns the value for key, or def when the key is absent.
func (s *Store) GetDefault(key string, def any) any {
	if v, ok := s.table[key]; ok {
		return v
	}
	return def
}

// GetString returns the value for key rendered as a string.
func (s *Store) GetString(key string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

// GetInt returns the value for key as an int. String values that parse as
// integers are accepted.
func (s *Store) GetInt(key string) (int, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case string:
		n, convErr := strconv.Atoi(t)
		if convErr != nil {
			return 0, keyError(key, fmt.Errorf("value %q is not an integer", t))
		}
		return n, nil
	default:
		return 0, keyError(key, fmt.Errorf("value %v is not an integer", v))
	}
}

// GetBool returns the value for key as a bool. String values "true"/"false"
// (any case) are accepted.
func (s *Store) GetBool(key string) (bool, error) {
	v, err := s.Get(key)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(t) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, keyError(key, fmt.Errorf("value %v is not a boolean", v))
}
