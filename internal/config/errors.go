package config

import (
	"errors"
	"fmt"
)

// ErrKeyMissing indicates a Get call for a key that is not in the table and
// had no default supplied.
var ErrKeyMissing = errors.New("key not present in config table")

// ConfigError is returned for every failure of the config store: a missing or
// unreadable file, a malformed import target, an invalid reserved-key value,
// or a key lookup without default. It carries the offending path or key along
// with the underlying cause.
type ConfigError struct {
	Path string
	Key  string
	Err  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	switch {
	case e.Path != "" && e.Key != "":
		return fmt.Sprintf("config %s: key %s: %v", e.Path, e.Key, e.Err)
	case e.Path != "":
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	case e.Key != "":
		return fmt.Sprintf("config key %s: %v", e.Key, e.Err)
	default:
		return fmt.Sprintf("config: %v", e.Err)
	}
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func pathError(path string, err error) *ConfigError {
	return &ConfigError{Path: path, Err: err}
}

func keyError(key string, err error) *ConfigError {
	return &ConfigError{Key: key, Err: err}
}
