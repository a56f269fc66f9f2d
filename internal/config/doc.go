// Package config implements the key/value config store shared by the
// scriptkit tools.
//
// # File format
//
// One directive per line, UTF-8. A '#' truncates the rest of a line. The key
// is the first token, separated from the value by any run of whitespace, ':'
// or '=' characters. Values coerce in a fixed order: integer, then boolean
// ("true"/"false", any case), then the trimmed string. Lines that do not
// match are logged and skipped.
//
//	Retries    3            # int
//	Verbose    true         # bool
//	Name       build-bot    # string
//	import     extra.cfg    # pull in another file, relative to this one
//
// Later occurrences of a key overwrite earlier ones, in file-encounter order,
// across import boundaries.
//
// # Reload detection
//
// Load records the top-level file's modification time on success and becomes
// a cheap no-op while the file is unchanged, returning false. Long-running
// callers poll Load each iteration and act only when it returns true. Nested
// imports are always read with their importer and do not consult the
// timestamp cache.
//
// # Reserved keys
//
// LogLevel and LogFile are re-applied to the logging controller after each
// successful top-level load. DontEmail and DontNotif are read by the notify
// package. All other keys are opaque to this package.
package config
