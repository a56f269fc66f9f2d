// Package logging provides leveled logging for the scriptkit tools.
//
// It wraps a zap logger behind a Controller that supports the two runtime
// switches the config store needs: changing the minimum level and redirecting
// output from the console to an append-mode log file. Five ordered severities
// are supported (debug < info < warn < error < critical).
//
// # Levels
//
// Level names are parsed case-insensitively. The numeric values 10, 20, 30,
// 40 and 50 are accepted as aliases so older config files keep working:
//
//	LogLevel 10      # debug
//	LogLevel warn    # same as 30
//
// # Destination switching
//
// A controller starts on the console (stderr) or on a file. Switching from
// console to a file is supported at any time and is how a config file's
// LogFile key takes effect. Switching from a file back to the console is not
// supported and SetDestination reports an error the caller must treat as
// fatal.
package logging
