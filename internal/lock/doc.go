// Package lock provides advisory cross-process locks backed by sentinel
// files in a shared directory.
//
// The existence of the file is the lock signal; its content is a
// human-readable "locked by <owner> at <time>" string for diagnostics, never
// machine-parsed. Acquisition is a bounded poll loop (create-exclusive, sleep,
// retry) rather than an OS blocking primitive, which keeps the semantics
// crash-tolerant: a lock orphaned by a dead process remains visible on disk
// until someone removes it.
//
// Outcomes are Status values, not errors. A timeout is an ordinary result
// that the calling tool turns into "skip this cron run" or similar.
package lock
