// Package wanip fetches the current WAN IP address from a public text-over-
// HTTP service and tracks the last observed address in a YAML state file.
//
// The client retries transient failures with doubling delays; the state file
// is written atomically (temp file plus rename) so overlapping cron runs
// never see a torn write.
package wanip
