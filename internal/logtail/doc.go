// Package logtail reads the tail of the jokes log file.
//
// Read extracts the last N lines with a ring buffer of size N, so memory
// stays O(N) regardless of file size and the file is scanned once:
//
//	lines, err := logtail.Read(cfg.LogPath(), 200)
//
// ReadMatching applies a case-insensitive substring filter before the ring
// buffer, so "the last N lines mentioning delete" works in one pass.
//
// Missing files are not an error: the client may not have logged anything
// yet. Lines longer than 1MB fail the scan.
package logtail
