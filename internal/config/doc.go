// Package config loads the jokes client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/jokes/config.toml
//  3. If the file doesn't exist, use defaults
//  4. If the file exists but fields are missing or blank, use defaults for those
//
// # TOML Format
//
//	base_url = "https://programmingwizards.tech/"
//	collection_path = "jokes_api/"
//	request_timeout_seconds = 10
//	http_log = "basic"               # none, basic, headers, body
//	log_file = "~/.local/state/jokes/jokes.log"
//	refresh_interval_seconds = 0     # 0 disables auto-refresh
//	metrics_addr = ""                # e.g. "127.0.0.1:9090"
//
// Every field is optional. Tilde expansion is performed on log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, invalid
// TOML and unknown http_log levels. The last two mention "parse config".
// A missing file is not an error.
package config
