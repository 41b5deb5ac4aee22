// Package config loads the server's configuration from environment
// variables, command-line flags and an optional JSON file, merging the
// sources in that order.
package config
