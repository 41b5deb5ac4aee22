// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Defaults applied after all sources were merged.
const (
	DefaultAddress         = ":9090"
	DefaultShutdownTimeout = 30 * time.Second
)

// StructuredConfig is the top-level configuration container for the
// go-switchboard server binary. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Server holds the listening address and shutdown settings.
	Server Server `envPrefix:"SERVER_"`

	// TLS holds the optional credential material securing the listening
	// endpoint. Both files must be set together or not at all.
	TLS TLS `envPrefix:"TLS_"`

	// Dispatch holds the sizing of the handler executor pool.
	Dispatch Dispatch `envPrefix:"DISPATCH_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Server holds network and shutdown settings for the call transport.
type Server struct {
	// Address is the TCP address the transport listens on, in "host:port"
	// format (e.g. "0.0.0.0:9090").
	// Env: SERVER_ADDRESS
	Address string `env:"ADDRESS"`

	// ShutdownTimeout bounds how long a graceful stop waits for in-flight
	// calls to drain before the transport is released abruptly
	// (e.g. "30s", "1m").
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// TLS holds the server certificate securing the listening endpoint.
// When both paths are empty the server listens in plaintext.
type TLS struct {
	// CertFile is the path to the PEM-encoded server certificate.
	// Env: TLS_CERT_FILE
	CertFile string `env:"CERT_FILE"`

	// KeyFile is the path to the PEM-encoded private key.
	// Env: TLS_KEY_FILE
	KeyFile string `env:"KEY_FILE"`
}

// Dispatch holds the sizing of the handler executor pool. Zero values fall
// back to the pool defaults.
type Dispatch struct {
	// Workers is the number of pool goroutines running call handlers.
	// Env: DISPATCH_WORKERS
	Workers int `env:"WORKERS"`

	// QueueSize is the length of the pool's task queue; when full, dispatch
	// spills to a fresh goroutine rather than block.
	// Env: DISPATCH_QUEUE_SIZE
	QueueSize int `env:"QUEUE_SIZE"`
}

// GetStructuredConfig loads, merges, and validates the server configuration
// from all available sources in the following priority order (first source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
