package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidTLSConfigs indicates that only one of the certificate and
	// key paths was provided.
	ErrInvalidTLSConfigs = errors.New("invalid TLS configuration")
	// ErrInvalidDispatchConfigs indicates negative dispatch pool sizing.
	ErrInvalidDispatchConfigs = errors.New("invalid dispatch configuration")
)
