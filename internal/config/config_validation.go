// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// startup invariants.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if (cfg.TLS.CertFile == "") != (cfg.TLS.KeyFile == "") {
		return ErrInvalidTLSConfigs
	}

	if cfg.Dispatch.Workers < 0 || cfg.Dispatch.QueueSize < 0 {
		return ErrInvalidDispatchConfigs
	}

	return nil
}
