// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "fmt"

// ServiceDesc describes one service to register: a service name plus its
// method table. Method keys are bare method names; the registry stores them
// under the fully-qualified "<service>/<method>" form the transport reports.
type ServiceDesc struct {
	Name    string
	Methods map[string]Handler
}

// registry is the name-keyed handler table. It is populated only while the
// server is in the created state and read-only afterwards, so dispatch may
// read it without holding the lifecycle mutex.
type registry map[string]Handler

// merge folds the bindings of desc into the registry. It fails on the first
// method name that is already bound, leaving the registry with everything
// merged up to that point; AddService treats that as a caller bug, not a
// state to roll back.
func (r registry) merge(desc ServiceDesc) error {
	for name, h := range desc.Methods {
		full := desc.Name + "/" + name
		if _, ok := r[full]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMethod, full)
		}

		r[full] = h
	}

	return nil
}
