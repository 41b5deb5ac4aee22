package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_MergeQualifiesNames(t *testing.T) {
	r := make(registry)

	require.NoError(t, r.merge(ServiceDesc{
		Name:    "pkg.Service",
		Methods: map[string]Handler{"Get": nopHandler(), "Put": nopHandler()},
	}))

	assert.Contains(t, r, "pkg.Service/Get")
	assert.Contains(t, r, "pkg.Service/Put")
	assert.Len(t, r, 2)
}

func TestRegistry_SameMethodDifferentServices(t *testing.T) {
	r := make(registry)

	require.NoError(t, r.merge(ServiceDesc{Name: "a.Svc", Methods: map[string]Handler{"Get": nopHandler()}}))
	require.NoError(t, r.merge(ServiceDesc{Name: "b.Svc", Methods: map[string]Handler{"Get": nopHandler()}}))

	assert.Len(t, r, 2)
}

func TestRegistry_DuplicateMethod(t *testing.T) {
	r := make(registry)

	require.NoError(t, r.merge(ServiceDesc{Name: "a.Svc", Methods: map[string]Handler{"Get": nopHandler()}}))

	err := r.merge(ServiceDesc{Name: "a.Svc", Methods: map[string]Handler{"Get": nopHandler()}})
	require.ErrorIs(t, err, ErrDuplicateMethod)
	assert.ErrorContains(t, err, "a.Svc/Get")
}
