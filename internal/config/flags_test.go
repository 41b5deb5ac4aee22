package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NetAddress
		wantErr bool
	}{
		{name: "localhost with port", input: "localhost:9090", want: NetAddress{Host: "localhost", Port: 9090}},
		{name: "ip with port", input: "127.0.0.1:8080", want: NetAddress{Host: "127.0.0.1", Port: 8080}},
		{name: "empty host", input: ":9090", want: NetAddress{Host: "", Port: 9090}},
		{name: "missing port", input: "localhost", wantErr: true},
		{name: "non-numeric port", input: "localhost:abc", wantErr: true},
		{name: "zero port", input: "localhost:0", wantErr: true},
		{name: "bad ip", input: "not-an-ip:9090", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestNetAddress_String(t *testing.T) {
	assert.Equal(t, "", (&NetAddress{}).String())
	assert.Equal(t, "localhost:9090", (&NetAddress{Host: "localhost", Port: 9090}).String())
	assert.Equal(t, ":9090", (&NetAddress{Port: 9090}).String())
}

func TestValidate_TLSRequiresBothFiles(t *testing.T) {
	cfg := &StructuredConfig{TLS: TLS{CertFile: "/tmp/server.crt"}}
	require.ErrorIs(t, cfg.validate(), ErrInvalidTLSConfigs)

	cfg.TLS.KeyFile = "/tmp/server.key"
	require.NoError(t, cfg.validate())
}

func TestValidate_NegativeDispatchSizing(t *testing.T) {
	cfg := &StructuredConfig{Dispatch: Dispatch{Workers: -1}}
	require.ErrorIs(t, cfg.validate(), ErrInvalidDispatchConfigs)
}
