package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	node := DBConfig{Host: "localhost", Port: 5432, User: "postgres", DBName: "economy"}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{name: "standalone", modify: func(c *Config) { c.Standalone = &node }},
		{name: "master with slaves", modify: func(c *Config) { c.Master = &node; c.Slaves = []DBConfig{node} }},
		{name: "no mode", modify: func(c *Config) {}, wantErr: ErrInvalidConfig},
		{name: "both modes", modify: func(c *Config) { c.Standalone = &node; c.Master = &node }, wantErr: ErrInvalidConfig},
		{name: "bad port", modify: func(c *Config) { n := node; n.Port = 0; c.Standalone = &n }, wantErr: ErrInvalidConfig},
		{name: "bad slave", modify: func(c *Config) { c.Master = &node; c.Slaves = []DBConfig{{Host: "x"}} }, wantErr: ErrInvalidConfig},
		{name: "min above max", modify: func(c *Config) { c.Standalone = &node; c.Pool.MinConns = 100 }, wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	_, err := withDefaults(nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	cfg, err := withDefaults(&Config{QueryTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.QueryTimeout)
	assert.Equal(t, int32(25), cfg.Pool.MaxConns)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}
