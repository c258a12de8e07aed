package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	node := &NodeConfig{Host: "localhost", Port: 6379}
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{name: "nil", cfg: nil, wantErr: ErrNilConfig},
		{name: "no mode", cfg: &Config{}, wantErr: ErrInvalidConfig},
		{name: "standalone", cfg: &Config{Standalone: node}},
		{name: "master slave", cfg: &Config{Master: node, Slaves: []NodeConfig{*node}}},
		{name: "two modes", cfg: &Config{Standalone: node, Master: node}, wantErr: ErrInvalidConfig},
		{name: "empty cluster", cfg: &Config{Cluster: &ClusterConfig{}}, wantErr: ErrInvalidConfig},
		{name: "cluster", cfg: &Config{Cluster: &ClusterConfig{Addrs: []string{"a:1"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// newLiveClient 设置 XDOORIA_TEST_REDIS 时连接本地 Redis，不可用时跳过
func newLiveClient(t *testing.T) *Client {
	t.Helper()
	if os.Getenv("XDOORIA_TEST_REDIS") == "" {
		t.Skip("XDOORIA_TEST_REDIS not set")
	}
	c, err := NewClient(&Config{
		Standalone: &NodeConfig{Host: "localhost", Port: 6379},
		Pool:       PoolConfig{DialTimeout: time.Second},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientObjectRoundTrip(t *testing.T) {
	c := newLiveClient(t)
	ctx := context.Background()
	key := "test:economy:object"
	defer c.Del(ctx, key)

	type wallet struct {
		Coins int64 `json:"coins"`
	}
	require.NoError(t, SetObject(c, ctx, key, wallet{Coins: 5000}, time.Minute))

	got, err := GetObject[wallet](c, ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got.Coins)

	_, err = c.Get(ctx, "test:economy:missing")
	assert.ErrorIs(t, err, ErrNil)
}
