package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mergeInner struct {
	Host    string
	Port    int
	Timeout time.Duration
}

type mergeConfig struct {
	Name     string
	Enabled  bool
	Inner    mergeInner
	Extra    *mergeInner
	Tags     []string
	Balances map[string]int64
}

func TestMergeConfig(t *testing.T) {
	tests := []struct {
		name  string
		dst   *mergeConfig
		src   *mergeConfig
		check func(t *testing.T, got *mergeConfig)
	}{
		{
			name: "zero values keep defaults",
			dst:  &mergeConfig{Name: "economy", Inner: mergeInner{Host: "localhost", Port: 8080}},
			src:  &mergeConfig{Inner: mergeInner{Port: 9090}},
			check: func(t *testing.T, got *mergeConfig) {
				assert.Equal(t, "economy", got.Name)
				assert.Equal(t, "localhost", got.Inner.Host)
				assert.Equal(t, 9090, got.Inner.Port)
			},
		},
		{
			name: "slices replace",
			dst:  &mergeConfig{Tags: []string{"a", "b"}},
			src:  &mergeConfig{Tags: []string{"c"}},
			check: func(t *testing.T, got *mergeConfig) {
				assert.Equal(t, []string{"c"}, got.Tags)
			},
		},
		{
			name: "maps merge by key",
			dst:  &mergeConfig{Balances: map[string]int64{"coins": 5000, "gems": 100}},
			src:  &mergeConfig{Balances: map[string]int64{"gems": 300, "tickets": 1}},
			check: func(t *testing.T, got *mergeConfig) {
				assert.Equal(t, map[string]int64{"coins": 5000, "gems": 300, "tickets": 1}, got.Balances)
			},
		},
		{
			name: "nil pointer allocated",
			dst:  &mergeConfig{},
			src:  &mergeConfig{Extra: &mergeInner{Timeout: time.Second}},
			check: func(t *testing.T, got *mergeConfig) {
				require.NotNil(t, got.Extra)
				assert.Equal(t, time.Second, got.Extra.Timeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MergeConfig(tt.dst, tt.src)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestMergeConfigNil(t *testing.T) {
	dst := &mergeConfig{Name: "a"}

	got, err := MergeConfig(dst, nil)
	require.NoError(t, err)
	assert.Same(t, dst, got)

	got, err = MergeConfig(nil, dst)
	require.NoError(t, err)
	assert.Same(t, dst, got)

	_, err = MergeConfig[mergeConfig](nil, nil)
	assert.ErrorIs(t, err, ErrNilConfig)
}
