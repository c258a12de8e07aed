package config

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorValidate(t *testing.T) {
	type cfg struct {
		Port   int    `validate:"required,min=1,max=65535"`
		Driver string `validate:"required,oneof=memory redis postgres"`
	}

	v := NewValidator()
	tests := []struct {
		name    string
		cfg     cfg
		wantErr string
	}{
		{name: "valid", cfg: cfg{Port: 8080, Driver: "redis"}},
		{name: "missing port", cfg: cfg{Driver: "redis"}, wantErr: "cfg.Port' is required"},
		{name: "port too large", cfg: cfg{Port: 70000, Driver: "redis"}, wantErr: "at most 65535"},
		{name: "unknown driver", cfg: cfg{Port: 1, Driver: "mysql"}, wantErr: "one of [memory redis postgres]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatorNil(t *testing.T) {
	assert.ErrorIs(t, NewValidator().Validate(nil), ErrNilConfig)
}

func TestValidatorCustomTag(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.RegisterValidation("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}))

	type cfg struct {
		N int `validate:"even"`
	}
	assert.NoError(t, v.Validate(cfg{N: 2}))
	assert.Error(t, v.Validate(cfg{N: 3}))
	assert.NoError(t, v.ValidateVar(10, "gte=0"))
	assert.Error(t, v.ValidateVar(-1, "gte=0"))
}
