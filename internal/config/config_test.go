package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, BackendSQLite, cfg.KVBackend)
	require.Equal(t, "default", cfg.SeedScenario)
	require.Equal(t, 10, cfg.BcryptCost)
	require.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("KV_BACKEND", "memory")
	t.Setenv("PORT", "9090")
	t.Setenv("SEED_SCENARIO", "large")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, BackendMemory, cfg.KVBackend)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "large", cfg.SeedScenario)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "KV_BACKEND", "etcd"},
		{"bcrypt cost too low", "BCRYPT_COST", "2"},
		{"bcrypt cost not a number", "BCRYPT_COST", "ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("APP_ENV", "test")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
		})
	}
}
