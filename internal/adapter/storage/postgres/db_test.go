package postgres

import (
	"testing"
	"time"

	"banking-core/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_ParsesIntoPoolConfig(t *testing.T) {
	tests := []struct {
		name    string
		sslMode string
	}{
		{"disable", "disable"},
		{"require", "require"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DatabaseConfig{
				Host:     "db.internal",
				Port:     5433,
				User:     "ledger",
				Password: "secret",
				DBName:   "banking",
				SSLMode:  tt.sslMode,
			}

			poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
			require.NoError(t, err)
			assert.Equal(t, "db.internal", poolCfg.ConnConfig.Host)
			assert.Equal(t, uint16(5433), poolCfg.ConnConfig.Port)
			assert.Equal(t, "ledger", poolCfg.ConnConfig.User)
			assert.Equal(t, "banking", poolCfg.ConnConfig.Database)
		})
	}
}

func TestPoolConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		Password:        "postgres",
		DBName:          "banking",
		SSLMode:         "disable",
		MaxConns:        12,
		MinConns:        2,
		ConnMaxLifetime: 10 * time.Minute,
		ApplicationName: "banking-core",
		LockTimeout:     1500 * time.Millisecond,
	}

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(12), poolCfg.MaxConns)
	assert.Equal(t, int32(2), poolCfg.MinConns)
	assert.Equal(t, 10*time.Minute, poolCfg.MaxConnLifetime)
	assert.Equal(t, "banking-core", poolCfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "1500", poolCfg.ConnConfig.RuntimeParams["lock_timeout"])
}

func TestPoolConfig_KeepsDriverDefaults(t *testing.T) {
	poolCfg, err := poolConfig(config.DatabaseConfig{Host: "localhost", Port: 5432, DBName: "banking", SSLMode: "disable"})
	require.NoError(t, err)

	assert.Positive(t, poolCfg.MaxConns)
	_, ok := poolCfg.ConnConfig.RuntimeParams["lock_timeout"]
	assert.False(t, ok)
}

// NewPool itself needs a live PostgreSQL and is left to integration runs.
