package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/connection"
	"github.com/oppdesarrollo/contratos-dashboard/test/util"
)

func TestHealth(t *testing.T) {
	db := util.SetupTestDatabase(t)
	client := NewClientFromDB(db)

	health, err := Health(context.Background(), client.DB())
	require.NoError(t, err)

	assert.Equal(t, "healthy", health.Status)
	assert.GreaterOrEqual(t, health.ResponseTime, int64(0))
	assert.Less(t, health.ResponseTime, int64(1000))
	assert.Greater(t, health.MaxOpenConns, 0)
}

func TestHealthUnreachable(t *testing.T) {
	cfg := connection.Config{
		Host:     "localhost",
		Port:     1, // nothing listens here
		Database: "nope",
		User:     "nope",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewClient(ctx, PoolConfigFromEnv(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
}

func TestPoolConfigFromEnv(t *testing.T) {
	conn := connection.Config{Host: "localhost", Port: 5432}

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "")
		t.Setenv("DB_MAX_IDLE_CONNS", "")

		cfg := PoolConfigFromEnv(conn)
		assert.Equal(t, 10, cfg.MaxOpenConns)
		assert.Equal(t, 5, cfg.MaxIdleConns)
		assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "50")
		t.Setenv("DB_MAX_IDLE_CONNS", "20")

		cfg := PoolConfigFromEnv(conn)
		assert.Equal(t, 50, cfg.MaxOpenConns)
		assert.Equal(t, 20, cfg.MaxIdleConns)
	})
}
