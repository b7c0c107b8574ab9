package database

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/pkg/config"
)

// testConfig returns a config pointing at TEST_DATABASE_URL, skipping without one
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
	return &config.Config{
		Database: config.DatabaseConfig{
			URL:             url,
			Enabled:         true,
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
	}
}

func TestNew_HealthCheck(t *testing.T) {
	db, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Greater(t, status.Stats.MaxConns, int32(0))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.EnsureSchema(ctx))

	counts, err := db.TableCounts(ctx)
	require.NoError(t, err)
	assert.Len(t, counts, len(Tables))
}

func TestNewWithInvalidURL(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			URL:      "invalid://url",
			MaxConns: 4,
			MinConns: 1,
		},
	}

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSchemaStatements(t *testing.T) {
	all := strings.Join(schemaStatements, "\n")
	for _, table := range Tables {
		assert.Contains(t, all, "quant."+table+" (")
	}
	for _, stmt := range schemaStatements {
		assert.Contains(t, stmt, "IF NOT EXISTS", "statement must be idempotent: %s", stmt)
	}
}

func TestClose_Twice(t *testing.T) {
	db := &DB{}
	assert.NotPanics(t, func() {
		db.Close()
		db.Close()
	})
}
