package postgres

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcos/telescope-api/config"
)

func TestDSN(t *testing.T) {
	t.Run("builds key/value DSN from fields", func(t *testing.T) {
		cfg := &config.DatabaseConfig{
			Host: "db", Port: 5433, User: "rcos", Password: "secret", Name: "telescope",
		}
		assert.Equal(t,
			"host=db port=5433 user=rcos password=secret dbname=telescope sslmode=disable",
			DSN(cfg))
	})

	t.Run("explicit DSN wins", func(t *testing.T) {
		cfg := &config.DatabaseConfig{DSN: "postgres://u:p@h/db", Host: "ignored"}
		assert.Equal(t, "postgres://u:p@h/db", DSN(cfg))

		u, err := URL(cfg)
		require.NoError(t, err)
		assert.Equal(t, "postgres://u:p@h/db", u)
	})
}

func TestURL(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host: "db", Port: 5432, User: "rcos", Password: "p@ss word", Name: "telescope", SSLMode: "require",
	}

	raw, err := URL(cfg)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/telescope", u.Path)
	assert.Equal(t, "require", u.Query().Get("sslmode"))

	pw, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss word", pw)
}

func TestURLRejectsKeyValueDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{DSN: "host=db port=5432 user=rcos dbname=telescope"}

	_, err := URL(cfg)
	assert.ErrorIs(t, err, ErrDSNNotURL)

	// drivers still take it as-is
	assert.Equal(t, cfg.DSN, DSN(cfg))

	cfg.DSN = "postgresql://rcos@db/telescope"
	u, err := URL(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.DSN, u)
}

func TestMigrationFiles(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)
	assert.Contains(t, files, "000001_create_projects.up.sql")
	for _, f := range files {
		assert.NotContains(t, f, ".down.sql")
	}
}
